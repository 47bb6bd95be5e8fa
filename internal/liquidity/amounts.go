package liquidity

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"vaultScope/internal/fullmath"
)

var (
	ErrInvalidSqrtPrice  = errors.New("sqrt price must be greater than zero")
	ErrLiquidityOverflow = errors.New("liquidity overflows uint128")
)

// Amount0ForLiquidity returns the token0 amount held by liquidity between two
// sqrt prices, rounded down. The bounds may be passed in either order.
func Amount0ForLiquidity(sqrtA, sqrtB *uint256.Int, liquidity uint128.Uint128) (*uint256.Int, error) {
	sqrtA, sqrtB = sortSqrt(sqrtA, sqrtB)
	if sqrtA.IsZero() {
		return nil, ErrInvalidSqrtPrice
	}

	numerator1 := new(uint256.Int).Lsh(toUint256(liquidity), 96)
	numerator2 := new(uint256.Int).Sub(sqrtB, sqrtA)
	amount, err := fullmath.MulDiv(numerator1, numerator2, sqrtB)
	if err != nil {
		return nil, fmt.Errorf("amount0: %w", err)
	}
	return amount.Div(amount, sqrtA), nil
}

// Amount1ForLiquidity returns the token1 amount held by liquidity between two
// sqrt prices, rounded down.
func Amount1ForLiquidity(sqrtA, sqrtB *uint256.Int, liquidity uint128.Uint128) (*uint256.Int, error) {
	sqrtA, sqrtB = sortSqrt(sqrtA, sqrtB)

	amount, err := fullmath.MulDiv(toUint256(liquidity), new(uint256.Int).Sub(sqrtB, sqrtA), fullmath.Q96)
	if err != nil {
		return nil, fmt.Errorf("amount1: %w", err)
	}
	return amount, nil
}

// AmountsForLiquidity splits a position into token amounts at the current
// sqrt price. Below the range everything is token0, above it token1.
func AmountsForLiquidity(sqrtPrice, sqrtA, sqrtB *uint256.Int, liquidity uint128.Uint128) (amount0, amount1 *uint256.Int, err error) {
	sqrtA, sqrtB = sortSqrt(sqrtA, sqrtB)

	switch {
	case !sqrtPrice.Gt(sqrtA):
		amount0, err = Amount0ForLiquidity(sqrtA, sqrtB, liquidity)
		amount1 = new(uint256.Int)
	case sqrtPrice.Lt(sqrtB):
		amount0, err = Amount0ForLiquidity(sqrtPrice, sqrtB, liquidity)
		if err == nil {
			amount1, err = Amount1ForLiquidity(sqrtA, sqrtPrice, liquidity)
		}
	default:
		amount0 = new(uint256.Int)
		amount1, err = Amount1ForLiquidity(sqrtA, sqrtB, liquidity)
	}
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

// Liquidity0ForAmount returns the liquidity that amount0 of token0 buys
// between two sqrt prices.
func Liquidity0ForAmount(sqrtA, sqrtB, amount0 *uint256.Int) (uint128.Uint128, error) {
	sqrtA, sqrtB = sortSqrt(sqrtA, sqrtB)
	if sqrtA.Eq(sqrtB) {
		return uint128.Zero, ErrInvalidSqrtPrice
	}

	intermediate, err := fullmath.MulDiv(sqrtA, sqrtB, fullmath.Q96)
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity0: %w", err)
	}
	liq, err := fullmath.MulDiv(amount0, intermediate, new(uint256.Int).Sub(sqrtB, sqrtA))
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity0: %w", err)
	}
	return fromUint256(liq)
}

// Liquidity1ForAmount returns the liquidity that amount1 of token1 buys
// between two sqrt prices.
func Liquidity1ForAmount(sqrtA, sqrtB, amount1 *uint256.Int) (uint128.Uint128, error) {
	sqrtA, sqrtB = sortSqrt(sqrtA, sqrtB)
	if sqrtA.Eq(sqrtB) {
		return uint128.Zero, ErrInvalidSqrtPrice
	}

	liq, err := fullmath.MulDiv(amount1, fullmath.Q96, new(uint256.Int).Sub(sqrtB, sqrtA))
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity1: %w", err)
	}
	return fromUint256(liq)
}

// LiquidityForAmounts returns the largest liquidity the two amounts can
// support at the current sqrt price.
func LiquidityForAmounts(sqrtPrice, sqrtA, sqrtB, amount0, amount1 *uint256.Int) (uint128.Uint128, error) {
	sqrtA, sqrtB = sortSqrt(sqrtA, sqrtB)

	switch {
	case !sqrtPrice.Gt(sqrtA):
		return Liquidity0ForAmount(sqrtA, sqrtB, amount0)
	case sqrtPrice.Lt(sqrtB):
		liq0, err := Liquidity0ForAmount(sqrtPrice, sqrtB, amount0)
		if err != nil {
			return uint128.Zero, err
		}
		liq1, err := Liquidity1ForAmount(sqrtA, sqrtPrice, amount1)
		if err != nil {
			return uint128.Zero, err
		}
		if liq0.Cmp(liq1) < 0 {
			return liq0, nil
		}
		return liq1, nil
	default:
		return Liquidity1ForAmount(sqrtA, sqrtB, amount1)
	}
}

func sortSqrt(a, b *uint256.Int) (*uint256.Int, *uint256.Int) {
	if a.Gt(b) {
		return b, a
	}
	return a, b
}

func toUint256(v uint128.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}

func fromUint256(v *uint256.Int) (uint128.Uint128, error) {
	if v[2] != 0 || v[3] != 0 {
		return uint128.Zero, fmt.Errorf("%w: %s", ErrLiquidityOverflow, v.Hex())
	}
	return uint128.New(v[0], v[1]), nil
}
