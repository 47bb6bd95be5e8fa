package fullmath

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrDenominatorIsZero is returned for a zero denominator.
	ErrDenominatorIsZero = errors.New("denominator is zero")
	// ErrDenominatorIsLteProdOne is returned when the quotient needs more than 256 bits.
	ErrDenominatorIsLteProdOne = errors.New("denominator is less than or equal to prod1")
	// ErrResultOverflow is returned when rounding up passes MaxUint256.
	ErrResultOverflow = errors.New("result overflows uint256")

	// errOverflowZeroDenominator keeps the prod1 rejection of a zero
	// denominator matchable as both sentinels.
	errOverflowZeroDenominator = fmt.Errorf("%w: %w", ErrDenominatorIsLteProdOne, ErrDenominatorIsZero)
)

var (
	// MaxUint256 is 2^256 - 1.
	MaxUint256 = new(uint256.Int).SetAllOne()
	// Q96 is 2^96, the scale of sqrtPriceX96 values.
	Q96 = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
	// Q128 is 2^128.
	Q128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	// Q192 is 2^192, the scale of a squared sqrtPriceX96.
	Q192 = new(uint256.Int).Lsh(uint256.NewInt(1), 192)

	two   = uint256.NewInt(2)
	three = uint256.NewInt(3)
)

// MulDiv returns floor(a*b/denominator) with full 512-bit precision for the
// intermediate product. It fails when denominator is zero or the quotient
// does not fit in 256 bits. Inputs are never modified.
//
// Every step below uses uint256's wrapping (mod 2^256) arithmetic;
// the preconditions checked before the 512-by-256 division guarantee that the
// final product is the exact quotient.
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	// [prod1 prod0] = a * b, rebuilt from the product mod 2^256 and mod 2^256-1.
	mm := new(uint256.Int).MulMod(a, b, MaxUint256)
	prod0 := new(uint256.Int).Mul(a, b)
	prod1 := new(uint256.Int).Sub(mm, prod0)
	if mm.Lt(prod0) {
		prod1.SubUint64(prod1, 1)
	}

	if prod1.IsZero() {
		if denominator.IsZero() {
			return nil, ErrDenominatorIsZero
		}
		return new(uint256.Int).Div(prod0, denominator), nil
	}

	if denominator.IsZero() {
		return nil, errOverflowZeroDenominator
	}
	if !denominator.Gt(prod1) {
		return nil, ErrDenominatorIsLteProdOne
	}

	// Subtract the remainder so the division is exact.
	remainder := new(uint256.Int).MulMod(a, b, denominator)
	if remainder.Gt(prod0) {
		prod1.SubUint64(prod1, 1)
	}
	prod0.Sub(prod0, remainder)

	// Largest power of two dividing denominator, always >= 1.
	twos := new(uint256.Int).Neg(denominator)
	twos.And(twos, denominator)

	denom := new(uint256.Int).Div(denominator, twos)
	prod0.Div(prod0, twos)

	// flip = 2^256 / twos, which wraps to zero when twos == 1.
	flip := new(uint256.Int).Neg(twos)
	flip.Div(flip, twos)
	flip.AddUint64(flip, 1)
	prod0.Or(prod0, new(uint256.Int).Mul(prod1, flip))

	return prod0.Mul(prod0, invertOdd(denom)), nil
}

// MulDivRoundingUp returns ceil(a*b/denominator).
func MulDivRoundingUp(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	result, err := MulDiv(a, b, denominator)
	if err != nil {
		return nil, err
	}

	if new(uint256.Int).MulMod(a, b, denominator).IsZero() {
		return result, nil
	}

	rounded, overflow := new(uint256.Int).AddOverflow(result, uint256.NewInt(1))
	if overflow {
		return nil, ErrResultOverflow
	}
	return rounded, nil
}

// invertOdd returns the inverse of an odd d modulo 2^256. The seed is correct
// for four bits and each Newton-Raphson step doubles the correct bits.
func invertOdd(d *uint256.Int) *uint256.Int {
	inv := new(uint256.Int).Mul(three, d)
	inv.Xor(inv, two)

	step := new(uint256.Int)
	for i := 0; i < 6; i++ { // 8, 16, 32, 64, 128, 256 bits
		step.Mul(d, inv)
		step.Sub(two, step)
		inv.Mul(inv, step)
	}
	return inv
}
