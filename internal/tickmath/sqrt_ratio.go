package tickmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"vaultScope/internal/fullmath"
)

const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	ErrTickOutOfRange      = errors.New("tick out of range")
	ErrSqrtPriceOutOfRange = errors.New("sqrt price out of range")
	ErrInvalidSqrtPrice    = errors.New("sqrt price must be greater than zero")
)

var (
	// MinSqrtRatio is GetSqrtRatioAtTick(MinTick).
	MinSqrtRatio = uint256.NewInt(4295128739)
	// MaxSqrtRatio is GetSqrtRatioAtTick(MaxTick).
	MaxSqrtRatio = uint256.MustFromHex("0xfffd8963efd1fc6a506488495d951d5263988d26")

	q64 = new(uint256.Int).Lsh(uint256.NewInt(1), 64)

	ratioOddTick  = uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	ratioEvenTick = new(uint256.Int).Lsh(uint256.NewInt(1), 128)

	// sqrt(1.0001^-(2^i)) as Q128.128 for i = 1..19.
	ratioFactors = [...]*uint256.Int{
		uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
		uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}
)

// GetSqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96, rounded up, exactly as
// the on-chain TickMath library computes it.
func GetSqrtRatioAtTick(tick int32) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("%w: %d", ErrTickOutOfRange, tick)
	}

	absTick := tick
	if tick < 0 {
		absTick = -tick
	}

	ratio := new(uint256.Int)
	if absTick&1 != 0 {
		ratio.Set(ratioOddTick)
	} else {
		ratio.Set(ratioEvenTick)
	}
	for i, factor := range ratioFactors {
		if absTick&(2<<i) != 0 {
			ratio.Mul(ratio, factor)
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(fullmath.MaxUint256, ratio)
	}

	// Q128.128 to Q64.96, rounding up.
	roundUp := ratio[0]&0xffffffff != 0
	ratio.Rsh(ratio, 32)
	if roundUp {
		ratio.AddUint64(ratio, 1)
	}
	return ratio, nil
}

// GetTickAtSqrtRatio returns the greatest tick whose sqrt ratio is <= sqrtPriceX96.
func GetTickAtSqrtRatio(sqrtPriceX96 *uint256.Int) (int32, error) {
	if sqrtPriceX96.Lt(MinSqrtRatio) || !sqrtPriceX96.Lt(MaxSqrtRatio) {
		return 0, fmt.Errorf("%w: %s", ErrSqrtPriceOutOfRange, sqrtPriceX96.Hex())
	}

	low, high := MinTick, MaxTick
	var tick int32
	for low <= high {
		mid := low + (high-low)/2
		ratio, err := GetSqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if !ratio.Gt(sqrtPriceX96) {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}

// SqrtPriceX96ToPrice converts a pool sqrtPriceX96 into decimal-adjusted
// prices. The squared ratio is taken with MulDiv so the integer part is exact
// before the float conversion.
func SqrtPriceX96ToPrice(sqrtPriceX96 *uint256.Int, decimals0, decimals1 uint8) (price1, price0 float64, err error) {
	if sqrtPriceX96.IsZero() {
		return 0, 0, ErrInvalidSqrtPrice
	}

	priceX128, err := fullmath.MulDiv(sqrtPriceX96, sqrtPriceX96, q64)
	if err != nil {
		return 0, 0, fmt.Errorf("square sqrt price: %w", err)
	}

	price1 = math.Ldexp(priceX128.Float64(), -128) / math.Pow10(decimalsDiff(decimals0, decimals1))
	price0 = 1 / price1
	return price1, price0, nil
}
