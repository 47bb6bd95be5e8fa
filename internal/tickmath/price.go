package tickmath

import (
	"errors"
	"fmt"
	"math"
)

// tickBase is the price ratio between two adjacent ticks.
const tickBase = 1.0001

var (
	// ErrInvalidPrice rejects zero, negative, NaN and infinite prices.
	ErrInvalidPrice = errors.New("price must be positive and finite")
	// ErrInvalidTickSpacing rejects a spacing that is zero or negative.
	ErrInvalidTickSpacing = errors.New("tick spacing must be positive")
)

var logTickBase = math.Log(tickBase)

// TickToPrice converts a tick into decimal-adjusted prices. price1 is token1
// per token0 and price0 is its reciprocal.
func TickToPrice(tick int32, decimals0, decimals1 uint8) (price1, price0 float64) {
	priceTick := math.Pow(tickBase, float64(tick))
	price1 = priceTick / math.Pow10(decimalsDiff(decimals0, decimals1))
	price0 = 1 / price1
	return price1, price0
}

// Price1ToTick converts a decimal-adjusted token1-per-token0 price into the
// tick at or below it.
func Price1ToTick(price float64, decimals0, decimals1 uint8) (int32, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}

	adjusted := price * math.Pow10(decimalsDiff(decimals0, decimals1))
	if adjusted == 0 || math.IsInf(adjusted, 0) {
		return 0, fmt.Errorf("%w: %v out of range after decimal adjustment", ErrInvalidPrice, price)
	}

	tick := math.Floor(math.Log(adjusted) / logTickBase)
	if tick < math.MinInt32 || tick > math.MaxInt32 {
		return 0, fmt.Errorf("%w: tick %v overflows int32", ErrInvalidPrice, tick)
	}
	return int32(tick), nil
}

// ConvertPriceToTick converts a price into a tick aligned to the pool spacing
// with the truncating rule of AlignToPoolTickSpacing.
func ConvertPriceToTick(price float64, decimals0, decimals1 uint8, spacing int32) (int32, error) {
	if err := ValidateTickSpacing(spacing); err != nil {
		return 0, err
	}
	tick, err := Price1ToTick(price, decimals0, decimals1)
	if err != nil {
		return 0, err
	}
	return AlignToPoolTickSpacing(tick, spacing), nil
}

func decimalsDiff(decimals0, decimals1 uint8) int {
	return int(decimals1) - int(decimals0)
}
