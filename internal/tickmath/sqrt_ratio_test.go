package tickmath

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultScope/internal/fullmath"
)

func TestGetSqrtRatioAtTick(t *testing.T) {
	_, err := GetSqrtRatioAtTick(MinTick - 1)
	assert.ErrorIs(t, err, ErrTickOutOfRange, "tick too small")

	_, err = GetSqrtRatioAtTick(MaxTick + 1)
	assert.ErrorIs(t, err, ErrTickOutOfRange, "tick too large")

	cases := map[int32]string{
		MinTick: "4295128739",
		-60:     "78990846045029531151608375686",
		-1:      "79224201403219477170569942574",
		0:       "79228162514264337593543950336",
		1:       "79232123823359799118286999568",
		60:      "79466191966197645195421774833",
		100000:  "11755562826496067164730007768450",
		MaxTick: "1461446703485210103287273052203988822378723970342",
	}
	for tick, want := range cases {
		got, err := GetSqrtRatioAtTick(tick)
		require.NoError(t, err, "tick %d", tick)
		assert.Equal(t, want, got.ToBig().String(), "tick %d", tick)
	}

	minRatio, _ := GetSqrtRatioAtTick(MinTick)
	assert.True(t, minRatio.Eq(MinSqrtRatio))
	maxRatio, _ := GetSqrtRatioAtTick(MaxTick)
	assert.True(t, maxRatio.Eq(MaxSqrtRatio))
}

func TestGetTickAtSqrtRatio(t *testing.T) {
	tick, err := GetTickAtSqrtRatio(MinSqrtRatio)
	require.NoError(t, err)
	assert.Equal(t, MinTick, tick)

	tick, err = GetTickAtSqrtRatio(new(uint256.Int).SubUint64(MaxSqrtRatio, 1))
	require.NoError(t, err)
	assert.Equal(t, MaxTick-1, tick)

	for _, want := range []int32{-887000, -60, -1, 0, 1, 60, 500000} {
		ratio, err := GetSqrtRatioAtTick(want)
		require.NoError(t, err)

		got, err := GetTickAtSqrtRatio(ratio)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// One below the boundary belongs to the previous tick.
		got, err = GetTickAtSqrtRatio(new(uint256.Int).SubUint64(ratio, 1))
		require.NoError(t, err)
		assert.Equal(t, want-1, got)
	}

	_, err = GetTickAtSqrtRatio(new(uint256.Int).SubUint64(MinSqrtRatio, 1))
	assert.ErrorIs(t, err, ErrSqrtPriceOutOfRange)
	_, err = GetTickAtSqrtRatio(MaxSqrtRatio)
	assert.ErrorIs(t, err, ErrSqrtPriceOutOfRange)
}

func TestSqrtPriceX96ToPrice(t *testing.T) {
	price1, price0, err := SqrtPriceX96ToPrice(fullmath.Q96, 18, 18)
	require.NoError(t, err)
	assert.Equal(t, 1.0, price1)
	assert.Equal(t, 1.0, price0)

	for _, tick := range []int32{-200000, -60, 0, 60, 200000} {
		ratio, err := GetSqrtRatioAtTick(tick)
		require.NoError(t, err)

		exact1, _, err := SqrtPriceX96ToPrice(ratio, 6, 18)
		require.NoError(t, err)
		approx1, _ := TickToPrice(tick, 6, 18)
		assert.InDelta(t, 1.0, exact1/approx1, 1e-9, "tick %d", tick)
	}

	_, _, err = SqrtPriceX96ToPrice(uint256.NewInt(0), 18, 18)
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)

	_, _, err = SqrtPriceX96ToPrice(fullmath.MaxUint256, 18, 18)
	assert.ErrorIs(t, err, fullmath.ErrDenominatorIsLteProdOne)
}

func TestSqrtPriceX96ToPriceMaxRatio(t *testing.T) {
	price1, price0, err := SqrtPriceX96ToPrice(MaxSqrtRatio, 18, 18)
	require.NoError(t, err)
	assert.False(t, math.IsInf(price1, 0))
	assert.InDelta(t, 1.0, price1*price0, 1e-12)
}
