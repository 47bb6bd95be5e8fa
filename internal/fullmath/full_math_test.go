package fullmath

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mulQ128(num, den uint64) *uint256.Int {
	v := new(uint256.Int).Mul(uint256.NewInt(num), Q128)
	return v.Div(v, uint256.NewInt(den))
}

func TestMulDivErrors(t *testing.T) {
	_, err := MulDiv(Q128, uint256.NewInt(5), uint256.NewInt(0))
	require.ErrorIs(t, err, ErrDenominatorIsZero)

	// Overflowing product with a zero denominator is rejected by the prod1 check.
	_, err = MulDiv(Q128, Q128, uint256.NewInt(0))
	require.ErrorIs(t, err, ErrDenominatorIsLteProdOne)
	require.ErrorIs(t, err, ErrDenominatorIsZero)

	_, err = MulDiv(Q128, Q128, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrDenominatorIsLteProdOne)

	maxMinusOne := new(uint256.Int).SubUint64(MaxUint256, 1)
	_, err = MulDiv(MaxUint256, MaxUint256, maxMinusOne)
	require.ErrorIs(t, err, ErrDenominatorIsLteProdOne)
}

func TestMulDiv(t *testing.T) {
	cases := []struct {
		name        string
		a, b, denom *uint256.Int
		want        *uint256.Int
	}{
		{"all max inputs", MaxUint256, MaxUint256, MaxUint256, MaxUint256},
		{"without phantom overflow", Q128, mulQ128(50, 100), mulQ128(150, 100), mulQ128(1, 3)},
		{"with phantom overflow", Q128, mulQ128(35, 1), mulQ128(8, 1), mulQ128(4375, 1000)},
		{"phantom overflow and repeating decimal", Q128, mulQ128(1000, 1), mulQ128(3000, 1), mulQ128(1, 3)},
		{"small operands", uint256.NewInt(7), uint256.NewInt(3), uint256.NewInt(2), uint256.NewInt(10)},
		{"power of two denominator", MaxUint256, Q128, new(uint256.Int).Lsh(uint256.NewInt(1), 255), new(uint256.Int).Rsh(MaxUint256, 127)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDiv(tc.a, tc.b, tc.denom)
			require.NoError(t, err)
			assert.Equal(t, tc.want.Hex(), got.Hex())
		})
	}
}

func TestMulDivRoundingUp(t *testing.T) {
	got, err := MulDivRoundingUp(MaxUint256, MaxUint256, MaxUint256)
	require.NoError(t, err)
	assert.Equal(t, MaxUint256.Hex(), got.Hex())

	got, err = MulDivRoundingUp(Q128, mulQ128(50, 100), mulQ128(150, 100))
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).AddUint64(mulQ128(1, 3), 1).Hex(), got.Hex())

	got, err = MulDivRoundingUp(Q128, mulQ128(35, 1), mulQ128(8, 1))
	require.NoError(t, err)
	assert.Equal(t, mulQ128(4375, 1000).Hex(), got.Hex())

	got, err = MulDivRoundingUp(Q128, mulQ128(1000, 1), mulQ128(3000, 1))
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).AddUint64(mulQ128(1, 3), 1).Hex(), got.Hex())

	_, err = MulDivRoundingUp(Q128, uint256.NewInt(5), uint256.NewInt(0))
	require.ErrorIs(t, err, ErrDenominatorIsZero)

	_, err = MulDivRoundingUp(Q128, Q128, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrDenominatorIsLteProdOne)

	maxMinusOne := new(uint256.Int).SubUint64(MaxUint256, 1)
	_, err = MulDivRoundingUp(MaxUint256, MaxUint256, maxMinusOne)
	require.ErrorIs(t, err, ErrDenominatorIsLteProdOne)

	// floor is exactly MaxUint256 with a non-zero remainder.
	bBig, _ := new(big.Int).SetString("432862656469423142931042426214547535783388063929571229938474969", 10)
	b := uint256.MustFromBig(bBig)
	_, err = MulDivRoundingUp(uint256.NewInt(535006138814359), b, uint256.NewInt(2))
	require.ErrorIs(t, err, ErrResultOverflow)
}

func TestMulDivZeroDenominatorAnyOperands(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	zero := uint256.NewInt(0)
	for i := 0; i < 200; i++ {
		a, b := randomUint256(rng), randomUint256(rng)
		_, err := MulDiv(a, b, zero)
		require.ErrorIs(t, err, ErrDenominatorIsZero, "a=%s b=%s", a.ToBig().String(), b.ToBig().String())
		_, err = MulDivRoundingUp(a, b, zero)
		require.ErrorIs(t, err, ErrDenominatorIsZero, "a=%s b=%s", a.ToBig().String(), b.ToBig().String())
	}
}

func TestMulDivMatchesBigInt(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	limit := new(big.Int).Lsh(big.NewInt(1), 256)

	for i := 0; i < 5000; i++ {
		a, b, d := randomUint256(rng), randomUint256(rng), randomUint256(rng)
		if d.IsZero() {
			continue
		}

		product := new(big.Int).Mul(a.ToBig(), b.ToBig())
		floor, rem := new(big.Int).QuoRem(product, d.ToBig(), new(big.Int))
		ceil := new(big.Int).Set(floor)
		if rem.Sign() != 0 {
			ceil.Add(ceil, big.NewInt(1))
		}

		got, err := MulDiv(a, b, d)
		if floor.Cmp(limit) >= 0 {
			require.ErrorIs(t, err, ErrDenominatorIsLteProdOne, "a=%s b=%s d=%s", a.ToBig().String(), b.ToBig().String(), d.ToBig().String())
			continue
		}
		require.NoError(t, err, "a=%s b=%s d=%s", a.ToBig().String(), b.ToBig().String(), d.ToBig().String())
		require.Equal(t, floor.String(), got.ToBig().String(), "a=%s b=%s d=%s", a.ToBig().String(), b.ToBig().String(), d.ToBig().String())

		gotUp, err := MulDivRoundingUp(a, b, d)
		if ceil.Cmp(limit) >= 0 {
			require.ErrorIs(t, err, ErrResultOverflow)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, ceil.String(), gotUp.ToBig().String(), "a=%s b=%s d=%s", a.ToBig().String(), b.ToBig().String(), d.ToBig().String())
	}
}

func TestMulDivDoesNotModifyInputs(t *testing.T) {
	a := mulQ128(35, 1)
	b := mulQ128(1000, 1)
	d := mulQ128(3000, 1)
	aHex, bHex, dHex := a.Hex(), b.Hex(), d.Hex()

	_, err := MulDivRoundingUp(a, b, d)
	require.NoError(t, err)
	assert.Equal(t, aHex, a.Hex())
	assert.Equal(t, bHex, b.Hex())
	assert.Equal(t, dHex, d.Hex())
}

func TestInvertOdd(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	one := uint256.NewInt(1)
	for i := 0; i < 500; i++ {
		d := randomUint256(rng)
		d.Or(d, one)
		inv := invertOdd(d)
		require.Equal(t, one.Hex(), new(uint256.Int).Mul(d, inv).Hex(), "d=%s", d.Hex())
	}
}

// randomUint256 mixes bit lengths so both the 256-bit fast path and the
// 512-bit path are exercised.
func randomUint256(rng *rand.Rand) *uint256.Int {
	buf := make([]byte, rng.Intn(33))
	rng.Read(buf)
	return new(uint256.Int).SetBytes(buf)
}
