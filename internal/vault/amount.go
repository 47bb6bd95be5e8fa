package vault

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

// ParseUint256 parses a decimal or 0x-prefixed hex string into a 256-bit value.
func ParseUint256(raw string) (*uint256.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	b, ok := math.ParseBig256(raw)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return v, nil
}

// ParseUint128 parses a liquidity value.
func ParseUint128(raw string) (uint128.Uint128, error) {
	v, err := ParseUint256(raw)
	if err != nil {
		return uint128.Zero, err
	}
	if v[2] != 0 || v[3] != 0 {
		return uint128.Zero, fmt.Errorf("%w: %q exceeds 128 bits", ErrInvalidAmount, raw)
	}
	return uint128.New(v[0], v[1]), nil
}

// FormatAmount renders a raw token amount scaled down by decimals.
func FormatAmount(raw *uint256.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	return decimal.NewFromBigInt(raw.ToBig(), -int32(decimals)).String()
}

func checksumAddress(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidAddress, field, raw)
	}
	return common.HexToAddress(raw).Hex(), nil
}
