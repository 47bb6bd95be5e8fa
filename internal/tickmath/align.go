package tickmath

import (
	"fmt"
	"math"
	"strings"
)

// AlignMode selects how a tick is snapped to the spacing grid.
type AlignMode string

const (
	// AlignTruncate rounds toward zero, so negative ticks move up.
	AlignTruncate AlignMode = "truncate"
	// AlignFloor rounds toward negative infinity.
	AlignFloor AlignMode = "floor"
)

// ParseAlignMode parses "truncate" or "floor". An empty string selects AlignTruncate.
func ParseAlignMode(input string) (AlignMode, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", string(AlignTruncate):
		return AlignTruncate, nil
	case string(AlignFloor):
		return AlignFloor, nil
	default:
		return "", fmt.Errorf("unsupported align mode: %s", input)
	}
}

// ValidateTickSpacing reports ErrInvalidTickSpacing for non-positive spacing.
func ValidateTickSpacing(spacing int32) error {
	if spacing <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTickSpacing, spacing)
	}
	return nil
}

// AlignToPoolTickSpacing returns tick - tick%spacing using Go's truncating
// remainder: AlignToPoolTickSpacing(105, 60) == 60 and
// AlignToPoolTickSpacing(-105, 60) == -60. spacing must be non-zero.
func AlignToPoolTickSpacing(tick, spacing int32) int32 {
	return tick - tick%spacing
}

// AlignToPoolTickSpacingFloor returns the greatest int32 multiple of spacing
// that is <= tick, e.g. -120 for (-105, 60). When no such multiple fits in
// int32 (tick near math.MinInt32) it returns the truncated alignment, which is
// > tick. spacing must be positive.
func AlignToPoolTickSpacingFloor(tick, spacing int32) int32 {
	rem := int64(tick) % int64(spacing)
	if rem < 0 {
		rem += int64(spacing)
	}
	aligned := int64(tick) - rem
	if aligned < math.MinInt32 {
		return AlignToPoolTickSpacing(tick, spacing)
	}
	return int32(aligned)
}

// Align snaps tick to the spacing grid using mode.
func Align(tick, spacing int32, mode AlignMode) int32 {
	if mode == AlignFloor {
		return AlignToPoolTickSpacingFloor(tick, spacing)
	}
	return AlignToPoolTickSpacing(tick, spacing)
}
