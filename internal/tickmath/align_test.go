package tickmath

import (
	"math"
	"math/rand"
	"testing"
)

func TestAlignToPoolTickSpacing(t *testing.T) {
	cases := []struct {
		tick, spacing, truncated, floored int32
	}{
		{105, 60, 60, 60},
		{120, 60, 120, 120},
		{0, 60, 0, 0},
		{59, 60, 0, 0},
		// Truncating remainder moves negative ticks toward zero.
		{-105, 60, -60, -120},
		{-60, 60, -60, -60},
		{-1, 10, 0, -10},
		{887272, 200, 887200, 887200},
		{-887272, 200, -887200, -887400},
	}

	for _, tc := range cases {
		if got := AlignToPoolTickSpacing(tc.tick, tc.spacing); got != tc.truncated {
			t.Fatalf("truncate(%d, %d) = %d, want %d", tc.tick, tc.spacing, got, tc.truncated)
		}
		if got := AlignToPoolTickSpacingFloor(tc.tick, tc.spacing); got != tc.floored {
			t.Fatalf("floor(%d, %d) = %d, want %d", tc.tick, tc.spacing, got, tc.floored)
		}
		if got := Align(tc.tick, tc.spacing, AlignTruncate); got != tc.truncated {
			t.Fatalf("Align truncate(%d, %d) = %d", tc.tick, tc.spacing, got)
		}
		if got := Align(tc.tick, tc.spacing, AlignFloor); got != tc.floored {
			t.Fatalf("Align floor(%d, %d) = %d", tc.tick, tc.spacing, got)
		}
	}
}

func TestAlignProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 10000; i++ {
		tick := int32(rng.Int63n(1<<32) - (1 << 31))
		spacing := int32(rng.Intn(16384) + 1)

		truncated := AlignToPoolTickSpacing(tick, spacing)
		if truncated%spacing != 0 {
			t.Fatalf("truncate(%d, %d) = %d is not a multiple", tick, spacing, truncated)
		}
		if dist := int64(tick) - int64(truncated); dist <= -int64(spacing) || dist >= int64(spacing) {
			t.Fatalf("truncate(%d, %d) = %d is too far", tick, spacing, truncated)
		}

		floored := AlignToPoolTickSpacingFloor(tick, spacing)
		if floored%spacing != 0 {
			t.Fatalf("floor(%d, %d) = %d is not a multiple", tick, spacing, floored)
		}
		if dist := int64(tick) - int64(floored); dist >= int64(spacing) || (dist < 0 && floored != truncated) {
			t.Fatalf("floor(%d, %d) = %d is out of range", tick, spacing, floored)
		}
	}
}

func TestAlignFloorNearInt32Min(t *testing.T) {
	got := AlignToPoolTickSpacingFloor(math.MinInt32, 60)
	if got != AlignToPoolTickSpacing(math.MinInt32, 60) {
		t.Fatalf("expected truncated fallback, got %d", got)
	}
	if got%60 != 0 || got <= math.MinInt32 {
		t.Fatalf("fallback %d should be a multiple above the tick", got)
	}
}

func TestParseAlignMode(t *testing.T) {
	for input, want := range map[string]AlignMode{"": AlignTruncate, "truncate": AlignTruncate, " Floor ": AlignFloor} {
		got, err := ParseAlignMode(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseAlignMode("round"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestValidateTickSpacing(t *testing.T) {
	if err := ValidateTickSpacing(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, spacing := range []int32{0, -10} {
		if err := ValidateTickSpacing(spacing); err == nil {
			t.Fatalf("expected error for spacing %d", spacing)
		}
	}
}
