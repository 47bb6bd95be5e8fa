package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestVaultObservationJSONRoundTrip(t *testing.T) {
	original := VaultObservation{
		Address:     "0x1111111111111111111111111111111111111111",
		Name:        "Vault WETH/USDC",
		Symbol:      "vWETH-USDC",
		Decimals:    18,
		TotalSupply: "1000000000000000000",
		Pool: PoolObservation{
			Address:     "0x2222222222222222222222222222222222222222",
			Token0:      TokenMeta{Address: "0x3333333333333333333333333333333333333333", Decimals: 18, Symbol: "WETH", Name: "Wrapped Ether"},
			Token1:      TokenMeta{Address: "0x4444444444444444444444444444444444444444", Decimals: 6, Symbol: "USDC", Name: "USD Coin"},
			Fee:         3000,
			TickSpacing: 60,
			Slot0:       PoolSlot0{SqrtPriceX96: "0x1000000000000000000000000", Tick: -196000},
		},
		LowerTick:               -198000,
		UpperTick:               -194000,
		Liquidity:               "123456789",
		Balance0:                "5",
		Balance1:                "7",
		IsActive:                true,
		IsVaultTokensAssociated: true,
		ObservedAt:              1700000000,
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded VaultObservation
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestVaultSnapshotOmitsUnknownPosition(t *testing.T) {
	b, err := json.Marshal(VaultSnapshot{Address: "0x1111111111111111111111111111111111111111"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(b)
	if strings.Contains(out, `"position"`) || strings.Contains(out, `"balances"`) {
		t.Fatalf("expected position and balances omitted: %s", out)
	}
	if !strings.Contains(out, `"in_range":false`) {
		t.Fatalf("expected in_range field: %s", out)
	}
}
