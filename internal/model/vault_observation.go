package model

// VaultObservation is the raw vault state supplied by the chain reader.
// Integer amounts are decimal or 0x-prefixed hex strings.
type VaultObservation struct {
	Address                 string          `json:"address"`
	Name                    string          `json:"name"`
	Symbol                  string          `json:"symbol"`
	Decimals                uint8           `json:"decimals"`
	TotalSupply             string          `json:"total_supply"`
	Pool                    PoolObservation `json:"pool"`
	LowerTick               int32           `json:"lower_tick"`
	UpperTick               int32           `json:"upper_tick"`
	Liquidity               string          `json:"liquidity,omitempty"`
	Balance0                string          `json:"balance0,omitempty"`
	Balance1                string          `json:"balance1,omitempty"`
	IsActive                bool            `json:"is_active"`
	IsVaultTokensAssociated bool            `json:"is_vault_tokens_associated"`
	ObservedAt              uint64          `json:"observed_at,omitempty"`
}
