package model

// VaultSnapshot is the display projection of a vault.
type VaultSnapshot struct {
	Address                 string           `json:"address"`
	Pool                    Pool             `json:"pool"`
	Name                    string           `json:"name"`
	Symbol                  string           `json:"symbol"`
	Decimals                uint8            `json:"decimals"`
	TotalSupply             string           `json:"total_supply"`
	LowerTick               int32            `json:"lower_tick"`
	UpperTick               int32            `json:"upper_tick"`
	Range                   PriceRange       `json:"range"`
	InRange                 bool             `json:"in_range"`
	Position                *PositionAmounts `json:"position,omitempty"`
	Balances                *TokenBalances   `json:"balances,omitempty"`
	IsActive                bool             `json:"is_active"`
	IsVaultTokensAssociated bool             `json:"is_vault_tokens_associated"`
	ObservedAt              uint64           `json:"observed_at,omitempty"`
}

// PriceRange holds price1 at the vault's lower and upper ticks.
type PriceRange struct {
	LowerPrice1 float64 `json:"lower_price1"`
	UpperPrice1 float64 `json:"upper_price1"`
}

// TickRange is a position range aligned to the pool tick spacing.
type TickRange struct {
	CurrentTick int32 `json:"current_tick"`
	LowerTick   int32 `json:"lower_tick"`
	UpperTick   int32 `json:"upper_tick"`
}

// PositionAmounts is the token split of the vault position at the current price.
type PositionAmounts struct {
	Liquidity  string `json:"liquidity"`
	Amount0    string `json:"amount0"`
	Amount1    string `json:"amount1"`
	Amount0Raw string `json:"amount0_raw"`
	Amount1Raw string `json:"amount1_raw"`
}

// TokenBalances holds the vault's idle token balances.
type TokenBalances struct {
	Token0Balance    string `json:"token0_balance"`
	Token1Balance    string `json:"token1_balance"`
	Token0BalanceRaw string `json:"token0_balance_raw"`
	Token1BalanceRaw string `json:"token1_balance_raw"`
}
