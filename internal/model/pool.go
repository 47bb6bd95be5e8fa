package model

// Pool is the display projection of a V3 pool backing a vault.
type Pool struct {
	Address      string  `json:"address"`
	Token0       Token   `json:"token0"`
	Token1       Token   `json:"token1"`
	Fee          float64 `json:"fee"`
	TickSpacing  int32   `json:"tick_spacing"`
	CurrentTick  int32   `json:"current_tick"`
	SqrtPriceX96 string  `json:"sqrt_price_x96"`
	Price1       float64 `json:"price1"`
	Price0       float64 `json:"price0"`
	// SqrtPrice1 is price1 derived from SqrtPriceX96 rather than the tick.
	SqrtPrice1 float64 `json:"sqrt_price1"`
}
