package model

// PoolObservation captures raw pool state as read from chain.
type PoolObservation struct {
	Address     string    `json:"address"`
	Token0      TokenMeta `json:"token0"`
	Token1      TokenMeta `json:"token1"`
	Fee         uint32    `json:"fee"`
	TickSpacing int32     `json:"tick_spacing"`
	Slot0       PoolSlot0 `json:"slot0"`
}

// PoolSlot0 includes select slot0 fields.
type PoolSlot0 struct {
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Tick         int32  `json:"tick"`
}
