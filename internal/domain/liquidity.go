package domain

// LiquidityPool is an on-chain pool backing a token's tradability.
// Corresponds to liquidity_pools table in PostgreSQL. Read-only from the
// scoring engine's perspective; aggregate liquidity = sum across pools.
type LiquidityPool struct {
	ID           string // PRIMARY KEY, uuid
	TokenID      string
	Dex          string // venue name, e.g. raydium
	PairAddress  string
	LiquidityUsd float64
	CreatedAt    int64 // Unix timestamp in milliseconds
}

// TotalLiquidityUsd sums pool liquidity for a token.
func TotalLiquidityUsd(pools []*LiquidityPool) float64 {
	var total float64
	for _, p := range pools {
		total += p.LiquidityUsd
	}
	return total
}
