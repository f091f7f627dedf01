package domain

// Snapshot is an immutable point-in-time sample of a token's market state.
// Corresponds to token_snapshots table in PostgreSQL. Created by the sync
// job, never mutated, moved to the archive store once older than the
// retention threshold.
type Snapshot struct {
	ID           int64  // store-assigned sequence
	TokenID      string // owning token
	PriceUsd     float64
	Volume24h    float64
	MemeScore    float64
	Holders      int
	LiquidityUsd float64
	BuyPressure  float64 // 0-100, buy share of recent flow

	MarketCapRank    *int // nullable
	TwitterFollowers *int // nullable

	TimestampMs int64 // Unix timestamp in milliseconds
}

// ArchivedSnapshot is a Snapshot in the cold tier. Same shape without the
// live-store sequence; the archive key is (TokenID, TimestampMs).
type ArchivedSnapshot struct {
	TokenID      string
	PriceUsd     float64
	Volume24h    float64
	MemeScore    float64
	Holders      int
	LiquidityUsd float64
	BuyPressure  float64

	MarketCapRank    *int
	TwitterFollowers *int

	TimestampMs int64
}

// ToArchived converts a live snapshot for archive insertion.
func (s *Snapshot) ToArchived() *ArchivedSnapshot {
	return &ArchivedSnapshot{
		TokenID:          s.TokenID,
		PriceUsd:         s.PriceUsd,
		Volume24h:        s.Volume24h,
		MemeScore:        s.MemeScore,
		Holders:          s.Holders,
		LiquidityUsd:     s.LiquidityUsd,
		BuyPressure:      s.BuyPressure,
		MarketCapRank:    s.MarketCapRank,
		TwitterFollowers: s.TwitterFollowers,
		TimestampMs:      s.TimestampMs,
	}
}
