package domain

import "time"

// Token represents a tracked meme coin.
// Corresponds to tokens table in PostgreSQL.
type Token struct {
	ID      string  // PRIMARY KEY, uuid
	Symbol  string  // ticker symbol, e.g. DOGE
	Name    string  // display name
	ChainID *string // chain reference (nullable; integrity check reports tokens without one)
	Address string  // contract address

	// Mutable market fields, refreshed by the snapshot sync job.
	PriceUsd          float64
	InitialPrice      float64 // price at launch, 0 when unknown
	Volume24h         float64
	MarketCap         float64
	Holders           int
	TopHoldersPercent float64 // share held by top wallets, 0-100
	ContractVerified  bool
	ContractRenounced bool
	LiquidityLocked   bool
	BuyCount24h       int
	SellCount24h      int

	// Social fields.
	TwitterFollowers int
	TelegramMembers  int

	Tags []string // free-form labels, e.g. "dog", "ai"

	LaunchDate int64   // Unix timestamp in milliseconds, immutable once set
	MemeScore  float64 // cached composite score, 0-100, recomputed periodically

	CreatedAt int64 // record creation timestamp (ms)
	UpdatedAt int64 // last mutation timestamp (ms)
}

// DaysSinceLaunch returns whole days between launch and now.
func (t *Token) DaysSinceLaunch(now int64) float64 {
	if t.LaunchDate <= 0 {
		return 0
	}
	return float64(now-t.LaunchDate) / float64(24*time.Hour.Milliseconds())
}

// AgeCutoffMs returns the launch-date cutoff for tokens at most maxDaysOld old.
func AgeCutoffMs(now int64, maxDaysOld int) int64 {
	return now - int64(maxDaysOld)*24*time.Hour.Milliseconds()
}
