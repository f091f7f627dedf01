// Package marketdata abstracts the source of fresh market observations
// consumed by the snapshot sync job. The scheduler never cares whether the
// values come from a real feed, a replay fixture or a generator.
package marketdata

import (
	"context"

	"memescout/internal/domain"
)

// Observation is one fresh market reading for a token.
type Observation struct {
	PriceUsd     float64
	Volume24h    float64
	Holders      int
	LiquidityUsd float64
	BuyPressure  float64 // 0-100

	MarketCapRank    *int // nil when the source does not rank
	TwitterFollowers *int // nil when the source has no social data
}

// Provider produces market observations for tokens.
type Provider interface {
	// Observe returns the freshest available reading for the token.
	Observe(ctx context.Context, t *domain.Token) (Observation, error)
}
