package marketdata

import (
	"context"
	"math/rand"
	"sync"

	"memescout/internal/domain"
)

// RandomProvider generates jittered readings around a token's current
// values. It stands in for a real feed in development and demos; it is
// not suitable for production.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomProvider creates a generator with the given seed.
func NewRandomProvider(seed int64) *RandomProvider {
	return &RandomProvider{rng: rand.New(rand.NewSource(seed))}
}

// Verify interface compliance at compile time.
var _ Provider = (*RandomProvider)(nil)

// Observe returns a reading jittered around the token's last known state.
func (p *RandomProvider) Observe(_ context.Context, t *domain.Token) (Observation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	price := t.PriceUsd
	if price <= 0 {
		price = p.rng.Float64() * 0.1
	}
	// Up to ±5% price drift per observation.
	drift := (p.rng.Float64() - 0.5) * 0.1

	volume := t.Volume24h
	if volume <= 0 {
		volume = p.rng.Float64() * 10_000_000
	} else {
		volume *= 1 + (p.rng.Float64()-0.5)*0.2
	}

	holders := t.Holders
	if holders <= 0 {
		holders = p.rng.Intn(100_000)
	} else {
		holders += p.rng.Intn(holders/50 + 1)
	}

	return Observation{
		PriceUsd:     price * (1 + drift),
		Volume24h:    volume,
		Holders:      holders,
		LiquidityUsd: p.rng.Float64() * 5_000_000,
		BuyPressure:  p.rng.Float64() * 100,
	}, nil
}
