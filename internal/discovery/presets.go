package discovery

import (
	"context"

	"memescout/internal/domain"
)

// Named views are fixed parameterizations of Trending.

// MoonshotFilters selects very young tokens with momentum, tolerating
// thinner liquidity and smaller holder bases.
func MoonshotFilters() domain.DiscoveryFilters {
	return domain.DiscoveryFilters{
		MinScore:     60,
		MaxDaysOld:   7,
		MinLiquidity: 25000,
		MinHolders:   50,
		MaxRiskLevel: domain.RiskHigh,
		SortBy:       domain.SortScore,
		Limit:        50,
	}
}

// SafePickFilters selects established tokens with deep liquidity and a
// LOW risk classification.
func SafePickFilters() domain.DiscoveryFilters {
	return domain.DiscoveryFilters{
		MinScore:     50,
		MaxDaysOld:   365,
		MinLiquidity: 250000,
		MinHolders:   500,
		MaxRiskLevel: domain.RiskLow,
		SortBy:       domain.SortScore,
		Limit:        50,
	}
}

// Moonshots returns the moonshot view.
func (e *Engine) Moonshots(ctx context.Context, limit int) ([]*domain.Token, error) {
	f := MoonshotFilters()
	if limit > 0 {
		f.Limit = limit
	}
	return e.Trending(ctx, f)
}

// SafePicks returns the safe-picks view.
func (e *Engine) SafePicks(ctx context.Context, limit int) ([]*domain.Token, error) {
	f := SafePickFilters()
	if limit > 0 {
		f.Limit = limit
	}
	return e.Trending(ctx, f)
}

// ByTags returns the trending view restricted to tokens whose tags
// intersect the given set.
func (e *Engine) ByTags(ctx context.Context, tags []string, limit int) ([]*domain.Token, error) {
	f := domain.DefaultDiscoveryFilters()
	f.Tags = tags
	if limit > 0 {
		f.Limit = limit
	}
	return e.Trending(ctx, f)
}
