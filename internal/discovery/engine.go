// Package discovery ranks tokens into named views: trending, moonshots,
// safe picks, fastest growing, tag and text search. All operations are
// read-only.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// overFetchFactor compensates for rows dropped by the aggregate predicates
// that cannot be pushed down to storage.
const overFetchFactor = 2

// fastestGrowingWindowDays bounds the launch window for the
// fastest-growing view.
const fastestGrowingWindowDays = 7

// Engine applies discovery filters and ranking over the stores.
type Engine struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	pools     storage.LiquidityPoolStore
	risks     storage.RiskStore
	log       zerolog.Logger
}

// NewEngine creates a discovery engine.
func NewEngine(
	tokens storage.TokenStore,
	snapshots storage.SnapshotStore,
	pools storage.LiquidityPoolStore,
	risks storage.RiskStore,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		tokens:    tokens,
		snapshots: snapshots,
		pools:     pools,
		risks:     risks,
		log:       log.With().Str("component", "discovery").Logger(),
	}
}

// Trending returns tokens matching the filters, ordered by the requested
// sort key. Cheap predicates are pushed to storage; liquidity and risk
// predicates need computed aggregates and are applied here.
func (e *Engine) Trending(ctx context.Context, filters domain.DiscoveryFilters) ([]*domain.Token, error) {
	f := filters.Normalize()
	now := time.Now().UnixMilli()

	candidates, err := e.tokens.Query(ctx, storage.TokenQuery{
		MinScore:      f.MinScore,
		MinHolders:    f.MinHolders,
		LaunchedAfter: domain.AgeCutoffMs(now, f.MaxDaysOld),
		Tags:          f.Tags,
		SortBy:        f.SortBy,
		Limit:         f.Limit * overFetchFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	result := make([]*domain.Token, 0, f.Limit)
	for _, t := range candidates {
		ok, err := e.passesAggregates(ctx, t, f)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result = append(result, t)
		if len(result) == f.Limit {
			break
		}
	}
	return result, nil
}

// passesAggregates applies the predicates that need computed values:
// aggregate pool liquidity and risk level. A token without a risk record
// passes the risk filter.
func (e *Engine) passesAggregates(ctx context.Context, t *domain.Token, f domain.DiscoveryFilters) (bool, error) {
	liquidity, err := e.pools.TotalLiquidityUsd(ctx, t.ID)
	if err != nil {
		return false, fmt.Errorf("total liquidity for %s: %w", t.ID, err)
	}
	if liquidity < f.MinLiquidity {
		return false, nil
	}

	ra, err := e.risks.Get(ctx, t.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("risk for %s: %w", t.ID, err)
	}
	return ra.RiskLevel.Index() <= f.MaxRiskLevel.Index(), nil
}

// GrowthEntry pairs a token with its computed holder growth rate.
type GrowthEntry struct {
	Token      *domain.Token
	GrowthRate float64 // percent change between the two oldest snapshots
}

// FastestGrowing ranks tokens launched in the last 7 days by holder growth
// between their two oldest snapshots. Tokens with fewer than two snapshots
// or without holder data are excluded.
func (e *Engine) FastestGrowing(ctx context.Context, limit int) ([]GrowthEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultDiscoveryFilters().Limit
	}
	now := time.Now().UnixMilli()

	candidates, err := e.tokens.Query(ctx, storage.TokenQuery{
		LaunchedAfter: domain.AgeCutoffMs(now, fastestGrowingWindowDays),
		SortBy:        domain.SortScore,
	})
	if err != nil {
		return nil, fmt.Errorf("query recent launches: %w", err)
	}

	var entries []GrowthEntry
	for _, t := range candidates {
		snaps, err := e.snapshots.ListOldestN(ctx, t.ID, 2)
		if err != nil {
			return nil, fmt.Errorf("snapshots for %s: %w", t.ID, err)
		}
		if len(snaps) < 2 {
			continue
		}
		first, second := snaps[0], snaps[1]
		if first.Holders <= 0 || second.Holders <= 0 {
			continue
		}
		rate := float64(second.Holders-first.Holders) / float64(first.Holders) * 100
		entries = append(entries, GrowthEntry{Token: t, GrowthRate: rate})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].GrowthRate != entries[j].GrowthRate {
			return entries[i].GrowthRate > entries[j].GrowthRate
		}
		return entries[i].Token.ID < entries[j].Token.ID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Search returns tokens whose symbol or name contains q, case-insensitive.
func (e *Engine) Search(ctx context.Context, q string, limit int) ([]*domain.Token, error) {
	if limit <= 0 {
		limit = domain.DefaultDiscoveryFilters().Limit
	}
	return e.tokens.Search(ctx, q, limit)
}
