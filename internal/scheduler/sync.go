package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/domain"
	"memescout/internal/marketdata"
	"memescout/internal/observability"
	"memescout/internal/storage"
)

// SnapshotSync creates one fresh snapshot per token from the market data
// provider. A failure on one token is logged, counted as a miss and
// skipped; only failures outside the per-token loop fail the run.
type SnapshotSync struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	provider  marketdata.Provider
	log       zerolog.Logger
}

// NewSnapshotSync creates the snapshot sync job.
func NewSnapshotSync(
	tokens storage.TokenStore,
	snapshots storage.SnapshotStore,
	provider marketdata.Provider,
	log zerolog.Logger,
) *SnapshotSync {
	return &SnapshotSync{
		tokens:    tokens,
		snapshots: snapshots,
		provider:  provider,
		log:       log.With().Str("component", "snapshot_sync").Logger(),
	}
}

// Run performs one sync pass over all tokens.
func (j *SnapshotSync) Run(ctx context.Context) (Result, error) {
	tokens, err := j.tokens.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list tokens: %w", err)
	}

	added := 0
	for _, t := range tokens {
		if err := ctx.Err(); err != nil {
			return Result{TokensCount: len(tokens), SnapshotsAdded: added}, err
		}

		obs, err := j.provider.Observe(ctx, t)
		if err != nil {
			j.log.Error().Err(err).Str("token_id", t.ID).Str("symbol", t.Symbol).
				Msg("observation failed, skipping token")
			continue
		}

		snap := &domain.Snapshot{
			TokenID:          t.ID,
			PriceUsd:         obs.PriceUsd,
			Volume24h:        obs.Volume24h,
			MemeScore:        t.MemeScore,
			Holders:          obs.Holders,
			LiquidityUsd:     obs.LiquidityUsd,
			BuyPressure:      obs.BuyPressure,
			MarketCapRank:    obs.MarketCapRank,
			TwitterFollowers: obs.TwitterFollowers,
			TimestampMs:      time.Now().UnixMilli(),
		}
		if err := j.snapshots.Insert(ctx, snap); err != nil {
			j.log.Error().Err(err).Str("token_id", t.ID).Str("symbol", t.Symbol).
				Msg("snapshot insert failed, skipping token")
			continue
		}
		added++
	}

	observability.SnapshotsCreated.Add(float64(added))
	return Result{TokensCount: len(tokens), SnapshotsAdded: added}, nil
}
