package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"memescout/internal/observability"
	"memescout/internal/storage"
)

// Statistics reports dataset sizes to the log and the metrics registry.
// Observational only; it mutates nothing.
type Statistics struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	archive   storage.ArchiveStore
	log       zerolog.Logger
}

// NewStatistics creates the statistics job.
func NewStatistics(tokens storage.TokenStore, snapshots storage.SnapshotStore, archive storage.ArchiveStore, log zerolog.Logger) *Statistics {
	return &Statistics{
		tokens:    tokens,
		snapshots: snapshots,
		archive:   archive,
		log:       log.With().Str("component", "statistics").Logger(),
	}
}

// Run computes and emits the counts.
func (j *Statistics) Run(ctx context.Context) (Result, error) {
	tokens, err := j.tokens.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count tokens: %w", err)
	}
	live, err := j.snapshots.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count snapshots: %w", err)
	}
	archived, err := j.archive.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count archived snapshots: %w", err)
	}

	observability.TokensTotal.Set(float64(tokens))
	observability.LiveSnapshotsTotal.Set(float64(live))
	observability.ArchivedSnapshotsTotal.Set(float64(archived))

	j.log.Info().
		Int64("tokens", tokens).
		Int64("live_snapshots", live).
		Int64("archived_snapshots", archived).
		Msg("database statistics")

	return Result{TokensCount: int(tokens)}, nil
}
