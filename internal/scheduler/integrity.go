package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"memescout/internal/storage"
)

// Integrity removes snapshots whose parent token no longer exists and
// reports tokens missing a chain reference. Missing chains are reported
// only; fixing them needs human input.
type Integrity struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	log       zerolog.Logger
}

// NewIntegrity creates the integrity check job.
func NewIntegrity(tokens storage.TokenStore, snapshots storage.SnapshotStore, log zerolog.Logger) *Integrity {
	return &Integrity{
		tokens:    tokens,
		snapshots: snapshots,
		log:       log.With().Str("component", "integrity").Logger(),
	}
}

// Run performs one integrity pass.
func (j *Integrity) Run(ctx context.Context) (Result, error) {
	ids, err := j.tokens.ListIDs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list token ids: %w", err)
	}

	orphaned, err := j.snapshots.DeleteNotInTokens(ctx, ids)
	if err != nil {
		return Result{}, fmt.Errorf("delete orphaned snapshots: %w", err)
	}
	if orphaned > 0 {
		j.log.Warn().Int64("deleted", orphaned).Msg("orphaned snapshots removed")
	}

	missingChain, err := j.tokens.ListMissingChain(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list tokens missing chain: %w", err)
	}
	for _, t := range missingChain {
		j.log.Warn().Str("token_id", t.ID).Str("symbol", t.Symbol).Msg("token has no chain reference")
	}

	return Result{TokensCount: len(missingChain)}, nil
}
