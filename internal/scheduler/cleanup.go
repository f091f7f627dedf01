package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/storage"
)

// JobRetentionDays is how long COMPLETED sync job rows are kept.
// FAILED rows are never cleaned up automatically; they document outages.
const JobRetentionDays = 30

// Cleanup prunes old COMPLETED sync job rows.
type Cleanup struct {
	syncJobs storage.SyncJobStore
	log      zerolog.Logger
}

// NewCleanup creates the cleanup job.
func NewCleanup(syncJobs storage.SyncJobStore, log zerolog.Logger) *Cleanup {
	return &Cleanup{
		syncJobs: syncJobs,
		log:      log.With().Str("component", "cleanup").Logger(),
	}
}

// Run deletes COMPLETED jobs that finished more than JobRetentionDays ago.
func (j *Cleanup) Run(ctx context.Context) (Result, error) {
	cutoff := time.Now().AddDate(0, 0, -JobRetentionDays).UnixMilli()

	deleted, err := j.syncJobs.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return Result{}, fmt.Errorf("delete old sync jobs: %w", err)
	}

	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("old sync jobs removed")
	}
	return Result{}, nil
}
