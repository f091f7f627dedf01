package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/domain"
	"memescout/internal/observability"
	"memescout/internal/storage"
)

// Default archival parameters.
const (
	// RetentionDays is how long snapshots stay in the live store.
	RetentionDays = 730
	// DefaultArchiveBatchSize caps how many snapshots one run moves.
	DefaultArchiveBatchSize = 50000
)

// Archival moves snapshots older than the retention threshold into the
// archive store and deletes them from the live store. The copy step is
// idempotent on (token_id, timestamp_ms), so a run interrupted between
// copy and delete is safe to repeat; the delete only covers rows the copy
// call accepted.
type Archival struct {
	snapshots storage.SnapshotStore
	archive   storage.ArchiveStore
	batchSize int
	log       zerolog.Logger
}

// NewArchival creates the archival job. batchSize <= 0 uses the default.
func NewArchival(snapshots storage.SnapshotStore, archive storage.ArchiveStore, batchSize int, log zerolog.Logger) *Archival {
	if batchSize <= 0 {
		batchSize = DefaultArchiveBatchSize
	}
	return &Archival{
		snapshots: snapshots,
		archive:   archive,
		batchSize: batchSize,
		log:       log.With().Str("component", "archival").Logger(),
	}
}

// Run performs one archival pass.
func (j *Archival) Run(ctx context.Context) (Result, error) {
	cutoff := time.Now().AddDate(0, 0, -RetentionDays).UnixMilli()

	old, err := j.snapshots.ListOlderThan(ctx, cutoff, j.batchSize)
	if err != nil {
		return Result{}, fmt.Errorf("list expired snapshots: %w", err)
	}
	if len(old) == 0 {
		return Result{}, nil
	}

	archived := make([]*domain.ArchivedSnapshot, len(old))
	ids := make([]int64, len(old))
	for i, s := range old {
		archived[i] = s.ToArchived()
		ids[i] = s.ID
	}

	inserted, err := j.archive.InsertBatch(ctx, archived)
	if err != nil {
		return Result{}, fmt.Errorf("archive snapshots: %w", err)
	}

	// Delete only after the copy succeeded for the whole batch.
	deleted, err := j.snapshots.DeleteByIDs(ctx, ids)
	if err != nil {
		return Result{}, fmt.Errorf("delete archived snapshots: %w", err)
	}

	observability.SnapshotsArchived.Add(float64(inserted))
	observability.SnapshotsDeleted.Add(float64(deleted))
	j.log.Info().Int("batch", len(old)).Int64("inserted", inserted).Int64("deleted", deleted).
		Msg("archival pass complete")

	return Result{SnapshotsAdded: int(inserted)}, nil
}
