package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// SyncJobStore implements storage.SyncJobStore using PostgreSQL.
type SyncJobStore struct {
	pool *Pool
}

// NewSyncJobStore creates a new SyncJobStore.
func NewSyncJobStore(pool *Pool) *SyncJobStore {
	return &SyncJobStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SyncJobStore = (*SyncJobStore)(nil)

const syncJobColumns = `
	id, job_type, status, tokens_count, snapshots_added, errors,
	started_at, completed_at, duration_ms
`

// Insert adds a new job row. Returns ErrDuplicateKey if the ID exists.
func (s *SyncJobStore) Insert(ctx context.Context, j *domain.SyncJob) error {
	query := `
		INSERT INTO data_sync_jobs (
			id, job_type, status, tokens_count, snapshots_added, errors,
			started_at, completed_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		j.ID, string(j.JobType), string(j.Status), j.TokensCount, j.SnapshotsAdded, j.Errors,
		j.StartedAt, j.CompletedAt, j.DurationMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert sync job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID. Returns ErrNotFound if not exists.
func (s *SyncJobStore) Get(ctx context.Context, id string) (*domain.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM data_sync_jobs WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	j, err := scanSyncJob(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get sync job: %w", err)
	}
	return j, nil
}

// Complete transitions a job to COMPLETED with its run counters.
// The status guard keeps terminal rows immutable.
func (s *SyncJobStore) Complete(ctx context.Context, id string, tokensCount, snapshotsAdded int, durationMs int64) error {
	query := `
		UPDATE data_sync_jobs
		SET status = $2, tokens_count = $3, snapshots_added = $4,
		    completed_at = $5, duration_ms = $6
		WHERE id = $1 AND status = $7
	`

	tag, err := s.pool.Exec(ctx, query,
		id, string(domain.JobCompleted), tokensCount, snapshotsAdded,
		time.Now().UnixMilli(), durationMs, string(domain.JobInProgress),
	)
	if err != nil {
		return fmt.Errorf("complete sync job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.terminalOrMissing(ctx, id)
	}
	return nil
}

// Fail transitions a job to FAILED with the captured error message.
func (s *SyncJobStore) Fail(ctx context.Context, id string, errMsg string, durationMs int64) error {
	query := `
		UPDATE data_sync_jobs
		SET status = $2, errors = $3, completed_at = $4, duration_ms = $5
		WHERE id = $1 AND status = $6
	`

	tag, err := s.pool.Exec(ctx, query,
		id, string(domain.JobFailed), errMsg,
		time.Now().UnixMilli(), durationMs, string(domain.JobInProgress),
	)
	if err != nil {
		return fmt.Errorf("fail sync job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.terminalOrMissing(ctx, id)
	}
	return nil
}

// terminalOrMissing disambiguates a zero-row terminal update.
func (s *SyncJobStore) terminalOrMissing(ctx context.Context, id string) error {
	j, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if j.Terminal() {
		return storage.ErrInvalidInput
	}
	return storage.ErrNotFound
}

// ListRecent retrieves the newest job rows, newest started first.
func (s *SyncJobStore) ListRecent(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
	query := `
		SELECT ` + syncJobColumns + `
		FROM data_sync_jobs
		ORDER BY started_at DESC, id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sync jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.SyncJob
	for rows.Next() {
		j, err := scanSyncJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync jobs: %w", err)
	}
	return jobs, nil
}

// HasRunningJob reports whether a fresh IN_PROGRESS row of the type exists.
func (s *SyncJobStore) HasRunningJob(ctx context.Context, jobType domain.JobType, staleAfter int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM data_sync_jobs
			WHERE job_type = $1 AND status = $2 AND started_at > $3
		)
	`

	var running bool
	err := s.pool.QueryRow(ctx, query, string(jobType), string(domain.JobInProgress), staleAfter).Scan(&running)
	if err != nil {
		return false, fmt.Errorf("check running sync job: %w", err)
	}
	return running, nil
}

// CountCompletedSince counts COMPLETED jobs with completedAt >= since.
func (s *SyncJobStore) CountCompletedSince(ctx context.Context, since int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM data_sync_jobs
		WHERE status = $1 AND completed_at >= $2
	`

	var count int64
	err := s.pool.QueryRow(ctx, query, string(domain.JobCompleted), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed sync jobs: %w", err)
	}
	return count, nil
}

// DeleteCompletedBefore removes COMPLETED jobs that finished before cutoff.
// FAILED rows are retained.
func (s *SyncJobStore) DeleteCompletedBefore(ctx context.Context, cutoff int64) (int64, error) {
	query := `
		DELETE FROM data_sync_jobs
		WHERE status = $1 AND completed_at < $2
	`

	tag, err := s.pool.Exec(ctx, query, string(domain.JobCompleted), cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete completed sync jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanSyncJob scans a single row into SyncJob.
func scanSyncJob(row pgx.Row) (*domain.SyncJob, error) {
	var j domain.SyncJob
	var jobType, status string

	err := row.Scan(
		&j.ID, &jobType, &status, &j.TokensCount, &j.SnapshotsAdded, &j.Errors,
		&j.StartedAt, &j.CompletedAt, &j.DurationMs,
	)
	if err != nil {
		return nil, err
	}

	j.JobType = domain.JobType(jobType)
	j.Status = domain.JobStatus(status)
	return &j, nil
}
