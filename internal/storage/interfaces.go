package storage

import (
	"context"

	"memescout/internal/domain"
)

// TokenQuery is the pushdown half of a discovery query: cheap predicates
// and the sort order a backend can evaluate without computed aggregates.
type TokenQuery struct {
	MinScore      float64
	MinHolders    int
	LaunchedAfter int64    // ms; 0 disables the age predicate
	Tags          []string // match tokens whose tags intersect; empty disables
	SortBy        domain.SortKey
	Limit         int
}

// TokenStore provides access to tokens storage.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByID retrieves a token by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Token, error)

	// List retrieves tokens ordered by meme score descending.
	List(ctx context.Context, limit, offset int) ([]*domain.Token, error)

	// ListAll retrieves every token. Used by batch jobs.
	ListAll(ctx context.Context) ([]*domain.Token, error)

	// ListIDs retrieves all token IDs.
	ListIDs(ctx context.Context) ([]string, error)

	// Count returns the total number of tokens.
	Count(ctx context.Context) (int64, error)

	// UpdateMemeScore sets the cached meme score for a token.
	// Returns ErrNotFound if the token does not exist.
	UpdateMemeScore(ctx context.Context, id string, score float64) error

	// Query retrieves tokens matching the pushdown predicates, ordered by
	// the requested sort key descending, capped at q.Limit.
	Query(ctx context.Context, q TokenQuery) ([]*domain.Token, error)

	// Search retrieves tokens whose symbol or name contains q,
	// case-insensitive, ordered by meme score descending.
	Search(ctx context.Context, q string, limit int) ([]*domain.Token, error)

	// NewLaunches retrieves tokens launched at or after launchedAfter with
	// at least minVolume 24h volume, ordered by volume descending then
	// launch date descending.
	NewLaunches(ctx context.Context, launchedAfter int64, minVolume float64, limit int) ([]*domain.Token, int64, error)

	// ListMissingChain retrieves tokens without a chain reference.
	ListMissingChain(ctx context.Context) ([]*domain.Token, error)
}

// SnapshotStore provides access to live token_snapshots storage.
type SnapshotStore interface {
	// Insert adds a new snapshot and assigns its ID.
	Insert(ctx context.Context, s *domain.Snapshot) error

	// ListRecent retrieves the newest snapshots for a token, newest first.
	ListRecent(ctx context.Context, tokenID string, limit int) ([]*domain.Snapshot, error)

	// ListOldestN retrieves the oldest n snapshots for a token, oldest first.
	ListOldestN(ctx context.Context, tokenID string, n int) ([]*domain.Snapshot, error)

	// ListByTokenSince retrieves snapshots at or after since, oldest first.
	ListByTokenSince(ctx context.Context, tokenID string, since int64) ([]*domain.Snapshot, error)

	// ListOlderThan retrieves up to limit snapshots strictly older than
	// cutoff, oldest first. Used by the archival job.
	ListOlderThan(ctx context.Context, cutoff int64, limit int) ([]*domain.Snapshot, error)

	// DeleteByIDs removes snapshots by ID. Missing IDs are ignored.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// DeleteNotInTokens removes snapshots whose token ID is not in the
	// given set and returns the number deleted. Used by the integrity job.
	DeleteNotInTokens(ctx context.Context, tokenIDs []string) (int64, error)

	// Count returns the total number of live snapshots.
	Count(ctx context.Context) (int64, error)

	// LatestTimestamp returns the newest snapshot timestamp, 0 when empty.
	LatestTimestamp(ctx context.Context) (int64, error)
}

// ArchiveStore provides access to the snapshot archive (cold tier).
type ArchiveStore interface {
	// InsertBatch adds snapshots to the archive. Rows whose
	// (token_id, timestamp_ms) already exist are skipped, making the
	// archival job restartable. Returns the number actually inserted.
	InsertBatch(ctx context.Context, snapshots []*domain.ArchivedSnapshot) (int64, error)

	// ListByToken retrieves archived snapshots for a token, oldest first.
	ListByToken(ctx context.Context, tokenID string) ([]*domain.ArchivedSnapshot, error)

	// Count returns the total number of archived snapshots.
	Count(ctx context.Context) (int64, error)
}

// LiquidityPoolStore provides access to liquidity_pools storage.
type LiquidityPoolStore interface {
	// Insert adds a new pool. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, p *domain.LiquidityPool) error

	// ListByToken retrieves all pools for a token.
	ListByToken(ctx context.Context, tokenID string) ([]*domain.LiquidityPool, error)

	// TotalLiquidityUsd returns the aggregate pool liquidity for a token.
	TotalLiquidityUsd(ctx context.Context, tokenID string) (float64, error)
}

// RiskStore provides access to token_risk_analysis storage.
type RiskStore interface {
	// Get retrieves the risk analysis for a token.
	// Returns ErrNotFound when none has been computed yet.
	Get(ctx context.Context, tokenID string) (*domain.RiskAnalysis, error)

	// Upsert creates or replaces the risk analysis for ra.TokenID.
	// Create sets CreatedAt; update preserves CreatedAt and bumps
	// UpdatedAt. Last writer wins.
	Upsert(ctx context.Context, ra *domain.RiskAnalysis) error
}

// SyncJobStore provides access to data_sync_jobs storage.
type SyncJobStore interface {
	// Insert adds a new job row. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, j *domain.SyncJob) error

	// Get retrieves a job by ID. Returns ErrNotFound if not exists.
	Get(ctx context.Context, id string) (*domain.SyncJob, error)

	// Complete transitions a job to COMPLETED with its run counters.
	// Returns ErrNotFound for unknown IDs.
	Complete(ctx context.Context, id string, tokensCount, snapshotsAdded int, durationMs int64) error

	// Fail transitions a job to FAILED with the captured error message.
	Fail(ctx context.Context, id string, errMsg string, durationMs int64) error

	// ListRecent retrieves the newest job rows, newest started first.
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncJob, error)

	// HasRunningJob reports whether an IN_PROGRESS row of the given type
	// exists that started after staleAfter. Used as a lightweight
	// mutual-exclusion check against overlapping runs.
	HasRunningJob(ctx context.Context, jobType domain.JobType, staleAfter int64) (bool, error)

	// CountCompletedSince counts COMPLETED jobs with completedAt >= since.
	CountCompletedSince(ctx context.Context, since int64) (int64, error)

	// DeleteCompletedBefore removes COMPLETED jobs that finished before
	// cutoff and returns the number deleted. FAILED rows are retained.
	DeleteCompletedBefore(ctx context.Context, cutoff int64) (int64, error)
}
