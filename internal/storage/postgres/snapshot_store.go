package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	id, token_id, price_usd, volume_24h, meme_score, holders,
	liquidity_usd, buy_pressure, market_cap_rank, twitter_followers, timestamp_ms
`

// Insert adds a new snapshot and assigns its ID.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.Snapshot) error {
	query := `
		INSERT INTO token_snapshots (
			token_id, price_usd, volume_24h, meme_score, holders,
			liquidity_usd, buy_pressure, market_cap_rank, twitter_followers, timestamp_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		snap.TokenID, snap.PriceUsd, snap.Volume24h, snap.MemeScore, snap.Holders,
		snap.LiquidityUsd, snap.BuyPressure, snap.MarketCapRank, snap.TwitterFollowers, snap.TimestampMs,
	).Scan(&snap.ID)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListRecent retrieves the newest snapshots for a token, newest first.
func (s *SnapshotStore) ListRecent(ctx context.Context, tokenID string, limit int) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM token_snapshots
		WHERE token_id = $1
		ORDER BY timestamp_ms DESC, id DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, tokenID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListOldestN retrieves the oldest n snapshots for a token, oldest first.
func (s *SnapshotStore) ListOldestN(ctx context.Context, tokenID string, n int) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM token_snapshots
		WHERE token_id = $1
		ORDER BY timestamp_ms ASC, id ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, tokenID, n)
	if err != nil {
		return nil, fmt.Errorf("list oldest snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListByTokenSince retrieves snapshots at or after since, oldest first.
func (s *SnapshotStore) ListByTokenSince(ctx context.Context, tokenID string, since int64) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM token_snapshots
		WHERE token_id = $1 AND timestamp_ms >= $2
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID, since)
	if err != nil {
		return nil, fmt.Errorf("list snapshots since: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListOlderThan retrieves up to limit snapshots strictly older than cutoff,
// oldest first.
func (s *SnapshotStore) ListOlderThan(ctx context.Context, cutoff int64, limit int) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM token_snapshots
		WHERE timestamp_ms < $1
		ORDER BY timestamp_ms ASC, id ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots older than: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// DeleteByIDs removes snapshots by ID. Missing IDs are ignored.
func (s *SnapshotStore) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM token_snapshots WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteNotInTokens removes snapshots whose token ID is not in the given set.
func (s *SnapshotStore) DeleteNotInTokens(ctx context.Context, tokenIDs []string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM token_snapshots WHERE token_id != ALL($1)`, tokenIDs)
	if err != nil {
		return 0, fmt.Errorf("delete orphan snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of live snapshots.
func (s *SnapshotStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM token_snapshots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}

// LatestTimestamp returns the newest snapshot timestamp, 0 when empty.
func (s *SnapshotStore) LatestTimestamp(ctx context.Context) (int64, error) {
	var ts int64
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(timestamp_ms), 0) FROM token_snapshots`).Scan(&ts)
	if err != nil {
		return 0, fmt.Errorf("latest snapshot timestamp: %w", err)
	}
	return ts, nil
}

// scanSnapshot scans a single row into Snapshot.
func scanSnapshot(row pgx.Row) (*domain.Snapshot, error) {
	var snap domain.Snapshot

	err := row.Scan(
		&snap.ID, &snap.TokenID, &snap.PriceUsd, &snap.Volume24h, &snap.MemeScore,
		&snap.Holders, &snap.LiquidityUsd, &snap.BuyPressure,
		&snap.MarketCapRank, &snap.TwitterFollowers, &snap.TimestampMs,
	)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

func scanSnapshots(rows pgx.Rows) ([]*domain.Snapshot, error) {
	var snapshots []*domain.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}
