package clickhouse

import (
	"context"
	"fmt"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// ArchiveStore implements storage.ArchiveStore using ClickHouse.
// MergeTree does not enforce uniqueness, so idempotency is handled with an
// existence check before inserting.
type ArchiveStore struct {
	conn *Conn
}

// NewArchiveStore creates a new ArchiveStore.
func NewArchiveStore(conn *Conn) *ArchiveStore {
	return &ArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ArchiveStore = (*ArchiveStore)(nil)

// InsertBatch adds snapshots to the archive. Rows whose
// (token_id, timestamp_ms) already exist are skipped, making the archival
// job restartable. Returns the number actually inserted.
func (s *ArchiveStore) InsertBatch(ctx context.Context, snapshots []*domain.ArchivedSnapshot) (int64, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	existing, err := s.existingKeys(ctx, snapshots)
	if err != nil {
		return 0, fmt.Errorf("check existing keys: %w", err)
	}

	var pending []*domain.ArchivedSnapshot
	for _, snap := range snapshots {
		k := archiveKey{snap.TokenID, snap.TimestampMs}
		if _, dup := existing[k]; dup {
			continue
		}
		existing[k] = struct{}{}
		pending = append(pending, snap)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO snapshot_archive (
			token_id, price_usd, volume_24h, meme_score, holders,
			liquidity_usd, buy_pressure, market_cap_rank, twitter_followers, timestamp_ms
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range pending {
		err = batch.Append(
			snap.TokenID, snap.PriceUsd, snap.Volume24h, snap.MemeScore, uint32(snap.Holders),
			snap.LiquidityUsd, snap.BuyPressure,
			intToNullableInt32(snap.MarketCapRank), intToNullableInt32(snap.TwitterFollowers),
			uint64(snap.TimestampMs),
		)
		if err != nil {
			return 0, fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("send batch: %w", err)
	}

	return int64(len(pending)), nil
}

// ListByToken retrieves archived snapshots for a token, oldest first.
func (s *ArchiveStore) ListByToken(ctx context.Context, tokenID string) ([]*domain.ArchivedSnapshot, error) {
	query := `
		SELECT token_id, price_usd, volume_24h, meme_score, holders,
		       liquidity_usd, buy_pressure, market_cap_rank, twitter_followers, timestamp_ms
		FROM snapshot_archive
		WHERE token_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query archive by token: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.ArchivedSnapshot
	for rows.Next() {
		var snap domain.ArchivedSnapshot
		var holders uint32
		var timestampMs uint64
		var marketCapRank, twitterFollowers *int32

		err := rows.Scan(
			&snap.TokenID, &snap.PriceUsd, &snap.Volume24h, &snap.MemeScore, &holders,
			&snap.LiquidityUsd, &snap.BuyPressure, &marketCapRank, &twitterFollowers, &timestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}

		snap.Holders = int(holders)
		snap.TimestampMs = int64(timestampMs)
		snap.MarketCapRank = nullableInt32ToInt(marketCapRank)
		snap.TwitterFollowers = nullableInt32ToInt(twitterFollowers)
		snapshots = append(snapshots, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive rows: %w", err)
	}
	return snapshots, nil
}

// Count returns the total number of archived snapshots.
func (s *ArchiveStore) Count(ctx context.Context) (int64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM snapshot_archive`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count archive: %w", err)
	}
	return int64(count), nil
}

type archiveKey struct {
	tokenID     string
	timestampMs int64
}

// existingKeys fetches the (token_id, timestamp_ms) pairs already archived for
// the batch, bounded by its token IDs and timestamp range. One query covers
// the whole batch.
func (s *ArchiveStore) existingKeys(ctx context.Context, snapshots []*domain.ArchivedSnapshot) (map[archiveKey]struct{}, error) {
	tokenSet := make(map[string]struct{}, len(snapshots))
	minTs, maxTs := snapshots[0].TimestampMs, snapshots[0].TimestampMs
	for _, snap := range snapshots {
		tokenSet[snap.TokenID] = struct{}{}
		if snap.TimestampMs < minTs {
			minTs = snap.TimestampMs
		}
		if snap.TimestampMs > maxTs {
			maxTs = snap.TimestampMs
		}
	}
	tokenIDs := make([]string, 0, len(tokenSet))
	for id := range tokenSet {
		tokenIDs = append(tokenIDs, id)
	}

	query := `
		SELECT token_id, timestamp_ms FROM snapshot_archive
		WHERE token_id IN (?) AND timestamp_ms BETWEEN ? AND ?
	`

	rows, err := s.conn.Query(ctx, query, tokenIDs, uint64(minTs), uint64(maxTs))
	if err != nil {
		return nil, fmt.Errorf("query archive keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[archiveKey]struct{})
	for rows.Next() {
		var tokenID string
		var timestampMs uint64
		if err := rows.Scan(&tokenID, &timestampMs); err != nil {
			return nil, fmt.Errorf("scan archive key: %w", err)
		}
		keys[archiveKey{tokenID, int64(timestampMs)}] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive keys: %w", err)
	}
	return keys, nil
}

func intToNullableInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func nullableInt32ToInt(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
