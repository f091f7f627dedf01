package postgres

import (
	"context"
	"fmt"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// LiquidityPoolStore implements storage.LiquidityPoolStore using PostgreSQL.
type LiquidityPoolStore struct {
	pool *Pool
}

// NewLiquidityPoolStore creates a new LiquidityPoolStore.
func NewLiquidityPoolStore(pool *Pool) *LiquidityPoolStore {
	return &LiquidityPoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LiquidityPoolStore = (*LiquidityPoolStore)(nil)

// Insert adds a new pool. Returns ErrDuplicateKey if the ID exists.
func (s *LiquidityPoolStore) Insert(ctx context.Context, p *domain.LiquidityPool) error {
	query := `
		INSERT INTO liquidity_pools (
			id, token_id, dex, pair_address, liquidity_usd, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.TokenID, p.Dex, p.PairAddress, p.LiquidityUsd, p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert liquidity pool: %w", err)
	}
	return nil
}

// ListByToken retrieves all pools for a token.
func (s *LiquidityPoolStore) ListByToken(ctx context.Context, tokenID string) ([]*domain.LiquidityPool, error) {
	query := `
		SELECT id, token_id, dex, pair_address, liquidity_usd, created_at
		FROM liquidity_pools
		WHERE token_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("list liquidity pools: %w", err)
	}
	defer rows.Close()

	var pools []*domain.LiquidityPool
	for rows.Next() {
		var p domain.LiquidityPool
		if err := rows.Scan(&p.ID, &p.TokenID, &p.Dex, &p.PairAddress, &p.LiquidityUsd, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan liquidity pool: %w", err)
		}
		pools = append(pools, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liquidity pools: %w", err)
	}
	return pools, nil
}

// TotalLiquidityUsd returns the aggregate pool liquidity for a token.
func (s *LiquidityPoolStore) TotalLiquidityUsd(ctx context.Context, tokenID string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(liquidity_usd), 0) FROM liquidity_pools WHERE token_id = $1`
	if err := s.pool.QueryRow(ctx, query, tokenID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total liquidity: %w", err)
	}
	return total, nil
}
