package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `
	id, symbol, name, chain_id, address,
	price_usd, initial_price, volume_24h, market_cap, holders,
	top_holders_percent, contract_verified, contract_renounced, liquidity_locked,
	buy_count_24h, sell_count_24h, twitter_followers, telegram_members,
	tags, launch_date, meme_score, created_at, updated_at
`

// Insert adds a new token. Returns ErrDuplicateKey if the ID exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO tokens (
			id, symbol, name, chain_id, address,
			price_usd, initial_price, volume_24h, market_cap, holders,
			top_holders_percent, contract_verified, contract_renounced, liquidity_locked,
			buy_count_24h, sell_count_24h, twitter_followers, telegram_members,
			tags, launch_date, meme_score, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Symbol, t.Name, t.ChainID, t.Address,
		t.PriceUsd, t.InitialPrice, t.Volume24h, t.MarketCap, t.Holders,
		t.TopHoldersPercent, t.ContractVerified, t.ContractRenounced, t.LiquidityLocked,
		t.BuyCount24h, t.SellCount24h, t.TwitterFollowers, t.TelegramMembers,
		t.Tags, t.LaunchDate, t.MemeScore, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByID retrieves a token by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by id: %w", err)
	}
	return t, nil
}

// List retrieves tokens ordered by meme score descending.
func (s *TokenStore) List(ctx context.Context, limit, offset int) ([]*domain.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM tokens
		ORDER BY meme_score DESC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// ListAll retrieves every token. Used by batch jobs.
func (s *TokenStore) ListAll(ctx context.Context) ([]*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// ListIDs retrieves all token IDs.
func (s *TokenStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM tokens ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list token ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan token id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token ids: %w", err)
	}
	return ids, nil
}

// Count returns the total number of tokens.
func (s *TokenStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tokens`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return count, nil
}

// UpdateMemeScore sets the cached meme score for a token.
func (s *TokenStore) UpdateMemeScore(ctx context.Context, id string, score float64) error {
	query := `
		UPDATE tokens
		SET meme_score = $2,
		    updated_at = (EXTRACT(EPOCH FROM NOW()) * 1000)::BIGINT
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, id, score)
	if err != nil {
		return fmt.Errorf("update meme score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Query retrieves tokens matching the pushdown predicates, ordered by the
// requested sort key descending, capped at q.Limit.
func (s *TokenStore) Query(ctx context.Context, q storage.TokenQuery) ([]*domain.Token, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.MinScore > 0 {
		conds = append(conds, "meme_score >= "+arg(q.MinScore))
	}
	if q.MinHolders > 0 {
		conds = append(conds, "holders >= "+arg(q.MinHolders))
	}
	if q.LaunchedAfter > 0 {
		conds = append(conds, "launch_date >= "+arg(q.LaunchedAfter))
	}
	if len(q.Tags) > 0 {
		conds = append(conds, "tags && "+arg(q.Tags))
	}

	query := `SELECT ` + tokenColumns + ` FROM tokens`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + sortColumn(q.SortBy) + " DESC, id ASC"
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// sortColumn maps a sort key to its column. Momentum falls back to volume.
func sortColumn(key domain.SortKey) string {
	switch key {
	case domain.SortVolume, domain.SortMomentum:
		return "volume_24h"
	case domain.SortHolders:
		return "holders"
	default:
		return "meme_score"
	}
}

// Search retrieves tokens whose symbol or name contains q, case-insensitive.
func (s *TokenStore) Search(ctx context.Context, q string, limit int) ([]*domain.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM tokens
		WHERE symbol ILIKE $1 OR name ILIKE $1
		ORDER BY meme_score DESC, id ASC
		LIMIT $2
	`

	pattern := "%" + escapeLike(q) + "%"
	rows, err := s.pool.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// NewLaunches retrieves tokens launched at or after launchedAfter with at
// least minVolume 24h volume, plus the total match count.
func (s *TokenStore) NewLaunches(ctx context.Context, launchedAfter int64, minVolume float64, limit int) ([]*domain.Token, int64, error) {
	listQuery := `
		SELECT ` + tokenColumns + `
		FROM tokens
		WHERE launch_date >= $1 AND volume_24h >= $2
		ORDER BY volume_24h DESC, launch_date DESC, id ASC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, listQuery, launchedAfter, minVolume, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list new launches: %w", err)
	}
	defer rows.Close()

	tokens, err := scanTokens(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM tokens WHERE launch_date >= $1 AND volume_24h >= $2`
	if err := s.pool.QueryRow(ctx, countQuery, launchedAfter, minVolume).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count new launches: %w", err)
	}

	return tokens, total, nil
}

// ListMissingChain retrieves tokens without a chain reference.
func (s *TokenStore) ListMissingChain(ctx context.Context) ([]*domain.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM tokens
		WHERE chain_id IS NULL OR chain_id = ''
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tokens missing chain: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// scanToken scans a single row into Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token

	err := row.Scan(
		&t.ID, &t.Symbol, &t.Name, &t.ChainID, &t.Address,
		&t.PriceUsd, &t.InitialPrice, &t.Volume24h, &t.MarketCap, &t.Holders,
		&t.TopHoldersPercent, &t.ContractVerified, &t.ContractRenounced, &t.LiquidityLocked,
		&t.BuyCount24h, &t.SellCount24h, &t.TwitterFollowers, &t.TelegramMembers,
		&t.Tags, &t.LaunchDate, &t.MemeScore, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func scanTokens(rows pgx.Rows) ([]*domain.Token, error) {
	var tokens []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}
