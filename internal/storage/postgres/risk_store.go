package postgres

import (
	"context"
	"fmt"
	"time"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// RiskStore implements storage.RiskStore using PostgreSQL.
type RiskStore struct {
	pool *Pool
}

// NewRiskStore creates a new RiskStore.
func NewRiskStore(pool *Pool) *RiskStore {
	return &RiskStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RiskStore = (*RiskStore)(nil)

// Get retrieves the risk analysis for a token. Returns ErrNotFound when
// none has been computed yet.
func (s *RiskStore) Get(ctx context.Context, tokenID string) (*domain.RiskAnalysis, error) {
	query := `
		SELECT token_id, rug_pull_risk, volatility_risk, liquidity_risk,
		       holder_concentration, overall_risk_score, risk_level,
		       red_flags, green_flags, created_at, updated_at
		FROM token_risk_analysis
		WHERE token_id = $1
	`

	var ra domain.RiskAnalysis
	var level string
	err := s.pool.QueryRow(ctx, query, tokenID).Scan(
		&ra.TokenID, &ra.RugPullRisk, &ra.VolatilityRisk, &ra.LiquidityRisk,
		&ra.HolderConcentration, &ra.OverallRiskScore, &level,
		&ra.RedFlags, &ra.GreenFlags, &ra.CreatedAt, &ra.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get risk analysis: %w", err)
	}
	ra.RiskLevel = domain.RiskLevel(level)
	return &ra, nil
}

// Upsert creates or replaces the risk analysis for ra.TokenID.
// Create sets CreatedAt; update preserves CreatedAt and bumps UpdatedAt.
func (s *RiskStore) Upsert(ctx context.Context, ra *domain.RiskAnalysis) error {
	if ra == nil || ra.TokenID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_risk_analysis (
			token_id, rug_pull_risk, volatility_risk, liquidity_risk,
			holder_concentration, overall_risk_score, risk_level,
			red_flags, green_flags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (token_id) DO UPDATE SET
			rug_pull_risk = EXCLUDED.rug_pull_risk,
			volatility_risk = EXCLUDED.volatility_risk,
			liquidity_risk = EXCLUDED.liquidity_risk,
			holder_concentration = EXCLUDED.holder_concentration,
			overall_risk_score = EXCLUDED.overall_risk_score,
			risk_level = EXCLUDED.risk_level,
			red_flags = EXCLUDED.red_flags,
			green_flags = EXCLUDED.green_flags,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	now := time.Now().UnixMilli()
	err := s.pool.QueryRow(ctx, query,
		ra.TokenID, ra.RugPullRisk, ra.VolatilityRisk, ra.LiquidityRisk,
		ra.HolderConcentration, ra.OverallRiskScore, string(ra.RiskLevel),
		ra.RedFlags, ra.GreenFlags, now,
	).Scan(&ra.CreatedAt, &ra.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert risk analysis: %w", err)
	}
	return nil
}
