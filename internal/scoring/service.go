package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/domain"
	"memescout/internal/observability"
	"memescout/internal/storage"
)

// Service loads scoring inputs from storage, runs the engine and persists
// the results. Its only writes are Token.MemeScore and the risk analysis
// table.
type Service struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	pools     storage.LiquidityPoolStore
	risks     storage.RiskStore
	engine    *Engine
	log       zerolog.Logger
}

// NewService creates a scoring service.
func NewService(
	tokens storage.TokenStore,
	snapshots storage.SnapshotStore,
	pools storage.LiquidityPoolStore,
	risks storage.RiskStore,
	engine *Engine,
	log zerolog.Logger,
) *Service {
	return &Service{
		tokens:    tokens,
		snapshots: snapshots,
		pools:     pools,
		risks:     risks,
		engine:    engine,
		log:       log.With().Str("component", "scoring").Logger(),
	}
}

// CalculateMemeScore computes the score breakdown for one token without
// persisting it. Returns storage.ErrNotFound for unknown tokens.
func (s *Service) CalculateMemeScore(ctx context.Context, tokenID string) (Breakdown, error) {
	in, err := s.loadInput(ctx, tokenID)
	if err != nil {
		return Breakdown{}, err
	}
	return s.engine.ComputeMemeScore(in), nil
}

// ScoreAllTokens recomputes and persists the meme score for every token.
// A failure on one token is logged and skipped; it never aborts the batch.
// Returns the number of tokens updated.
func (s *Service) ScoreAllTokens(ctx context.Context) (int, error) {
	tokens, err := s.tokens.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tokens: %w", err)
	}

	updated := 0
	for _, t := range tokens {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		b, err := s.CalculateMemeScore(ctx, t.ID)
		if err != nil {
			s.log.Error().Err(err).Str("token_id", t.ID).Str("symbol", t.Symbol).
				Msg("score computation failed, skipping token")
			continue
		}
		if err := s.tokens.UpdateMemeScore(ctx, t.ID, b.Total); err != nil {
			s.log.Error().Err(err).Str("token_id", t.ID).Str("symbol", t.Symbol).
				Msg("score persist failed, skipping token")
			continue
		}
		updated++
	}

	observability.TokensScored.Add(float64(updated))
	return updated, nil
}

// ComputeRiskAnalysis computes and upserts the risk analysis for a token.
// Returns storage.ErrNotFound for unknown tokens.
func (s *Service) ComputeRiskAnalysis(ctx context.Context, tokenID string) (*domain.RiskAnalysis, error) {
	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	pools, err := s.pools.ListByToken(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}

	ra := ComputeRiskAnalysis(t, pools)
	if err := s.risks.Upsert(ctx, ra); err != nil {
		return nil, fmt.Errorf("upsert risk analysis: %w", err)
	}
	return ra, nil
}

// GetRiskAnalysis returns the stored risk analysis, computing it on first
// request.
func (s *Service) GetRiskAnalysis(ctx context.Context, tokenID string) (*domain.RiskAnalysis, error) {
	ra, err := s.risks.Get(ctx, tokenID)
	if err == nil {
		return ra, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return s.ComputeRiskAnalysis(ctx, tokenID)
}

// loadInput gathers all score inputs for a token.
func (s *Service) loadInput(ctx context.Context, tokenID string) (ScoreInput, error) {
	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return ScoreInput{}, err
	}

	snapshots, err := s.snapshots.ListRecent(ctx, tokenID, MaxSnapshotWindow)
	if err != nil {
		return ScoreInput{}, fmt.Errorf("list snapshots: %w", err)
	}

	pools, err := s.pools.ListByToken(ctx, tokenID)
	if err != nil {
		return ScoreInput{}, fmt.Errorf("list pools: %w", err)
	}

	risk, err := s.risks.Get(ctx, tokenID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return ScoreInput{}, fmt.Errorf("get risk analysis: %w", err)
		}
		risk = nil
	}

	return ScoreInput{
		Token:     t,
		Snapshots: snapshots,
		Pools:     pools,
		Risk:      risk,
		Now:       time.Now().UnixMilli(),
	}, nil
}
