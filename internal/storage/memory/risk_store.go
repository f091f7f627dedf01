package memory

import (
	"context"
	"sync"
	"time"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// RiskStore is an in-memory implementation of storage.RiskStore.
type RiskStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RiskAnalysis // keyed by token ID
}

// NewRiskStore creates a new in-memory risk store.
func NewRiskStore() *RiskStore {
	return &RiskStore{
		data: make(map[string]*domain.RiskAnalysis),
	}
}

// Verify interface compliance at compile time.
var _ storage.RiskStore = (*RiskStore)(nil)

// Get retrieves the risk analysis for a token.
func (s *RiskStore) Get(_ context.Context, tokenID string) (*domain.RiskAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ra, exists := s.data[tokenID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRisk(ra), nil
}

// Upsert creates or replaces the risk analysis for ra.TokenID.
// Create sets CreatedAt; update preserves CreatedAt and bumps UpdatedAt.
func (s *RiskStore) Upsert(_ context.Context, ra *domain.RiskAnalysis) error {
	if ra == nil || ra.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	c := copyRisk(ra)
	if existing, exists := s.data[ra.TokenID]; exists {
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = now
	} else {
		c.CreatedAt = now
		c.UpdatedAt = now
	}
	s.data[ra.TokenID] = c

	ra.CreatedAt = c.CreatedAt
	ra.UpdatedAt = c.UpdatedAt
	return nil
}

func copyRisk(ra *domain.RiskAnalysis) *domain.RiskAnalysis {
	c := *ra
	if ra.RedFlags != nil {
		c.RedFlags = append([]string(nil), ra.RedFlags...)
	}
	if ra.GreenFlags != nil {
		c.GreenFlags = append([]string(nil), ra.GreenFlags...)
	}
	return &c
}
