package memory

import (
	"context"
	"sort"
	"sync"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// LiquidityPoolStore is an in-memory implementation of storage.LiquidityPoolStore.
type LiquidityPoolStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LiquidityPool // keyed by pool ID
}

// NewLiquidityPoolStore creates a new in-memory pool store.
func NewLiquidityPoolStore() *LiquidityPoolStore {
	return &LiquidityPoolStore{
		data: make(map[string]*domain.LiquidityPool),
	}
}

// Verify interface compliance at compile time.
var _ storage.LiquidityPoolStore = (*LiquidityPoolStore)(nil)

// Insert adds a new pool. Returns ErrDuplicateKey if the ID exists.
func (s *LiquidityPoolStore) Insert(_ context.Context, p *domain.LiquidityPool) error {
	if p == nil || p.ID == "" || p.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	c := *p
	s.data[p.ID] = &c
	return nil
}

// ListByToken retrieves all pools for a token.
func (s *LiquidityPoolStore) ListByToken(_ context.Context, tokenID string) ([]*domain.LiquidityPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LiquidityPool
	for _, p := range s.data {
		if p.TokenID == tokenID {
			c := *p
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// TotalLiquidityUsd returns the aggregate pool liquidity for a token.
func (s *LiquidityPoolStore) TotalLiquidityUsd(_ context.Context, tokenID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, p := range s.data {
		if p.TokenID == tokenID {
			total += p.LiquidityUsd
		}
	}
	return total, nil
}
