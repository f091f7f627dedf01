package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token // keyed by token ID
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.Token),
	}
}

// Verify interface compliance at compile time.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if the ID exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	s.data[t.ID] = copyToken(t)
	return nil
}

// GetByID retrieves a token by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(_ context.Context, id string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyToken(t), nil
}

// List retrieves tokens ordered by meme score descending.
func (s *TokenStore) List(_ context.Context, limit, offset int) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.snapshotLocked()
	sortTokens(all, domain.SortScore)

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListAll retrieves every token.
func (s *TokenStore) ListAll(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.snapshotLocked()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt < all[j].CreatedAt })
	return all, nil
}

// ListIDs retrieves all token IDs.
func (s *TokenStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Count returns the total number of tokens.
func (s *TokenStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

// UpdateMemeScore sets the cached meme score for a token.
func (s *TokenStore) UpdateMemeScore(_ context.Context, id string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}
	t.MemeScore = score
	t.UpdatedAt = time.Now().UnixMilli()
	return nil
}

// Query retrieves tokens matching the pushdown predicates.
func (s *TokenStore) Query(_ context.Context, q storage.TokenQuery) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.data {
		if t.MemeScore < q.MinScore {
			continue
		}
		if t.Holders < q.MinHolders {
			continue
		}
		if q.LaunchedAfter > 0 && t.LaunchDate < q.LaunchedAfter {
			continue
		}
		if len(q.Tags) > 0 && !tagsIntersect(t.Tags, q.Tags) {
			continue
		}
		result = append(result, copyToken(t))
	}

	sortTokens(result, q.SortBy)
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

// Search retrieves tokens whose symbol or name contains q, case-insensitive.
func (s *TokenStore) Search(_ context.Context, q string, limit int) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q)
	var result []*domain.Token
	for _, t := range s.data {
		if strings.Contains(strings.ToLower(t.Symbol), needle) ||
			strings.Contains(strings.ToLower(t.Name), needle) {
			result = append(result, copyToken(t))
		}
	}

	sortTokens(result, domain.SortScore)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// NewLaunches retrieves recently launched tokens with high volume.
func (s *TokenStore) NewLaunches(_ context.Context, launchedAfter int64, minVolume float64, limit int) ([]*domain.Token, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.data {
		if t.LaunchDate >= launchedAfter && t.Volume24h >= minVolume {
			result = append(result, copyToken(t))
		}
	}
	total := int64(len(result))

	sort.Slice(result, func(i, j int) bool {
		if result[i].Volume24h != result[j].Volume24h {
			return result[i].Volume24h > result[j].Volume24h
		}
		return result[i].LaunchDate > result[j].LaunchDate
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, total, nil
}

// ListMissingChain retrieves tokens without a chain reference.
func (s *TokenStore) ListMissingChain(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.data {
		if t.ChainID == nil || *t.ChainID == "" {
			result = append(result, copyToken(t))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// snapshotLocked copies all tokens; caller must hold at least a read lock.
func (s *TokenStore) snapshotLocked() []*domain.Token {
	all := make([]*domain.Token, 0, len(s.data))
	for _, t := range s.data {
		all = append(all, copyToken(t))
	}
	return all
}

func copyToken(t *domain.Token) *domain.Token {
	c := *t
	if t.ChainID != nil {
		chain := *t.ChainID
		c.ChainID = &chain
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

// sortTokens orders tokens by the sort key descending, ID ascending as
// tie-break. The momentum key falls back to volume.
func sortTokens(tokens []*domain.Token, key domain.SortKey) {
	less := func(a, b *domain.Token) bool {
		switch key {
		case domain.SortVolume, domain.SortMomentum:
			if a.Volume24h != b.Volume24h {
				return a.Volume24h > b.Volume24h
			}
		case domain.SortHolders:
			if a.Holders != b.Holders {
				return a.Holders > b.Holders
			}
		default:
			if a.MemeScore != b.MemeScore {
				return a.MemeScore > b.MemeScore
			}
		}
		return a.ID < b.ID
	}
	sort.Slice(tokens, func(i, j int) bool { return less(tokens[i], tokens[j]) })
}

func tagsIntersect(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
