package memory

import (
	"context"
	"sort"
	"sync"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu     sync.RWMutex
	data   map[int64]*domain.Snapshot // keyed by assigned ID
	nextID int64
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data:   make(map[int64]*domain.Snapshot),
		nextID: 1,
	}
}

// Verify interface compliance at compile time.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot and assigns its ID.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap.ID = s.nextID
	s.nextID++

	c := copySnapshot(snap)
	s.data[snap.ID] = c
	return nil
}

// ListRecent retrieves the newest snapshots for a token, newest first.
func (s *SnapshotStore) ListRecent(_ context.Context, tokenID string, limit int) ([]*domain.Snapshot, error) {
	result := s.collect(func(snap *domain.Snapshot) bool { return snap.TokenID == tokenID })
	sort.Slice(result, func(i, j int) bool { return result[i].TimestampMs > result[j].TimestampMs })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListOldestN retrieves the oldest n snapshots for a token, oldest first.
func (s *SnapshotStore) ListOldestN(_ context.Context, tokenID string, n int) ([]*domain.Snapshot, error) {
	result := s.collect(func(snap *domain.Snapshot) bool { return snap.TokenID == tokenID })
	sort.Slice(result, func(i, j int) bool { return result[i].TimestampMs < result[j].TimestampMs })
	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result, nil
}

// ListByTokenSince retrieves snapshots at or after since, oldest first.
func (s *SnapshotStore) ListByTokenSince(_ context.Context, tokenID string, since int64) ([]*domain.Snapshot, error) {
	result := s.collect(func(snap *domain.Snapshot) bool {
		return snap.TokenID == tokenID && snap.TimestampMs >= since
	})
	sort.Slice(result, func(i, j int) bool { return result[i].TimestampMs < result[j].TimestampMs })
	return result, nil
}

// ListOlderThan retrieves up to limit snapshots strictly older than cutoff.
func (s *SnapshotStore) ListOlderThan(_ context.Context, cutoff int64, limit int) ([]*domain.Snapshot, error) {
	result := s.collect(func(snap *domain.Snapshot) bool { return snap.TimestampMs < cutoff })
	sort.Slice(result, func(i, j int) bool { return result[i].TimestampMs < result[j].TimestampMs })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteByIDs removes snapshots by ID. Missing IDs are ignored.
func (s *SnapshotStore) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, exists := s.data[id]; exists {
			delete(s.data, id)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteNotInTokens removes snapshots whose token ID is not in the set.
func (s *SnapshotStore) DeleteNotInTokens(_ context.Context, tokenIDs []string) (int64, error) {
	valid := make(map[string]struct{}, len(tokenIDs))
	for _, id := range tokenIDs {
		valid[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, snap := range s.data {
		if _, ok := valid[snap.TokenID]; !ok {
			delete(s.data, id)
			deleted++
		}
	}
	return deleted, nil
}

// Count returns the total number of live snapshots.
func (s *SnapshotStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

// LatestTimestamp returns the newest snapshot timestamp, 0 when empty.
func (s *SnapshotStore) LatestTimestamp(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest int64
	for _, snap := range s.data {
		if snap.TimestampMs > latest {
			latest = snap.TimestampMs
		}
	}
	return latest, nil
}

func (s *SnapshotStore) collect(keep func(*domain.Snapshot) bool) []*domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Snapshot
	for _, snap := range s.data {
		if keep(snap) {
			result = append(result, copySnapshot(snap))
		}
	}
	return result
}

func copySnapshot(s *domain.Snapshot) *domain.Snapshot {
	c := *s
	if s.MarketCapRank != nil {
		rank := *s.MarketCapRank
		c.MarketCapRank = &rank
	}
	if s.TwitterFollowers != nil {
		followers := *s.TwitterFollowers
		c.TwitterFollowers = &followers
	}
	return &c
}
