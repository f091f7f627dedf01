package memory

import (
	"context"
	"sort"
	"sync"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// ArchiveStore is an in-memory implementation of storage.ArchiveStore.
type ArchiveStore struct {
	mu   sync.RWMutex
	data map[archiveKey]*domain.ArchivedSnapshot
}

type archiveKey struct {
	tokenID     string
	timestampMs int64
}

// NewArchiveStore creates a new in-memory archive store.
func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{
		data: make(map[archiveKey]*domain.ArchivedSnapshot),
	}
}

// Verify interface compliance at compile time.
var _ storage.ArchiveStore = (*ArchiveStore)(nil)

// InsertBatch adds snapshots to the archive, skipping rows whose
// (token_id, timestamp_ms) already exist.
func (s *ArchiveStore) InsertBatch(_ context.Context, snapshots []*domain.ArchivedSnapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, snap := range snapshots {
		if snap == nil || snap.TokenID == "" {
			return inserted, storage.ErrInvalidInput
		}
		k := archiveKey{snap.TokenID, snap.TimestampMs}
		if _, exists := s.data[k]; exists {
			continue
		}
		c := *snap
		s.data[k] = &c
		inserted++
	}
	return inserted, nil
}

// ListByToken retrieves archived snapshots for a token, oldest first.
func (s *ArchiveStore) ListByToken(_ context.Context, tokenID string) ([]*domain.ArchivedSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ArchivedSnapshot
	for _, snap := range s.data {
		if snap.TokenID == tokenID {
			c := *snap
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimestampMs < result[j].TimestampMs })
	return result, nil
}

// Count returns the total number of archived snapshots.
func (s *ArchiveStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}
