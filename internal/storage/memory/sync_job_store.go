package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

// SyncJobStore is an in-memory implementation of storage.SyncJobStore.
type SyncJobStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SyncJob // keyed by job ID
}

// NewSyncJobStore creates a new in-memory sync job store.
func NewSyncJobStore() *SyncJobStore {
	return &SyncJobStore{
		data: make(map[string]*domain.SyncJob),
	}
}

// Verify interface compliance at compile time.
var _ storage.SyncJobStore = (*SyncJobStore)(nil)

// Insert adds a new job row. Returns ErrDuplicateKey if the ID exists.
func (s *SyncJobStore) Insert(_ context.Context, j *domain.SyncJob) error {
	if j == nil || j.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[j.ID]; exists {
		return storage.ErrDuplicateKey
	}
	c := *j
	s.data[j.ID] = &c
	return nil
}

// Get retrieves a job by ID. Returns ErrNotFound if not exists.
func (s *SyncJobStore) Get(_ context.Context, id string) (*domain.SyncJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	c := *j
	return &c, nil
}

// Complete transitions a job to COMPLETED with its run counters.
func (s *SyncJobStore) Complete(_ context.Context, id string, tokensCount, snapshotsAdded int, durationMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}
	if j.Terminal() {
		return storage.ErrInvalidInput
	}

	now := time.Now().UnixMilli()
	j.Status = domain.JobCompleted
	j.TokensCount = tokensCount
	j.SnapshotsAdded = snapshotsAdded
	j.CompletedAt = &now
	j.DurationMs = &durationMs
	return nil
}

// Fail transitions a job to FAILED with the captured error message.
func (s *SyncJobStore) Fail(_ context.Context, id string, errMsg string, durationMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}
	if j.Terminal() {
		return storage.ErrInvalidInput
	}

	now := time.Now().UnixMilli()
	j.Status = domain.JobFailed
	j.Errors = errMsg
	j.CompletedAt = &now
	j.DurationMs = &durationMs
	return nil
}

// ListRecent retrieves the newest job rows, newest started first.
func (s *SyncJobStore) ListRecent(_ context.Context, limit int) ([]*domain.SyncJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SyncJob, 0, len(s.data))
	for _, j := range s.data {
		c := *j
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt != result[j].StartedAt {
			return result[i].StartedAt > result[j].StartedAt
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// HasRunningJob reports whether a fresh IN_PROGRESS row of the type exists.
func (s *SyncJobStore) HasRunningJob(_ context.Context, jobType domain.JobType, staleAfter int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.data {
		if j.JobType == jobType && j.Status == domain.JobInProgress && j.StartedAt > staleAfter {
			return true, nil
		}
	}
	return false, nil
}

// CountCompletedSince counts COMPLETED jobs with completedAt >= since.
func (s *SyncJobStore) CountCompletedSince(_ context.Context, since int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, j := range s.data {
		if j.Status == domain.JobCompleted && j.CompletedAt != nil && *j.CompletedAt >= since {
			count++
		}
	}
	return count, nil
}

// DeleteCompletedBefore removes COMPLETED jobs that finished before cutoff.
func (s *SyncJobStore) DeleteCompletedBefore(_ context.Context, cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, j := range s.data {
		if j.Status == domain.JobCompleted && j.CompletedAt != nil && *j.CompletedAt < cutoff {
			delete(s.data, id)
			deleted++
		}
	}
	return deleted, nil
}
