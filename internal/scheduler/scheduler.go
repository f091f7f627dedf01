// Package scheduler runs the recurring maintenance jobs: snapshot sync,
// archival, sync-job cleanup, statistics and integrity checking. Each job
// runs on its own timer; a slow job never blocks its siblings, and no
// job's failure crashes the process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"memescout/internal/domain"
	"memescout/internal/observability"
	"memescout/internal/storage"
)

// staleRunFactor defines when an IN_PROGRESS row stops counting as a live
// overlap: a run older than staleRunFactor times the job interval is
// assumed crashed and ignored by the overlap guard.
const staleRunFactor = 3

// Result carries the counters a job reports into its SyncJob row.
type Result struct {
	TokensCount    int
	SnapshotsAdded int
}

// Job is one schedulable unit of work.
type Job struct {
	Name     string
	Type     domain.JobType
	Interval time.Duration
	// Timeout bounds a single run so a hung job cannot run away.
	Timeout time.Duration
	// GuardOverlap additionally refuses to start while a fresh
	// IN_PROGRESS row of the same type exists in the job table. Used by
	// snapshot sync, where overlapping runs would double-count.
	GuardOverlap bool
	Run          func(ctx context.Context) (Result, error)
}

// Scheduler runs registered jobs on independent tickers.
type Scheduler struct {
	jobs     []Job
	syncJobs storage.SyncJobStore
	log      zerolog.Logger

	mu      sync.Mutex
	running map[string]bool
}

// New creates a scheduler with job-run bookkeeping in the given store.
func New(syncJobs storage.SyncJobStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		syncJobs: syncJobs,
		log:      log.With().Str("component", "scheduler").Logger(),
		running:  make(map[string]bool),
	}
}

// Register adds a job. Must be called before Run.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run starts one ticker goroutine per job and blocks until the context is
// cancelled. Each job also runs once immediately on start.
func (s *Scheduler) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	for _, job := range s.jobs {
		eg.Go(func() error {
			s.log.Info().Str("job", job.Name).Dur("interval", job.Interval).Msg("job scheduled")

			s.execute(ctx, job)

			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					s.execute(ctx, job)
				}
			}
		})
	}

	return eg.Wait()
}

// RunOnce executes the named job a single time. Used by the one-shot CLI.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name == name {
			s.execute(ctx, job)
			return nil
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

// execute runs one job iteration with skip-if-running, bookkeeping, a
// duration bound and panic isolation. It never returns an error: failures
// are recorded in the SyncJob row and logged.
func (s *Scheduler) execute(ctx context.Context, job Job) {
	s.mu.Lock()
	if s.running[job.Name] {
		s.mu.Unlock()
		s.log.Warn().Str("job", job.Name).Msg("previous run still active, skipping")
		observability.JobRunsTotal.WithLabelValues(job.Name, "skipped").Inc()
		return
	}
	s.running[job.Name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running[job.Name] = false
		s.mu.Unlock()
	}()

	if job.GuardOverlap {
		staleAfter := time.Now().Add(-staleRunFactor * job.Interval).UnixMilli()
		busy, err := s.syncJobs.HasRunningJob(ctx, job.Type, staleAfter)
		if err != nil {
			s.log.Error().Err(err).Str("job", job.Name).Msg("overlap check failed")
			observability.JobRunsTotal.WithLabelValues(job.Name, "failed").Inc()
			return
		}
		if busy {
			s.log.Warn().Str("job", job.Name).Msg("concurrent run detected, skipping")
			observability.JobRunsTotal.WithLabelValues(job.Name, "skipped").Inc()
			return
		}
	}

	record := &domain.SyncJob{
		ID:        uuid.NewString(),
		JobType:   job.Type,
		Status:    domain.JobInProgress,
		StartedAt: time.Now().UnixMilli(),
	}
	if err := s.syncJobs.Insert(ctx, record); err != nil {
		s.log.Error().Err(err).Str("job", job.Name).Msg("create job record failed")
		observability.JobRunsTotal.WithLabelValues(job.Name, "failed").Inc()
		return
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if job.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.runIsolated(runCtx, job)
	duration := time.Since(start)
	observability.JobDuration.WithLabelValues(job.Name).Observe(duration.Seconds())

	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name).Dur("duration", duration).Msg("job failed")
		observability.JobRunsTotal.WithLabelValues(job.Name, "failed").Inc()
		if ferr := s.syncJobs.Fail(ctx, record.ID, err.Error(), duration.Milliseconds()); ferr != nil {
			s.log.Error().Err(ferr).Str("job", job.Name).Msg("record job failure failed")
		}
		return
	}

	if cerr := s.syncJobs.Complete(ctx, record.ID, result.TokensCount, result.SnapshotsAdded, duration.Milliseconds()); cerr != nil {
		s.log.Error().Err(cerr).Str("job", job.Name).Msg("record job completion failed")
	}
	observability.JobRunsTotal.WithLabelValues(job.Name, "completed").Inc()
	s.log.Info().Str("job", job.Name).
		Int("tokens", result.TokensCount).
		Int("snapshots", result.SnapshotsAdded).
		Dur("duration", duration).
		Msg("job completed")
}

// runIsolated converts a panicking job into an error.
func (s *Scheduler) runIsolated(ctx context.Context, job Job) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}
