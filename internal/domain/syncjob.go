package domain

// JobType identifies a scheduled maintenance job.
type JobType string

const (
	JobTokenSnapshot    JobType = "TOKEN_SNAPSHOT"
	JobSnapshotArchival JobType = "SNAPSHOT_ARCHIVAL"
	JobCleanup          JobType = "JOB_CLEANUP"
	JobStatistics       JobType = "DB_STATISTICS"
	JobIntegrityCheck   JobType = "INTEGRITY_CHECK"
)

// JobStatus is the lifecycle state of a sync job run.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// SyncJob records one run of a scheduled job. Created IN_PROGRESS at job
// start, updated to COMPLETED or FAILED exactly once, never mutated after
// reaching a terminal state. COMPLETED rows are retained for 30 days.
// Corresponds to data_sync_jobs table in PostgreSQL.
type SyncJob struct {
	ID             string // PRIMARY KEY, uuid
	JobType        JobType
	Status         JobStatus
	TokensCount    int
	SnapshotsAdded int
	Errors         string // failure message, empty on success

	StartedAt   int64  // Unix timestamp in milliseconds
	CompletedAt *int64 // set on terminal transition
	DurationMs  *int64 // wall time of the run
}

// Terminal reports whether the job has reached a final state.
func (j *SyncJob) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
