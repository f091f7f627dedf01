// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// JobRunsTotal counts scheduled job runs by type and outcome.
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memescout_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"}, // status: completed, failed, skipped
	)

	// JobDuration tracks scheduled job run duration by type.
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "memescout_job_duration_seconds",
			Help:    "Duration of scheduled job runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4min
		},
		[]string{"job"},
	)

	// SnapshotsCreated counts snapshots written by the sync job.
	SnapshotsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memescout_snapshots_created_total",
		Help: "Total number of snapshots created by the sync job",
	})

	// SnapshotsArchived counts snapshots moved to the archive store.
	SnapshotsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memescout_snapshots_archived_total",
		Help: "Total number of snapshots archived",
	})

	// SnapshotsDeleted counts snapshots removed from the live store.
	SnapshotsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memescout_snapshots_deleted_total",
		Help: "Total number of snapshots deleted from the live store",
	})

	// TokensScored counts tokens whose meme score was recomputed.
	TokensScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memescout_tokens_scored_total",
		Help: "Total number of tokens scored",
	})

	// TokensTotal is the token count reported by the statistics job.
	TokensTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memescout_tokens_total",
		Help: "Number of tracked tokens",
	})

	// LiveSnapshotsTotal is the live snapshot count from the statistics job.
	LiveSnapshotsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memescout_live_snapshots_total",
		Help: "Number of snapshots in the live store",
	})

	// ArchivedSnapshotsTotal is the archive count from the statistics job.
	ArchivedSnapshotsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memescout_archived_snapshots_total",
		Help: "Number of snapshots in the archive store",
	})

	// HTTPRequestDuration tracks API request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "memescout_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
