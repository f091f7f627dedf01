package api

import (
	"net/http"
	"time"

	"memescout/internal/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}

// handleHealthDB reports store counts and sync recency. Store failures
// degrade the payload instead of erroring: a broken database is exactly
// when this endpoint is most useful.
func (s *Server) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := "ok"
	payload := map[string]any{}

	if n, err := s.tokens.Count(ctx); err != nil {
		status = "degraded"
		payload["tokensError"] = err.Error()
	} else {
		payload["tokens"] = n
	}

	if n, err := s.snapshots.Count(ctx); err != nil {
		status = "degraded"
		payload["snapshotsError"] = err.Error()
	} else {
		payload["snapshots"] = n
	}

	if n, err := s.archive.Count(ctx); err != nil {
		status = "degraded"
		payload["archivedError"] = err.Error()
	} else {
		payload["archived"] = n
	}

	if ts, err := s.snapshots.LatestTimestamp(ctx); err != nil {
		status = "degraded"
		payload["latestSnapshotError"] = err.Error()
	} else {
		payload["latestSnapshotMs"] = ts
	}

	dayAgo := time.Now().Add(-24 * time.Hour).UnixMilli()
	if n, err := s.syncJobs.CountCompletedSince(ctx, dayAgo); err != nil {
		status = "degraded"
		payload["syncsLast24hError"] = err.Error()
	} else {
		payload["syncsLast24h"] = n
	}

	payload["status"] = status
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (s *Server) handleHealthSyncJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.syncJobs.ListRecent(r.Context(), 10)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	var completed, failed, inProgress int
	var totalDuration int64
	var durations int
	for _, j := range jobs {
		switch j.Status {
		case domain.JobCompleted:
			completed++
		case domain.JobFailed:
			failed++
		case domain.JobInProgress:
			inProgress++
		}
		if j.DurationMs != nil {
			totalDuration += *j.DurationMs
			durations++
		}
	}

	var avgDuration int64
	if durations > 0 {
		avgDuration = totalDuration / int64(durations)
	}

	items := make([]syncJobView, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, toSyncJobView(j))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
		"summary": map[string]any{
			"completed":     completed,
			"failed":        failed,
			"inProgress":    inProgress,
			"avgDurationMs": avgDuration,
		},
	})
}
