// Package api exposes the token, discovery, scoring and health endpoints
// over HTTP. Routing uses Go 1.22 ServeMux method patterns under /api/v1.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/discovery"
	"memescout/internal/observability"
	"memescout/internal/scoring"
	"memescout/internal/storage"
)

// Server wires the HTTP handlers to the core services.
type Server struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	archive   storage.ArchiveStore
	syncJobs  storage.SyncJobStore
	scoring   *scoring.Service
	discovery *discovery.Engine
	log       zerolog.Logger
	started   time.Time
}

// NewServer creates an API server.
func NewServer(
	tokens storage.TokenStore,
	snapshots storage.SnapshotStore,
	archive storage.ArchiveStore,
	syncJobs storage.SyncJobStore,
	scoringSvc *scoring.Service,
	discoveryEng *discovery.Engine,
	log zerolog.Logger,
) *Server {
	return &Server{
		tokens:    tokens,
		snapshots: snapshots,
		archive:   archive,
		syncJobs:  syncJobs,
		scoring:   scoringSvc,
		discovery: discoveryEng,
		log:       log.With().Str("component", "api").Logger(),
		started:   time.Now(),
	}
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/v1/tokens", s.route("/tokens", s.handleListTokens))
	mux.Handle("GET /api/v1/tokens/top", s.route("/tokens/top", s.handleTopTokens))
	mux.Handle("GET /api/v1/tokens/new-launches", s.route("/tokens/new-launches", s.handleNewLaunches))
	mux.Handle("GET /api/v1/tokens/{id}", s.route("/tokens/{id}", s.handleGetToken))
	mux.Handle("GET /api/v1/tokens/{id}/price-history", s.route("/tokens/{id}/price-history", s.handlePriceHistory))

	mux.Handle("GET /api/v1/discovery/trending", s.route("/discovery/trending", s.handleTrending))
	mux.Handle("GET /api/v1/discovery/moonshots", s.route("/discovery/moonshots", s.handleMoonshots))
	mux.Handle("GET /api/v1/discovery/safe", s.route("/discovery/safe", s.handleSafePicks))
	mux.Handle("GET /api/v1/discovery/fastest-growing", s.route("/discovery/fastest-growing", s.handleFastestGrowing))
	mux.Handle("GET /api/v1/discovery/search/{query}", s.route("/discovery/search", s.handleSearch))
	mux.Handle("GET /api/v1/discovery/tags/{tags}", s.route("/discovery/tags", s.handleByTags))

	mux.Handle("GET /api/v1/scoring/calculate/{tokenId}", s.route("/scoring/calculate", s.handleCalculateScore))
	mux.Handle("POST /api/v1/scoring/calculate-all", s.route("/scoring/calculate-all", s.handleCalculateAll))
	mux.Handle("GET /api/v1/scoring/risk/{tokenId}", s.route("/scoring/risk", s.handleRisk))

	mux.Handle("GET /health", s.route("/health", s.handleHealth))
	mux.Handle("GET /health/db", s.route("/health/db", s.handleHealthDB))
	mux.Handle("GET /health/sync-jobs", s.route("/health/sync-jobs", s.handleHealthSyncJobs))

	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

// route wraps a handler with request logging and latency metrics.
func (s *Server) route(name string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		observability.HTTPRequestDuration.
			WithLabelValues(name, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
		s.log.Debug().Str("route", name).Int("status", rec.status).
			Dur("elapsed", time.Since(start)).Msg("request served")
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
