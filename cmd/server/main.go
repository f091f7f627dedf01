// Package main provides the unified memescout service: the HTTP API plus
// the recurring job scheduler (snapshot sync, archival, cleanup,
// statistics, integrity).
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/api"
	"memescout/internal/config"
	"memescout/internal/discovery"
	"memescout/internal/domain"
	"memescout/internal/logging"
	"memescout/internal/marketdata"
	"memescout/internal/scheduler"
	"memescout/internal/scoring"
	"memescout/internal/storage"
	chstore "memescout/internal/storage/clickhouse"
	"memescout/internal/storage/memory"
	"memescout/internal/storage/migrations"
	pgstore "memescout/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore
	archive   storage.ArchiveStore
	pools     storage.LiquidityPoolStore
	risks     storage.RiskStore
	syncJobs  storage.SyncJobStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info")
		boot.Fatal().Err(err).Msg("load configuration")
	}

	// Flags with env-var defaults
	httpAddr := flag.String("http-addr", cfg.HTTPAddr, "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.Parse()

	log := logging.New(cfg.LogLevel)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		log.Fatal().Msg("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	scoringSvc := scoring.NewService(
		stores.tokens, stores.snapshots, stores.pools, stores.risks,
		scoring.NewEngine(scoring.DefaultWeights()), log,
	)
	discoveryEng := discovery.NewEngine(stores.tokens, stores.snapshots, stores.pools, stores.risks, log)
	provider := marketdata.NewRandomProvider(cfg.ProviderSeed)

	sched := buildScheduler(cfg, stores, provider, log)

	apiServer := api.NewServer(
		stores.tokens, stores.snapshots, stores.archive, stores.syncJobs,
		scoringSvc, discoveryEng, log,
	)
	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: apiServer.Handler(),
	}

	// First signal starts graceful shutdown; a second signal or a 30s
	// stall forces exit.
	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}

		select {
		case sig := <-sigCh:
			log.Warn().Str("signal", sig.String()).Msg("second signal, forcing exit")
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn().Msg("graceful shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	go func() {
		log.Info().Str("addr", *httpAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			cancel()
		}
	}()

	err = sched.Run(ctx)
	close(done)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("scheduler")
	}
	log.Info().Msg("shutdown complete")
}

// buildScheduler registers every recurring job.
func buildScheduler(cfg config.Config, stores *allStores, provider marketdata.Provider, log zerolog.Logger) *scheduler.Scheduler {
	sched := scheduler.New(stores.syncJobs, log)

	syncJob := scheduler.NewSnapshotSync(stores.tokens, stores.snapshots, provider, log)
	sched.Register(scheduler.Job{
		Name:         "sync",
		Type:         domain.JobTokenSnapshot,
		Interval:     cfg.SyncInterval,
		Timeout:      cfg.JobTimeout,
		GuardOverlap: true,
		Run:          syncJob.Run,
	})

	archival := scheduler.NewArchival(stores.snapshots, stores.archive, cfg.ArchiveBatchSize, log)
	sched.Register(scheduler.Job{
		Name:     "archive",
		Type:     domain.JobSnapshotArchival,
		Interval: cfg.ArchivalInterval,
		Timeout:  cfg.ArchivalTimeout,
		Run:      archival.Run,
	})

	cleanup := scheduler.NewCleanup(stores.syncJobs, log)
	sched.Register(scheduler.Job{
		Name:     "cleanup",
		Type:     domain.JobCleanup,
		Interval: cfg.CleanupInterval,
		Timeout:  cfg.JobTimeout,
		Run:      cleanup.Run,
	})

	stats := scheduler.NewStatistics(stores.tokens, stores.snapshots, stores.archive, log)
	sched.Register(scheduler.Job{
		Name:     "stats",
		Type:     domain.JobStatistics,
		Interval: cfg.StatsInterval,
		Timeout:  cfg.JobTimeout,
		Run:      stats.Run,
	})

	integrity := scheduler.NewIntegrity(stores.tokens, stores.snapshots, log)
	sched.Register(scheduler.Job{
		Name:     "integrity",
		Type:     domain.JobIntegrityCheck,
		Interval: cfg.IntegrityInterval,
		Timeout:  cfg.JobTimeout,
		Run:      integrity.Run,
	})

	return sched
}

// createStores creates all required stores and runs migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			tokens:    memory.NewTokenStore(),
			snapshots: memory.NewSnapshotStore(),
			archive:   memory.NewArchiveStore(),
			pools:     memory.NewLiquidityPoolStore(),
			risks:     memory.NewRiskStore(),
			syncJobs:  memory.NewSyncJobStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	stores := &allStores{
		tokens:    pgstore.NewTokenStore(pool),
		snapshots: pgstore.NewSnapshotStore(pool),
		pools:     pgstore.NewLiquidityPoolStore(pool),
		risks:     pgstore.NewRiskStore(pool),
		syncJobs:  pgstore.NewSyncJobStore(pool),
		archive:   chstore.NewArchiveStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}
