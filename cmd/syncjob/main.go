// Package main runs one named maintenance job once and exits. Intended
// for external cron schedules and manual backfills.
//
// Usage: syncjob -job sync|archive|cleanup|stats|integrity
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"memescout/internal/config"
	"memescout/internal/domain"
	"memescout/internal/logging"
	"memescout/internal/marketdata"
	"memescout/internal/scheduler"
	"memescout/internal/storage"
	chstore "memescout/internal/storage/clickhouse"
	"memescout/internal/storage/memory"
	"memescout/internal/storage/migrations"
	pgstore "memescout/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info")
		boot.Fatal().Err(err).Msg("load configuration")
	}

	jobName := flag.String("job", "", "Job to run: sync, archive, cleanup, stats, integrity")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.Parse()

	log := logging.New(cfg.LogLevel)

	if *jobName == "" {
		fmt.Fprintln(os.Stderr, "usage: syncjob -job sync|archive|cleanup|stats|integrity")
		os.Exit(2)
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		log.Fatal().Msg("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx := context.Background()

	var (
		tokens    storage.TokenStore
		snapshots storage.SnapshotStore
		archive   storage.ArchiveStore
		syncJobs  storage.SyncJobStore
	)
	if *useMemory {
		tokens = memory.NewTokenStore()
		snapshots = memory.NewSnapshotStore()
		archive = memory.NewArchiveStore()
		syncJobs = memory.NewSyncJobStore()
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("run postgres migrations")
		}

		chConn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect clickhouse")
		}
		defer chConn.Close()

		tokens = pgstore.NewTokenStore(pool)
		snapshots = pgstore.NewSnapshotStore(pool)
		syncJobs = pgstore.NewSyncJobStore(pool)
		archive = chstore.NewArchiveStore(chConn)
	}

	sched := scheduler.New(syncJobs, log)

	syncJob := scheduler.NewSnapshotSync(tokens, snapshots, marketdata.NewRandomProvider(cfg.ProviderSeed), log)
	sched.Register(scheduler.Job{
		Name: "sync", Type: domain.JobTokenSnapshot,
		Interval: cfg.SyncInterval, Timeout: cfg.JobTimeout, GuardOverlap: true,
		Run: syncJob.Run,
	})
	archival := scheduler.NewArchival(snapshots, archive, cfg.ArchiveBatchSize, log)
	sched.Register(scheduler.Job{
		Name: "archive", Type: domain.JobSnapshotArchival,
		Interval: cfg.ArchivalInterval, Timeout: cfg.ArchivalTimeout,
		Run: archival.Run,
	})
	cleanup := scheduler.NewCleanup(syncJobs, log)
	sched.Register(scheduler.Job{
		Name: "cleanup", Type: domain.JobCleanup,
		Interval: cfg.CleanupInterval, Timeout: cfg.JobTimeout,
		Run: cleanup.Run,
	})
	stats := scheduler.NewStatistics(tokens, snapshots, archive, log)
	sched.Register(scheduler.Job{
		Name: "stats", Type: domain.JobStatistics,
		Interval: cfg.StatsInterval, Timeout: cfg.JobTimeout,
		Run: stats.Run,
	})
	integrity := scheduler.NewIntegrity(tokens, snapshots, log)
	sched.Register(scheduler.Job{
		Name: "integrity", Type: domain.JobIntegrityCheck,
		Interval: cfg.IntegrityInterval, Timeout: cfg.JobTimeout,
		Run: integrity.Run,
	})

	if err := sched.RunOnce(ctx, *jobName); err != nil {
		log.Fatal().Err(err).Str("job", *jobName).Msg("run job")
	}
}
