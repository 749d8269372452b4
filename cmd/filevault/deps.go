package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/config"
	"github.com/dmitrymomot/filevault/internal/metrics"
	"github.com/dmitrymomot/filevault/internal/repository"
	"github.com/dmitrymomot/filevault/internal/worker"
	"github.com/dmitrymomot/filevault/pkg/db"
	"github.com/dmitrymomot/filevault/pkg/job"
	"github.com/dmitrymomot/filevault/pkg/redis"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

// core holds the dependencies every long-running subcommand needs.
type core struct {
	pool     *pgxpool.Pool
	blobs    storage.Storage
	repo     *repository.Files
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func openCore(ctx context.Context, e *env) (*core, error) {
	pool, err := db.Connect(ctx, e.cfg.DB)
	if err != nil {
		return nil, err
	}

	if e.cfg.DB.AutoMigrate {
		if err := migrate(ctx, pool, e); err != nil {
			pool.Close()
			return nil, err
		}
	}

	blobs, err := storage.New(e.cfg.Storage)
	if err != nil {
		pool.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &core{
		pool:     pool,
		blobs:    blobs,
		repo:     repository.NewFiles(pool),
		registry: reg,
		metrics:  metrics.New(reg),
	}, nil
}

func (c *core) workerOptions(e *env) []job.Option {
	return worker.Options(e.cfg.Worker, worker.Deps{
		Records: c.repo,
		Blobs:   c.blobs,
		Metrics: c.metrics,
		Logger:  e.log,
	})
}

// sessions is the configured session store. client is nil for the memory store.
type sessions struct {
	store  auth.Store
	client goredis.UniversalClient
}

func openSessions(ctx context.Context, cfg *config.Config) (*sessions, error) {
	if cfg.Session.Store == config.SessionStoreMemory {
		return &sessions{store: auth.NewMemoryStore(cfg.Session.TTL, cfg.Session.MaxEntries)}, nil
	}

	client, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return &sessions{store: auth.NewRedisStore(client, cfg.Session.TTL), client: client}, nil
}

// healthcheck pings redis. The memory store is always reachable.
func (s *sessions) healthcheck() func(context.Context) error {
	if s.client == nil {
		return func(context.Context) error { return nil }
	}
	return redis.Healthcheck(s.client)
}

func (s *sessions) shutdown() func(context.Context) error {
	if s.client == nil {
		return func(context.Context) error { return nil }
	}
	return redis.Shutdown(s.client)
}

// migrate applies the files schema and River's tables.
func migrate(ctx context.Context, pool *pgxpool.Pool, e *env) error {
	if err := repository.Migrate(ctx, pool, e.cfg.DB.MigrationsTable, e.log); err != nil {
		return err
	}
	if err := job.Migrate(ctx, pool, e.log); err != nil {
		return err
	}
	e.log.InfoContext(ctx, "migrations applied")
	return nil
}

var errTokenNeedsRedis = errors.New("token: SESSION_STORE=memory sessions do not outlive the process")

func logClose(ctx context.Context, log *slog.Logger, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		log.ErrorContext(ctx, "shutdown failed", slog.String("component", name), slog.Any("error", err))
	}
}

// closers releases what startup opened so far when a later step fails.
type closers []closer

type closer struct {
	name string
	fn   func(context.Context) error
}

func (cs *closers) add(name string, fn func(context.Context) error) {
	*cs = append(*cs, closer{name: name, fn: fn})
}

// close runs every closer, newest first.
func (cs closers) close(ctx context.Context, log *slog.Logger) {
	for i := len(cs) - 1; i >= 0; i-- {
		logClose(ctx, log, cs[i].name, cs[i].fn)
	}
}
