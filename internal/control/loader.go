package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/occload/internal/core/config"
	"github.com/vietddude/occload/internal/core/domain"
	"github.com/vietddude/occload/internal/deadletter"
	"github.com/vietddude/occload/internal/health"
	redisclient "github.com/vietddude/occload/internal/infra/redis"
	"github.com/vietddude/occload/internal/infra/storage/postgres"
	"github.com/vietddude/occload/internal/load"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitDeadLettered = 1
	ExitCancelled    = 2
)

// MigrationsDir is where goose looks for the dead_letters migration,
// relative to the working directory.
var MigrationsDir = "migrations"

// Loader owns the whole run: store connections, dead-letter sink, health
// server and the worker pool.
type Loader struct {
	cfg     *config.AppConfig
	db      *postgres.DB
	redis   *redisclient.Client
	writer  *deadletter.Writer
	hserver *health.Server
	columns []domain.Column
	log     *slog.Logger
}

// NewLoader wires all dependencies from config.
func NewLoader(cfg *config.AppConfig) (*Loader, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is required")
	}
	if cfg.Target.Table == "" {
		return nil, fmt.Errorf("target.table is required")
	}

	log := slog.Default()
	ctx := context.Background()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	columns, err := db.TableColumns(ctx, cfg.Target.Schema, cfg.Target.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Resolved target table",
		"schema", cfg.Target.Schema,
		"table", cfg.Target.Table,
		"columns", len(columns),
	)

	var (
		sink        deadletter.Sink
		redisClient *redisclient.Client
	)
	switch cfg.DeadLetter.Backend {
	case "postgres":
		if err := db.Migrate(MigrationsDir); err != nil {
			_ = db.Close()
			return nil, err
		}
		sink = postgres.NewDeadLetterRepo(db)
	case "redis":
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		sink = redisclient.NewDeadLetterRepo(redisClient, cfg.Target.Table)
	default:
		sink = deadletter.NewMemorySink()
	}
	log.Info("Dead-letter sink ready", "backend", cfg.DeadLetter.Backend)

	return &Loader{
		cfg:     cfg,
		db:      db,
		redis:   redisClient,
		writer:  deadletter.NewWriter(sink, cfg.DeadLetter.Buffer, log),
		hserver: health.NewServer(db, cfg.Server.Port),
		columns: columns,
		log:     log,
	}, nil
}

// Run drives the load test until the configured duration elapses or ctx is
// cancelled, then returns the aggregated summary.
func (l *Loader) Run(ctx context.Context) (load.Summary, error) {
	go func() {
		if err := l.hserver.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.log.Error("Health server failed", "error", err)
		}
	}()

	l.writer.Start()

	gen := load.NewGenerator(l.columns, l.cfg.Retry.RandomSeed)
	source := load.NewSource(gen, load.SourceConfig{
		Table:        l.cfg.Target.Table,
		BatchSize:    l.cfg.Load.BatchSize,
		MaxAttempts:  l.cfg.Load.MaxAttempts,
		TaskDeadline: l.cfg.Load.TaskDeadline.Std(),
		Duration:     l.cfg.Load.Duration.Std(),
	})

	inserter := postgres.NewBatchInserter(l.db, l.cfg.Target.Schema, l.columns)
	pool := load.NewPool(load.PoolConfig{
		Workers: l.cfg.Load.Threads,
		Backoff: l.cfg.Retry.Backoff(),
		Seed:    l.cfg.Retry.RandomSeed,
	}, inserter, l.writer, l.log)

	l.log.Info("Load test starting",
		"threads", l.cfg.Load.Threads,
		"batch_size", l.cfg.Load.BatchSize,
		"duration", l.cfg.Load.Duration.Std(),
		"max_attempts", l.cfg.Load.MaxAttempts,
		"jitter", l.cfg.Retry.JitterStrategy,
	)

	start := time.Now()
	pool.Start(ctx, source.Run(ctx))
	sum := pool.Wait()

	// Workers are done; flush buffered dead letters before reporting.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.writer.Stop(flushCtx); err != nil {
		l.log.Error("Dead-letter flush incomplete", "error", err)
	}

	l.log.Info("Load test finished",
		"elapsed", time.Since(start).Round(time.Second),
		"succeeded", sum.Succeeded,
		"dead_lettered", sum.DeadLettered,
		"cancelled", sum.Cancelled,
		"attempts", sum.Attempts,
	)
	return sum, nil
}

// Stop shuts down the health server and store connections.
func (l *Loader) Stop(ctx context.Context) error {
	var firstErr error
	if err := l.hserver.Stop(ctx); err != nil {
		firstErr = err
	}
	if l.redis != nil {
		if err := l.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := l.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ExitCode maps a run summary to the process exit code. Operator-initiated
// cancellation takes precedence so an interrupted run is distinguishable from
// one that genuinely exhausted its retries.
func ExitCode(sum load.Summary) int {
	switch {
	case sum.Cancelled > 0:
		return ExitCancelled
	case sum.DeadLettered > 0:
		return ExitDeadLettered
	default:
		return ExitOK
	}
}
