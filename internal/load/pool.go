package load

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vietddude/occload/internal/core/domain"
	"github.com/vietddude/occload/internal/deadletter"
	"github.com/vietddude/occload/internal/metrics"
	"github.com/vietddude/occload/internal/retry"
)

// PoolConfig controls the worker pool.
type PoolConfig struct {
	Workers int
	Backoff retry.BackoffConfig
	Seed    int64 // 0 = nondeterministic jitter
}

// Summary aggregates task outcomes across the whole run.
type Summary struct {
	Succeeded    uint64
	DeadLettered uint64
	Cancelled    uint64
	Attempts     uint64
}

// Pool runs N workers, each pulling tasks and driving them through their full
// state machine (all retries included) before pulling the next. Workers never
// block on each other; the only shared state is the summary counters and the
// dead-letter sink.
type Pool struct {
	cfg  PoolConfig
	exec BatchExecutor
	sink deadletter.Sink
	log  *slog.Logger
	wg   sync.WaitGroup

	succeeded    atomic.Uint64
	deadLettered atomic.Uint64
	cancelled    atomic.Uint64
	attempts     atomic.Uint64
}

// NewPool creates a Pool.
func NewPool(cfg PoolConfig, exec BatchExecutor, sink deadletter.Sink, log *slog.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{cfg: cfg, exec: exec, sink: sink, log: log}
}

// Start launches the workers. The pool drains tasks until the channel closes
// or ctx is cancelled.
func (p *Pool) Start(ctx context.Context, tasks <-chan *domain.Task) {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i, tasks)
	}
}

// Wait blocks until all workers have stopped and returns the run summary.
func (p *Pool) Wait() Summary {
	p.wg.Wait()
	return Summary{
		Succeeded:    p.succeeded.Load(),
		DeadLettered: p.deadLettered.Load(),
		Cancelled:    p.cancelled.Load(),
		Attempts:     p.attempts.Load(),
	}
}

func (p *Pool) worker(ctx context.Context, id int, tasks <-chan *domain.Task) {
	defer p.wg.Done()

	log := p.log.With("worker_id", id)

	// Each worker gets its own seeded calculator so jitter sequences are
	// reproducible without serializing workers on a shared rng.
	seed := p.cfg.Seed
	if seed != 0 {
		seed += int64(id)
	}
	runner := NewRunner(p.exec, retry.NewCalculator(p.cfg.Backoff, seed), p.sink, log)

	log.Debug("Worker started")
	for {
		select {
		case <-ctx.Done():
			log.Debug("Worker stopped", "reason", "cancelled")
			return
		case task, ok := <-tasks:
			if !ok {
				log.Debug("Worker stopped", "reason", "drained")
				return
			}
			out := runner.Run(ctx, task)
			p.attempts.Add(uint64(out.Attempts))
			metrics.TasksTotal.WithLabelValues(string(out.State)).Inc()
			switch out.State {
			case domain.TaskSucceeded:
				p.succeeded.Add(1)
			case domain.TaskDeadLettered:
				p.deadLettered.Add(1)
			case domain.TaskCancelled:
				p.cancelled.Add(1)
			}
		}
	}
}
