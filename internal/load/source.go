package load

import (
	"context"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
)

// SourceConfig controls task production.
type SourceConfig struct {
	Table        string
	BatchSize    int
	MaxAttempts  int
	TaskDeadline time.Duration // 0 = no per-task deadline
	Duration     time.Duration // 0 = run until cancelled
}

// Source turns generated batches into tasks for the worker pool.
type Source struct {
	gen *Generator
	cfg SourceConfig
}

// NewSource creates a Source.
func NewSource(gen *Generator, cfg SourceConfig) *Source {
	return &Source{gen: gen, cfg: cfg}
}

// Run produces tasks until the configured duration elapses or ctx is
// cancelled, then closes the returned channel.
func (s *Source) Run(ctx context.Context) <-chan *domain.Task {
	tasks := make(chan *domain.Task)

	var stop <-chan time.Time
	if s.cfg.Duration > 0 {
		timer := time.NewTimer(s.cfg.Duration)
		stop = timer.C
	}

	go func() {
		defer close(tasks)
		for {
			task := domain.NewTask(
				s.cfg.Table,
				s.gen.Batch(s.cfg.BatchSize),
				s.cfg.MaxAttempts,
				s.cfg.TaskDeadline,
			)
			select {
			case tasks <- task:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return tasks
}
