package load

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/occload/internal/core/domain"
	"github.com/vietddude/occload/internal/deadletter"
	"github.com/vietddude/occload/internal/metrics"
	"github.com/vietddude/occload/internal/retry"
)

// BatchExecutor submits one batch of rows to the store. The store's connection
// setup and statement construction live behind this interface; the runner only
// consumes the synchronous call and the structured error it returns.
type BatchExecutor interface {
	ExecuteBatch(ctx context.Context, table string, rows []domain.Row) error
}

// ErrTaskDeadline marks a task that ran out of wall-clock budget.
var ErrTaskDeadline = errors.New("task deadline exceeded")

// Outcome is the terminal result of driving one task.
type Outcome struct {
	TaskID   string
	State    domain.TaskState
	Attempts int // attempts actually executed
	Class    retry.Classification
	Err      error
}

// Runner drives a single task through attempts, backoff sleeps and its
// terminal transition. One Runner per worker; it holds the worker's own
// backoff calculator so no retry state is shared across workers.
type Runner struct {
	exec    BatchExecutor
	backoff *retry.Calculator
	sink    deadletter.Sink
	log     *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(
	exec BatchExecutor,
	backoff *retry.Calculator,
	sink deadletter.Sink,
	log *slog.Logger,
) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{exec: exec, backoff: backoff, sink: sink, log: log}
}

// Run drives task to one of its terminal states: Succeeded, DeadLettered or
// Cancelled. The task is owned by the calling worker for the whole run.
func (r *Runner) Run(ctx context.Context, task *domain.Task) Outcome {
	for {
		// Cancellation is checked before every new attempt.
		select {
		case <-ctx.Done():
			return r.cancel(task, task.Attempt-1)
		default:
		}

		if task.Expired(time.Now()) {
			class := retry.Classification{Kind: retry.KindFatal, Detail: ErrTaskDeadline.Error()}
			return r.deadLetter(ctx, task, task.Attempt-1, class, ErrTaskDeadline)
		}

		task.State = domain.TaskExecuting
		start := time.Now()
		err := r.exec.ExecuteBatch(ctx, task.Table, task.Rows)
		metrics.InsertLatency.Observe(time.Since(start).Seconds())

		if err == nil {
			task.State = domain.TaskSucceeded
			metrics.AttemptsTotal.WithLabelValues("success").Inc()
			metrics.RowsInserted.Add(float64(len(task.Rows)))
			r.log.Debug("Batch inserted",
				"task_id", task.ID,
				"attempt", task.Attempt,
				"rows", len(task.Rows),
				"outcome", "success",
			)
			return Outcome{TaskID: task.ID, State: domain.TaskSucceeded, Attempts: task.Attempt}
		}

		// The driver surfaces shutdown as a context error; the interrupted
		// attempt does not count towards the budget.
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return r.cancel(task, task.Attempt-1)
		}

		task.LastError = err.Error()
		class := retry.Classify(err)
		metrics.AttemptsTotal.WithLabelValues(class.Kind.String()).Inc()

		if class.Retryable() && task.Attempt < task.MaxAttempts {
			delay := r.backoff.Delay(task.Attempt)
			metrics.RetryDelay.Observe(delay.Seconds())
			r.log.Info("Batch insert failed, retrying",
				"task_id", task.ID,
				"attempt", task.Attempt,
				"classification", class.Kind.String(),
				"code", class.Code,
				"delay", delay,
				"outcome", "retry",
			)

			task.State = domain.TaskSleeping
			select {
			case <-ctx.Done():
				// Sleep interrupted by shutdown: the attempt just executed
				// counts, the retry never started.
				return r.cancel(task, task.Attempt)
			case <-time.After(delay):
			}

			task.Attempt++
			task.State = domain.TaskPending
			continue
		}

		return r.deadLetter(ctx, task, task.Attempt, class, err)
	}
}

func (r *Runner) cancel(task *domain.Task, attempts int) Outcome {
	task.State = domain.TaskCancelled
	r.log.Info("Task cancelled",
		"task_id", task.ID,
		"attempts", attempts,
		"outcome", "cancelled",
	)
	return Outcome{TaskID: task.ID, State: domain.TaskCancelled, Attempts: attempts}
}

func (r *Runner) deadLetter(
	ctx context.Context,
	task *domain.Task,
	attempts int,
	class retry.Classification,
	cause error,
) Outcome {
	task.State = domain.TaskDeadLettered

	rec := &domain.DeadLetterRecord{
		ID:             uuid.New().String(),
		TaskID:         task.ID,
		Table:          task.Table,
		RowCount:       len(task.Rows),
		Attempts:       attempts,
		Classification: class.Kind.String(),
		Code:           class.Code,
		Error:          cause.Error(),
		TaskCreatedAt:  task.CreatedAt,
		RecordedAt:     time.Now(),
	}
	if err := r.sink.Record(ctx, rec); err != nil {
		r.log.Error("Failed to hand task to dead-letter sink",
			"task_id", task.ID,
			"error", err,
		)
	}
	metrics.DeadLettersTotal.Inc()

	r.log.Warn("Task dead-lettered",
		"task_id", task.ID,
		"attempt", attempts,
		"classification", class.Kind.String(),
		"code", class.Code,
		"error", cause,
		"outcome", "dead_lettered",
	)
	return Outcome{
		TaskID:   task.ID,
		State:    domain.TaskDeadLettered,
		Attempts: attempts,
		Class:    class,
		Err:      cause,
	}
}
