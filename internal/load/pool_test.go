package load

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
	"github.com/vietddude/occload/internal/deadletter"
	"github.com/vietddude/occload/internal/retry"
)

func fastBackoff() retry.BackoffConfig {
	return retry.BackoffConfig{
		BaseDelay:    1 * time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		GrowthFactor: 2,
		Jitter:       retry.JitterNone,
	}
}

func feedTasks(tasks []*domain.Task) <-chan *domain.Task {
	ch := make(chan *domain.Task, len(tasks))
	for _, task := range tasks {
		ch <- task
	}
	close(ch)
	return ch
}

func TestPool_ProcessesAllTasks(t *testing.T) {
	exec := &scriptedExec{}
	sink := deadletter.NewMemorySink()
	pool := NewPool(PoolConfig{Workers: 4, Backoff: fastBackoff(), Seed: 1}, exec, sink, nil)

	var tasks []*domain.Task
	for i := 0; i < 20; i++ {
		tasks = append(tasks, newTask(5))
	}

	pool.Start(context.Background(), feedTasks(tasks))
	sum := pool.Wait()

	if sum.Succeeded != 20 {
		t.Errorf("succeeded = %d, want 20", sum.Succeeded)
	}
	if sum.DeadLettered != 0 || sum.Cancelled != 0 {
		t.Errorf("unexpected failures: %+v", sum)
	}
	if sum.Attempts != 20 {
		t.Errorf("attempts = %d, want 20", sum.Attempts)
	}
}

// tableExec fails fatally for one table and succeeds for everything else.
type tableExec struct {
	badTable string
}

func (e *tableExec) ExecuteBatch(ctx context.Context, table string, rows []domain.Row) error {
	if table == e.badTable {
		return errPermission
	}
	return nil
}

func TestPool_MixedOutcomes(t *testing.T) {
	exec := &tableExec{badTable: "accounts"}
	sink := deadletter.NewMemorySink()
	pool := NewPool(PoolConfig{Workers: 3, Backoff: fastBackoff(), Seed: 1}, exec, sink, nil)

	var tasks []*domain.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, domain.NewTask("orders", []domain.Row{{i}}, 5, 0))
	}
	for i := 0; i < 3; i++ {
		tasks = append(tasks, domain.NewTask("accounts", []domain.Row{{i}}, 5, 0))
	}

	pool.Start(context.Background(), feedTasks(tasks))
	sum := pool.Wait()

	if sum.Succeeded != 10 {
		t.Errorf("succeeded = %d, want 10", sum.Succeeded)
	}
	if sum.DeadLettered != 3 {
		t.Errorf("dead lettered = %d, want 3", sum.DeadLettered)
	}
	if sink.Count() != 3 {
		t.Errorf("sink count = %d, want 3", sink.Count())
	}
}

func TestPool_CancelledBeforeStart(t *testing.T) {
	exec := &scriptedExec{}
	sink := deadletter.NewMemorySink()
	pool := NewPool(PoolConfig{Workers: 2, Backoff: fastBackoff(), Seed: 1}, exec, sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var tasks []*domain.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, newTask(5))
	}

	pool.Start(ctx, feedTasks(tasks))
	sum := pool.Wait()

	if sum.Succeeded != 0 {
		t.Errorf("succeeded = %d, want 0 after cancellation", sum.Succeeded)
	}
	if exec.callCount() != 0 {
		t.Errorf("executor calls = %d, want 0", exec.callCount())
	}
}
