package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskState tracks a task through its lifecycle.
type TaskState string

const (
	TaskPending      TaskState = "pending"
	TaskExecuting    TaskState = "executing"
	TaskSleeping     TaskState = "sleeping"
	TaskSucceeded    TaskState = "succeeded"
	TaskDeadLettered TaskState = "dead_lettered"
	TaskCancelled    TaskState = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s TaskState) Terminal() bool {
	return s == TaskSucceeded || s == TaskDeadLettered || s == TaskCancelled
}

// Task is one unit of batch-insert work. A task is owned exclusively by the
// worker currently driving it and is never shared across workers.
type Task struct {
	ID          string
	Table       string
	Rows        []Row
	Attempt     int // 1-based, incremented only after a completed failed attempt
	MaxAttempts int
	CreatedAt   time.Time
	Deadline    time.Time // zero = no per-task deadline
	State       TaskState
	LastError   string
}

// NewTask creates a pending task for one batch of rows.
// taskDeadline <= 0 disables the overall deadline.
func NewTask(table string, rows []Row, maxAttempts int, taskDeadline time.Duration) *Task {
	now := time.Now()
	t := &Task{
		ID:          uuid.New().String(),
		Table:       table,
		Rows:        rows,
		Attempt:     1,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		State:       TaskPending,
	}
	if taskDeadline > 0 {
		t.Deadline = now.Add(taskDeadline)
	}
	return t
}

// Expired reports whether the per-task deadline has passed.
func (t *Task) Expired(now time.Time) bool {
	return !t.Deadline.IsZero() && now.After(t.Deadline)
}
