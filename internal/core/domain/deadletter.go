package domain

import "time"

// DeadLetterRecord is the immutable snapshot of a task that reached a failing
// terminal state. Created exactly once per dead-lettered task, appended to the
// sink, never mutated or deleted by this process.
type DeadLetterRecord struct {
	ID             string    `json:"id"`
	TaskID         string    `json:"task_id"`
	Table          string    `json:"table"`
	RowCount       int       `json:"row_count"`
	Attempts       int       `json:"attempts"`
	Classification string    `json:"classification"`
	Code           string    `json:"code"`
	Error          string    `json:"error_msg"`
	TaskCreatedAt  time.Time `json:"task_created_at"`
	RecordedAt     time.Time `json:"recorded_at"`
}
