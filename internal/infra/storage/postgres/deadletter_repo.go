package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
)

// DeadLetterRepo implements deadletter.Sink using PostgreSQL.
type DeadLetterRepo struct {
	db *DB
}

// NewDeadLetterRepo creates a new PostgreSQL dead-letter repository.
func NewDeadLetterRepo(db *DB) *DeadLetterRepo {
	return &DeadLetterRepo{db: db}
}

// Record appends a dead-letter record.
func (r *DeadLetterRepo) Record(ctx context.Context, rec *domain.DeadLetterRecord) error {
	query := `
		INSERT INTO dead_letters (
			id, task_id, target_table, row_count, attempts,
			classification, error_code, error_msg, task_created_at, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.TaskID,
		rec.Table,
		rec.RowCount,
		rec.Attempts,
		rec.Classification,
		rec.Code,
		rec.Error,
		rec.TaskCreatedAt,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record dead letter: %w", err)
	}
	return nil
}

// QueryRange returns records recorded in [from, to], oldest first.
func (r *DeadLetterRepo) QueryRange(
	ctx context.Context,
	from, to time.Time,
) ([]*domain.DeadLetterRecord, error) {
	query := `
		SELECT id, task_id, target_table, row_count, attempts,
		       classification, error_code, error_msg, task_created_at, recorded_at
		FROM dead_letters
		WHERE recorded_at >= $1 AND recorded_at <= $2
		ORDER BY recorded_at ASC
	`

	var rows []struct {
		ID             string    `db:"id"`
		TaskID         string    `db:"task_id"`
		TargetTable    string    `db:"target_table"`
		RowCount       int       `db:"row_count"`
		Attempts       int       `db:"attempts"`
		Classification string    `db:"classification"`
		ErrorCode      string    `db:"error_code"`
		ErrorMsg       string    `db:"error_msg"`
		TaskCreatedAt  time.Time `db:"task_created_at"`
		RecordedAt     time.Time `db:"recorded_at"`
	}

	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to query dead letters: %w", err)
	}

	records := make([]*domain.DeadLetterRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &domain.DeadLetterRecord{
			ID:             row.ID,
			TaskID:         row.TaskID,
			Table:          row.TargetTable,
			RowCount:       row.RowCount,
			Attempts:       row.Attempts,
			Classification: row.Classification,
			Code:           row.ErrorCode,
			Error:          row.ErrorMsg,
			TaskCreatedAt:  row.TaskCreatedAt,
			RecordedAt:     row.RecordedAt,
		})
	}
	return records, nil
}

// Count returns the number of dead-letter records.
func (r *DeadLetterRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM dead_letters")
	if err != nil {
		return 0, fmt.Errorf("failed to count dead letters: %w", err)
	}
	return count, nil
}
