package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vietddude/occload/internal/core/domain"
)

// BatchInserter writes generated batches with a single multi-row INSERT.
// The statement succeeds or fails as one unit; driver errors are returned
// unwrapped enough for the classifier to see the SQLSTATE.
type BatchInserter struct {
	db      *DB
	schema  string
	columns []domain.Column
}

// NewBatchInserter creates a BatchInserter bound to a schema and column layout.
func NewBatchInserter(db *DB, schema string, columns []domain.Column) *BatchInserter {
	return &BatchInserter{db: db, schema: schema, columns: columns}
}

// ExecuteBatch inserts rows into the schema-qualified table. Conflicting rows
// are skipped so duplicate generated keys do not fail the whole batch.
func (b *BatchInserter) ExecuteBatch(
	ctx context.Context,
	table string,
	rows []domain.Row,
) error {
	if len(rows) == 0 {
		return nil
	}

	names := make([]string, 0, len(b.columns))
	for _, col := range b.columns {
		names = append(names, pgx.Identifier{col.Name}.Sanitize())
	}

	var (
		values strings.Builder
		args   = make([]any, 0, len(rows)*len(b.columns))
	)
	ph := 1
	for i, row := range rows {
		if len(row) != len(b.columns) {
			return fmt.Errorf("row %d has %d values, table has %d columns", i, len(row), len(b.columns))
		}
		if i > 0 {
			values.WriteString(", ")
		}
		values.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				values.WriteString(", ")
			}
			fmt.Fprintf(&values, "$%d", ph)
			ph++
			args = append(args, v)
		}
		values.WriteByte(')')
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT DO NOTHING",
		pgx.Identifier{b.schema, table}.Sanitize(),
		strings.Join(names, ", "),
		values.String(),
	)

	if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("batch insert into %s.%s: %w", b.schema, table, err)
	}
	return nil
}
