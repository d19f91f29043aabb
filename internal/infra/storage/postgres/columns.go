package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/occload/internal/core/domain"
)

// TableColumns fetches the column names and data types of a table from the
// information schema, in declaration order.
func (db *DB) TableColumns(
	ctx context.Context,
	schema, table string,
) ([]domain.Column, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	var columns []domain.Column
	if err := db.SelectContext(ctx, &columns, query, schema, table); err != nil {
		return nil, fmt.Errorf("failed to fetch columns for %s.%s: %w", schema, table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s has no columns or does not exist", schema, table)
	}
	return columns, nil
}
