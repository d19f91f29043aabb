package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Provision creates the target schema and the sample load-test tables.
// Everything is IF NOT EXISTS so re-running is harmless.
func (db *DB) Provision(ctx context.Context, schema string) error {
	ident := pgx.Identifier{schema}.Sanitize()

	stmts := []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", ident),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.orders (
				order_id INT PRIMARY KEY,
				customer_id INTEGER NOT NULL,
				order_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				total_amount NUMERIC(10, 2)
			)`, ident),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.accounts (
				account_id INT PRIMARY KEY,
				account_name VARCHAR(100),
				email VARCHAR(100) UNIQUE NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`, ident),
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("provisioning failed: %w", err)
		}
	}
	return nil
}
