package load

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
)

// Generator produces random rows shaped after the target table's columns.
// Not safe for concurrent use; the task source owns the single instance.
type Generator struct {
	columns []domain.Column
	rng     *rand.Rand
}

// NewGenerator creates a Generator for the given column layout.
// seed = 0 derives a seed from the clock.
func NewGenerator(columns []domain.Column, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		columns: columns,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Columns returns the column layout rows are generated against.
func (g *Generator) Columns() []domain.Column {
	return g.columns
}

// Row generates one row, one value per column in declaration order.
// Unsupported column types get NULL, matching what the store will accept
// for nullable columns.
func (g *Generator) Row() domain.Row {
	row := make(domain.Row, 0, len(g.columns))
	for _, col := range g.columns {
		switch col.DataType {
		case "integer", "bigint", "smallint":
			row = append(row, g.rng.Intn(100000))
		case "numeric", "real", "double precision", "float":
			row = append(row, g.rng.Float64()*1000)
		case "character varying", "varchar", "text":
			row = append(row, fmt.Sprintf("user_%d@test.com", g.rng.Intn(100000)))
		default:
			row = append(row, nil)
		}
	}
	return row
}

// Batch generates n rows.
func (g *Generator) Batch(n int) []domain.Row {
	rows := make([]domain.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, g.Row())
	}
	return rows
}
