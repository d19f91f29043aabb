package domain

// Column describes one column of the target table, as reported by the
// store's information schema.
type Column struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
}

// Row is one generated row, values ordered to match the table's columns.
type Row []any
