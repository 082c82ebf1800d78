package engine

// Table is the read side of the table collaborator.
type Table interface {
	Columns() []string
	RowCount() int
	Value(row int, column string) (string, error)
}

// WritableTable can also receive a derived column.
type WritableTable interface {
	Table
	AppendColumn(name string, values []string) error
}

// ColumnReplacer is implemented by tables that can overwrite a column in place.
// It is only used when Config.Overwrite is set.
type ColumnReplacer interface {
	ReplaceColumn(name string, values []string) error
}

// ProgressFunc is called after each row is evaluated.
type ProgressFunc func(done, total int)
