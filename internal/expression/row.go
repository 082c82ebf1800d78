package expression

// Row gives predicates read access to one table row by column name.
type Row interface {
	// Value returns the cell text and whether the column exists.
	Value(column string) (string, bool)
}

// MapRow is a Row backed by a column-to-value map.
type MapRow map[string]string

// Value implements Row.
func (r MapRow) Value(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// RowFunc adapts a lookup function to Row.
type RowFunc func(column string) (string, bool)

// Value implements Row.
func (f RowFunc) Value(column string) (string, bool) {
	return f(column)
}
