package table

// Record is a single transaction row, keyed by column name.
// A nil value means the cell was null/empty in the source.
type Record map[string]interface{}

// IsNull reports whether the record's value in a column is null.
// A column missing from the record counts as null.
func (r Record) IsNull(column string) bool {
	v, ok := r[column]
	return !ok || v == nil
}

// ColumnType describes the inferred type of a column.
type ColumnType int

const (
	Text ColumnType = iota
	Numeric
)

func (ct ColumnType) String() string {
	if ct == Numeric {
		return "numeric"
	}
	return "text"
}

// Table is the in-memory ordered collection of Records. It is created once
// by the loader, mutated in place by the cleaner (row drops and derived
// columns), then read-only for every aggregation.
type Table struct {
	Columns []string
	Types   map[string]ColumnType
	Rows    []Record
}

// New creates an empty Table with the given column order.
func New(columns []string) *Table {
	types := make(map[string]ColumnType, len(columns))
	for _, c := range columns {
		types[c] = Text
	}
	return &Table{
		Columns: columns,
		Types:   types,
		Rows:    make([]Record, 0),
	}
}

// Append adds a record at the end of the table.
func (t *Table) Append(rec Record) {
	t.Rows = append(t.Rows, rec)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.Types[column]
	return ok
}

// AddColumn registers a derived column. Values are set per row by the caller.
func (t *Table) AddColumn(column string, ct ColumnType) {
	if t.HasColumn(column) {
		return
	}
	t.Columns = append(t.Columns, column)
	t.Types[column] = ct
}

// NullCount returns the number of rows with a null value in the column.
func (t *Table) NullCount(column string) int {
	count := 0
	for _, rec := range t.Rows {
		if rec.IsNull(column) {
			count++
		}
	}
	return count
}
