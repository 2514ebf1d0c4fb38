package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a single nullable table cell.
// Valid is false for missing cells (empty CSV fields, SQL NULL).
type Value struct {
	String string
	Valid  bool
}

// Text returns a valid Value holding s.
func Text(s string) Value {
	return Value{String: s, Valid: true}
}

// Null returns an invalid (missing) Value.
func Null() Value {
	return Value{}
}

// Row is a table row aligned with Table.Columns.
type Row []Value

// Table is an ordered set of rows with named columns.
// Tables are treated as immutable once built: every operation in this package
// returns a new Table and leaves its input untouched.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewTable builds a table from column names and rows.
// Duplicate column names are made unique by appending ".1", ".2", ... in the
// order they appear. Rows shorter than the header are padded with nulls;
// longer rows are truncated.
func NewTable(columns []string, rows []Row) *Table {
	cols := uniqueColumns(columns)
	width := len(cols)

	normalized := make([]Row, len(rows))
	for i, row := range rows {
		if len(row) == width {
			normalized[i] = row
			continue
		}
		r := make(Row, width)
		copy(r, row)
		normalized[i] = r
	}

	return newTableUnchecked(cols, normalized)
}

// newTableUnchecked builds a table whose columns are known to be unique and
// whose rows already have the right width.
func newTableUnchecked(columns []string, rows []Row) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Table{Columns: columns, Rows: rows, index: idx}
}

// uniqueColumns mangles repeated header names so every column is addressable.
func uniqueColumns(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]bool, len(columns))
	counts := make(map[string]int, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	used := make(map[string]bool, len(columns))
	for i, c := range columns {
		if !used[c] {
			used[c] = true
			out[i] = c
			continue
		}
		for {
			counts[c]++
			candidate := c + "." + strconv.Itoa(counts[c])
			if !used[candidate] && !seen[candidate] {
				used[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnIndex returns the position of an exactly named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		// Built as a literal; fall back to a scan.
		for i, c := range t.Columns {
			if c == name {
				return i, true
			}
		}
		return -1, false
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether a column with exactly this name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Cell returns the value at row i in the named column.
// A missing column yields a null value.
func (t *Table) Cell(i int, column string) Value {
	ci, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.Rows) {
		return Value{}
	}
	return t.Rows[i][ci]
}

// Subset returns a table with the rows at the given indices, in that order.
// Rows are shared with the receiver, not copied.
func (t *Table) Subset(indices []int) *Table {
	rows := make([]Row, len(indices))
	for i, idx := range indices {
		rows[i] = t.Rows[idx]
	}
	return newTableUnchecked(t.Columns, rows)
}

// Records returns the table as a slice of column-name keyed maps.
// Null cells are omitted from each map.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(row))
		for ci, v := range row {
			if v.Valid {
				rec[t.Columns[ci]] = v.String
			}
		}
		out[i] = rec
	}
	return out
}

// Strings returns the rows as plain strings, with nulls rendered empty.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(row))
		for ci, v := range row {
			r[ci] = v.String
		}
		out[i] = r
	}
	return out
}

// String returns a short description for logging.
func (t *Table) String() string {
	if t == nil {
		return "Table{nil}"
	}
	return fmt.Sprintf("Table{rows: %d, columns: [%s]}", len(t.Rows), strings.Join(t.Columns, ", "))
}
