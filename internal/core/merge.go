package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// JoinKey is the column both uploads must carry. It is matched by exact,
// case-sensitive name.
const JoinKey = "ID"

// ErrMissingKey is matched (via errors.Is) by every MissingKeyError.
var ErrMissingKey = errors.New("missing required column ID")

// MissingKeyError reports which inputs lack the join column.
type MissingKeyError struct {
	Tables []string // "file 1", "file 2"
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required column %s in %s", JoinKey, strings.Join(e.Tables, " and "))
}

// Is lets errors.Is(err, ErrMissingKey) match any MissingKeyError.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// MergeSummary holds the counts shown after a merge.
type MergeSummary struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

func (s MergeSummary) String() string {
	return fmt.Sprintf("Merge successful. Final rows: %d ; Columns: %d", s.Rows, s.Columns)
}

// MergedDataset is the searchable result of joining two uploads.
type MergedDataset struct {
	ID      uuid.UUID
	Table   *Table
	Summary MergeSummary
}

// Merge inner-joins a and b on the ID column and drops ID from the result.
//
// Keys that parse as numbers are compared by value, so "1", "01" and "1.0"
// join; other keys are compared as exact text. Null keys never match.
//
// The output keeps the left table's row order, and for each left row the
// matching right rows in their own order, so duplicate IDs yield every
// combination. Columns are the left table's non-key columns followed by the
// right's; a name present on both sides is suffixed "_x" (left) and "_y"
// (right).
//
// Returns a *MissingKeyError when either table has no ID column.
func Merge(a, b *Table) (*MergedDataset, error) {
	var missing []string
	if !a.HasColumn(JoinKey) {
		missing = append(missing, "file 1")
	}
	if !b.HasColumn(JoinKey) {
		missing = append(missing, "file 2")
	}
	if len(missing) > 0 {
		return nil, &MissingKeyError{Tables: missing}
	}

	aKey, _ := a.ColumnIndex(JoinKey)
	bKey, _ := b.ColumnIndex(JoinKey)

	leftCols, leftIdx := nonKeyColumns(a, aKey)
	rightCols, rightIdx := nonKeyColumns(b, bKey)
	leftCols, rightCols = suffixOverlaps(leftCols, rightCols)

	columns := make([]string, 0, len(leftCols)+len(rightCols))
	columns = append(columns, leftCols...)
	columns = append(columns, rightCols...)

	// Right-side lookup: key -> row positions in original order.
	lookup := make(map[string][]int, len(b.Rows))
	for i, row := range b.Rows {
		key := row[bKey]
		if !key.Valid {
			continue
		}
		k := joinKey(key)
		lookup[k] = append(lookup[k], i)
	}

	var rows []Row
	for _, left := range a.Rows {
		key := left[aKey]
		if !key.Valid {
			continue
		}
		for _, ri := range lookup[joinKey(key)] {
			right := b.Rows[ri]
			row := make(Row, 0, len(columns))
			for _, ci := range leftIdx {
				row = append(row, left[ci])
			}
			for _, ci := range rightIdx {
				row = append(row, right[ci])
			}
			rows = append(rows, row)
		}
	}

	t := NewTable(columns, rows)
	return &MergedDataset{
		ID:      uuid.New(),
		Table:   t,
		Summary: MergeSummary{Rows: t.Len(), Columns: t.Width()},
	}, nil
}

// joinKey returns the lookup key for an ID cell. Numeric IDs map to a
// canonical form; integers are kept exact rather than going through float64.
// A canonical form always parses as a number, so it never collides with a
// text key.
func joinKey(v Value) string {
	s := strings.TrimSpace(v.String)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, ok := ParseNumber(v); ok {
		return FormatNumber(f)
	}
	return v.String
}

// nonKeyColumns returns the table's columns minus the key, with positions.
func nonKeyColumns(t *Table, key int) ([]string, []int) {
	names := make([]string, 0, len(t.Columns))
	idx := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if i == key {
			continue
		}
		names = append(names, c)
		idx = append(idx, i)
	}
	return names, idx
}

// suffixOverlaps renames columns present on both sides.
func suffixOverlaps(left, right []string) ([]string, []string) {
	inRight := make(map[string]bool, len(right))
	for _, c := range right {
		inRight[c] = true
	}
	overlap := make(map[string]bool)
	for _, c := range left {
		if inRight[c] {
			overlap[c] = true
		}
	}
	if len(overlap) == 0 {
		return left, right
	}

	rename := func(cols []string, suffix string) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			if overlap[c] {
				c += suffix
			}
			out[i] = c
		}
		return out
	}
	return rename(left, "_x"), rename(right, "_y")
}
