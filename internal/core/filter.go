package core

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// Criteria holds the user's search fields. Every field is optional; the zero
// value matches every row.
type Criteria struct {
	Name1        string   `json:"name1"`
	Name2        string   `json:"name2"`
	RelativeName string   `json:"relative_name"`
	SerialFrom   *float64 `json:"serial_from,omitempty"`
	SerialTo     *float64 `json:"serial_to,omitempty"`
	Epic         string   `json:"epic"`
	AC           string   `json:"ac"`
}

// IsEmpty reports whether no field would constrain the result.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Name1) == "" &&
		strings.TrimSpace(c.Name2) == "" &&
		strings.TrimSpace(c.RelativeName) == "" &&
		c.SerialFrom == nil && c.SerialTo == nil &&
		strings.TrimSpace(c.Epic) == "" &&
		strings.TrimSpace(c.AC) == ""
}

// Normalizer rewrites a name query into the script the data is stored in.
// Implementations must not fail; on trouble they return the input trimmed.
type Normalizer interface {
	Normalize(ctx context.Context, text string) string
}

// noticer is implemented by normalizers that can report degraded operation.
type noticer interface {
	Notice() string
}

// FilterResult is the outcome of one search.
type FilterResult struct {
	Table    *Table
	Matched  int
	Total    int
	Criteria Criteria        // criteria as matched, after normalization
	Columns  ResolvedColumns // role columns found in the table
	Notice   string          // non-empty when translation is unavailable
}

// Engine applies Criteria to tables. It is safe for concurrent use; it holds
// no state beyond its construction arguments.
type Engine struct {
	normalizer Normalizer
	specs      RoleSpecs
}

// NewEngine creates an engine. A nil normalizer means name criteria are
// matched exactly as typed; nil specs select DefaultRoleSpecs.
func NewEngine(n Normalizer, specs RoleSpecs) *Engine {
	if specs == nil {
		specs = DefaultRoleSpecs()
	}
	return &Engine{normalizer: n, specs: specs}
}

// Specs returns the role specs used for column resolution.
func (e *Engine) Specs() RoleSpecs {
	return e.specs
}

// Notice returns the normalizer's degraded-capability message, if any.
func (e *Engine) Notice() string {
	if n, ok := e.normalizer.(noticer); ok {
		return n.Notice()
	}
	return ""
}

// Normalize passes the name fields through the normalizer. EPIC and AC are
// identifiers and are left as typed. The three lookups run concurrently
// since each may be a network round trip.
func (e *Engine) Normalize(ctx context.Context, c Criteria) Criteria {
	if e.normalizer == nil {
		return c
	}

	out := c
	g, gctx := errgroup.WithContext(ctx)
	for _, field := range []*string{&out.Name1, &out.Name2, &out.RelativeName} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		g.Go(func() error {
			*field = e.normalizer.Normalize(gctx, *field)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Apply normalizes the criteria, resolves role columns for t and returns the
// matching rows. It never fails: criteria whose column is missing from t are
// ignored.
func (e *Engine) Apply(ctx context.Context, t *Table, c Criteria) *FilterResult {
	normalized := e.Normalize(ctx, c)
	cols := ResolveRoles(t, e.specs)
	out := Select(t, normalized, cols)

	return &FilterResult{
		Table:    out,
		Matched:  out.Len(),
		Total:    t.Len(),
		Criteria: normalized,
		Columns:  cols,
		Notice:   e.Notice(),
	}
}

// rowPredicate reports whether a row passes one criterion.
type rowPredicate func(Row) bool

// Select returns the rows of t that satisfy every applicable criterion, in
// their original order and with all columns. Criteria are used as given (no
// normalization). With no applicable criteria t itself is returned.
func Select(t *Table, c Criteria, cols ResolvedColumns) *Table {
	preds := buildPredicates(t, c, cols)
	if len(preds) == 0 {
		return t
	}

	indices := make([]int, 0, len(t.Rows))
	for i, row := range t.Rows {
		keep := true
		for _, p := range preds {
			if !p(row) {
				keep = false
				break
			}
		}
		if keep {
			indices = append(indices, i)
		}
	}
	return t.Subset(indices)
}

func buildPredicates(t *Table, c Criteria, cols ResolvedColumns) []rowPredicate {
	var preds []rowPredicate

	column := func(r Role) (int, bool) {
		name, ok := cols.Get(r)
		if !ok {
			return 0, false
		}
		return t.ColumnIndex(name)
	}

	text := func(r Role, query string) {
		if strings.TrimSpace(query) == "" {
			return
		}
		if ci, ok := column(r); ok {
			preds = append(preds, containsPredicate(ci, query))
		}
	}

	// Both name fields constrain the same column.
	text(RolePrimaryName, c.Name1)
	text(RolePrimaryName, c.Name2)
	text(RoleRelativeName, c.RelativeName)

	if c.SerialFrom != nil || c.SerialTo != nil {
		if ci, ok := column(RoleSerialNumber); ok {
			preds = append(preds, rangePredicate(ci, c.SerialFrom, c.SerialTo))
		}
	}

	text(RoleEpicID, c.Epic)
	text(RoleAcID, c.AC)

	return preds
}

// containsPredicate matches cells containing query as a literal,
// case-insensitive substring. Null cells never match.
func containsPredicate(ci int, query string) rowPredicate {
	q := norm.NFC.String(strings.TrimSpace(query))
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
	return func(row Row) bool {
		v := row[ci]
		if !v.Valid {
			return false
		}
		return re.MatchString(norm.NFC.String(v.String))
	}
}

// rangePredicate keeps rows whose numeric cell lies within the inclusive
// bounds. Cells that are not numbers never satisfy a bound.
func rangePredicate(ci int, from, to *float64) rowPredicate {
	return func(row Row) bool {
		n, ok := ParseNumber(row[ci])
		if !ok {
			return false
		}
		if from != nil && n < *from {
			return false
		}
		if to != nil && n > *to {
			return false
		}
		return true
	}
}
