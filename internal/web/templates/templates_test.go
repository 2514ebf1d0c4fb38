package templates

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/JonMunkholm/blo/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maragu.dev/gomponents"
)

func render(t *testing.T, n gomponents.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func bound(v float64) *float64 { return &v }

func serialTable(n int) *core.Table {
	rows := make([]core.Row, n)
	for i := range rows {
		rows[i] = core.Row{core.Text(strconv.Itoa(i + 1)), core.Text(fmt.Sprintf("name-%d", i+1))}
	}
	return core.NewTable([]string{"Serial_No", "Name"}, rows)
}

func TestResults_EscapesCellsAndHeaders(t *testing.T) {
	tbl := core.NewTable(
		[]string{"<b>Name</b>"},
		[]core.Row{{core.Text(`<script>alert("x")</script>`)}, {core.Null()}},
	)
	res := &core.FilterResult{Table: tbl, Matched: 2, Total: 2, Criteria: core.Criteria{AC: "x"}}

	out := render(t, Results(core.Criteria{AC: "x"}, res))
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "<th>&lt;b&gt;Name&lt;/b&gt;</th>")
	assert.Contains(t, out, "<td></td>")
	assert.Contains(t, out, "2 of 2 rows match")
}

func TestResults_CapsRenderedRows(t *testing.T) {
	tbl := serialTable(MaxRenderedRows + 5)
	res := &core.FilterResult{Table: tbl, Matched: tbl.Len(), Total: tbl.Len(), Criteria: core.Criteria{SerialFrom: bound(1)}}

	out := render(t, Results(core.Criteria{}, res))
	assert.Equal(t, MaxRenderedRows, strings.Count(out, "<tr><td>"))
	assert.Contains(t, out, fmt.Sprintf("<td>name-%d</td>", MaxRenderedRows))
	assert.NotContains(t, out, fmt.Sprintf("<td>name-%d</td>", MaxRenderedRows+1))
	assert.Contains(t, out, fmt.Sprintf("Showing the first %d rows. Download the CSV for all %d.", MaxRenderedRows, MaxRenderedRows+5))
}

func TestResults_NoHintUnderCap(t *testing.T) {
	tbl := serialTable(3)
	res := &core.FilterResult{Table: tbl, Matched: 3, Total: 3}

	out := render(t, Results(core.Criteria{}, res))
	assert.Equal(t, 3, strings.Count(out, "<tr><td>"))
	assert.NotContains(t, out, "Showing the first")
	assert.Contains(t, out, "Showing all 3 records")
}

func TestResults_NoMatches(t *testing.T) {
	res := &core.FilterResult{Table: core.NewTable([]string{"Name"}, nil), Matched: 0, Total: 7, Criteria: core.Criteria{Name1: "zz"}}

	out := render(t, Results(core.Criteria{Name1: "zz"}, res))
	assert.Contains(t, out, "0 of 7 rows match")
	assert.NotContains(t, out, "<table>")
}

func TestResults_TranslatedHint(t *testing.T) {
	res := &core.FilterResult{
		Table:    core.NewTable([]string{"Name"}, nil),
		Criteria: core.Criteria{Name1: "રમેશ", RelativeName: "જયેશ મોદી"},
	}

	out := render(t, Results(core.Criteria{Name1: "ramesh", RelativeName: "જયેશ મોદી"}, res))
	assert.Contains(t, out, "Name 1 → Gujarati: રમેશ")
	assert.NotContains(t, out, "Relative name →")
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert("Missing <ID>", "Add an ID column", "KEY001"))
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "<strong>Missing &lt;ID&gt;</strong>")
	assert.Contains(t, out, "Add an ID column")
	assert.Contains(t, out, "(Code: KEY001)")

	bare := render(t, ErrorAlert("Oops", "", ""))
	assert.NotContains(t, bare, "Code:")
}

func TestPage(t *testing.T) {
	out := render(t, Page(PageData{}))
	assert.True(t, strings.HasPrefix(strings.ToLower(out), "<!doctype html>"))
	assert.Contains(t, out, `name="file1"`)
	assert.NotContains(t, out, `name="name1"`)

	tbl := serialTable(2)
	out = render(t, Page(PageData{
		Dataset: &DatasetInfo{Summary: core.MergeSummary{Rows: 2, Columns: 2}},
		Typed:   core.Criteria{Name1: `"quoted"`, SerialFrom: bound(1), SerialTo: bound(2.5)},
		Result:  &core.FilterResult{Table: tbl, Matched: 2, Total: 2, Criteria: core.Criteria{Name1: `"quoted"`}},
		Notice:  "Translation unavailable. Using typed text for search.",
		Flash:   "Merged <ok>",
	}))
	assert.Contains(t, out, "Merge successful. Final rows: 2 ; Columns: 2")
	assert.Contains(t, out, `name="name1" value="&#34;quoted&#34;"`)
	assert.Contains(t, out, `name="serial_to" value="2.5"`)
	assert.Contains(t, out, "(Code: TRN001)")
	assert.Contains(t, out, "Merged &lt;ok&gt;")
	assert.Contains(t, out, "/api/export?name1=%22quoted%22")
}

func TestEncodeCriteria(t *testing.T) {
	q := EncodeCriteria(core.Criteria{Name1: "a b", SerialFrom: bound(2), Epic: "GJ1"})
	assert.Equal(t, "epic=GJ1&name1=a+b&serial_from=2", q.Encode())
	assert.Empty(t, EncodeCriteria(core.Criteria{}).Encode())
}
