// Package templates renders the lookup page and its fragments as gomponents
// nodes.
package templates

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/blo/internal/core"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// MaxRenderedRows caps the rows drawn in the HTML table; the CSV export
// always carries every match.
const MaxRenderedRows = 500

const pageStyle = `body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25rem .5rem}.notice{color:#8a6d3b}.error{color:#a94442}.hint{color:#666;font-size:.9em}`

// DatasetInfo describes the loaded dataset for the page header.
type DatasetInfo struct {
	ID      string
	Summary core.MergeSummary
	Columns []string
}

// PageData is everything the lookup page shows.
type PageData struct {
	Dataset *DatasetInfo       // nil before the first merge
	Typed   core.Criteria      // criteria shown in the search form
	Result  *core.FilterResult // nil when there is nothing to search
	Notice  string
	Flash   string
	Error   *core.UserMessage
}

// Page renders the full lookup page.
func Page(data PageData) Node {
	var alert Node
	if data.Error != nil {
		alert = ErrorAlert(data.Error.Message, data.Error.Action, data.Error.Code)
	}

	var results Node
	if data.Result != nil {
		results = Results(data.Typed, data.Result)
	}

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text("BLO Database")),
				StyleEl(Raw(pageStyle)),
			),
			Body(
				H1(Text("BLO Database")),
				alert,
				If(data.Flash != "", P(Class("flash"), Text(data.Flash))),
				uploadForm(),
				If(data.Dataset != nil, Group([]Node{
					datasetSummary(data.Dataset),
					searchForm(data),
				})),
				If(data.Notice != "", notice(data.Notice)),
				Div(ID("results"), results),
			),
		),
	)
}

func uploadForm() Node {
	return Section(
		H2(Text("Upload")),
		Form(
			Method("post"), Action("/merge"), EncType("multipart/form-data"),
			Label(Text("File 1 "), Input(Type("file"), Name("file1"), Accept(".csv"), Required())),
			Text(" "),
			Label(Text("File 2 "), Input(Type("file"), Name("file2"), Accept(".csv"), Required())),
			Text(" "),
			Button(Type("submit"), Text("Merge")),
		),
	)
}

func datasetSummary(ds *DatasetInfo) Node {
	if ds == nil {
		return nil
	}
	return P(Class("dataset"), Text(ds.Summary.String()))
}

// notice shows a degraded-capability message with its support code.
func notice(msg string) Node {
	code := core.MapError(errors.New(msg)).Code
	return P(Class("notice"), Role("status"), Textf("%s (Code: %s)", msg, code))
}

func searchForm(data PageData) Node {
	c := data.Typed

	// The unfiltered view exports everything; a search exports what it typed.
	var export Node
	if data.Result != nil {
		href := "/api/export"
		if !data.Result.Criteria.IsEmpty() {
			href += "?" + EncodeCriteria(c).Encode()
		}
		export = Group([]Node{Text(" "), A(Href(href), Text("Download CSV"))})
	}

	return Section(
		H2(Text("Search")),
		Form(
			Method("get"), Action("/"),
			textInput("Name 1", "name1", c.Name1),
			textInput("Name 2", "name2", c.Name2),
			textInput("Relative name", "relative_name", c.RelativeName),
			textInput("Serial from", "serial_from", formatBound(c.SerialFrom)),
			textInput("Serial to", "serial_to", formatBound(c.SerialTo)),
			textInput("EPIC", "epic", c.Epic),
			textInput("AC", "ac", c.AC),
			Button(Type("submit"), Text("Search")),
			Text(" "),
			A(Href("/?reset=1"), Text("Reset")),
			export,
		),
	)
}

func textInput(label, name, value string) Node {
	return Group([]Node{
		Label(Text(label+" "), Input(Type("text"), Name(name), Value(value))),
		Text(" "),
	})
}

// Results renders the match count and table. It is also served alone as
// the fragment for HTMX requests.
func Results(typed core.Criteria, res *core.FilterResult) Node {
	count := Textf("%d of %d rows match", res.Matched, res.Total)
	if res.Criteria.IsEmpty() {
		count = Textf("Showing all %d records", res.Total)
	}

	return Group([]Node{
		translated("Name 1", typed.Name1, res.Criteria.Name1),
		translated("Name 2", typed.Name2, res.Criteria.Name2),
		translated("Relative name", typed.RelativeName, res.Criteria.RelativeName),
		P(Class("count"), count),
		If(res.Matched > 0, resultTable(res.Table)),
	})
}

func resultTable(t *core.Table) Node {
	rows := t.Rows
	if len(rows) > MaxRenderedRows {
		rows = rows[:MaxRenderedRows]
	}

	var hint Node
	if t.Len() > MaxRenderedRows {
		hint = P(Class("hint"), Text(fmt.Sprintf("Showing the first %d rows. Download the CSV for all %d.", MaxRenderedRows, t.Len())))
	}

	return Group([]Node{
		Table(
			THead(Tr(Map(t.Columns, func(col string) Node {
				return Th(Text(col))
			}))),
			TBody(Map(rows, func(row core.Row) Node {
				return Tr(Map(row, func(v core.Value) Node {
					return Td(Text(v.String))
				}))
			})),
		),
		hint,
	})
}

// translated shows the query actually searched when translation changed it.
func translated(label, typed, used string) Node {
	if typed == "" || used == "" || used == typed {
		return nil
	}
	return P(Class("hint"), Text(label+" → Gujarati: "+used))
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) Node {
	return Div(
		Class("error"), Role("alert"),
		Strong(Text(message)),
		If(action != "", Text(" "+action)),
		If(code != "", Group([]Node{
			Text(" "),
			Span(Class("hint"), Text("(Code: "+code+")")),
		})),
	)
}

// EncodeCriteria renders c as query parameters, omitting empty fields.
func EncodeCriteria(c core.Criteria) url.Values {
	q := url.Values{}
	set := func(key, v string) {
		if v != "" {
			q.Set(key, v)
		}
	}
	set("name1", c.Name1)
	set("name2", c.Name2)
	set("relative_name", c.RelativeName)
	set("serial_from", formatBound(c.SerialFrom))
	set("serial_to", formatBound(c.SerialTo))
	set("epic", c.Epic)
	set("ac", c.AC)
	return q
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
