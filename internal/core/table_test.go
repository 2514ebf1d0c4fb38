package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewTable_DuplicateColumns(t *testing.T) {
	tbl := NewTable([]string{"Name", "Name", "Name.1", "Name"}, nil)

	want := []string{"Name", "Name.2", "Name.1", "Name.3"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Errorf("Columns = %v, want %v", tbl.Columns, want)
	}
	for i, c := range want {
		if got, ok := tbl.ColumnIndex(c); !ok || got != i {
			t.Errorf("ColumnIndex(%q) = %d, %v", c, got, ok)
		}
	}
}

func TestNewTable_RowWidth(t *testing.T) {
	tbl := NewTable([]string{"A", "B", "C"}, []Row{
		{Text("1")},
		{Text("1"), Text("2"), Text("3"), Text("4")},
	})

	if len(tbl.Rows[0]) != 3 || tbl.Rows[0][2].Valid {
		t.Errorf("short row not padded with nulls: %+v", tbl.Rows[0])
	}
	if len(tbl.Rows[1]) != 3 {
		t.Errorf("long row not truncated: %+v", tbl.Rows[1])
	}
}

func TestTable_Accessors(t *testing.T) {
	tbl := NewTable([]string{"Serial_No", "Name"}, []Row{
		{Text("1"), Text("રમેશ")},
		{Text("2"), Null()},
		{Text("3"), Text("Mahesh")},
	})

	if tbl.Len() != 3 || tbl.Width() != 2 {
		t.Fatalf("Len/Width = %d/%d", tbl.Len(), tbl.Width())
	}
	if got := tbl.Cell(0, "Name"); got != Text("રમેશ") {
		t.Errorf("Cell(0, Name) = %+v", got)
	}
	if got := tbl.Cell(0, "Missing"); got.Valid {
		t.Errorf("missing column should yield null, got %+v", got)
	}
	if got := tbl.Cell(9, "Name"); got.Valid {
		t.Errorf("out of range row should yield null, got %+v", got)
	}

	sub := tbl.Subset([]int{2, 0})
	if sub.Len() != 2 || sub.Cell(0, "Serial_No").String != "3" || sub.Cell(1, "Serial_No").String != "1" {
		t.Errorf("Subset kept wrong rows: %v", sub.Strings())
	}
	if !reflect.DeepEqual(sub.Columns, tbl.Columns) {
		t.Errorf("Subset changed columns: %v", sub.Columns)
	}

	recs := tbl.Records()
	if _, ok := recs[1]["Name"]; ok {
		t.Error("Records should omit null cells")
	}
	if recs[0]["Name"] != "રમેશ" {
		t.Errorf("Records[0] = %v", recs[0])
	}

	if got := tbl.Strings()[1]; !reflect.DeepEqual(got, []string{"2", ""}) {
		t.Errorf("Strings()[1] = %q", got)
	}

	if s := tbl.String(); !strings.Contains(s, "rows: 3") {
		t.Errorf("String() = %q", s)
	}
}

func TestTable_LiteralColumnIndex(t *testing.T) {
	tbl := &Table{Columns: []string{"ID", "Name"}}
	if i, ok := tbl.ColumnIndex("Name"); !ok || i != 1 {
		t.Errorf("ColumnIndex on literal table = %d, %v", i, ok)
	}
	if tbl.HasColumn("id") {
		t.Error("column lookup must be case-sensitive")
	}
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 || tbl.Width() != 0 || tbl.String() != "Table{nil}" {
		t.Error("nil table accessors should be zero")
	}
}
