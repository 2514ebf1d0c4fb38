package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFID,Serial_No,Name,Relative_Name\n" +
		"1,1,રમેશ મોદી,NA\n" +
		"2,,\"Shah, Mahesh\"\n"

	tbl, err := ReadCSV(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if !tbl.HasColumn("ID") {
		t.Fatalf("BOM leaked into header: %q", tbl.Columns[0])
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	if got := tbl.Cell(0, "Name").String; got != "રમેશ મોદી" {
		t.Errorf("Name = %q", got)
	}
	if tbl.Cell(0, "Relative_Name").Valid {
		t.Error("NA should load as null")
	}
	if tbl.Cell(1, "Serial_No").Valid {
		t.Error("empty field should load as null")
	}
	if got := tbl.Cell(1, "Name").String; got != "Shah, Mahesh" {
		t.Errorf("quoted field = %q", got)
	}
	if tbl.Cell(1, "Relative_Name").Valid {
		t.Error("short row should be padded with nulls")
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr error
		wantMsg string
	}{
		{name: "empty", input: "", wantErr: ErrEmptyFile},
		{name: "only BOM", input: "\xEF\xBB\xBF", wantErr: ErrEmptyFile},
		{name: "bad quoting", input: "ID,Name\n1,\"unterminated\n", wantMsg: "invalid csv"},
		{name: "too large", input: "ID,Name\n" + strings.Repeat("1,x\n", 100), limit: 64, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), tt.limit)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("got %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := NewTable([]string{"Name", "EPIC_No"}, []Row{
		{Text("Shah, Mahesh"), Null()},
		{Text("રમેશ"), Text("GJ1")},
	})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "Name,EPIC_No\n\"Shah, Mahesh\",\nરમેશ,GJ1\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
