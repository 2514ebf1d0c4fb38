package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyFile is returned when an upload has no header row.
var ErrEmptyFile = errors.New("empty file")

// ReadCSV parses a CSV stream into a Table.
//
// The first record is the header. Cells that are empty or hold a common
// missing-value marker (see IsNullMarker) load as nulls. Rows with fewer
// fields than the header are padded with nulls. limit caps the raw size in
// bytes (0 for no limit).
func ReadCSV(r io.Reader, limit int64) (*Table, error) {
	reader := csv.NewReader(WrapUpload(r, limit))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}

		row := make(Row, len(header))
		for i := 0; i < len(header) && i < len(record); i++ {
			row[i] = CellFromString(record[i])
		}
		rows = append(rows, row)
	}

	return NewTable(header, rows), nil
}

func wrapCSVError(err error) error {
	if errors.Is(err, ErrFileTooLarge) {
		return err
	}
	return fmt.Errorf("invalid csv: %w", err)
}

// WriteCSV writes the table with a header row. Nulls are written as empty
// fields.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Strings() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
