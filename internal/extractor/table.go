package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"kbc-extractor/lib/component"
)

const rowNumberColumn = "row_number"

// Table is a header plus rows of string cells, each row as wide as the
// header.
type Table struct {
	Columns []string
	Rows    [][]string
}

// WithRowNumbers returns a copy of the table with a row_number column
// holding the 0-based index of each row. An existing row_number column is
// overwritten in place.
func (t Table) WithRowNumbers() Table {
	out := Table{
		Columns: append([]string{}, t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	index := -1
	for i, col := range t.Columns {
		if col == rowNumberColumn {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(out.Columns)
		out.Columns = append(out.Columns, rowNumberColumn)
	}
	for i, row := range t.Rows {
		cells := make([]string, len(out.Columns))
		copy(cells, row)
		cells[index] = strconv.Itoa(i)
		out.Rows[i] = cells
	}
	return out
}

// fitRow pads or trims a record to the header width.
func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func readCsvTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// ragged rows are padded or trimmed to the header below
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, component.NewUserError("input table %s has no header row", path)
	}
	if err != nil {
		return Table{}, component.WrapUserError(err, fmt.Sprintf("read input table %s", path))
	}

	table := Table{Columns: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, component.WrapUserError(err, fmt.Sprintf("read input table %s", path))
		}
		table.Rows = append(table.Rows, fitRow(row, len(header)))
	}
	return table, nil
}

func writeCsvTable(path string, table Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(table.Columns)
	if err != nil {
		return err
	}
	err = writer.WriteAll(table.Rows)
	if err != nil {
		return err
	}
	return f.Close()
}
