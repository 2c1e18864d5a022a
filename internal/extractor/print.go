package extractor

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func printRows(out io.Writer, data Table) {
	t := newTable(out)

	header := table.Row{}
	for _, col := range data.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for _, row := range data.Rows {
		r := table.Row{}
		for _, cell := range row {
			r = append(r, cell)
		}
		t.AppendRow(r)
	}
	t.Render()
}
