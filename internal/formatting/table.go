package formatting

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable renders a header row and data rows as an aligned plain-text
// table suitable for inclusion in a tool result.
func RenderTable(header []interface{}, rows [][]interface{}) string {
	t := table.NewWriter()
	t.SetStyle(plainStyle())
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t.Render()
}

// plainStyle is StyleDefault stripped of all separators and borders, leaving
// space-aligned columns with an uppercase header.
func plainStyle() table.Style {
	s := table.StyleDefault
	s.Options.DrawBorder = false
	s.Options.SeparateColumns = false
	s.Options.SeparateHeader = true
	s.Options.SeparateRows = false
	return s
}
