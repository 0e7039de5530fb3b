// Package export flattens verified documents into CSV and XLSX files.
package export

import (
	"strings"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

// utf8BOM keeps spreadsheet apps from misreading Japanese text.
const utf8BOM = "\uFEFF"

// quote renders one body cell: double quotes escaped by doubling, the whole
// cell wrapped in double quotes.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// DocumentCSV flattens one document's data against its template: scalar
// columns first, then the first table field's columns prefixed with the
// table label. Every table row repeats the scalar values; a missing or
// empty table still yields one data row with the table columns blank.
// Additional table fields beyond the first are not exported.
func DocumentCSV(tpl *template.Template, data *extraction.Data) []byte {
	scalars := tpl.ScalarFields()
	tables := tpl.TableFields()

	header := make([]string, 0, len(scalars)+4)
	for _, f := range scalars {
		header = append(header, f.Label)
	}

	var columns []template.Field
	if len(tables) > 0 {
		for _, c := range tables[0].Columns {
			header = append(header, tables[0].Label+":"+c.Label)
		}
		columns = tables[0].Columns
	}

	lines := []string{strings.Join(header, ",")}

	scalarCells := make([]string, 0, len(scalars))
	for _, f := range scalars {
		scalarCells = append(scalarCells, quote(data.Scalar(f.Key).String()))
	}

	if len(tables) == 0 {
		lines = append(lines, strings.Join(scalarCells, ","))
		return []byte(utf8BOM + strings.Join(lines, "\n"))
	}

	rows := data.Rows(tables[0].Key)
	if len(rows) == 0 {
		rows = []extraction.Row{{}}
	}
	for _, row := range rows {
		cells := make([]string, 0, len(scalarCells)+len(columns))
		cells = append(cells, scalarCells...)
		for _, c := range columns {
			cells = append(cells, quote(row[c.Key].String()))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return []byte(utf8BOM + strings.Join(lines, "\n"))
}
