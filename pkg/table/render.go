package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"
)

// Format selects a rendering of a table.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Render writes the table to w in the given format.
// Unknown formats fall back to the pretty table.
func (t *Table) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return t.renderJSON(w)
	case FormatCSV:
		return t.renderCSV(w)
	case FormatMarkdown, "markdown":
		return t.renderMarkdown(w)
	default:
		return t.renderPretty(w)
	}
}

// String renders the table in the default pretty format.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.renderPretty(&sb)
	return sb.String()
}

// columnNames returns the header, synthesizing col1..colN names for
// headerless tables.
func (t *Table) columnNames() []string {
	if t.HasHeader() {
		return t.Header
	}
	names := make([]string, t.Width())
	for i := range names {
		names[i] = fmt.Sprintf("col%d", i+1)
	}
	return names
}

func (t *Table) renderPretty(w io.Writer) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	cols := t.columnNames()

	tw := pretty.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(pretty.StyleLight)

	headerRow := make(pretty.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	tw.AppendHeader(headerRow)

	for _, row := range t.Rows {
		prow := make(pretty.Row, len(cols))
		for i := range cols {
			prow[i] = formatValue(cell(row, i))
		}
		tw.AppendRow(prow)
	}

	tw.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return err
}

func (t *Table) renderJSON(w io.Writer) error {
	cols := t.columnNames()
	results := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = cell(row, i)
		}
		results = append(results, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func (t *Table) renderCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columnNames()); err != nil {
		return err
	}
	record := make([]string, t.Width())
	for _, row := range t.Rows {
		for i := range record {
			record[i] = formatValue(cell(row, i))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Table) renderMarkdown(w io.Writer) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	cols := t.columnNames()
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | ")); err != nil {
		return err
	}
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | ")); err != nil {
		return err
	}

	for _, row := range t.Rows {
		values := make([]string, len(cols))
		for i := range cols {
			values[i] = formatValue(cell(row, i))
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | ")); err != nil {
			return err
		}
	}
	return nil
}

func cell(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
