// Package table provides the tabular value passed between the read and
// write facades: an ordered header plus rows.
package table

import (
	"fmt"
	"sort"
)

// Table is an ordered collection of rows, optionally with a header.
// Row order is preserved by every operation.
type Table struct {
	Header []string
	Rows   [][]any
}

// New creates a table from a header and rows.
func New(header []string, rows [][]any) *Table {
	return &Table{Header: header, Rows: rows}
}

// FromRows creates a headerless table. Writes against a headerless table
// use positional column binding.
func FromRows(rows [][]any) *Table {
	return &Table{Rows: rows}
}

// FromRecords creates a table from row mappings. The header is the sorted
// union of all record keys unless an explicit header is given; missing keys
// become nil cells.
func FromRecords(records []map[string]any, header ...string) *Table {
	if len(header) == 0 {
		seen := make(map[string]struct{})
		for _, rec := range records {
			for k := range rec {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					header = append(header, k)
				}
			}
		}
		sort.Strings(header)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(header))
		for i, k := range header {
			row[i] = rec[k]
		}
		rows = append(rows, row)
	}
	return &Table{Header: header, Rows: rows}
}

// HasHeader reports whether the table carries column names.
func (t *Table) HasHeader() bool {
	return len(t.Header) > 0
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Width returns the number of columns: the header width, or the first
// row's width for headerless tables.
func (t *Table) Width() int {
	if t.HasHeader() {
		return len(t.Header)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// Records returns the rows as column-name → value mappings.
// Returns an error for headerless tables.
func (t *Table) Records() ([]map[string]any, error) {
	if !t.HasHeader() {
		return nil, fmt.Errorf("table has no header")
	}
	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Header))
		for i, k := range t.Header {
			if i < len(row) {
				rec[k] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Slice splits the table into sub-tables of at most size rows, in order.
// Sub-tables share the receiver's backing arrays. A non-positive size
// yields a single slice with all rows.
func (t *Table) Slice(size int) []*Table {
	if size <= 0 || len(t.Rows) <= size {
		return []*Table{t}
	}
	var parts []*Table
	for start := 0; start < len(t.Rows); start += size {
		end := start + size
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		parts = append(parts, &Table{Header: t.Header, Rows: t.Rows[start:end]})
	}
	return parts
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Col returns the named column's values in row order. Rows shorter than
// the column's position contribute nil.
func (t *Table) Col(name string) ([]any, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	vals := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			vals[r] = row[i]
		}
	}
	return vals, nil
}
