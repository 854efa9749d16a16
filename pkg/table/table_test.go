package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords(t *testing.T) {
	records := []map[string]any{
		{"y": 2.0, "x": 1.0},
		{"x": 3.0, "z": "a"},
	}

	tbl := FromRecords(records)

	// Header is the sorted union of keys.
	assert.Equal(t, []string{"x", "y", "z"}, tbl.Header)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []any{1.0, 2.0, nil}, tbl.Rows[0])
	assert.Equal(t, []any{3.0, nil, "a"}, tbl.Rows[1])
}

func TestFromRecordsExplicitHeader(t *testing.T) {
	records := []map[string]any{{"x": 1, "y": 2}}

	tbl := FromRecords(records, "y", "x")

	assert.Equal(t, []string{"y", "x"}, tbl.Header)
	assert.Equal(t, []any{2, 1}, tbl.Rows[0])
}

func TestRecords(t *testing.T) {
	tbl := New([]string{"x", "y"}, [][]any{{1, 2}, {3, 4}})

	records, err := tbl.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, records[0])
	assert.Equal(t, map[string]any{"x": 3, "y": 4}, records[1])
}

func TestRecordsHeaderless(t *testing.T) {
	tbl := FromRows([][]any{{1, 2}})
	_, err := tbl.Records()
	assert.Error(t, err)
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 2, New([]string{"x", "y"}, nil).Width())
	assert.Equal(t, 3, FromRows([][]any{{1, 2, 3}}).Width())
	assert.Equal(t, 0, FromRows(nil).Width())
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		size      int
		wantParts []int // row counts per part
	}{
		{name: "smaller than size", rows: 3, size: 10, wantParts: []int{3}},
		{name: "exact multiple", rows: 6, size: 3, wantParts: []int{3, 3}},
		{name: "remainder", rows: 7, size: 3, wantParts: []int{3, 3, 1}},
		{name: "non-positive size", rows: 5, size: 0, wantParts: []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]any, tt.rows)
			for i := range rows {
				rows[i] = []any{i}
			}
			tbl := New([]string{"n"}, rows)

			parts := tbl.Slice(tt.size)
			require.Len(t, parts, len(tt.wantParts))

			// Order is preserved across parts.
			n := 0
			for i, part := range parts {
				assert.Equal(t, tt.wantParts[i], part.NumRows())
				assert.Equal(t, tbl.Header, part.Header)
				for _, row := range part.Rows {
					assert.Equal(t, n, row[0])
					n++
				}
			}
			assert.Equal(t, tt.rows, n)
		})
	}
}

func TestColumnIndex(t *testing.T) {
	tbl := New([]string{"x", "y"}, nil)
	assert.Equal(t, 1, tbl.ColumnIndex("y"))
	assert.Equal(t, -1, tbl.ColumnIndex("z"))
}

func TestCol(t *testing.T) {
	tbl := New([]string{"x", "y"}, [][]any{{1, "a"}, {2, "b"}, {3}})

	vals, err := tbl.Col("y")
	require.NoError(t, err)
	// The third row is short; its cell is nil.
	assert.Equal(t, []any{"a", "b", nil}, vals)

	_, err = tbl.Col("z")
	assert.ErrorContains(t, err, `column "z" not found`)
}
