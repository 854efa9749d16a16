package sqlgen

import (
	"time"

	"github.com/yangaound/dbman/pkg/dialect"
	"github.com/yangaound/dbman/pkg/table"
)

// InferKind classifies a Go value for column type mapping.
// Nil values classify as text.
func InferKind(v any) dialect.TypeKind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return dialect.TypeInteger
	case float32, float64:
		return dialect.TypeFloat
	case bool:
		return dialect.TypeBool
	case time.Time, *time.Time:
		return dialect.TypeTime
	case []byte:
		return dialect.TypeBytes
	default:
		return dialect.TypeText
	}
}

// ColumnKinds infers one kind per column from the first non-nil value in
// that column. Columns with no values fall back to text.
func ColumnKinds(t *table.Table) []dialect.TypeKind {
	width := t.Width()
	kinds := make([]dialect.TypeKind, width)
	decided := make([]bool, width)

	remaining := width
	for _, row := range t.Rows {
		if remaining == 0 {
			break
		}
		for i := 0; i < width && i < len(row); i++ {
			if decided[i] || row[i] == nil {
				continue
			}
			kinds[i] = InferKind(row[i])
			decided[i] = true
			remaining--
		}
	}
	return kinds
}
