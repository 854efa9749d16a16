package sqlgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yangaound/dbman/pkg/dialect"
	"github.com/yangaound/dbman/pkg/table"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want dialect.TypeKind
	}{
		{name: "int", v: 42, want: dialect.TypeInteger},
		{name: "int64", v: int64(42), want: dialect.TypeInteger},
		{name: "uint32", v: uint32(42), want: dialect.TypeInteger},
		{name: "float64", v: 3.14, want: dialect.TypeFloat},
		{name: "bool", v: true, want: dialect.TypeBool},
		{name: "time", v: time.Now(), want: dialect.TypeTime},
		{name: "bytes", v: []byte("x"), want: dialect.TypeBytes},
		{name: "string", v: "hello", want: dialect.TypeText},
		{name: "nil", v: nil, want: dialect.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.v))
		})
	}
}

func TestColumnKinds(t *testing.T) {
	tbl := table.New([]string{"id", "score", "note"}, [][]any{
		{nil, nil, nil},
		{int64(1), 0.5, nil},
		{int64(2), 0.7, "ok"},
	})

	kinds := ColumnKinds(tbl)
	assert.Equal(t, []dialect.TypeKind{
		dialect.TypeInteger,
		dialect.TypeFloat,
		dialect.TypeText,
	}, kinds)
}

func TestColumnKindsAllNil(t *testing.T) {
	tbl := table.New([]string{"x"}, [][]any{{nil}})
	assert.Equal(t, []dialect.TypeKind{dialect.TypeText}, ColumnKinds(tbl))
}
