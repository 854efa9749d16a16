package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      adapter.Config
		expected string
	}{
		{name: "file path", cfg: adapter.Config{Database: "app.duckdb"}, expected: "app.duckdb"},
		{name: "empty is in-memory", cfg: adapter.Config{}, expected: ""},
		{
			name: "options become query params",
			cfg: adapter.Config{
				Database: "app.duckdb",
				Options:  map[string]string{"access_mode": "read_only"},
			},
			expected: "app.duckdb?access_mode=read_only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildDSN(tt.cfg))
		})
	}
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "INSERT OR REPLACE INTO", Dialect.ReplaceVerb)
	assert.True(t, Dialect.SupportsTruncate)
	assert.Equal(t, dialect.UpsertOnConflict, Dialect.Upsert)
	assert.Equal(t, "main", Dialect.DefaultSchema)
	assert.Equal(t, "VARCHAR", Dialect.TypeName(dialect.TypeText))
}

func TestRegistered(t *testing.T) {
	assert.True(t, adapter.IsRegistered("duckdb"))

	_, ok := dialect.Get("duckdb")
	assert.True(t, ok)
}
