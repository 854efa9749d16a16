package postgres

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
		{
			name: "full config",
			cfg: adapter.Config{
				Host:     "db.internal",
				Port:     5433,
				Database: "foo",
				Username: "bob",
				Password: "secret",
			},
			expected: "host=db.internal port=5433 dbname=foo sslmode=disable user=bob password=secret",
		},
		{
			name:     "defaults",
			cfg:      adapter.Config{Database: "foo"},
			expected: "host=localhost port=5432 dbname=foo sslmode=disable",
		},
		{
			name: "sslmode option",
			cfg: adapter.Config{
				Database: "foo",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=localhost port=5432 dbname=foo sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildDSN(tt.cfg))
		})
	}
}

func TestDialect(t *testing.T) {
	assert.Empty(t, Dialect.ReplaceVerb)
	assert.Equal(t, dialect.UpsertOnConflict, Dialect.Upsert)
	assert.Equal(t, "public", Dialect.DefaultSchema)
	assert.Equal(t, "$2", Dialect.FormatPlaceholder(2))
}

func TestRegistered(t *testing.T) {
	assert.True(t, adapter.IsRegistered("postgres"))

	_, ok := dialect.Get("postgres")
	assert.True(t, ok)
}
