package dbman

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yangaound/dbman/internal/testutil"
	"github.com/yangaound/dbman/pkg/sqlgen"

	_ "github.com/yangaound/dbman/pkg/adapters/sqlite"
)

// writeSQLiteConfig writes a dbman.yaml pointing at a throwaway sqlite
// file and returns the config path.
func writeSQLiteConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	content := fmt.Sprintf(`default_profile: test
profiles:
  test:
    driver: sqlite
    database: %s
    batch_size: 2
`, filepath.Join(dir, "test.db"))

	path := filepath.Join(dir, "dbman.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenRoundTrip(t *testing.T) {
	ctx := context.Background()

	m, err := Open(ctx, writeSQLiteConfig(t), "", WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Ping(ctx))
	assert.Equal(t, "sqlite", m.Dialect().Name)

	// Three rows with the profile's batch_size of 2 span two transactions.
	n, err := m.Load(ctx, "users", users(3), WithMode(sqlgen.ModeCreate))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	names, err := m.TableNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "users")

	got, err := m.Query(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, got.Header)
	require.Equal(t, 3, got.NumRows())
	assert.Equal(t, []any{int64(1), "user1"}, got.Rows[0])
	assert.Equal(t, []any{int64(3), "user3"}, got.Rows[2])
}

func TestOpenUnknownProfile(t *testing.T) {
	_, err := Open(context.Background(), writeSQLiteConfig(t), "prod")
	assert.ErrorContains(t, err, `profile "prod" not found`)
}
