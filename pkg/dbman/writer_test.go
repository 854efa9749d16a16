package dbman

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yangaound/dbman/pkg/sqlgen"
	"github.com/yangaound/dbman/pkg/table"
)

const insertUsers = `INSERT INTO "users" ("id", "name") VALUES (?, ?)`

func users(n int) *table.Table {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{int64(i + 1), fmt.Sprintf("user%d", i+1)}
	}
	return table.New([]string{"id", "name"}, rows)
}

func TestLoadInsert(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertUsers).WithArgs(int64(1), "user1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertUsers).WithArgs(int64(2), "user2").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := m.Load(context.Background(), "users", users(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadBatching(t *testing.T) {
	m, mock := newMockManager(t)

	// 5 rows with batch 2: three transactions of 2, 2 and 1 rows.
	for _, size := range []int{2, 2, 1} {
		mock.ExpectBegin()
		for i := 0; i < size; i++ {
			mock.ExpectExec(insertUsers).
				WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()
	}

	n, err := m.Load(context.Background(), "users", users(5), WithBatch(2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadExactBatchMultiple(t *testing.T) {
	m, mock := newMockManager(t)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(insertUsers).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertUsers).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	n, err := m.Load(context.Background(), "users", users(4), WithBatch(2))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFailureKeepsCommittedBatches(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertUsers).WithArgs(int64(1), "user1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertUsers).WithArgs(int64(2), "user2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(insertUsers).WithArgs(int64(3), "user3").WillReturnError(fmt.Errorf("duplicate key"))
	mock.ExpectRollback()

	n, err := m.Load(context.Background(), "users", users(3), WithBatch(2))
	assert.ErrorContains(t, err, "duplicate key")
	// The first batch stays committed.
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadReplace(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(`REPLACE INTO "users" ("id", "name") VALUES (?, ?)`).
		WithArgs(int64(1), "user1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := m.Load(context.Background(), "users", users(1), WithMode(sqlgen.ModeReplace))
	require.NoError(t, err)
	// A replace that displaces an existing row reports 2 affected rows.
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadUpsert(t *testing.T) {
	m, mock := newMockManager(t)

	upsert := `INSERT INTO "users" ("id", "name") VALUES (?, ?)` +
		` ON CONFLICT ("id") DO UPDATE SET "name" = EXCLUDED."name"`

	mock.ExpectBegin()
	mock.ExpectExec(upsert).WithArgs(int64(1), "user1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.Load(context.Background(), "users", users(1),
		WithMode(sqlgen.ModeUpsert), WithKeys("id"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTruncate(t *testing.T) {
	m, mock := newMockManager(t)

	// Truncate runs before and outside the row transactions.
	mock.ExpectExec(`TRUNCATE TABLE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(insertUsers).WithArgs(int64(1), "user1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.Load(context.Background(), "users", users(1), WithMode(sqlgen.ModeTruncate))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCreate(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "users" ("id" BIGINT, "name" TEXT)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(insertUsers).WithArgs(int64(1), "user1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.Load(context.Background(), "users", users(1), WithMode(sqlgen.ModeCreate))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSetupFailure(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec(`TRUNCATE TABLE "users"`).WillReturnError(fmt.Errorf("locked"))

	_, err := m.Load(context.Background(), "users", users(1), WithMode(sqlgen.ModeTruncate))
	assert.ErrorContains(t, err, "setup statement failed")
}

func TestLoadEmptyTable(t *testing.T) {
	m, mock := newMockManager(t)

	n, err := m.Load(context.Background(), "users", table.New([]string{"id", "name"}, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadUnsupportedMode(t *testing.T) {
	m, _ := newMockManager(t)

	_, err := m.Load(context.Background(), "users", users(1), WithMode(sqlgen.Mode("bulk")))
	assert.ErrorContains(t, err, "unknown write mode")
}

func TestCreateTable(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "users" ("id" BIGINT, "name" TEXT)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.CreateTable(context.Background(), "users", users(1))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRecords(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertUsers).WithArgs(1, "alice").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.LoadRecords(context.Background(), "users", []map[string]any{
		{"id": 1, "name": "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
