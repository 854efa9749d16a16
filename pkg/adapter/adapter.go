// Package adapter provides the database adapter contract and shared
// database/sql plumbing for dbman.
//
// Concrete adapter implementations live in pkg/adapters/ subdirectories and
// register themselves at init() time. Import them with a blank identifier
// to make an engine available:
//
//	import _ "github.com/yangaound/dbman/pkg/adapters/mysql"
package adapter

import (
	"context"
	"database/sql"
	"time"

	"github.com/yangaound/dbman/pkg/dialect"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Exec executes a statement that doesn't return rows and reports the
	// number of affected rows (0 when the driver can't tell).
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// BeginTx starts a transaction.
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Dialect returns the SQL dialect for this adapter's engine.
	Dialect() *dialect.Dialect

	// TableNames lists the tables in the connected schema.
	TableNames(ctx context.Context) ([]string, error)

	// TableMetadata retrieves column metadata for a table.
	TableMetadata(ctx context.Context, table string) (*Metadata, error)
}

// Config holds connection settings for an adapter.
// When DSN is set it is passed to the driver verbatim and the discrete
// fields are ignored.
type Config struct {
	Type     string
	DSN      string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string

	// Options holds driver-specific connection parameters.
	Options map[string]string

	// Connection pool limits; zero values leave the driver defaults.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Column represents a column in a database table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// Metadata holds metadata about a database table.
type Metadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}
