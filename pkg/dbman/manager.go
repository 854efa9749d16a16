// Package dbman is the read/write facade over the database adapters: one
// way to open a connection from a named config profile, one way to query
// into a table, and one way to load a table back with a chosen write mode.
package dbman

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yangaound/dbman/internal/config"
	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
	"github.com/yangaound/dbman/pkg/table"
)

// DefaultBatchSize is the number of rows committed per transaction when
// no batch size is configured.
const DefaultBatchSize = config.DefaultBatchSize

// Manager couples a connected adapter with write defaults.
type Manager struct {
	adapter   adapter.Adapter
	logger    *slog.Logger
	batchSize int
}

// Option adjusts a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithBatchSize sets the number of rows committed per transaction.
func WithBatchSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

func newManager(a adapter.Adapter, opts []Option) *Manager {
	m := &Manager{
		adapter:   a,
		logger:    slog.New(slog.DiscardHandler),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open connects using a named profile from dbman.yaml. An empty profile
// name selects the file's default profile, and an empty configPath runs
// file discovery.
func Open(ctx context.Context, configPath, profile string, opts ...Option) (*Manager, error) {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return nil, err
	}

	p, err := cfg.Profile(profile)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// The profile's batch size is the default; explicit options win.
	opts = append([]Option{WithBatchSize(p.EffectiveBatchSize())}, opts...)
	return OpenConfig(ctx, p.AdapterConfig(), opts...)
}

// OpenConfig connects using an explicit adapter config, bypassing
// dbman.yaml.
func OpenConfig(ctx context.Context, cfg adapter.Config, opts ...Option) (*Manager, error) {
	m := newManager(nil, opts)
	a, err := adapter.Connect(ctx, cfg, m.logger)
	if err != nil {
		return nil, err
	}
	m.adapter = a
	return m, nil
}

// New wraps an already-open *sql.DB speaking the named dialect, for
// callers that manage the connection themselves.
func New(db *sql.DB, dialectName string, opts ...Option) (*Manager, error) {
	d, ok := dialect.Get(dialectName)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (have %v)", dialectName, dialect.List())
	}
	m := newManager(nil, opts)
	m.adapter = adapter.WrapDB(db, d, m.logger)
	return m, nil
}

// Adapter returns the underlying adapter.
func (m *Manager) Adapter() adapter.Adapter { return m.adapter }

// Dialect returns the SQL dialect of the connected engine.
func (m *Manager) Dialect() *dialect.Dialect { return m.adapter.Dialect() }

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error { return m.adapter.Ping(ctx) }

// Close closes the underlying connection.
func (m *Manager) Close() error { return m.adapter.Close() }

// Query runs a statement and reads the full result into a table.
// []byte cells are converted to string so drivers that return raw bytes
// (MySQL) produce the same table as drivers that don't.
func (m *Manager) Query(ctx context.Context, query string, args ...any) (*table.Table, error) {
	rows, err := m.adapter.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTable(rows)
}

// QueryRows runs a statement and returns the raw rows for callers that
// want to stream large results. The caller closes the rows.
func (m *Manager) QueryRows(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return m.adapter.Query(ctx, query, args...)
}

// Exec runs a statement that returns no rows and reports the affected
// row count.
func (m *Manager) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return m.adapter.Exec(ctx, query, args...)
}

// WithTx runs fn inside a transaction, committing when fn returns nil
// and rolling back otherwise.
func (m *Manager) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.adapter.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// TableNames lists the tables in the connected schema.
func (m *Manager) TableNames(ctx context.Context) ([]string, error) {
	return m.adapter.TableNames(ctx)
}

// TableMetadata retrieves column metadata for a table.
func (m *Manager) TableMetadata(ctx context.Context, name string) (*adapter.Metadata, error) {
	return m.adapter.TableMetadata(ctx, name)
}

func scanTable(rows *sql.Rows) (*table.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	t := table.New(cols, nil)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		row := make([]any, len(cols))
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return t, nil
}
