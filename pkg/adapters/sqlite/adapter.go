// Package sqlite provides a SQLite adapter for dbman.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
)

// Dialect describes SQLite's SQL behavior. SQLite has no TRUNCATE; truncate
// mode falls back to DELETE FROM.
var Dialect = &dialect.Dialect{
	Name:              "sqlite",
	DefaultSchema:     "main",
	Placeholder:       dialect.PlaceholderQuestion,
	QuoteOpen:         `"`,
	QuoteClose:        `"`,
	ReplaceVerb:       "INSERT OR REPLACE INTO",
	CreateIfNotExists: true,
	Upsert:            dialect.UpsertOnConflict,
	Types: map[dialect.TypeKind]string{
		dialect.TypeText:    "TEXT",
		dialect.TypeInteger: "INTEGER",
		dialect.TypeFloat:   "REAL",
		dialect.TypeBool:    "BOOLEAN",
		dialect.TypeTime:    "TIMESTAMP",
		dialect.TypeBytes:   "BLOB",
	},
}

func init() {
	dialect.Register(Dialect)
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect opens a SQLite database.
// Use ":memory:" as the database for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.ConfigurePool()
	return nil
}

// buildDSN constructs the sqlite path, appending driver options as query
// parameters in file: URI form.
func buildDSN(cfg adapter.Config) string {
	path := cfg.Database
	if path == "" {
		path = ":memory:"
	}
	if len(cfg.Options) == 0 {
		return path
	}

	query := url.Values{}
	for k, v := range cfg.Options {
		query.Set(k, v)
	}
	return "file:" + path + "?" + query.Encode()
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() *dialect.Dialect { return Dialect }

// TableNames lists the tables via sqlite_master.
func (a *Adapter) TableNames(ctx context.Context) ([]string, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := a.DB.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table names: %w", err)
	}
	return names, nil
}

// TableMetadata retrieves metadata using PRAGMA table_info, since SQLite
// has no information_schema.
func (a *Adapter) TableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	_, tableName := adapter.SplitQualifiedName(table)

	rows, err := a.DB.QueryContext(ctx,
		fmt.Sprintf("PRAGMA table_info(%s)", Dialect.QuoteIdent(tableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}

		columns = append(columns, adapter.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
			Position: cid + 1,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", Dialect.QuoteIdent(tableName))
	var rowCount int64
	if err := a.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		rowCount = 0
	}

	return &adapter.Metadata{
		Schema:   "main",
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
