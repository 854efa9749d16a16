// Package duckdb provides a DuckDB adapter for dbman.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
)

// Dialect describes DuckDB's SQL behavior.
var Dialect = &dialect.Dialect{
	Name:              "duckdb",
	DefaultSchema:     "main",
	Placeholder:       dialect.PlaceholderQuestion,
	QuoteOpen:         `"`,
	QuoteClose:        `"`,
	ReplaceVerb:       "INSERT OR REPLACE INTO",
	SupportsTruncate:  true,
	CreateIfNotExists: true,
	Upsert:            dialect.UpsertOnConflict,
	Types: map[dialect.TypeKind]string{
		dialect.TypeText:    "VARCHAR",
		dialect.TypeInteger: "BIGINT",
		dialect.TypeFloat:   "DOUBLE",
		dialect.TypeBool:    "BOOLEAN",
		dialect.TypeTime:    "TIMESTAMP",
		dialect.TypeBytes:   "BLOB",
	},
}

func init() {
	dialect.Register(Dialect)
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect opens a DuckDB database.
// An empty database path opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.DSN
	if path == "" {
		path = buildDSN(cfg)
	}

	a.Logger.Debug("opening duckdb database", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.ConfigurePool()
	return nil
}

// buildDSN constructs the duckdb path, appending driver settings such as
// access_mode as query parameters.
func buildDSN(cfg adapter.Config) string {
	path := cfg.Database
	if len(cfg.Options) == 0 {
		return path
	}

	query := url.Values{}
	for k, v := range cfg.Options {
		query.Set(k, v)
	}
	return path + "?" + query.Encode()
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() *dialect.Dialect { return Dialect }

// TableNames lists the tables in the connected schema.
func (a *Adapter) TableNames(ctx context.Context) ([]string, error) {
	return a.TableNamesCommon(ctx, Dialect)
}

// TableMetadata retrieves metadata for a specified table.
func (a *Adapter) TableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.TableMetadataCommon(ctx, table, Dialect)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
