// Package mssql provides a Microsoft SQL Server adapter for dbman.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	_ "github.com/denisenkom/go-mssqldb" // sqlserver driver

	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
)

// Dialect describes SQL Server's SQL behavior. SQL Server has no REPLACE
// form; upserts use MERGE.
var Dialect = &dialect.Dialect{
	Name:             "mssql",
	DefaultSchema:    "dbo",
	Placeholder:      dialect.PlaceholderAtP,
	QuoteOpen:        "[",
	QuoteClose:       "]",
	SupportsTruncate: true,
	Upsert:           dialect.UpsertMerge,
	Types: map[dialect.TypeKind]string{
		dialect.TypeText:    "NVARCHAR(MAX)",
		dialect.TypeInteger: "BIGINT",
		dialect.TypeFloat:   "FLOAT",
		dialect.TypeBool:    "BIT",
		dialect.TypeTime:    "DATETIME2",
		dialect.TypeBytes:   "VARBINARY(MAX)",
	},
}

func init() {
	dialect.Register(Dialect)
	adapter.Register("mssql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for SQL Server.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQL Server adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect establishes a connection to SQL Server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	a.Logger.Debug("connecting to mssql",
		slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mssql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mssql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.ConfigurePool()
	return nil
}

// buildDSN constructs a sqlserver:// connection URL.
func buildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 1433
	}

	query := url.Values{}
	if cfg.Database != "" {
		query.Set("database", cfg.Database)
	}
	for k, v := range cfg.Options {
		query.Set(k, v)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     host + ":" + strconv.Itoa(port),
		RawQuery: query.Encode(),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String()
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
