// Package postgres provides a PostgreSQL adapter for dbman.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
)

// Dialect describes PostgreSQL's SQL behavior. PostgreSQL has no REPLACE
// form; upserts use ON CONFLICT.
var Dialect = &dialect.Dialect{
	Name:              "postgres",
	DefaultSchema:     "public",
	Placeholder:       dialect.PlaceholderDollar,
	QuoteOpen:         `"`,
	QuoteClose:        `"`,
	SupportsTruncate:  true,
	CreateIfNotExists: true,
	Upsert:            dialect.UpsertOnConflict,
	Types: map[dialect.TypeKind]string{
		dialect.TypeText:    "TEXT",
		dialect.TypeInteger: "BIGINT",
		dialect.TypeFloat:   "DOUBLE PRECISION",
		dialect.TypeBool:    "BOOLEAN",
		dialect.TypeTime:    "TIMESTAMPTZ",
		dialect.TypeBytes:   "BYTEA",
	},
}

func init() {
	dialect.Register(Dialect)
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.ConfigurePool()
	return nil
}

// buildDSN constructs a PostgreSQL connection string in key=value form.
func buildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
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
