// Package mysql provides a MySQL adapter for dbman.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/yangaound/dbman/pkg/adapter"
	"github.com/yangaound/dbman/pkg/dialect"
)

// Dialect describes MySQL's SQL behavior.
var Dialect = &dialect.Dialect{
	Name:              "mysql",
	Placeholder:       dialect.PlaceholderQuestion,
	QuoteOpen:         "`",
	QuoteClose:        "`",
	ReplaceVerb:       "REPLACE INTO",
	SupportsTruncate:  true,
	CreateIfNotExists: true,
	Upsert:            dialect.UpsertOnDuplicateKey,
	Types: map[dialect.TypeKind]string{
		dialect.TypeText:    "TEXT",
		dialect.TypeInteger: "BIGINT",
		dialect.TypeFloat:   "DOUBLE",
		dialect.TypeBool:    "BOOLEAN",
		dialect.TypeTime:    "DATETIME",
		dialect.TypeBytes:   "BLOB",
	},
}

func init() {
	dialect.Register(Dialect)
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	a.Logger.Debug("connecting to mysql",
		slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.ConfigurePool()
	return nil
}

// buildDSN constructs a MySQL connection string from discrete config fields.
func buildDSN(cfg adapter.Config) string {
	mc := gomysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	mc.Addr = host + ":" + strconv.Itoa(port)
	mc.DBName = cfg.Database
	mc.ParseTime = true

	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}

	return mc.FormatDSN()
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() *dialect.Dialect { return Dialect }

// TableNames lists the tables in the connected database.
func (a *Adapter) TableNames(ctx context.Context) ([]string, error) {
	return a.TableNamesCommon(ctx, Dialect)
}

// TableMetadata retrieves metadata for a specified table.
func (a *Adapter) TableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.TableMetadataCommon(ctx, table, Dialect)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
