package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yangaound/dbman/pkg/dialect"
)

// wrapped adapts a pre-opened *sql.DB to the Adapter interface using the
// shared information_schema metadata implementation.
type wrapped struct {
	BaseSQLAdapter
	dialect *dialect.Dialect
}

// WrapDB returns an Adapter over an already-open connection speaking the
// given dialect, for callers that manage the *sql.DB themselves (tests,
// shared pools). If logger is nil, a discard logger is used.
func WrapDB(db *sql.DB, d *dialect.Dialect, logger *slog.Logger) Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &wrapped{
		BaseSQLAdapter: BaseSQLAdapter{DB: db, Logger: logger},
		dialect:        d,
	}
}

func (w *wrapped) Connect(_ context.Context, _ Config) error {
	return fmt.Errorf("adapter is already connected")
}

func (w *wrapped) Dialect() *dialect.Dialect { return w.dialect }

func (w *wrapped) TableNames(ctx context.Context) ([]string, error) {
	return w.TableNamesCommon(ctx, w.dialect)
}

func (w *wrapped) TableMetadata(ctx context.Context, table string) (*Metadata, error) {
	return w.TableMetadataCommon(ctx, table, w.dialect)
}
