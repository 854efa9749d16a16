package dbman

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yangaound/dbman/pkg/sqlgen"
	"github.com/yangaound/dbman/pkg/table"
)

// LoadOption adjusts a single Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	mode  sqlgen.Mode
	keys  []string
	batch int
}

// WithMode selects the write mode. The default is insert.
func WithMode(mode sqlgen.Mode) LoadOption {
	return func(o *loadOptions) { o.mode = mode }
}

// WithKeys names the key columns for upsert mode.
func WithKeys(keys ...string) LoadOption {
	return func(o *loadOptions) { o.keys = keys }
}

// WithBatch overrides the manager's batch size for this load.
func WithBatch(n int) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.batch = n
		}
	}
}

// Load writes the table into the named target table and returns the total
// affected row count. Rows are written in order, committed one transaction
// per batch; on failure the current transaction rolls back, earlier
// batches stay committed, and the returned count covers what was
// committed.
func (m *Manager) Load(ctx context.Context, tableName string, t *table.Table, opts ...LoadOption) (int64, error) {
	o := loadOptions{mode: sqlgen.ModeInsert, batch: m.batchSize}
	for _, opt := range opts {
		opt(&o)
	}

	plan, err := sqlgen.Generate(m.Dialect(), tableName, t, o.mode, o.keys)
	if err != nil {
		return 0, err
	}

	m.logger.Debug("loading table",
		slog.String("table", tableName),
		slog.String("mode", string(o.mode)),
		slog.Int("rows", plan.NumRows()),
		slog.Int("batch_size", o.batch))

	// Setup statements (truncate, create table) run outside the row
	// batches so a later batch failure doesn't undo them.
	for _, stmt := range plan.Setup {
		if _, err := m.adapter.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("setup statement failed: %w", err)
		}
	}

	return m.execPlan(ctx, plan, o.batch)
}

// LoadRecords writes row mappings into the named table. The column set is
// the sorted union of the record keys.
func (m *Manager) LoadRecords(ctx context.Context, tableName string, records []map[string]any, opts ...LoadOption) (int64, error) {
	return m.Load(ctx, tableName, table.FromRecords(records), opts...)
}

// CreateTable creates the named table from the data shape without
// inserting anything. Column types are inferred from the first non-nil
// value in each column.
func (m *Manager) CreateTable(ctx context.Context, tableName string, t *table.Table) error {
	stmt, err := sqlgen.CreateStmt(m.Dialect(), tableName, t)
	if err != nil {
		return err
	}
	_, err = m.adapter.Exec(ctx, stmt)
	return err
}

// execPlan executes the plan's row sets in order, committing after every
// batch rows. Transactions may span set boundaries so batch size, not
// statement shape, decides commit points.
func (m *Manager) execPlan(ctx context.Context, plan *sqlgen.Plan, batch int) (int64, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	var (
		tx                 *sql.Tx
		committed, pending int64
		inTx               int
	)

	for _, set := range plan.Sets {
		for _, args := range set.Rows {
			if tx == nil {
				var err error
				if tx, err = m.adapter.BeginTx(ctx); err != nil {
					return committed, err
				}
			}

			res, err := tx.ExecContext(ctx, set.SQL, args...)
			if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					m.logger.Error("rollback failed", slog.Any("error", rbErr))
				}
				return committed, fmt.Errorf("write failed after %d committed rows: %w", committed, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				pending += n
			}

			inTx++
			if inTx == batch {
				if err := tx.Commit(); err != nil {
					return committed, fmt.Errorf("commit failed after %d committed rows: %w", committed, err)
				}
				committed += pending
				pending = 0
				inTx = 0
				tx = nil
			}
		}
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return committed, fmt.Errorf("commit failed after %d committed rows: %w", committed, err)
		}
	}
	return committed + pending, nil
}
