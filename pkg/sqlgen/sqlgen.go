// Package sqlgen translates a table into a plan of parameterized SQL
// statements for one of the write modes. Statement text depends only on
// the dialect, the target table, and which columns a row populates, so
// consecutive rows that share the same shape execute against the same
// prepared statement.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yangaound/dbman/pkg/dialect"
	"github.com/yangaound/dbman/pkg/table"
)

// Mode selects how rows are written to the target table.
type Mode string

const (
	// ModeInsert appends rows with plain INSERT statements.
	ModeInsert Mode = "insert"
	// ModeReplace uses the engine's replace form (REPLACE INTO,
	// INSERT OR REPLACE INTO). Not every engine has one.
	ModeReplace Mode = "replace"
	// ModeUpsert inserts rows, updating the non-key columns when a row
	// with the same key already exists.
	ModeUpsert Mode = "upsert"
	// ModeTruncate empties the target table, then inserts.
	ModeTruncate Mode = "truncate"
	// ModeCreate creates the target table from the data shape, then inserts.
	ModeCreate Mode = "create"
)

// ErrUnsupportedMode is returned when a dialect has no statement form for
// the requested mode.
var ErrUnsupportedMode = errors.New("unsupported write mode")

// ParseMode normalizes a mode name. "update" is accepted as an alias
// for upsert.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeInsert, ModeReplace, ModeUpsert, ModeTruncate, ModeCreate:
		return m, nil
	case "update":
		return ModeUpsert, nil
	default:
		return "", fmt.Errorf("unknown write mode %q (expected insert, replace, upsert, truncate or create)", s)
	}
}

// RowSet is one statement plus the argument rows to execute it with,
// one execution per row.
type RowSet struct {
	SQL  string
	Rows [][]any
}

// Plan is the full set of statements for one write: setup statements
// executed once up front (truncate, create table), then the row sets.
type Plan struct {
	Setup []string
	Sets  []RowSet
}

// NumRows returns the total number of argument rows across all sets.
func (p *Plan) NumRows() int {
	n := 0
	for _, s := range p.Sets {
		n += len(s.Rows)
	}
	return n
}

// Generate builds the statement plan for writing t into the named table.
// keys is required for upsert mode and ignored otherwise.
func Generate(d *dialect.Dialect, tableName string, t *table.Table, mode Mode, keys []string) (*Plan, error) {
	if t.Width() == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	switch mode {
	case ModeInsert:
		set, err := BuildInsert(d, tableName, t)
		if err != nil {
			return nil, err
		}
		return &Plan{Sets: []RowSet{set}}, nil

	case ModeReplace:
		set, err := BuildReplace(d, tableName, t)
		if err != nil {
			return nil, err
		}
		return &Plan{Sets: []RowSet{set}}, nil

	case ModeUpsert:
		sets, err := BuildUpsert(d, tableName, t, keys)
		if err != nil {
			return nil, err
		}
		return &Plan{Sets: sets}, nil

	case ModeTruncate:
		set, err := BuildInsert(d, tableName, t)
		if err != nil {
			return nil, err
		}
		return &Plan{
			Setup: []string{d.TruncateStmt(tableName)},
			Sets:  []RowSet{set},
		}, nil

	case ModeCreate:
		create, err := CreateStmt(d, tableName, t)
		if err != nil {
			return nil, err
		}
		set, err := BuildInsert(d, tableName, t)
		if err != nil {
			return nil, err
		}
		return &Plan{
			Setup: []string{create},
			Sets:  []RowSet{set},
		}, nil

	default:
		return nil, fmt.Errorf("unknown write mode %q", mode)
	}
}

// BuildInsert builds one INSERT statement covering every column, with one
// argument row per table row.
func BuildInsert(d *dialect.Dialect, tableName string, t *table.Table) (RowSet, error) {
	return buildValuesSet(d, "INSERT INTO", tableName, t)
}

// BuildReplace builds the engine's replace-form statement. Engines without
// a replace form (PostgreSQL, SQL Server) return ErrUnsupportedMode.
func BuildReplace(d *dialect.Dialect, tableName string, t *table.Table) (RowSet, error) {
	if d.ReplaceVerb == "" {
		return RowSet{}, fmt.Errorf("%w: %s has no replace form, use upsert instead", ErrUnsupportedMode, d.Name)
	}
	return buildValuesSet(d, d.ReplaceVerb, tableName, t)
}

func buildValuesSet(d *dialect.Dialect, verb, tableName string, t *table.Table) (RowSet, error) {
	width := t.Width()

	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteByte(' ')
	sb.WriteString(d.QuoteQualified(tableName))

	if t.HasHeader() {
		sb.WriteString(" (")
		for i, col := range t.Header {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.QuoteIdent(col))
		}
		sb.WriteByte(')')
	}

	sb.WriteString(" VALUES (")
	for i := 0; i < width; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.FormatPlaceholder(i + 1))
	}
	sb.WriteByte(')')

	rows := make([][]any, 0, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != width {
			return RowSet{}, fmt.Errorf("row %d has %d values, expected %d", i, len(row), width)
		}
		rows = append(rows, row)
	}
	return RowSet{SQL: sb.String(), Rows: rows}, nil
}

// BuildUpsert builds insert-or-update statements keyed on the given
// columns. Columns that are nil in a row are left out of that row's
// statement, so rows with different populated columns land in different
// row sets; consecutive rows with the same shape share one.
func BuildUpsert(d *dialect.Dialect, tableName string, t *table.Table, keys []string) ([]RowSet, error) {
	if d.Upsert == dialect.UpsertNone {
		return nil, fmt.Errorf("%w: %s has no upsert form", ErrUnsupportedMode, d.Name)
	}
	if !t.HasHeader() {
		return nil, fmt.Errorf("upsert requires a table with a header")
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("upsert requires at least one key column")
	}

	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if t.ColumnIndex(k) < 0 {
			return nil, fmt.Errorf("key column %q not in table header %v", k, t.Header)
		}
		keySet[k] = struct{}{}
	}

	var sets []RowSet
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(t.Header))
		}

		cols := make([]string, 0, len(t.Header))
		args := make([]any, 0, len(row))
		for j, col := range t.Header {
			if row[j] == nil {
				continue
			}
			cols = append(cols, col)
			args = append(args, row[j])
		}

		for _, k := range keys {
			if row[t.ColumnIndex(k)] == nil {
				return nil, fmt.Errorf("row %d has no value for key column %q", i, k)
			}
		}

		stmt, err := upsertStmt(d, tableName, cols, keys, keySet)
		if err != nil {
			return nil, err
		}

		if n := len(sets); n > 0 && sets[n-1].SQL == stmt {
			sets[n-1].Rows = append(sets[n-1].Rows, args)
		} else {
			sets = append(sets, RowSet{SQL: stmt, Rows: [][]any{args}})
		}
	}
	return sets, nil
}

func upsertStmt(d *dialect.Dialect, tableName string, cols, keys []string, keySet map[string]struct{}) (string, error) {
	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if _, isKey := keySet[col]; !isKey {
			updates = append(updates, col)
		}
	}

	switch d.Upsert {
	case dialect.UpsertOnDuplicateKey:
		return upsertOnDuplicateKey(d, tableName, cols, keys, updates), nil
	case dialect.UpsertOnConflict:
		return upsertOnConflict(d, tableName, cols, keys, updates), nil
	case dialect.UpsertMerge:
		return upsertMerge(d, tableName, cols, keys, updates), nil
	default:
		return "", fmt.Errorf("%w: %s has no upsert form", ErrUnsupportedMode, d.Name)
	}
}

func writeInsertHead(sb *strings.Builder, d *dialect.Dialect, tableName string, cols []string) {
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteQualified(tableName))
	sb.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdent(col))
	}
	sb.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.FormatPlaceholder(i + 1))
	}
	sb.WriteByte(')')
}

func upsertOnDuplicateKey(d *dialect.Dialect, tableName string, cols, keys, updates []string) string {
	var sb strings.Builder
	writeInsertHead(&sb, d, tableName, cols)
	sb.WriteString(" ON DUPLICATE KEY UPDATE ")
	if len(updates) == 0 {
		// All populated columns are keys; update one key to itself so the
		// statement stays valid and the duplicate is swallowed.
		k := d.QuoteIdent(keys[0])
		sb.WriteString(k + " = " + k)
		return sb.String()
	}
	for i, col := range updates {
		if i > 0 {
			sb.WriteString(", ")
		}
		q := d.QuoteIdent(col)
		sb.WriteString(q + " = VALUES(" + q + ")")
	}
	return sb.String()
}

func upsertOnConflict(d *dialect.Dialect, tableName string, cols, keys, updates []string) string {
	var sb strings.Builder
	writeInsertHead(&sb, d, tableName, cols)
	sb.WriteString(" ON CONFLICT (")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdent(k))
	}
	sb.WriteByte(')')
	if len(updates) == 0 {
		sb.WriteString(" DO NOTHING")
		return sb.String()
	}
	sb.WriteString(" DO UPDATE SET ")
	for i, col := range updates {
		if i > 0 {
			sb.WriteString(", ")
		}
		q := d.QuoteIdent(col)
		sb.WriteString(q + " = EXCLUDED." + q)
	}
	return sb.String()
}

func upsertMerge(d *dialect.Dialect, tableName string, cols, keys, updates []string) string {
	target := d.QuoteQualified(tableName)

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = d.QuoteIdent(col)
		placeholders[i] = d.FormatPlaceholder(i + 1)
	}

	var sb strings.Builder
	sb.WriteString("MERGE INTO " + target + " AS t")
	sb.WriteString(" USING (VALUES (" + strings.Join(placeholders, ", ") + "))")
	sb.WriteString(" AS s (" + strings.Join(quoted, ", ") + ")")

	sb.WriteString(" ON ")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		q := d.QuoteIdent(k)
		sb.WriteString("t." + q + " = s." + q)
	}

	if len(updates) > 0 {
		sb.WriteString(" WHEN MATCHED THEN UPDATE SET ")
		for i, col := range updates {
			if i > 0 {
				sb.WriteString(", ")
			}
			q := d.QuoteIdent(col)
			sb.WriteString("t." + q + " = s." + q)
		}
	}

	srcCols := make([]string, len(quoted))
	for i, q := range quoted {
		srcCols[i] = "s." + q
	}
	sb.WriteString(" WHEN NOT MATCHED THEN INSERT (" + strings.Join(quoted, ", ") + ")")
	sb.WriteString(" VALUES (" + strings.Join(srcCols, ", ") + ");")
	return sb.String()
}

// CreateStmt builds a CREATE TABLE statement from the table's header and
// the value kinds inferred from its rows.
func CreateStmt(d *dialect.Dialect, tableName string, t *table.Table) (string, error) {
	if !t.HasHeader() {
		return "", fmt.Errorf("create requires a table with a header")
	}

	kinds := ColumnKinds(t)

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if d.CreateIfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(d.QuoteQualified(tableName))
	sb.WriteString(" (")
	for i, col := range t.Header {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdent(col) + " " + d.TypeName(kinds[i]))
	}
	sb.WriteByte(')')
	return sb.String(), nil
}
