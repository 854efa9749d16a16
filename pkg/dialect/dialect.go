// Package dialect describes per-engine SQL behavior used by statement
// synthesis and the adapters: placeholder formatting, identifier quoting,
// and which write modes an engine supports.
//
// Concrete dialects are registered from pkg/adapters/*/ packages in their
// init() functions.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// PlaceholderStyle selects how query parameters are written.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses "?" (MySQL, SQLite, DuckDB).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses "$1", "$2", ... (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAtP uses "@p1", "@p2", ... (SQL Server).
	PlaceholderAtP
)

// UpsertStyle selects how insert-or-update statements are written.
type UpsertStyle int

const (
	// UpsertNone means the engine has no native upsert form.
	UpsertNone UpsertStyle = iota
	// UpsertOnDuplicateKey uses INSERT ... ON DUPLICATE KEY UPDATE (MySQL).
	UpsertOnDuplicateKey
	// UpsertOnConflict uses INSERT ... ON CONFLICT (...) DO UPDATE
	// (PostgreSQL, SQLite, DuckDB).
	UpsertOnConflict
	// UpsertMerge uses a MERGE statement (SQL Server).
	UpsertMerge
)

// TypeKind classifies a Go value for column type mapping in create mode.
type TypeKind int

const (
	TypeText TypeKind = iota
	TypeInteger
	TypeFloat
	TypeBool
	TypeTime
	TypeBytes
)

// Dialect represents the SQL behavior of one database engine.
type Dialect struct {
	Name          string
	DefaultSchema string

	Placeholder PlaceholderStyle

	// QuoteOpen/QuoteClose delimit quoted identifiers ("`" for MySQL,
	// `"` for PostgreSQL/SQLite/DuckDB, "[" / "]" for SQL Server).
	QuoteOpen  string
	QuoteClose string

	// ReplaceVerb is the statement head for replace mode ("REPLACE INTO",
	// "INSERT OR REPLACE INTO"). Empty means the engine has no replace form.
	ReplaceVerb string

	// SupportsTruncate is false for engines without TRUNCATE TABLE;
	// truncate mode then falls back to DELETE FROM.
	SupportsTruncate bool

	// CreateIfNotExists is true when the engine accepts
	// CREATE TABLE IF NOT EXISTS.
	CreateIfNotExists bool

	Upsert UpsertStyle

	// Types maps value kinds to column type names for create mode.
	Types map[TypeKind]string
}

// FormatPlaceholder returns the placeholder for the n-th parameter (1-based).
func (d *Dialect) FormatPlaceholder(n int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(n)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// QuoteIdent quotes a single identifier, escaping embedded closing quotes.
func (d *Dialect) QuoteIdent(name string) string {
	escaped := strings.ReplaceAll(name, d.QuoteClose, d.QuoteClose+d.QuoteClose)
	return d.QuoteOpen + escaped + d.QuoteClose
}

// QuoteQualified quotes a possibly schema-qualified name ("schema.table").
func (d *Dialect) QuoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// TypeName returns the column type name for a value kind, falling back to
// the text type when the kind has no mapping.
func (d *Dialect) TypeName(k TypeKind) string {
	if t, ok := d.Types[k]; ok {
		return t
	}
	return d.Types[TypeText]
}

// TruncateStmt returns the statement that empties a table.
func (d *Dialect) TruncateStmt(table string) string {
	if d.SupportsTruncate {
		return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteQualified(table))
	}
	return fmt.Sprintf("DELETE FROM %s", d.QuoteQualified(table))
}
