package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mevdschee/tqdbkit/expr"
)

var (
	// ErrIncompleteDialect is returned by New when a dialect leaves a
	// required token or renderer empty
	ErrIncompleteDialect = errors.New("incomplete dialect")

	// ErrUnknownDialect is returned by Lookup for unsupported database kinds
	ErrUnknownDialect = errors.New("unknown dialect")
)

// Dialect describes one database vendor's SQL. Dialects are values: the
// tokens and renderers are fixed when the dialect is built and shared by
// every translation.
//
// All fields except Placeholder and EscapeString are required. Renderers receive the
// translation Context so they can render sub-expressions.
type Dialect struct {
	Name string

	// Escape quotes identifiers.
	Escape string
	// True and False render quoted boolean constants.
	True  string
	False string

	AlterColumn     func(c *Context, ac *expr.AlterColumn) string
	DropPrimaryKey  func(c *Context, d *expr.DropPrimaryKey) string
	Function        func(c *Context, f *expr.Function) string
	Modulo          func(c *Context, m *expr.Modulo) string
	Rename          func(c *Context, r *expr.Rename) string
	RepeatDelimiter func(c *Context, rd *expr.RepeatDelimiter) string
	Query           func(c *Context, q *expr.Query) string
	View            func(c *Context, v *expr.View) string
	Column          func(c *Context, col *expr.Column) string

	// Placeholder renders the i-th (1-based) bind parameter. Defaults to "?".
	Placeholder func(i int) string

	// EscapeString escapes string constants. Defaults to doubling quotes.
	EscapeString func(s string) string
}

func (d *Dialect) escapeString(s string) string {
	if d.EscapeString == nil {
		return EscapeString(s)
	}
	return d.EscapeString(s)
}

// validate reports the first missing required entry.
func (d *Dialect) validate() error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s has no %s", ErrIncompleteDialect, d.Name, field)
	}
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: dialect has no name", ErrIncompleteDialect)
	case d.Escape == "":
		return missing("escape token")
	case d.True == "":
		return missing("true token")
	case d.False == "":
		return missing("false token")
	case d.AlterColumn == nil:
		return missing("AlterColumn renderer")
	case d.DropPrimaryKey == nil:
		return missing("DropPrimaryKey renderer")
	case d.Function == nil:
		return missing("Function renderer")
	case d.Modulo == nil:
		return missing("Modulo renderer")
	case d.Rename == nil:
		return missing("Rename renderer")
	case d.RepeatDelimiter == nil:
		return missing("RepeatDelimiter renderer")
	case d.Query == nil:
		return missing("Query renderer")
	case d.View == nil:
		return missing("View renderer")
	case d.Column == nil:
		return missing("Column renderer")
	}
	return nil
}

func questionMark(int) string { return "?" }

// Lookup returns the built-in dialect for a database kind or driver name.
func Lookup(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pq", "pgx":
		return Postgres(), nil
	case "mysql", "mariadb":
		return MySQL(), nil
	case "sqlite", "sqlite3":
		return SQLite(), nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}
