package translator

import (
	"fmt"
	"strconv"

	"github.com/mevdschee/tqdbkit/expr"
)

// SQLite returns the SQLite dialect. SQLite cannot alter a column or drop a
// primary key in place; rendering those nodes panics.
func SQLite() Dialect {
	return Dialect{
		Name:   "sqlite",
		Escape: `"`,
		True:   "1",
		False:  "0",

		AlterColumn: func(*Context, *expr.AlterColumn) string {
			panic("translator: sqlite does not support ALTER COLUMN")
		},

		DropPrimaryKey: func(*Context, *expr.DropPrimaryKey) string {
			panic("translator: sqlite does not support dropping a primary key")
		},

		Function: func(c *Context, f *expr.Function) string {
			return FunctionCall(c, f.Name, f)
		},

		Modulo: func(c *Context, m *expr.Modulo) string {
			return Enclose(fmt.Sprintf("%s %% %s", c.Render(m.Dividend), c.Render(m.Divisor)), m.Enclosed)
		},

		Rename: func(c *Context, r *expr.Rename) string {
			return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", c.Render(r.Old), c.Render(r.New))
		},

		RepeatDelimiter: JoinDelimited,

		Query: func(c *Context, q *expr.Query) string {
			s := SelectCore(c, q)
			switch {
			case q.Limit > 0:
				s += " LIMIT " + strconv.Itoa(q.Limit)
			case q.Offset > 0:
				s += " LIMIT -1"
			}
			if q.Offset > 0 {
				s += " OFFSET " + strconv.Itoa(q.Offset)
			}
			return Enclose(s, q.Enclosed)
		},

		// No CREATE OR REPLACE; the view is dropped first.
		View: func(c *Context, v *expr.View) string {
			name := c.Quote(v.Name)
			s := fmt.Sprintf("CREATE VIEW %s AS %s", name, c.Render(v.As))
			if v.Replace {
				s = fmt.Sprintf("DROP VIEW IF EXISTS %s; %s", name, s)
			}
			return s
		},

		Column: func(c *Context, col *expr.Column) string {
			var t string
			switch col.Type {
			case expr.TypeBoolean, expr.TypeInt, expr.TypeLong:
				t = "INTEGER"
			case expr.TypeDouble:
				t = "REAL"
			case expr.TypeString:
				t = fmt.Sprintf("VARCHAR(%d)", VarcharSize(c, col))
			case expr.TypeClob, expr.TypeJSON:
				t = "TEXT"
			case expr.TypeBlob:
				t = "BLOB"
			default:
				panic(fmt.Sprintf("translator: sqlite has no mapping for column type %s", col.Type))
			}
			if col.AutoInc {
				t = "INTEGER PRIMARY KEY AUTOINCREMENT"
			}
			return t + ColumnDefault(c, col)
		},
	}
}
