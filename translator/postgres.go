package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mevdschee/tqdbkit/expr"
)

// Postgres returns the PostgreSQL dialect.
func Postgres() Dialect {
	return Dialect{
		Name:   "postgres",
		Escape: `"`,
		True:   "TRUE",
		False:  "FALSE",

		AlterColumn: func(c *Context, ac *expr.AlterColumn) string {
			col := c.Quote(ac.Column.Name)
			actions := []string{fmt.Sprintf("ALTER COLUMN %s TYPE %s", col, pgType(c, ac.Column))}
			for _, cons := range ac.Column.Constraints {
				switch cons {
				case expr.NotNull:
					actions = append(actions, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", col))
				case expr.Unique:
					actions = append(actions, fmt.Sprintf("ADD UNIQUE (%s)", col))
				}
			}
			return fmt.Sprintf("ALTER TABLE %s %s", c.Render(ac.Table), strings.Join(actions, ", "))
		},

		DropPrimaryKey: func(c *Context, d *expr.DropPrimaryKey) string {
			return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s",
				c.Render(d.Table), c.Quote(TableName(d.Table)+"_pkey"))
		},

		Function: func(c *Context, f *expr.Function) string {
			name := strings.ToUpper(f.Name)
			if name == "STDDEV" {
				name = "STDDEV_SAMP"
			}
			return FunctionCall(c, name, f)
		},

		Modulo: func(c *Context, m *expr.Modulo) string {
			return Enclose(fmt.Sprintf("MOD(%s, %s)", c.Render(m.Dividend), c.Render(m.Divisor)), m.Enclosed)
		},

		Rename: func(c *Context, r *expr.Rename) string {
			return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", c.Render(r.Old), c.Render(r.New))
		},

		RepeatDelimiter: JoinDelimited,

		Query: func(c *Context, q *expr.Query) string {
			s := SelectCore(c, q)
			if q.Limit > 0 {
				s += " LIMIT " + strconv.Itoa(q.Limit)
			}
			if q.Offset > 0 {
				s += " OFFSET " + strconv.Itoa(q.Offset)
			}
			return Enclose(s, q.Enclosed)
		},

		View: func(c *Context, v *expr.View) string {
			create := "CREATE VIEW"
			if v.Replace {
				create = "CREATE OR REPLACE VIEW"
			}
			return fmt.Sprintf("%s %s AS %s", create, c.Quote(v.Name), c.Render(v.As))
		},

		Column: func(c *Context, col *expr.Column) string {
			t := pgType(c, col)
			if col.AutoInc {
				switch col.Type {
				case expr.TypeInt:
					t = "SERIAL"
				case expr.TypeLong:
					t = "BIGSERIAL"
				}
			}
			return t + ColumnDefault(c, col)
		},

		Placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
	}
}

func pgType(c *Context, col *expr.Column) string {
	switch col.Type {
	case expr.TypeBoolean:
		return "BOOLEAN"
	case expr.TypeInt:
		return "INT"
	case expr.TypeLong:
		return "BIGINT"
	case expr.TypeDouble:
		return "DOUBLE PRECISION"
	case expr.TypeString:
		return fmt.Sprintf("VARCHAR(%d)", VarcharSize(c, col))
	case expr.TypeClob:
		return "TEXT"
	case expr.TypeBlob:
		return "BYTEA"
	case expr.TypeJSON:
		return "JSONB"
	default:
		panic(fmt.Sprintf("translator: postgres has no mapping for column type %s", col.Type))
	}
}
