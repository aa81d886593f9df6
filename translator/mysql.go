package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mevdschee/tqdbkit/expr"
)

// mysqlMaxRows stands in for "no limit" when only an offset is given.
const mysqlMaxRows = "18446744073709551615"

// MySQL returns the MySQL/MariaDB dialect.
func MySQL() Dialect {
	return Dialect{
		Name:   "mysql",
		Escape: "`",
		True:   "1",
		False:  "0",

		// Backslash escapes are on unless NO_BACKSLASH_ESCAPES is set.
		EscapeString: EscapeBackslashString,

		AlterColumn: func(c *Context, ac *expr.AlterColumn) string {
			temp := []string{
				"ALTER TABLE", c.Render(ac.Table),
				"MODIFY", c.Quote(ac.Column.Name),
				mysqlColumn(c, ac.Column),
			}
			temp = append(temp, Constraints(ac.Column)...)
			return strings.Join(temp, " ")
		},

		DropPrimaryKey: func(c *Context, d *expr.DropPrimaryKey) string {
			return fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY", c.Render(d.Table))
		},

		Function: func(c *Context, f *expr.Function) string {
			name := strings.ToUpper(f.Name)
			if name == "STDDEV" {
				name = "STDDEV_SAMP"
			}
			return FunctionCall(c, name, f)
		},

		Modulo: func(c *Context, m *expr.Modulo) string {
			return Enclose(fmt.Sprintf("%s %% %s", c.Render(m.Dividend), c.Render(m.Divisor)), m.Enclosed)
		},

		Rename: func(c *Context, r *expr.Rename) string {
			return fmt.Sprintf("RENAME TABLE %s TO %s", c.Render(r.Old), c.Render(r.New))
		},

		// The || operator is logical OR unless PIPES_AS_CONCAT is set.
		RepeatDelimiter: func(c *Context, rd *expr.RepeatDelimiter) string {
			if rd.Delimiter == expr.DelimConcat {
				return Enclose("CONCAT("+strings.Join(c.RenderAll(rd.Exps), ", ")+")", rd.Enclosed)
			}
			return JoinDelimited(c, rd)
		},

		Query: func(c *Context, q *expr.Query) string {
			s := SelectCore(c, q)
			switch {
			case q.Limit > 0 && q.Offset > 0:
				s += fmt.Sprintf(" LIMIT %d, %d", q.Offset, q.Limit)
			case q.Limit > 0:
				s += " LIMIT " + strconv.Itoa(q.Limit)
			case q.Offset > 0:
				s += fmt.Sprintf(" LIMIT %d, %s", q.Offset, mysqlMaxRows)
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

		Column: mysqlColumn,
	}
}

func mysqlColumn(c *Context, col *expr.Column) string {
	var t string
	switch col.Type {
	case expr.TypeBoolean:
		t = "BOOLEAN"
	case expr.TypeInt:
		t = "INT"
	case expr.TypeLong:
		t = "BIGINT"
	case expr.TypeDouble:
		t = "DOUBLE"
	case expr.TypeString:
		t = fmt.Sprintf("VARCHAR(%d)", VarcharSize(c, col))
	case expr.TypeClob:
		t = "LONGTEXT"
	case expr.TypeBlob:
		t = "LONGBLOB"
	case expr.TypeJSON:
		t = "JSON"
	default:
		panic(fmt.Sprintf("translator: mysql has no mapping for column type %s", col.Type))
	}
	if col.AutoInc {
		t += " AUTO_INCREMENT"
	}
	return t + ColumnDefault(c, col)
}
