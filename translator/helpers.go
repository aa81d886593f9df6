package translator

import (
	"strings"

	"github.com/mevdschee/tqdbkit/expr"
)

// EscapeString escapes a string constant for use between single quotes.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeBackslashString is EscapeString for databases that also treat the
// backslash as an escape character inside string literals.
func EscapeBackslashString(s string) string {
	return EscapeString(strings.ReplaceAll(s, `\`, `\\`))
}

// Constraints renders the constraints of col in order.
func Constraints(col *expr.Column) []string {
	out := make([]string, 0, len(col.Constraints))
	for _, cons := range col.Constraints {
		out = append(out, cons.String())
	}
	return out
}

// JoinDelimited is the common RepeatDelimiter rendering: children joined by
// the delimiter, parenthesized if enclosed.
func JoinDelimited(c *Context, rd *expr.RepeatDelimiter) string {
	return enclose(strings.Join(c.RenderAll(rd.Exps), rd.Delimiter), rd.Enclosed)
}

// FunctionCall renders name(args...), parenthesized if f is enclosed.
func FunctionCall(c *Context, name string, f *expr.Function) string {
	return enclose(name+"("+strings.Join(c.RenderAll(f.Args), ", ")+")", f.Enclosed)
}

// Enclose parenthesizes s when enclosed is set.
func Enclose(s string, enclosed bool) string {
	return enclose(s, enclosed)
}

// TableName returns the bare name of a table reference, for dialects that
// derive constraint names from it.
func TableName(e expr.Expression) string {
	if n, ok := e.(*expr.Name); ok {
		return n.Name
	}
	panic("translator: table reference must be a name")
}

// SelectCore renders everything of q up to and including ORDER BY. Dialects
// append their own row limiting and apply q.Enclosed.
func SelectCore(c *Context, q *expr.Query) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	cols := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		cols[i] = c.Aliased(col)
	}
	sb.WriteString(strings.Join(cols, ", "))

	if len(q.From) > 0 {
		from := make([]string, len(q.From))
		for i, src := range q.From {
			from[i] = c.Aliased(src)
		}
		sb.WriteString(" FROM ")
		sb.WriteString(strings.Join(from, ", "))
	}

	for _, j := range q.Joins {
		sb.WriteString(" ")
		sb.WriteString(c.Join(j))
	}

	if q.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(c.Render(q.Where))
	}

	if len(q.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(c.RenderAll(q.GroupBy), ", "))
	}

	if q.Having != nil {
		sb.WriteString(" HAVING ")
		sb.WriteString(c.Render(q.Having))
	}

	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(c.RenderAll(q.OrderBy), ", "))
	}

	return sb.String()
}

// ColumnDefault renders " DEFAULT <value>" for col, or "".
func ColumnDefault(c *Context, col *expr.Column) string {
	if col.Default == nil {
		return ""
	}
	return " DEFAULT " + c.K(col.Default)
}

// VarcharSize returns the declared size of col or the context default.
func VarcharSize(c *Context, col *expr.Column) int {
	if col.Size > 0 {
		return col.Size
	}
	return c.VarcharSize()
}
