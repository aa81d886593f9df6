package translator

import (
	"fmt"
	"strings"

	"github.com/mevdschee/tqdbkit/expr"
)

// Context renders nodes for one dialect. Composite nodes render their
// children through the same Context, so a tree never needs a reference to
// the translator that renders it.
type Context struct {
	dialect     Dialect
	varcharSize int
}

var _ expr.Renderer = (*Context)(nil)

// Render renders e. A nil e is a malformed tree and panics.
func (c *Context) Render(e expr.Expression) string {
	if e == nil {
		panic("translator: cannot render a missing expression")
	}
	return e.Accept(c)
}

// RenderAll renders each expression in order.
func (c *Context) RenderAll(exps []expr.Expression) []string {
	out := make([]string, len(exps))
	for i, e := range exps {
		out[i] = c.Render(e)
	}
	return out
}

// Quote wraps an identifier in the dialect's escape token, doubling any
// embedded escape.
func (c *Context) Quote(ident string) string {
	esc := c.dialect.Escape
	return esc + strings.ReplaceAll(ident, esc, esc+esc) + esc
}

// Aliased renders e followed by its quoted alias, if any.
func (c *Context) Aliased(e expr.Expression) string {
	s := c.Render(e)
	if alias := expr.AliasOf(e); alias != "" {
		s += " AS " + c.Quote(alias)
	}
	return s
}

// True returns the dialect's true token.
func (c *Context) True() string { return c.dialect.True }

// False returns the dialect's false token.
func (c *Context) False() string { return c.dialect.False }

// VarcharSize returns the size used for string columns without one.
func (c *Context) VarcharSize() int { return c.varcharSize }

func enclose(s string, enclosed bool) string {
	if enclosed {
		return "(" + s + ")"
	}
	return s
}

func (c *Context) Name(n *expr.Name) string {
	name := n.Name
	if !n.Unquoted {
		name = c.Quote(name)
	}
	if n.Environment != "" {
		name = c.Quote(n.Environment) + "." + name
	}

	res := []string{name}
	if n.Ordering != "" {
		res = append(res, n.Ordering)
	}
	if n.IsNull {
		res = append(res, "IS NULL")
	}
	if n.IsNotNull {
		res = append(res, "IS NOT NULL")
	}

	return enclose(strings.Join(res, " "), n.Enclosed)
}

func (c *Context) Between(b *expr.Between) string {
	modifier := "BETWEEN"
	if b.Not {
		modifier = "NOT " + modifier
	}
	result := fmt.Sprintf("%s %s %s", c.Render(b.Column), modifier, c.Render(b.And))
	return enclose(result, b.Enclosed)
}

func (c *Context) Coalesce(co *expr.Coalesce) string {
	args := append([]string{c.Render(co.Exp)}, c.RenderAll(co.Alternatives)...)
	return "COALESCE(" + strings.Join(args, ", ") + ")"
}

func (c *Context) Delete(d *expr.Delete) string {
	temp := []string{"DELETE FROM", c.Render(d.Table)}
	if d.Where != nil {
		temp = append(temp, "WHERE", c.Render(d.Where))
	}
	return strings.Join(temp, " ")
}

func (c *Context) Join(j *expr.Join) string {
	return fmt.Sprintf("%s %s ON (%s)", j.Kind, c.Aliased(j.Table), c.Render(j.On))
}

func (c *Context) K(k *expr.K) string {
	var result string

	switch v := k.Value.(type) {
	case nil:
		result = "NULL"
	case string:
		if k.Unquoted {
			result = v
		} else {
			result = "'" + c.dialect.escapeString(v) + "'"
		}
	case bool:
		switch {
		case k.Unquoted:
			result = fmt.Sprint(v)
		case v:
			result = c.True()
		default:
			result = c.False()
		}
	default:
		result = fmt.Sprint(v)
	}

	return enclose(result, k.Enclosed)
}

func (c *Context) Literal(l *expr.Literal) string {
	return fmt.Sprint(l.Value)
}

func (c *Context) Truncate(t *expr.Truncate) string {
	return "TRUNCATE TABLE " + c.Render(t.Table)
}

func (c *Context) Update(u *expr.Update) string {
	temp := []string{"UPDATE", c.Aliased(u.Table), "SET", strings.Join(c.RenderAll(u.Set), ", ")}
	if u.Where != nil {
		temp = append(temp, "WHERE", c.Render(u.Where))
	}
	return strings.Join(temp, " ")
}

func (c *Context) AddColumn(ac *expr.AddColumn) string {
	temp := []string{
		"ALTER TABLE", c.Render(ac.Table),
		"ADD", c.Quote(ac.Column.Name),
		c.Column(ac.Column),
	}
	temp = append(temp, Constraints(ac.Column)...)
	return strings.Join(temp, " ")
}

func (c *Context) AlterColumn(ac *expr.AlterColumn) string {
	return c.dialect.AlterColumn(c, ac)
}

func (c *Context) DropPrimaryKey(d *expr.DropPrimaryKey) string {
	return c.dialect.DropPrimaryKey(c, d)
}

func (c *Context) Function(f *expr.Function) string {
	return c.dialect.Function(c, f)
}

func (c *Context) Modulo(m *expr.Modulo) string {
	return c.dialect.Modulo(c, m)
}

func (c *Context) Rename(r *expr.Rename) string {
	return c.dialect.Rename(c, r)
}

func (c *Context) RepeatDelimiter(rd *expr.RepeatDelimiter) string {
	return c.dialect.RepeatDelimiter(c, rd)
}

func (c *Context) Query(q *expr.Query) string {
	return c.dialect.Query(c, q)
}

func (c *Context) View(v *expr.View) string {
	return c.dialect.View(c, v)
}

func (c *Context) Column(col *expr.Column) string {
	return c.dialect.Column(c, col)
}
