// Package translator renders expr trees into dialect specific SQL.
//
// Variants that render the same everywhere (names, constants, DELETE,
// UPDATE, ...) share one rendering implemented by Context. Dialect sensitive
// variants are delegated to the functions of the Dialect the Translator was
// built with.
//
// A Translator holds no mutable state and is safe for concurrent use.
// Malformed trees are not validated: rendering a node that lacks a
// mandatory child panics.
package translator

import (
	"github.com/mevdschee/tqdbkit/expr"
)

// DefaultVarcharSize is used for string columns defined without a size.
const DefaultVarcharSize = 256

// Option configures a Translator.
type Option func(*Context)

// WithVarcharSize sets the size used for string columns without one.
func WithVarcharSize(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.varcharSize = n
		}
	}
}

// Translator renders expression trees for one dialect.
type Translator struct {
	ctx *Context
}

// New creates a Translator for d. It fails if d is incomplete.
func New(d Dialect, opts ...Option) (*Translator, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.Placeholder == nil {
		d.Placeholder = questionMark
	}
	ctx := &Context{dialect: d, varcharSize: DefaultVarcharSize}
	for _, opt := range opts {
		opt(ctx)
	}
	return &Translator{ctx: ctx}, nil
}

// Translate renders e.
func (t *Translator) Translate(e expr.Expression) string {
	return t.ctx.Render(e)
}

// Context returns the translation context shared by all renderings.
func (t *Translator) Context() *Context {
	return t.ctx
}

// Dialect returns the name of the translator's dialect.
func (t *Translator) Dialect() string {
	return t.ctx.dialect.Name
}

// Placeholder renders the i-th (1-based) bind parameter.
func (t *Translator) Placeholder(i int) string {
	return t.ctx.dialect.Placeholder(i)
}
