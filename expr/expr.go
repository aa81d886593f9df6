// Package expr holds the vendor-neutral SQL expression tree.
//
// The set of node variants is closed: Expression can only be implemented
// inside this package, and every variant dispatches to its own method on
// Renderer. Adding a variant means adding a Renderer method, so every
// renderer stops compiling until it handles the new node.
//
// Nodes are immutable once built. Modifier methods such as (*Name).Desc or
// (*Query).Where return modified copies and never touch the receiver.
//
// A tree is not validated here. A node missing a mandatory child (a Delete
// without a table, a Join without a condition) is a programmer error that
// surfaces when the tree is rendered.
package expr

// Expression is a node of the SQL expression tree.
type Expression interface {
	// Accept renders the node by calling the Renderer method for its variant.
	Accept(r Renderer) string

	node()
}

// Renderer renders each node variant to SQL text.
type Renderer interface {
	Name(n *Name) string
	Between(b *Between) string
	Coalesce(c *Coalesce) string
	Delete(d *Delete) string
	Join(j *Join) string
	K(k *K) string
	Literal(l *Literal) string
	Truncate(t *Truncate) string
	Update(u *Update) string
	AlterColumn(ac *AlterColumn) string
	AddColumn(ac *AddColumn) string
	Rename(r *Rename) string
	DropPrimaryKey(d *DropPrimaryKey) string
	Function(f *Function) string
	Modulo(m *Modulo) string
	RepeatDelimiter(rd *RepeatDelimiter) string
	Query(q *Query) string
	View(v *View) string
	Column(c *Column) string
}

// AliasOf returns the alias attached to e, or "" if e is not aliased or its
// variant cannot carry an alias.
func AliasOf(e Expression) string {
	switch n := e.(type) {
	case *Name:
		return n.Alias
	case *Function:
		return n.Alias
	case *RepeatDelimiter:
		return n.Alias
	case *Query:
		return n.Alias
	case *K:
		return n.Alias
	default:
		return ""
	}
}
