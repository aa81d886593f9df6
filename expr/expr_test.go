package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifiersCopy(t *testing.T) {
	n := Col("a")
	d := n.Desc().Null().Enclose().As("x")

	assert.Equal(t, "", n.Ordering)
	assert.False(t, n.IsNull)
	assert.False(t, n.Enclosed)
	assert.Equal(t, "", n.Alias)

	assert.Equal(t, Desc, d.Ordering)
	assert.True(t, d.IsNull)
	assert.True(t, d.Enclosed)
	assert.Equal(t, "x", d.Alias)
}

func TestNullAndNotNullExclusive(t *testing.T) {
	n := Col("a").Null().NotNull()
	assert.True(t, n.IsNotNull)
	assert.False(t, n.IsNull)
}

func TestQueryBuilderDoesNotShareSlices(t *testing.T) {
	base := Select(Col("a")).FromTables(Table("t"))
	left := base.OrderByCols(Col("a"))
	right := base.OrderByCols(Col("b"))

	assert.Empty(t, base.OrderBy)
	assert.Len(t, left.OrderBy, 1)
	assert.Len(t, right.OrderBy, 1)
	assert.Equal(t, "a", left.OrderBy[0].(*Name).Name)
	assert.Equal(t, "b", right.OrderBy[0].(*Name).Name)
}

func TestSelectDefaultsToAll(t *testing.T) {
	q := Select()
	if assert.Len(t, q.Columns, 1) {
		all := q.Columns[0].(*Name)
		assert.Equal(t, "*", all.Name)
		assert.True(t, all.Unquoted)
	}
}

func TestColumnModifiersCopy(t *testing.T) {
	c := Def("id", TypeLong, NotNull)
	d := c.AutoIncrement().Sized(10).With(Unique)

	assert.False(t, c.AutoInc)
	assert.Equal(t, []Constraint{NotNull}, c.Constraints)
	assert.True(t, d.AutoInc)
	assert.Equal(t, 10, d.Size)
	assert.Equal(t, []Constraint{NotNull, Unique}, d.Constraints)
}

func TestAliasOf(t *testing.T) {
	assert.Equal(t, "x", AliasOf(Table("t").As("x")))
	assert.Equal(t, "n", AliasOf(Count(All()).As("n")))
	assert.Equal(t, "q", AliasOf(Select().As("q")))
	assert.Equal(t, "", AliasOf(Mod(Col("a"), Const(2))))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "NOT NULL", NotNull.String())
	assert.Equal(t, "UNIQUE", Unique.String())
	assert.Equal(t, "STRING", TypeString.String())
	assert.Equal(t, "UNKNOWN", ColumnType(99).String())
}

func TestInRange(t *testing.T) {
	b := NotInRange(Col("a"), Const(1), Const(2))
	assert.True(t, b.Not)
	rd := b.And.(*RepeatDelimiter)
	assert.Equal(t, DelimAnd, rd.Delimiter)
	assert.False(t, rd.Enclosed)
	assert.Len(t, rd.Exps, 2)
}
