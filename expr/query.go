package expr

// Query is a SELECT statement. Limit and Offset are ignored when zero.
type Query struct {
	Distinct bool
	Columns  []Expression
	From     []Expression
	Joins    []*Join
	Where    Expression
	GroupBy  []Expression
	Having   Expression
	OrderBy  []Expression
	Limit    int
	Offset   int
	Enclosed bool
	Alias    string
}

func (q *Query) Accept(r Renderer) string { return r.Query(q) }
func (*Query) node()                      {}

// Select starts a query projecting columns. With no columns the query
// selects everything.
func Select(columns ...Expression) *Query {
	if len(columns) == 0 {
		columns = []Expression{All()}
	}
	return &Query{Columns: columns}
}

func (q *Query) clone() *Query {
	c := *q
	c.Columns = append([]Expression(nil), q.Columns...)
	c.From = append([]Expression(nil), q.From...)
	c.Joins = append([]*Join(nil), q.Joins...)
	c.GroupBy = append([]Expression(nil), q.GroupBy...)
	c.OrderBy = append([]Expression(nil), q.OrderBy...)
	return &c
}

// SelectDistinct returns a copy of q selecting distinct rows.
func (q *Query) SelectDistinct() *Query {
	c := q.clone()
	c.Distinct = true
	return c
}

// FromTables returns a copy of q reading from the given sources.
func (q *Query) FromTables(sources ...Expression) *Query {
	c := q.clone()
	c.From = append(c.From, sources...)
	return c
}

// Join returns a copy of q with a join of the given kind.
func (q *Query) Join(kind string, table, on Expression) *Query {
	c := q.clone()
	c.Joins = append(c.Joins, &Join{Kind: kind, Table: table, On: on})
	return c
}

// InnerJoin returns a copy of q inner joined with table.
func (q *Query) InnerJoin(table, on Expression) *Query { return q.Join(InnerJoin, table, on) }

// LeftJoin returns a copy of q left outer joined with table.
func (q *Query) LeftJoin(table, on Expression) *Query { return q.Join(LeftJoin, table, on) }

// RightJoin returns a copy of q right outer joined with table.
func (q *Query) RightJoin(table, on Expression) *Query { return q.Join(RightJoin, table, on) }

// WherePred returns a copy of q filtered by predicate.
func (q *Query) WherePred(predicate Expression) *Query {
	c := q.clone()
	c.Where = predicate
	return c
}

// GroupByCols returns a copy of q grouped by the given expressions.
func (q *Query) GroupByCols(exps ...Expression) *Query {
	c := q.clone()
	c.GroupBy = append(c.GroupBy, exps...)
	return c
}

// HavingPred returns a copy of q with a HAVING predicate.
func (q *Query) HavingPred(predicate Expression) *Query {
	c := q.clone()
	c.Having = predicate
	return c
}

// OrderByCols returns a copy of q ordered by the given expressions.
func (q *Query) OrderByCols(exps ...Expression) *Query {
	c := q.clone()
	c.OrderBy = append(c.OrderBy, exps...)
	return c
}

// LimitTo returns a copy of q returning at most n rows.
func (q *Query) LimitTo(n int) *Query {
	c := q.clone()
	c.Limit = n
	return c
}

// OffsetBy returns a copy of q skipping the first n rows.
func (q *Query) OffsetBy(n int) *Query {
	c := q.clone()
	c.Offset = n
	return c
}

// Enclose returns a copy of q wrapped in parentheses, for use as a
// subquery.
func (q *Query) Enclose() *Query {
	c := q.clone()
	c.Enclosed = true
	return c
}

// As returns a copy of q with the given alias.
func (q *Query) As(alias string) *Query {
	c := q.clone()
	c.Alias = alias
	return c
}
