package expr

// Orderings for Name.Ordering.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Join keywords for Join.Kind.
const (
	InnerJoin = "INNER JOIN"
	LeftJoin  = "LEFT OUTER JOIN"
	RightJoin = "RIGHT OUTER JOIN"
	FullJoin  = "FULL OUTER JOIN"
	CrossJoin = "CROSS JOIN"
)

// Name references a table or column, optionally qualified by an
// environment (schema or table).
type Name struct {
	Environment string
	Name        string
	Alias       string
	Ordering    string
	IsNull      bool
	IsNotNull   bool
	Enclosed    bool
	// Unquoted disables identifier quoting of Name. The environment is
	// always quoted.
	Unquoted bool
}

func (n *Name) Accept(r Renderer) string { return r.Name(n) }
func (*Name) node()                      {}

// As returns a copy of n with the given alias.
func (n *Name) As(alias string) *Name {
	c := *n
	c.Alias = alias
	return &c
}

// Asc returns a copy of n ordered ascending.
func (n *Name) Asc() *Name {
	c := *n
	c.Ordering = Asc
	return &c
}

// Desc returns a copy of n ordered descending.
func (n *Name) Desc() *Name {
	c := *n
	c.Ordering = Desc
	return &c
}

// Null returns a copy of n tested with IS NULL.
func (n *Name) Null() *Name {
	c := *n
	c.IsNull = true
	c.IsNotNull = false
	return &c
}

// NotNull returns a copy of n tested with IS NOT NULL.
func (n *Name) NotNull() *Name {
	c := *n
	c.IsNotNull = true
	c.IsNull = false
	return &c
}

// Enclose returns a copy of n wrapped in parentheses.
func (n *Name) Enclose() *Name {
	c := *n
	c.Enclosed = true
	return &c
}

// Unquote returns a copy of n rendered without identifier quotes.
func (n *Name) Unquote() *Name {
	c := *n
	c.Unquoted = true
	return &c
}

// Between tests Column against the range in And, normally built by InRange
// as a non-enclosed "low AND high".
type Between struct {
	Column   Expression
	And      Expression
	Not      bool
	Enclosed bool
}

func (b *Between) Accept(r Renderer) string { return r.Between(b) }
func (*Between) node()                      {}

// Coalesce returns the first non-null of Exp and Alternatives.
type Coalesce struct {
	Exp          Expression
	Alternatives []Expression
}

func (c *Coalesce) Accept(r Renderer) string { return r.Coalesce(c) }
func (*Coalesce) node()                      {}

// Delete removes rows of Table matching Where; a nil Where deletes all rows.
type Delete struct {
	Table Expression
	Where Expression
}

func (d *Delete) Accept(r Renderer) string { return r.Delete(d) }
func (*Delete) node()                      {}

// Join joins Table on the On predicate. Kind is one of the join keywords.
type Join struct {
	Kind  string
	Table Expression
	On    Expression
}

func (j *Join) Accept(r Renderer) string { return r.Join(j) }
func (*Join) node()                      {}

// K is a constant value. A nil Value renders as NULL.
type K struct {
	Value any
	// Unquoted renders Value in its raw textual form: no string quoting and
	// no boolean token translation.
	Unquoted bool
	Enclosed bool
	Alias    string
}

func (k *K) Accept(r Renderer) string { return r.K(k) }
func (*K) node()                      {}

// Enclose returns a copy of k wrapped in parentheses.
func (k *K) Enclose() *K {
	c := *k
	c.Enclosed = true
	return &c
}

// Unquote returns a copy of k rendered raw.
func (k *K) Unquote() *K {
	c := *k
	c.Unquoted = true
	return &c
}

// Literal is passed through to the output verbatim.
type Literal struct {
	Value any
}

func (l *Literal) Accept(r Renderer) string { return r.Literal(l) }
func (*Literal) node()                      {}

// Update sets columns of Table. Each entry of Set is usually an Eq.
type Update struct {
	Table Expression
	Set   []Expression
	Where Expression
}

func (u *Update) Accept(r Renderer) string { return r.Update(u) }
func (*Update) node()                      {}

// Function calls Name with Args. Dialects may map Name to a vendor
// specific function.
type Function struct {
	Name     string
	Args     []Expression
	Enclosed bool
	Alias    string
}

func (f *Function) Accept(r Renderer) string { return r.Function(f) }
func (*Function) node()                      {}

// As returns a copy of f with the given alias.
func (f *Function) As(alias string) *Function {
	c := *f
	c.Alias = alias
	return &c
}

// Modulo is Dividend modulo Divisor.
type Modulo struct {
	Dividend Expression
	Divisor  Expression
	Enclosed bool
}

func (m *Modulo) Accept(r Renderer) string { return r.Modulo(m) }
func (*Modulo) node()                      {}

// Delimiters for RepeatDelimiter.
const (
	DelimAnd    = " AND "
	DelimOr     = " OR "
	DelimEq     = " = "
	DelimNeq    = " <> "
	DelimLt     = " < "
	DelimLte    = " <= "
	DelimGt     = " > "
	DelimGte    = " >= "
	DelimLike   = " LIKE "
	DelimPlus   = " + "
	DelimMinus  = " - "
	DelimMult   = " * "
	DelimDiv    = " / "
	DelimConcat = " || "
	DelimComma  = ", "
)

// RepeatDelimiter joins Exps with Delimiter. Binary operators, boolean
// connectives and lists are all expressed this way.
type RepeatDelimiter struct {
	Delimiter string
	Exps      []Expression
	Enclosed  bool
	Alias     string
}

func (rd *RepeatDelimiter) Accept(r Renderer) string { return r.RepeatDelimiter(rd) }
func (*RepeatDelimiter) node()                       {}

// Enclose returns a copy of rd wrapped in parentheses.
func (rd *RepeatDelimiter) Enclose() *RepeatDelimiter {
	c := *rd
	c.Enclosed = true
	return &c
}

// As returns a copy of rd with the given alias.
func (rd *RepeatDelimiter) As(alias string) *RepeatDelimiter {
	c := *rd
	c.Alias = alias
	return &c
}
