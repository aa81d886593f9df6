package expr

// ColumnType is the vendor-neutral type of a column definition.
type ColumnType int

const (
	TypeBoolean ColumnType = iota
	TypeInt
	TypeLong
	TypeDouble
	TypeString
	TypeClob
	TypeBlob
	TypeJSON
)

func (t ColumnType) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeInt:
		return "INT"
	case TypeLong:
		return "LONG"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	case TypeClob:
		return "CLOB"
	case TypeBlob:
		return "BLOB"
	case TypeJSON:
		return "JSON"
	default:
		return "UNKNOWN"
	}
}

// Constraint is a column constraint. Constraints render themselves; their
// syntax is the same in every supported dialect.
type Constraint int

const (
	NotNull Constraint = iota
	Unique
)

func (c Constraint) String() string {
	switch c {
	case NotNull:
		return "NOT NULL"
	case Unique:
		return "UNIQUE"
	default:
		return ""
	}
}

// Column is a column definition. Dialects render its type, size,
// auto-increment and default; constraints are appended by the statement
// that embeds the definition.
type Column struct {
	Name        string
	Type        ColumnType
	Size        int
	AutoInc     bool
	Default     *K
	Constraints []Constraint
}

func (c *Column) Accept(r Renderer) string { return r.Column(c) }
func (*Column) node()                      {}

// Sized returns a copy of c with the given size.
func (c *Column) Sized(size int) *Column {
	cp := c.clone()
	cp.Size = size
	return cp
}

// AutoIncrement returns a copy of c marked auto-increment.
func (c *Column) AutoIncrement() *Column {
	cp := c.clone()
	cp.AutoInc = true
	return cp
}

// DefaultValue returns a copy of c with a default value.
func (c *Column) DefaultValue(v *K) *Column {
	cp := c.clone()
	cp.Default = v
	return cp
}

// With returns a copy of c with the constraints appended.
func (c *Column) With(constraints ...Constraint) *Column {
	cp := c.clone()
	cp.Constraints = append(cp.Constraints, constraints...)
	return cp
}

func (c *Column) clone() *Column {
	cp := *c
	cp.Constraints = append([]Constraint(nil), c.Constraints...)
	return &cp
}

// AlterColumn changes the definition of an existing column of Table.
type AlterColumn struct {
	Table  Expression
	Column *Column
}

func (ac *AlterColumn) Accept(r Renderer) string { return r.AlterColumn(ac) }
func (*AlterColumn) node()                       {}

// AddColumn adds Column to Table.
type AddColumn struct {
	Table  Expression
	Column *Column
}

func (ac *AddColumn) Accept(r Renderer) string { return r.AddColumn(ac) }
func (*AddColumn) node()                       {}

// Rename renames table Old to New.
type Rename struct {
	Old Expression
	New Expression
}

func (rn *Rename) Accept(r Renderer) string { return r.Rename(rn) }
func (*Rename) node()                       {}

// DropPrimaryKey drops the primary key of Table.
type DropPrimaryKey struct {
	Table Expression
}

func (d *DropPrimaryKey) Accept(r Renderer) string { return r.DropPrimaryKey(d) }
func (*DropPrimaryKey) node()                      {}

// Truncate removes every row of Table.
type Truncate struct {
	Table Expression
}

func (t *Truncate) Accept(r Renderer) string { return r.Truncate(t) }
func (*Truncate) node()                      {}

// View creates a view Name defined by As.
type View struct {
	Name    string
	As      Expression
	Replace bool
}

func (v *View) Accept(r Renderer) string { return r.View(v) }
func (*View) node()                      {}

// OrReplace returns a copy of v that replaces an existing view.
func (v *View) OrReplace() *View {
	c := *v
	c.Replace = true
	return &c
}
