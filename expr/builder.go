package expr

// Table references a table by name.
func Table(name string) *Name { return &Name{Name: name} }

// Col references a column by name.
func Col(name string) *Name { return &Name{Name: name} }

// Qualified references name inside env, e.g. a column of an aliased table.
func Qualified(env, name string) *Name { return &Name{Environment: env, Name: name} }

// All is the unquoted "*" projection.
func All() *Name { return &Name{Name: "*", Unquoted: true} }

// Const wraps a constant value.
func Const(v any) *K { return &K{Value: v} }

// Null is the NULL constant.
func Null() *K { return &K{} }

// Lit wraps a value that is emitted verbatim.
func Lit(v any) *Literal { return &Literal{Value: v} }

func delimited(delim string, enclosed bool, exps []Expression) *RepeatDelimiter {
	return &RepeatDelimiter{Delimiter: delim, Exps: exps, Enclosed: enclosed}
}

// And joins predicates with AND, enclosed.
func And(exps ...Expression) *RepeatDelimiter { return delimited(DelimAnd, true, exps) }

// Or joins predicates with OR, enclosed.
func Or(exps ...Expression) *RepeatDelimiter { return delimited(DelimOr, true, exps) }

// Eq is a = b.
func Eq(a, b Expression) *RepeatDelimiter { return delimited(DelimEq, false, []Expression{a, b}) }

// Neq is a <> b.
func Neq(a, b Expression) *RepeatDelimiter { return delimited(DelimNeq, false, []Expression{a, b}) }

// Lt is a < b.
func Lt(a, b Expression) *RepeatDelimiter { return delimited(DelimLt, false, []Expression{a, b}) }

// Lte is a <= b.
func Lte(a, b Expression) *RepeatDelimiter { return delimited(DelimLte, false, []Expression{a, b}) }

// Gt is a > b.
func Gt(a, b Expression) *RepeatDelimiter { return delimited(DelimGt, false, []Expression{a, b}) }

// Gte is a >= b.
func Gte(a, b Expression) *RepeatDelimiter { return delimited(DelimGte, false, []Expression{a, b}) }

// Like is a LIKE b.
func Like(a, b Expression) *RepeatDelimiter { return delimited(DelimLike, false, []Expression{a, b}) }

// Plus adds the expressions.
func Plus(exps ...Expression) *RepeatDelimiter { return delimited(DelimPlus, false, exps) }

// Minus subtracts the expressions left to right.
func Minus(exps ...Expression) *RepeatDelimiter { return delimited(DelimMinus, false, exps) }

// Mult multiplies the expressions.
func Mult(exps ...Expression) *RepeatDelimiter { return delimited(DelimMult, false, exps) }

// Div divides the expressions left to right.
func Div(exps ...Expression) *RepeatDelimiter { return delimited(DelimDiv, false, exps) }

// Concat concatenates string expressions.
func Concat(exps ...Expression) *RepeatDelimiter { return delimited(DelimConcat, false, exps) }

// List is a comma separated list, enclosed, as used by IN.
func List(exps ...Expression) *RepeatDelimiter { return delimited(DelimComma, true, exps) }

// InRange is column BETWEEN low AND high.
func InRange(column, low, high Expression) *Between {
	return &Between{Column: column, And: delimited(DelimAnd, false, []Expression{low, high})}
}

// NotInRange is column NOT BETWEEN low AND high.
func NotInRange(column, low, high Expression) *Between {
	b := InRange(column, low, high)
	b.Not = true
	return b
}

// CoalesceOf returns the first non-null of exp and alternatives.
func CoalesceOf(exp Expression, alternatives ...Expression) *Coalesce {
	return &Coalesce{Exp: exp, Alternatives: alternatives}
}

// Fn calls a function.
func Fn(name string, args ...Expression) *Function { return &Function{Name: name, Args: args} }

// Count is COUNT(e).
func Count(e Expression) *Function { return Fn("COUNT", e) }

// Max is MAX(e).
func Max(e Expression) *Function { return Fn("MAX", e) }

// Min is MIN(e).
func Min(e Expression) *Function { return Fn("MIN", e) }

// Avg is AVG(e).
func Avg(e Expression) *Function { return Fn("AVG", e) }

// Sum is SUM(e).
func Sum(e Expression) *Function { return Fn("SUM", e) }

// Stddev is the sample standard deviation of e.
func Stddev(e Expression) *Function { return Fn("STDDEV", e) }

// Upper is UPPER(e).
func Upper(e Expression) *Function { return Fn("UPPER", e) }

// Lower is LOWER(e).
func Lower(e Expression) *Function { return Fn("LOWER", e) }

// Mod is dividend modulo divisor.
func Mod(dividend, divisor Expression) *Modulo {
	return &Modulo{Dividend: dividend, Divisor: divisor}
}

// DeleteFrom deletes rows of table matching where; where may be nil.
func DeleteFrom(table, where Expression) *Delete { return &Delete{Table: table, Where: where} }

// TruncateTable removes every row of table.
func TruncateTable(table Expression) *Truncate { return &Truncate{Table: table} }

// UpdateTable sets columns of table for rows matching where; where may be nil.
func UpdateTable(table Expression, where Expression, set ...Expression) *Update {
	return &Update{Table: table, Set: set, Where: where}
}

// Def defines a column.
func Def(name string, t ColumnType, constraints ...Constraint) *Column {
	return &Column{Name: name, Type: t, Constraints: constraints}
}

// AddColumnTo adds column to table.
func AddColumnTo(table Expression, column *Column) *AddColumn {
	return &AddColumn{Table: table, Column: column}
}

// AlterColumnOf changes the definition of column in table.
func AlterColumnOf(table Expression, column *Column) *AlterColumn {
	return &AlterColumn{Table: table, Column: column}
}

// RenameTable renames table oldName to newName.
func RenameTable(oldName, newName Expression) *Rename { return &Rename{Old: oldName, New: newName} }

// DropPK drops the primary key of table.
func DropPK(table Expression) *DropPrimaryKey { return &DropPrimaryKey{Table: table} }

// CreateView creates view name defined by query.
func CreateView(name string, query Expression) *View { return &View{Name: name, As: query} }
