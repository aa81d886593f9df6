package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mevdschee/tqdbkit/expr"
	"github.com/mevdschee/tqdbkit/translator"
)

// queryDoc describes a SELECT (optionally wrapped in a view) in YAML or
// JSON, for example:
//
//	select: [id, {fn: COUNT, column: "*", as: n}]
//	from: events
//	where:
//	  - {column: kind, op: "=", value: click}
//	group_by: [id]
//	order_by: [-n]
//	limit: 10
type queryDoc struct {
	View     string      `yaml:"view"`
	Replace  bool        `yaml:"replace"`
	Distinct bool        `yaml:"distinct"`
	Select   []columnDoc `yaml:"select"`
	From     []string    `yaml:"from"`
	Joins    []joinDoc   `yaml:"join"`
	Where    []clauseDoc `yaml:"where"`
	GroupBy  []string    `yaml:"group_by"`
	Having   []clauseDoc `yaml:"having"`
	OrderBy  []string    `yaml:"order_by"`
	Limit    *int        `yaml:"limit"`
	Offset   *int        `yaml:"offset"`
}

// columnDoc is a column name or an aggregate.
type columnDoc struct {
	Fn     string `yaml:"fn"`
	Column string `yaml:"column"`
	As     string `yaml:"as"`
}

func (c *columnDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Column = node.Value
		return nil
	}
	type plain columnDoc
	return node.Decode((*plain)(c))
}

type joinDoc struct {
	Kind  string      `yaml:"kind"`
	Table string      `yaml:"table"`
	As    string      `yaml:"as"`
	On    []clauseDoc `yaml:"on"`
}

// clauseDoc compares a column with a constant or, with ref, another column.
type clauseDoc struct {
	Column string `yaml:"column"`
	Op     string `yaml:"op"`
	Value  any    `yaml:"value"`
	Ref    string `yaml:"ref"`
}

// UnmarshalYAML also accepts a single table name for from.
func (d *queryDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "from" && node.Content[i+1].Kind == yaml.ScalarNode {
				v := node.Content[i+1]
				node.Content[i+1] = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{v}}
			}
		}
	}
	type plain queryDoc
	return node.Decode((*plain)(d))
}

func runRender(args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dialectName := fs.String("dialect", "postgres", "Target dialect (postgres, mysql, sqlite)")
	file := fs.String("file", "", "Query description file (default stdin)")
	varchar := fs.Int("varchar", translator.DefaultVarcharSize, "Default VARCHAR size")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	sql, err := render(in, *dialectName, translator.WithVarcharSize(*varchar))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, sql)
	return 0
}

// render decodes a query description from r and translates it.
func render(r io.Reader, dialectName string, opts ...translator.Option) (string, error) {
	var doc queryDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode query: %w", err)
	}
	e, err := doc.build()
	if err != nil {
		return "", err
	}

	d, err := translator.Lookup(dialectName)
	if err != nil {
		return "", err
	}
	tr, err := translator.New(d, opts...)
	if err != nil {
		return "", err
	}
	return tr.Translate(e), nil
}

func (d *queryDoc) build() (expr.Expression, error) {
	if len(d.From) == 0 {
		return nil, fmt.Errorf("query has no from")
	}

	var cols []expr.Expression
	for _, c := range d.Select {
		col, err := c.build()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	q := expr.Select(cols...)
	if d.Distinct {
		q = q.SelectDistinct()
	}

	var from []expr.Expression
	for _, t := range d.From {
		from = append(from, name(t))
	}
	q = q.FromTables(from...)

	for _, j := range d.Joins {
		if len(j.On) == 0 {
			return nil, fmt.Errorf("join %s has no on", j.Table)
		}
		on, err := predicate(j.On)
		if err != nil {
			return nil, err
		}
		kind, err := joinKind(j.Kind)
		if err != nil {
			return nil, err
		}
		table := name(j.Table)
		if j.As != "" {
			table = table.As(j.As)
		}
		q = q.Join(kind, table, on)
	}

	if len(d.Where) > 0 {
		where, err := predicate(d.Where)
		if err != nil {
			return nil, err
		}
		q = q.WherePred(where)
	}
	if len(d.GroupBy) > 0 {
		var group []expr.Expression
		for _, g := range d.GroupBy {
			group = append(group, name(g))
		}
		q = q.GroupByCols(group...)
	}
	if len(d.Having) > 0 {
		having, err := predicate(d.Having)
		if err != nil {
			return nil, err
		}
		q = q.HavingPred(having)
	}
	if len(d.OrderBy) > 0 {
		var order []expr.Expression
		for _, o := range d.OrderBy {
			if desc, ok := strings.CutPrefix(o, "-"); ok {
				order = append(order, name(desc).Desc())
			} else {
				order = append(order, name(o).Asc())
			}
		}
		q = q.OrderByCols(order...)
	}
	if d.Limit != nil {
		q = q.LimitTo(*d.Limit)
	}
	if d.Offset != nil {
		q = q.OffsetBy(*d.Offset)
	}

	if d.View != "" {
		v := expr.CreateView(d.View, q)
		if d.Replace {
			v = v.OrReplace()
		}
		return v, nil
	}
	return q, nil
}

// name parses "col", "table.col" or "*".
func name(s string) *expr.Name {
	if s == "*" {
		return expr.All()
	}
	if env, n, ok := strings.Cut(s, "."); ok {
		if n == "*" {
			return &expr.Name{Environment: env, Name: n, Unquoted: true}
		}
		return expr.Qualified(env, n)
	}
	return expr.Col(s)
}

func (c columnDoc) build() (expr.Expression, error) {
	if c.Column == "" {
		return nil, fmt.Errorf("select entry has no column")
	}
	if c.Fn == "" {
		n := name(c.Column)
		if c.As != "" {
			return n.As(c.As), nil
		}
		return n, nil
	}
	f := expr.Fn(strings.ToUpper(c.Fn), name(c.Column))
	if c.As != "" {
		f = f.As(c.As)
	}
	return f, nil
}

func joinKind(kind string) (string, error) {
	switch strings.ToLower(kind) {
	case "", "inner":
		return expr.InnerJoin, nil
	case "left":
		return expr.LeftJoin, nil
	case "right":
		return expr.RightJoin, nil
	case "full":
		return expr.FullJoin, nil
	default:
		return "", fmt.Errorf("unknown join kind %q", kind)
	}
}

// predicate joins clauses with AND.
func predicate(clauses []clauseDoc) (expr.Expression, error) {
	var exps []expr.Expression
	for _, c := range clauses {
		e, err := c.build()
		if err != nil {
			return nil, err
		}
		exps = append(exps, e)
	}
	if len(exps) == 1 {
		return exps[0], nil
	}
	return expr.And(exps...), nil
}

func (c clauseDoc) build() (expr.Expression, error) {
	if c.Column == "" {
		return nil, fmt.Errorf("condition has no column")
	}
	col := name(c.Column)
	var rhs expr.Expression = expr.Const(c.Value)
	if c.Ref != "" {
		rhs = name(c.Ref)
	}

	op := strings.ToLower(strings.TrimSpace(c.Op))
	switch op {
	case "", "=":
		return expr.Eq(col, rhs), nil
	case "<>", "!=":
		return expr.Neq(col, rhs), nil
	case "<":
		return expr.Lt(col, rhs), nil
	case "<=":
		return expr.Lte(col, rhs), nil
	case ">":
		return expr.Gt(col, rhs), nil
	case ">=":
		return expr.Gte(col, rhs), nil
	case "like":
		return expr.Like(col, rhs), nil
	case "is null":
		return col.Null(), nil
	case "is not null":
		return col.NotNull(), nil
	case "between", "not between":
		bounds, ok := c.Value.([]any)
		if !ok || len(bounds) != 2 {
			return nil, fmt.Errorf("%s on %s needs two values", op, c.Column)
		}
		if op == "not between" {
			return expr.NotInRange(col, expr.Const(bounds[0]), expr.Const(bounds[1])), nil
		}
		return expr.InRange(col, expr.Const(bounds[0]), expr.Const(bounds[1])), nil
	default:
		return nil, fmt.Errorf("unknown operator %q", c.Op)
	}
}
