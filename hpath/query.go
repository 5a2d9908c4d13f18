package hpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/ir"
)

type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpExists
	OpCount
	OpIsLeaf
	OpIsSequence
	OpIsMapping
	OpCheckType
	OpExpr
)

var opNames = map[Op]string{
	OpEq:         "eq",
	OpNe:         "ne",
	OpLt:         "lt",
	OpLe:         "le",
	OpGt:         "gt",
	OpGe:         "ge",
	OpExists:     "exists",
	OpCount:      "count",
	OpIsLeaf:     "is_leaf",
	OpIsSequence: "is_sequence",
	OpIsMapping:  "is_mapping",
	OpCheckType:  "check_type",
	OpExpr:       "expr",
}

var opByName = func() map[string]Op {
	res := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		res[name] = op
	}
	return res
}()

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "<unknown op>"
}

// Clause matches one sub-path of a candidate against an operand.
type Clause struct {
	Path    Path
	Op      Op
	Operand *ir.Node

	// OpExpr only.
	Source  string
	Program *vm.Program
}

// Query is a conjunction of clauses. A query matches a candidate iff
// every clause matches.
type Query struct {
	Clauses []Clause
}

func NewQuery(clauses ...Clause) *Query {
	return &Query{Clauses: clauses}
}

// Eq is shorthand for an equality clause on a parsed sub-path.
func Eq(subpath string, v *ir.Node) Clause {
	p, err := Parse(subpath)
	if err != nil {
		p = Path{Key(subpath)}
	}
	return Clause{Path: p, Op: OpEq, Operand: v}
}

// ExprClause compiles an expr program evaluated against the candidate.
// Mapping candidates expose their fields as variables; every candidate
// is available as "self".
func ExprClause(src string) (Clause, error) {
	prog, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return Clause{}, fmt.Errorf("compile %q: %w", src, err)
	}
	return Clause{Op: OpExpr, Source: src, Program: prog}, nil
}

// Check reports whether every clause matches the candidate. It is
// side-effect free; a type-mismatched clause counts as a non-match.
func (q *Query) Check(candidate *ir.Node) bool {
	for i := range q.Clauses {
		ok, err := q.Clauses[i].check(candidate)
		if err != nil || !ok {
			if err != nil && debug.Query() {
				debug.Logf("query clause %v on %v: %v\n", q.Clauses[i], candidate, err)
			}
			return false
		}
	}
	return true
}

func (c *Clause) check(candidate *ir.Node) (bool, error) {
	target := candidate
	if len(c.Path) > 0 {
		target = Find(candidate, c.Path)
	}
	switch c.Op {
	case OpExists:
		want := true
		if c.Operand != nil && c.Operand.Type == ir.BoolType {
			want = c.Operand.Bool
		}
		return !ir.IsAbsent(target) == want, nil
	case OpCount:
		return ir.Equal(ir.FromInt(int64(target.Len())), c.Operand), nil
	case OpIsLeaf:
		return classifyIs(c.Operand, target != nil && target.Type.IsLeaf())
	case OpIsSequence:
		return classifyIs(c.Operand, target != nil && target.Type == ir.SeqType)
	case OpIsMapping:
		return classifyIs(c.Operand, target != nil && target.Type == ir.MapType)
	case OpCheckType:
		if c.Operand == nil || c.Operand.Type != ir.StringType {
			return false, fmt.Errorf("%w: check_type wants a type name", ErrQueryType)
		}
		if target == nil {
			return c.Operand.String == ir.AbsentType.String(), nil
		}
		return target.Type.String() == c.Operand.String, nil
	case OpEq:
		return ir.Equal(target, c.Operand), nil
	case OpNe:
		return !ir.Equal(target, c.Operand), nil
	case OpLt, OpLe, OpGt, OpGe:
		if !orderable(target) || !orderable(c.Operand) {
			return false, fmt.Errorf("%w: %v applied to %v", ErrQueryType, c.Op, nodeType(target))
		}
		cmp := ir.Compare(target, c.Operand)
		switch c.Op {
		case OpLt:
			return cmp < 0, nil
		case OpLe:
			return cmp <= 0, nil
		case OpGt:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	case OpExpr:
		return c.runExpr(target)
	}
	return false, fmt.Errorf("%w: unknown op %d", ErrQueryType, c.Op)
}

// classifyIs resolves a type-classification clause against an optional
// boolean operand; a missing operand means "is".
func classifyIs(operand *ir.Node, is bool) (bool, error) {
	want := true
	if operand != nil && operand.Type == ir.BoolType {
		want = operand.Bool
	}
	return is == want, nil
}

// orderable reports whether ordering comparisons apply: scalars and
// arrays only, not containers.
func orderable(n *ir.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case ir.NumberType, ir.StringType, ir.BoolType, ir.BytesType, ir.ArrayType:
		return true
	}
	return false
}

func nodeType(n *ir.Node) ir.Type {
	if n == nil {
		return ir.AbsentType
	}
	return n.Type
}

func (c *Clause) runExpr(target *ir.Node) (bool, error) {
	env := map[string]any{"self": ir.ToAny(target)}
	if target != nil && target.Type == ir.MapType {
		for i := range target.Fields {
			env[target.Fields[i].String] = ir.ToAny(target.Values[i])
		}
	}
	out, err := expr.Run(c.Program, env)
	if err != nil {
		return false, fmt.Errorf("%w: expr %q: %v", ErrQueryType, c.Source, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expr %q returned %T", ErrQueryType, c.Source, out)
	}
	return b, nil
}

func (c Clause) String() string {
	if c.Op == OpExpr {
		return "expr:" + c.Source
	}
	var sb strings.Builder
	sb.WriteString(c.Path.String())
	if c.Op != OpEq {
		sb.WriteByte('.')
		sb.WriteString(c.Op.String())
	}
	sb.WriteByte(':')
	sb.WriteString(literalString(c.Operand))
	return sb.String()
}

func (q *Query) String() string {
	parts := make([]string, len(q.Clauses))
	for i := range q.Clauses {
		parts[i] = q.Clauses[i].String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func literalString(n *ir.Node) string {
	if n == nil {
		return "null"
	}
	switch n.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		return strconv.FormatBool(n.Bool)
	case ir.NumberType:
		if n.Int64 != nil {
			return strconv.FormatInt(*n.Int64, 10)
		}
		return strconv.FormatFloat(*n.Float64, 'g', -1, 64)
	case ir.StringType:
		if strings.ContainsAny(n.String, "{}[](),:/.'\" ") || n.String == "" {
			return "'" + strings.ReplaceAll(n.String, "'", "\\'") + "'"
		}
		return n.String
	default:
		d, err := ir.MarshalJSON(n)
		if err != nil {
			return fmt.Sprintf("%v", n)
		}
		return string(d)
	}
}
