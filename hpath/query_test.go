package hpath

import (
	"testing"

	"github.com/htree-dev/go-htree/ir"
)

func candidate(t *testing.T) *ir.Node {
	t.Helper()
	return mustNode(t, map[string]any{
		"name":  "equilibrium",
		"count": 3,
		"tags":  []any{"a", "b"},
	})
}

func TestQueryCheck(t *testing.T) {
	tests := []struct {
		name   string
		clause string
		want   bool
	}{
		{"eq match", "name:equilibrium", true},
		{"eq miss", "name:other", false},
		{"ne", "name.ne:other", true},
		{"lt", "count.lt:5", true},
		{"lt miss", "count.lt:3", false},
		{"le", "count.le:3", true},
		{"gt", "count.gt:2", true},
		{"ge", "count.ge:4", false},
		{"exists", "name.exists:true", true},
		{"exists negated", "missing.exists:false", true},
		{"exists miss", "missing.exists:true", false},
		{"count", "tags.count:2", true},
		{"is_leaf", "name.is_leaf:true", true},
		{"is_sequence", "tags.is_sequence:true", true},
		{"is_mapping", "tags.is_mapping:true", false},
		{"check_type", "count.check_type:Number", true},
		{"check_type miss", "count.check_type:String", false},
		{"string ordering", "name.lt:zzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustParse("{" + tt.clause + "}")
			q := p[0].Query
			if got := q.Check(candidate(t)); got != tt.want {
				t.Errorf("Check(%s) = %v, want %v", tt.clause, got, tt.want)
			}
		})
	}
}

func TestQueryConjunction(t *testing.T) {
	q := MustParse("{name:equilibrium,count.gt:1}")[0].Query
	if !q.Check(candidate(t)) {
		t.Errorf("both clauses hold: want match")
	}
	q = MustParse("{name:equilibrium,count.gt:10}")[0].Query
	if q.Check(candidate(t)) {
		t.Errorf("one clause fails: want non-match")
	}
}

// ordering ops on containers recover as non-match, not a crash
func TestQueryTypeMismatch(t *testing.T) {
	q := MustParse("{tags.lt:5}")[0].Query
	if q.Check(candidate(t)) {
		t.Errorf("ordering a sequence: want non-match")
	}
	q = MustParse("{.lt:5}")[0].Query
	if q.Check(candidate(t)) {
		t.Errorf("ordering a mapping: want non-match")
	}
}

func TestQueryExpr(t *testing.T) {
	q := MustParse("{expr: count > 2 and name == 'equilibrium'}")[0].Query
	if !q.Check(candidate(t)) {
		t.Errorf("expr clause: want match")
	}
	q = MustParse("{expr: self > 3}")[0].Query
	if !q.Check(ir.FromInt(4)) {
		t.Errorf("scalar self: want match")
	}
	if q.Check(ir.FromInt(2)) {
		t.Errorf("scalar self: want non-match")
	}
}

func TestPredicateFilter(t *testing.T) {
	c := mustNode(t, map[string]any{
		"profiles": []any{
			map[string]any{"kind": "core", "n": 1},
			map[string]any{"kind": "edge", "n": 2},
			map[string]any{"kind": "core", "n": 3},
		},
	})
	var ns []int64
	for m := range Search(c, MustParse("profiles/{kind:core}/n")) {
		ns = append(ns, *m.Int64)
	}
	if len(ns) != 2 || ns[0] != 1 || ns[1] != 3 {
		t.Errorf("matched = %v, want [1 3]", ns)
	}
}
