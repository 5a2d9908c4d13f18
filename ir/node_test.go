package ir

import (
	"testing"
)

func TestFromMapParents(t *testing.T) {
	a := FromInt(1)
	b := FromString("x")
	m := FromMap(map[string]*Node{"b": b, "a": a})
	if len(m.Fields) != 2 || m.Fields[0].String != "a" || m.Fields[1].String != "b" {
		t.Fatalf("keys not sorted: %v", m.Fields)
	}
	if a.Parent != m || a.ParentField != "a" || a.ParentIndex != 0 {
		t.Errorf("a back-reference wrong: %v %q %d", a.Parent, a.ParentField, a.ParentIndex)
	}
	if b.Parent != m || b.ParentField != "b" || b.ParentIndex != 1 {
		t.Errorf("b back-reference wrong: %v %q %d", b.Parent, b.ParentField, b.ParentIndex)
	}
	if a.Root() != m {
		t.Errorf("Root() = %v, want the map", a.Root())
	}
}

func TestMapSet(t *testing.T) {
	m := FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}})
	m.MapSet("b", FromInt(2))
	m.MapSet("a", FromInt(3))
	if got := Get(m, "a"); got == nil || *got.Int64 != 3 {
		t.Errorf("a = %v, want 3", got)
	}
	if got := Get(m, "b"); got == nil || *got.Int64 != 2 {
		t.Errorf("b = %v, want 2", got)
	}
	if len(m.Fields) != 2 {
		t.Errorf("len = %d, want 2", len(m.Fields))
	}
}

func TestMapSetPromotesAbsent(t *testing.T) {
	n := Absent()
	n.MapSet("k", FromInt(1))
	if n.Type != MapType {
		t.Fatalf("type = %v, want Map", n.Type)
	}
	if got := Get(n, "k"); got == nil || *got.Int64 != 1 {
		t.Errorf("k = %v, want 1", got)
	}
}

func TestMapDelete(t *testing.T) {
	m := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromInt(2)},
		{Key: "c", Val: FromInt(3)},
	})
	if !m.MapDelete("b") {
		t.Fatalf("delete b: want true")
	}
	if m.MapDelete("b") {
		t.Fatalf("second delete b: want false")
	}
	c := Get(m, "c")
	if c == nil || c.ParentIndex != 1 {
		t.Errorf("c not renumbered: %v", c)
	}
}

func TestSeqSetExtends(t *testing.T) {
	s := FromSlice([]*Node{FromInt(1)})
	s.SeqSet(3, FromInt(9))
	if len(s.Values) != 4 {
		t.Fatalf("len = %d, want 4", len(s.Values))
	}
	if !IsAbsent(s.Values[1]) || !IsAbsent(s.Values[2]) {
		t.Errorf("gap not absent-filled: %v %v", s.Values[1].Type, s.Values[2].Type)
	}
	if *s.Values[3].Int64 != 9 {
		t.Errorf("tail = %v, want 9", s.Values[3])
	}
}

func TestSeqSetNegative(t *testing.T) {
	s := FromSlice([]*Node{FromInt(1), FromInt(2)})
	s.SeqSet(-1, FromInt(5))
	if *s.Values[1].Int64 != 5 {
		t.Errorf("s[-1] = %v, want 5", s.Values[1])
	}
}

func TestSeqDelete(t *testing.T) {
	s := FromSlice([]*Node{FromInt(1), FromInt(2), FromInt(3)})
	if !s.SeqDelete(-2) {
		t.Fatalf("delete -2: want true")
	}
	if len(s.Values) != 2 || *s.Values[1].Int64 != 3 {
		t.Fatalf("got %d values", len(s.Values))
	}
	if s.Values[1].ParentIndex != 1 {
		t.Errorf("tail not renumbered: %d", s.Values[1].ParentIndex)
	}
	if s.SeqDelete(5) {
		t.Errorf("out of range delete: want false")
	}
}

func TestCloneIndependence(t *testing.T) {
	orig := FromMap(map[string]*Node{
		"xs": FromSlice([]*Node{FromInt(1), FromInt(2)}),
	})
	cp := orig.Clone()
	cp.Values[0].SeqSet(0, FromInt(99))
	if got := *Get(orig, "xs").Values[0].Int64; got != 1 {
		t.Errorf("original mutated: %d", got)
	}
	if cp.Values[0].Parent != cp {
		t.Errorf("clone children not reparented")
	}
}

func TestVisitOrder(t *testing.T) {
	n := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromSlice([]*Node{FromInt(2)})},
	})
	var pre, post int
	err := n.Visit(func(n *Node, isPost bool) (bool, error) {
		if isPost {
			post++
		} else {
			pre++
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// map, int, seq, int
	if pre != 4 || post != 4 {
		t.Errorf("pre=%d post=%d, want 4/4", pre, post)
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		name string
		n    *Node
		want int
	}{
		{"absent", Absent(), 0},
		{"null", Null(), 1},
		{"scalar", FromInt(3), 1},
		{"seq", FromSlice([]*Node{FromInt(1), FromInt(2)}), 2},
		{"map", FromKeyVals([]KeyVal{{Key: "a", Val: Null()}}), 1},
		{"array", FromArray([]float64{1, 2, 3}), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}
