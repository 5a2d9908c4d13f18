package entry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// s1 lacks k, s2 has it: the chain resolves k from s2
func TestChainFallback(t *testing.T) {
	s1 := NewMemory(mustNode(t, map[string]any{"a": 1}))
	s2 := NewMemory(mustNode(t, map[string]any{"a": 10, "k": 2}))
	c := NewChain(s1, s2)

	v, err := c.Find(hpath.MustParse("k"))
	if err != nil {
		t.Fatal(err)
	}
	want, _ := s2.Find(hpath.MustParse("k"))
	if !ir.Equal(v, want) {
		t.Errorf("chain k = %v, want %v", ir.ToAny(v), ir.ToAny(want))
	}

	// first source wins when both have the key
	v, err = c.Find(hpath.MustParse("a"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromInt(1)) {
		t.Errorf("chain a = %v, want 1", ir.ToAny(v))
	}
}

func TestChainFindAbsent(t *testing.T) {
	c := NewChain(
		NewMemory(mustNode(t, map[string]any{"a": 1})),
		NewMemory(mustNode(t, map[string]any{"b": 2})),
	)
	v, err := c.Find(hpath.MustParse("nope"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.IsAbsent(v) {
		t.Errorf("got %v", ir.ToAny(v))
	}
}

// search concatenates all sources' matches, duplicates preserved
func TestChainSearchPreservesDuplicates(t *testing.T) {
	c := NewChain(
		NewMemory(mustNode(t, map[string]any{"xs": []any{1, 2}})),
		NewMemory(mustNode(t, map[string]any{"xs": []any{2, 3}})),
	)
	seq, err := c.Search(hpath.MustParse("xs/*"))
	if err != nil {
		t.Fatal(err)
	}
	var got []any
	for n := range seq {
		got = append(got, ir.ToAny(n))
	}
	want := []any{int64(1), int64(2), int64(2), int64(3)}
	if !cmp.Equal(got, want) {
		t.Errorf("search = %v, want %v", got, want)
	}
}

func TestChainReadOnly(t *testing.T) {
	c := NewChain(NewMemory(nil))
	if err := c.Update(hpath.MustParse("a"), ir.FromInt(1)); err != ErrUnsupported {
		t.Errorf("update err = %v, want ErrUnsupported", err)
	}
}

func TestChainEntryExists(t *testing.T) {
	e := NewChainEntry(
		NewMemory(mustNode(t, map[string]any{"a": 1})),
		NewMemory(mustNode(t, map[string]any{"b": 2})),
	)
	if !e.ChildKey("b").Exists() {
		t.Errorf("b should exist via the second source")
	}
	if e.ChildKey("c").Exists() {
		t.Errorf("c should not exist")
	}
}
