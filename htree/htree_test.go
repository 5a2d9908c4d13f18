package htree

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

func mustNode(t *testing.T, v any) *ir.Node {
	t.Helper()
	n, err := ir.FromAny(v)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func sourceFixture(t *testing.T) *entry.Memory {
	t.Helper()
	return entry.NewMemory(mustNode(t, map[string]any{
		"name": "shot-42",
		"coil": map[string]any{"current": 1.5},
		"xs":   []any{1, 2, 3},
	}))
}

func TestGetNodeMaterializes(t *testing.T) {
	src := sourceFixture(t)
	n := Dict(WithEntry(entry.New(src)))
	if n.State() != Unmaterialized {
		t.Fatalf("state = %v", n.State())
	}

	coil, err := n.GetNode("coil")
	if err != nil {
		t.Fatal(err)
	}
	if coil == nil || coil.Value().Type != ir.MapType {
		t.Fatalf("coil = %v", coil)
	}
	if n.State() != Cached {
		t.Errorf("state = %v, want Cached", n.State())
	}
	if coil.Parent() != n || coil.Root() != n {
		t.Errorf("parent back-reference wrong")
	}
}

// repeated reads hit the memo, not the entry
func TestGetNodeMemoized(t *testing.T) {
	src := sourceFixture(t)
	n := Dict(WithEntry(entry.New(src)))

	first, err := n.GetNode("coil")
	if err != nil {
		t.Fatal(err)
	}
	// mutate the source: a second read must not observe it
	if err := src.Update(hpath.MustParse("coil/current"), ir.FromFloat(99)); err != nil {
		t.Fatal(err)
	}
	second, err := n.GetNode("coil")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("child not memoized")
	}
	cur, err := second.Find(hpath.MustParse("current"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(cur, ir.FromFloat(1.5)) {
		t.Errorf("re-read hit the entry: %v", ir.ToAny(cur))
	}
}

func TestGetNodeMissing(t *testing.T) {
	n := Dict(WithEntry(entry.New(sourceFixture(t))))
	child, err := n.GetNode("nope")
	if err != nil {
		t.Fatal(err)
	}
	if child != nil {
		t.Errorf("missing key: want nil child")
	}
}

func TestGetIndex(t *testing.T) {
	n := Dict(WithEntry(entry.New(sourceFixture(t))))
	xs, err := n.GetNode("xs")
	if err != nil {
		t.Fatal(err)
	}
	elt, err := xs.GetIndex(-1)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(elt.Value(), ir.FromInt(3)) {
		t.Errorf("xs[-1] = %v", ir.ToAny(elt.Value()))
	}
}

func TestSetNodeDirtyAndCacheOnly(t *testing.T) {
	src := sourceFixture(t)
	n := Dict(WithEntry(entry.New(src)))
	n.SetNode("name", ir.FromString("local"))
	if n.State() != Dirty {
		t.Fatalf("state = %v, want Dirty", n.State())
	}
	v, _ := src.Find(hpath.MustParse("name"))
	if !ir.Equal(v, ir.FromString("shot-42")) {
		t.Errorf("write leaked into source: %v", ir.ToAny(v))
	}
	got, err := n.GetNode("name")
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got.Value(), ir.FromString("local")) {
		t.Errorf("cache = %v", ir.ToAny(got.Value()))
	}
}

func TestDelNode(t *testing.T) {
	n := Dict(WithValue(mustNode(t, map[string]any{"a": 1})))
	if !n.DelNode("a") {
		t.Fatal("want removal")
	}
	if n.DelNode("a") {
		t.Errorf("second delete: want false")
	}
	if n.State() != Dirty {
		t.Errorf("state = %v, want Dirty", n.State())
	}
}

func TestEmptyStateMachine(t *testing.T) {
	n := Dict()
	if n.State() != Empty {
		t.Fatalf("state = %v, want Empty", n.State())
	}
	n.SetNode("k", ir.FromInt(1))
	if n.State() != Dirty {
		t.Errorf("state = %v, want Dirty after write", n.State())
	}
}

func TestChildrenOrder(t *testing.T) {
	src := entry.NewMemory(mustNode(t, map[string]any{
		"a": 1, "b": 2, "c": 3, "d": 4, "e": 5,
	}))
	n := Dict(WithEntry(entry.New(src)))

	// cache three children
	for _, key := range []string{"c", "a", "d"} {
		if _, err := n.GetNode(key); err != nil {
			t.Fatal(err)
		}
	}

	var order []string
	for key := range n.Children() {
		order = append(order, key)
	}
	// cache-resident first in insertion order, then entry-only
	want := []string{"c", "a", "d", "b", "e"}
	if !cmp.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestChildrenRestartable(t *testing.T) {
	n := Dict(WithValue(mustNode(t, map[string]any{"a": 1, "b": 2})))
	seq := n.Children()
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 2 || second != 2 {
		t.Errorf("passes = %d, %d", first, second)
	}
}

func TestChildrenOfEmptyYieldsNothing(t *testing.T) {
	n := Dict()
	for key := range n.Children() {
		t.Errorf("unexpected child %q", key)
	}
}

func TestFlushMergePatch(t *testing.T) {
	src := sourceFixture(t)
	n := Dict(WithEntry(entry.New(src)))
	if err := n.Fetch(); err != nil {
		t.Fatal(err)
	}
	if n.State() != Cached {
		t.Fatalf("state = %v", n.State())
	}

	n.SetNode("name", ir.FromString("updated"))
	if !n.DelNode("xs") {
		t.Fatal("delete xs")
	}
	if err := n.Flush(); err != nil {
		t.Fatal(err)
	}
	if n.State() != Cached {
		t.Errorf("state = %v, want Cached after flush", n.State())
	}

	v, _ := src.Find(hpath.MustParse("name"))
	if !ir.Equal(v, ir.FromString("updated")) {
		t.Errorf("name = %v", ir.ToAny(v))
	}
	v, _ = src.Find(hpath.MustParse("xs"))
	if !ir.IsAbsent(v) {
		t.Errorf("xs survived the flush: %v", ir.ToAny(v))
	}
	// untouched subtree intact
	v, _ = src.Find(hpath.MustParse("coil/current"))
	if !ir.Equal(v, ir.FromFloat(1.5)) {
		t.Errorf("coil = %v", ir.ToAny(v))
	}
}

func TestFlushCleanIsNoop(t *testing.T) {
	n := Dict(WithEntry(entry.New(sourceFixture(t))))
	if err := n.Flush(); err != nil {
		t.Fatal(err)
	}
	if n.State() != Unmaterialized {
		t.Errorf("state = %v", n.State())
	}
}

func TestUpdateThenFind(t *testing.T) {
	n := Dict()
	if err := n.Update(hpath.MustParse("a/b"), ir.FromInt(7)); err != nil {
		t.Fatal(err)
	}
	v, err := n.Find(hpath.MustParse("a/b"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromInt(7)) {
		t.Errorf("got %v", ir.ToAny(v))
	}
}

func TestListAppend(t *testing.T) {
	n := List()
	n.Append(ir.FromInt(1))
	n.Append(ir.FromInt(2))
	if n.Value().Len() != 2 {
		t.Errorf("len = %d", n.Value().Len())
	}
	if n.State() != Dirty {
		t.Errorf("state = %v", n.State())
	}
}

func TestMeta(t *testing.T) {
	n := Dict(WithMeta(map[string]*ir.Node{"units": ir.FromString("m")}))
	if !ir.Equal(n.Meta("units"), ir.FromString("m")) {
		t.Errorf("meta = %v", ir.ToAny(n.Meta("units")))
	}
	if !ir.IsAbsent(n.Meta("nope")) {
		t.Errorf("missing meta should be absent")
	}
}

// a negative index memoizes under its normalized position, so GetIndex
// and Children hand out the same child node
func TestGetIndexNormalizedMemo(t *testing.T) {
	n := Dict(WithEntry(entry.New(sourceFixture(t))))
	xs, err := n.GetNode("xs")
	if err != nil {
		t.Fatal(err)
	}
	last, err := xs.GetIndex(-1)
	if err != nil {
		t.Fatal(err)
	}
	byPos, err := xs.GetIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	if last != byPos {
		t.Errorf("GetIndex(-1) and GetIndex(2) returned distinct nodes")
	}
	for key, child := range xs.Children() {
		if key == "2" && child != last {
			t.Errorf("Children materialized a second node for index 2")
		}
	}
}
