package htree

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// State tracks a node's materialization status. A node with an entry
// starts Unmaterialized and becomes Cached on its first successful
// read; the first local mutation makes it Dirty, and a Flush returns
// it to Cached. A node with no entry and an empty cache is Empty until
// a write occurs.
type State int

const (
	Empty State = iota
	Unmaterialized
	Cached
	Dirty
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Unmaterialized:
		return "Unmaterialized"
	case Cached:
		return "Cached"
	case Dirty:
		return "Dirty"
	}
	return "<unknown state>"
}

// Node is an in-memory tree container with an optional entry fallback
// and a non-owning parent back-reference. Children materialize on
// demand and are memoized; local mutations touch only the cache until
// Flush.
type Node struct {
	cache    *ir.Node
	entry    *entry.Entry
	parent   *Node
	meta     map[string]*ir.Node
	state    State
	children map[string]*Node

	// snapshot is the last fetched or flushed value; Flush diffs the
	// cache against it.
	snapshot *ir.Node
}

type Option func(*Node)

// WithEntry attaches a backing entry.
func WithEntry(e *entry.Entry) Option {
	return func(n *Node) {
		n.entry = e
		n.state = Unmaterialized
	}
}

// WithValue seeds the cache.
func WithValue(v *ir.Node) Option {
	return func(n *Node) {
		n.cache = v
		if !ir.IsAbsent(v) {
			n.state = Cached
		}
	}
}

// WithMeta attaches metadata, invisible to path resolution.
func WithMeta(meta map[string]*ir.Node) Option {
	return func(n *Node) { n.meta = meta }
}

// Dict returns a mapping-flavored node.
func Dict(opts ...Option) *Node {
	n := &Node{cache: ir.Absent(), state: Empty}
	for _, opt := range opts {
		opt(n)
	}
	if n.cache.Type == ir.AbsentType && n.entry == nil {
		n.cache.Type = ir.MapType
	}
	return n
}

// List returns a sequence-flavored node.
func List(opts ...Option) *Node {
	n := &Node{cache: ir.Absent(), state: Empty}
	for _, opt := range opts {
		opt(n)
	}
	if n.cache.Type == ir.AbsentType && n.entry == nil {
		n.cache.Type = ir.SeqType
	}
	return n
}

func (n *Node) State() State {
	return n.state
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Root() *Node {
	res := n
	for res.parent != nil {
		res = res.parent
	}
	return res
}

func (n *Node) Meta(key string) *ir.Node {
	if v, ok := n.meta[key]; ok {
		return v
	}
	return ir.Absent()
}

// Value returns the node's cached value.
func (n *Node) Value() *ir.Node {
	return n.cache
}

// GetNode resolves key against the cache, falling back to the entry on
// a miss, caches the fetched value, and memoizes the materialized child
// node: repeated reads after the first touch neither the entry nor the
// conversion again.
func (n *Node) GetNode(key string) (*Node, error) {
	if child, ok := n.children[key]; ok {
		return child, nil
	}
	v := ir.Get(n.cache, key)
	if ir.IsAbsent(v) {
		if n.entry == nil {
			return nil, nil
		}
		fetched, err := n.entry.ChildKey(key).Find()
		if err != nil {
			return nil, err
		}
		if ir.IsAbsent(fetched) {
			return nil, nil
		}
		if debug.Tree() {
			debug.Logf("tree materialize %q <- %v\n", key, fetched)
		}
		v = fetched.Clone()
		n.cache.MapSet(key, v)
		if n.state == Unmaterialized || n.state == Empty {
			n.state = Cached
		}
	}
	child := &Node{cache: v, parent: n, state: Cached}
	if n.entry != nil {
		child.entry = n.entry.ChildKey(key)
	}
	if n.children == nil {
		n.children = map[string]*Node{}
	}
	n.children[key] = child
	return child, nil
}

// GetIndex is GetNode for sequence elements. Negative indices count
// from the end; resolving one against an unmaterialized entry fetches
// the sequence first so the position is known.
func (n *Node) GetIndex(i int) (*Node, error) {
	if i < 0 && n.cache.Type != ir.SeqType && n.entry != nil {
		if err := n.Fetch(); err != nil {
			return nil, err
		}
	}
	// memoize under the normalized position so GetIndex(-1) and
	// Children agree on the same child node
	if i < 0 && n.cache.Type == ir.SeqType {
		i += len(n.cache.Values)
	}
	if i < 0 {
		return nil, nil
	}
	key := strconv.Itoa(i)
	if child, ok := n.children[key]; ok {
		return child, nil
	}
	var v *ir.Node
	if n.cache.Type == ir.SeqType && i < len(n.cache.Values) {
		v = n.cache.Values[i]
	}
	if ir.IsAbsent(v) {
		if n.entry == nil {
			return nil, nil
		}
		fetched, err := n.entry.ChildIndex(i).Find()
		if err != nil {
			return nil, err
		}
		if ir.IsAbsent(fetched) {
			return nil, nil
		}
		v = fetched.Clone()
		n.cache.SeqSet(i, v)
		if n.state == Unmaterialized || n.state == Empty {
			n.state = Cached
		}
	}
	child := &Node{cache: v, parent: n, state: Cached}
	if n.entry != nil {
		child.entry = n.entry.ChildIndex(i)
	}
	if n.children == nil {
		n.children = map[string]*Node{}
	}
	n.children[key] = child
	return child, nil
}

// Children enumerates (key, child) pairs: cache-resident children first
// in insertion order, then entry-only children not already cached. The
// sequence is finite and restartable, re-derived from the current
// cache and entry state on each iteration.
func (n *Node) Children() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		cached := map[string]bool{}
		switch n.cache.Type {
		case ir.MapType:
			for i := range n.cache.Fields {
				key := n.cache.Fields[i].String
				cached[key] = true
				child, err := n.GetNode(key)
				if err != nil || child == nil {
					continue
				}
				if !yield(key, child) {
					return
				}
			}
		case ir.SeqType:
			for i := range n.cache.Values {
				key := strconv.Itoa(i)
				cached[key] = true
				child, err := n.GetIndex(i)
				if err != nil || child == nil {
					continue
				}
				if !yield(key, child) {
					return
				}
			}
		}
		if n.entry == nil {
			return
		}
		keys, err := n.entry.Keys()
		if err != nil {
			if debug.Tree() {
				debug.Logf("tree children keys: %v\n", err)
			}
			return
		}
		for _, key := range keys {
			if cached[key] {
				continue
			}
			child, err := n.GetNode(key)
			if err != nil || child == nil {
				continue
			}
			if !yield(key, child) {
				return
			}
		}
	}
}

// SetNode writes v into the node's own cache and marks it dirty. The
// entry is never touched by a write; Flush pushes changes back.
func (n *Node) SetNode(key string, v *ir.Node) {
	n.cache.MapSet(key, v)
	delete(n.children, key)
	n.state = Dirty
}

// SetIndex writes a sequence element, extending with absent
// placeholders as needed.
func (n *Node) SetIndex(i int, v *ir.Node) {
	n.cache.SeqSet(i, v)
	delete(n.children, strconv.Itoa(i))
	n.state = Dirty
}

// Append adds an element to a sequence node.
func (n *Node) Append(v *ir.Node) {
	n.cache.SeqAppend(v)
	n.state = Dirty
}

// DelNode removes key from the cache and reports whether it was
// present. Like SetNode it never touches the entry.
func (n *Node) DelNode(key string) bool {
	delete(n.children, key)
	removed := n.cache.MapDelete(key)
	if removed {
		n.state = Dirty
	}
	return removed
}

// Fetch pulls the full entry value into the cache, replacing it, and
// records the snapshot Flush diffs against.
func (n *Node) Fetch() error {
	if n.entry == nil {
		return fmt.Errorf("node has no entry to fetch from")
	}
	v, err := n.entry.Find()
	if err != nil {
		return err
	}
	n.cache = v.Clone()
	n.snapshot = v.Clone()
	n.children = nil
	n.state = Cached
	return nil
}

// Find resolves a path against the node: cache first, then entry, with
// the result written through into the cache.
func (n *Node) Find(p hpath.Path) (*ir.Node, error) {
	if v := hpath.Find(n.cache, p); !ir.IsAbsent(v) {
		return v, nil
	}
	if n.entry == nil {
		return ir.Absent(), nil
	}
	v, err := n.entry.Child(p).Find()
	if err != nil || ir.IsAbsent(v) {
		return ir.Absent(), err
	}
	cache, err := hpath.Update(n.cache, p, v)
	if err != nil {
		return nil, err
	}
	n.cache = cache
	if n.state == Unmaterialized || n.state == Empty {
		n.state = Cached
	}
	return hpath.Find(n.cache, p), nil
}

// Update applies v at p in the cache and marks the node dirty.
func (n *Node) Update(p hpath.Path, v *ir.Node) error {
	cache, err := hpath.Update(n.cache, p, v)
	if err != nil {
		return err
	}
	n.cache = cache
	n.children = nil
	n.state = Dirty
	return nil
}
