package entry

import (
	"iter"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// cacheBox shares one cache root across an entry and all its children;
// the root pointer moves when an update replaces it.
type cacheBox struct {
	root *ir.Node
}

// Entry is a path-carrying cursor over a Source. The cache is owned by
// the root entry and shared with every Child; the source reference is
// shared and read-mostly. Reads are write-through: a cache miss
// satisfied by the source lands in the cache before being returned.
type Entry struct {
	box  *cacheBox
	path hpath.Path
	src  Source
}

// New returns an entry at the root of src with an empty cache.
func New(src Source) *Entry {
	return &Entry{box: &cacheBox{root: ir.Absent()}, src: src}
}

// FromNode returns a sourceless entry over an in-memory tree.
func FromNode(root *ir.Node) *Entry {
	if root == nil {
		root = ir.Absent()
	}
	return &Entry{box: &cacheBox{root: root}}
}

// Child returns a cursor deeper in the same tree. The cache and source
// are shared; only the path is copied.
func (e *Entry) Child(p hpath.Path) *Entry {
	return &Entry{box: e.box, path: e.path.Join(p), src: e.src}
}

// ChildKey is Child for a single mapping key.
func (e *Entry) ChildKey(key string) *Entry {
	return e.Child(hpath.Path{hpath.Key(key)})
}

// ChildIndex is Child for a single sequence index.
func (e *Entry) ChildIndex(i int) *Entry {
	return e.Child(hpath.Path{hpath.Index(i)})
}

// Path returns the entry's position.
func (e *Entry) Path() hpath.Path {
	return e.path
}

// Source returns the shared backing source, possibly nil.
func (e *Entry) Source() Source {
	return e.src
}

// Find returns the value at the entry's path: from the cache when
// present, otherwise from the source, caching the fetched value. A
// miss everywhere is Absent, not an error.
func (e *Entry) Find() (*ir.Node, error) {
	if v := hpath.Find(e.box.root, e.path); !ir.IsAbsent(v) {
		return v, nil
	}
	if e.src == nil {
		return ir.Absent(), nil
	}
	v, err := e.src.Find(e.path)
	if err != nil {
		return ir.Absent(), err
	}
	if ir.IsAbsent(v) {
		return ir.Absent(), nil
	}
	if debug.Entry() {
		debug.Logf("entry fetch %s -> %v\n", e.path, v)
	}
	root, err := hpath.Update(e.box.root, e.path, v)
	if err != nil {
		return nil, err
	}
	e.box.root = root
	return hpath.Find(e.box.root, e.path), nil
}

// Search yields every match at the entry's path: cache-resident matches
// first in document order, then source matches not mirrored by the
// cache. The sequence re-resolves on each iteration.
func (e *Entry) Search() iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		for n := range hpath.Search(e.box.root, e.path) {
			if !yield(n) {
				return
			}
		}
		if e.src == nil {
			return
		}
		seq, err := e.src.Search(e.path)
		if err != nil {
			if debug.Entry() {
				debug.Logf("entry search %s: %v\n", e.path, err)
			}
			return
		}
		for n := range seq {
			// skip matches whose position is cache-resident; those were
			// already yielded from the cache
			if !ir.IsAbsent(hpath.Find(e.box.root, hpath.PathOf(n))) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Update merges v into the cache at the entry's path. The source is not
// touched; Flush writes the cache back.
func (e *Entry) Update(v *ir.Node) error {
	root, err := hpath.Update(e.box.root, e.path, v)
	if err != nil {
		return err
	}
	e.box.root = root
	return nil
}

// Insert appends v at the entry's path (non-idempotent, see
// hpath.Insert). Cache-only, like Update.
func (e *Entry) Insert(v *ir.Node) error {
	root, err := hpath.Insert(e.box.root, e.path, v)
	if err != nil {
		return err
	}
	e.box.root = root
	return nil
}

// Delete removes the addressed element from the cache and, when a
// source is attached, from the source as well. It reports whether
// anything was removed anywhere.
func (e *Entry) Delete() (bool, error) {
	removed := hpath.Delete(e.box.root, e.path)
	if e.src == nil {
		return removed, nil
	}
	srcRemoved, err := e.src.Delete(e.path)
	if err != nil {
		return removed, err
	}
	return removed || srcRemoved, nil
}

// Flush writes the cached value at the entry's path back to the source.
func (e *Entry) Flush() error {
	if e.src == nil {
		return nil
	}
	v := hpath.Find(e.box.root, e.path)
	if ir.IsAbsent(v) {
		return nil
	}
	if debug.Flush() {
		debug.Logf("entry flush %s <- %v\n", e.path, v)
	}
	return e.src.Update(e.path, v)
}

// Exists reports whether the entry resolves to anything.
func (e *Entry) Exists() bool {
	v, err := e.Find()
	return err == nil && !ir.IsAbsent(v)
}

// Value returns the entry's resolved value, Absent when nothing
// resolves or the source fails.
func (e *Entry) Value() *ir.Node {
	v, err := e.Find()
	if err != nil {
		return ir.Absent()
	}
	return v
}

// Count returns the number of matches at the entry's path.
func (e *Entry) Count() int {
	n := 0
	for range e.Search() {
		n++
	}
	return n
}

// Keys returns the mapping keys at the entry's position, cache keys
// first, then source-only keys.
func (e *Entry) Keys() ([]string, error) {
	var keys []string
	seen := map[string]bool{}
	add := func(n *ir.Node) {
		if n == nil || n.Type != ir.MapType {
			return
		}
		for i := range n.Fields {
			k := n.Fields[i].String
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	add(hpath.Find(e.box.root, e.path))
	if e.src != nil {
		v, err := e.src.Find(e.path)
		if err != nil {
			return keys, err
		}
		add(v)
	}
	return keys, nil
}
