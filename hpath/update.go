package hpath

import (
	"fmt"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/ir"
)

// Deleted returns the deletion tag for deep merges: a mapping value that
// is explicitly absent removes its key from the target during Update.
func Deleted() *ir.Node {
	return ir.Absent()
}

// Update applies v at p under root and returns the resulting root.
// Update is idempotent: applying the same update twice equals applying
// it once. Missing intermediate containers are created, keyed by the
// next segment (mapping for a key, sequence for an index); a mapping
// merged into a mapping recurses key-wise; anything else replaces.
// v is cloned before being merged, so the caller keeps ownership.
func Update(root *ir.Node, p Path, v *ir.Node) (*ir.Node, error) {
	if root == nil {
		root = ir.Absent()
	}
	if v == nil {
		v = ir.Null()
	} else {
		v = v.Clone()
	}
	if debug.Path() {
		debug.Logf("update %s <- %v\n", p, v)
	}
	return updateNode(root, p, v, -1)
}

// UpdateDepth is Update with a bounded merge depth: mappings recurse
// key-wise with decreasing depth, and at depth 0 the new value replaces
// the old outright. A negative depth is unbounded.
func UpdateDepth(root *ir.Node, p Path, v *ir.Node, depth int) (*ir.Node, error) {
	if root == nil {
		root = ir.Absent()
	}
	if v == nil {
		v = ir.Null()
	} else {
		v = v.Clone()
	}
	return updateNode(root, p, v, depth)
}

// Insert applies v at p non-idempotently: a sequence target appends, a
// scalar target becomes the two-element sequence [old, new], an absent
// target becomes v. Repeated calls grow the structure each time.
func Insert(root *ir.Node, p Path, v *ir.Node) (*ir.Node, error) {
	return Update(root, p.Append(Append()), v)
}

func updateNode(n *ir.Node, segs Path, v *ir.Node, depth int) (*ir.Node, error) {
	if len(segs) == 0 {
		return merge(n, v, depth), nil
	}
	seg, rest := segs[0], segs[1:]
	switch seg.Kind {
	case KindKey:
		if n.Type != ir.MapType && n.Type != ir.AbsentType {
			return nil, fmt.Errorf("cannot set key %q on %v", seg.Key, n.Type)
		}
		child := ir.Get(n, seg.Key)
		if child == nil {
			child = ir.Absent()
		}
		newChild, err := updateNode(child, rest, v, depth)
		if err != nil {
			return nil, err
		}
		n.MapSet(seg.Key, newChild)
		return n, nil
	case KindIndex:
		if n.Type != ir.SeqType && n.Type != ir.AbsentType {
			return nil, fmt.Errorf("cannot set index %d on %v", seg.Index, n.Type)
		}
		i := seg.Index
		if i < 0 {
			i += len(n.Values)
			if i < 0 {
				return nil, fmt.Errorf("index %d out of range", seg.Index)
			}
		}
		var child *ir.Node
		if i < len(n.Values) {
			child = n.Values[i]
		} else {
			child = ir.Absent()
		}
		newChild, err := updateNode(child, rest, v, depth)
		if err != nil {
			return nil, err
		}
		n.SeqSet(i, newChild)
		return n, nil
	case KindSlice:
		if n.Type != ir.SeqType && n.Type != ir.AbsentType {
			return nil, fmt.Errorf("cannot slice-assign on %v", n.Type)
		}
		if n.Type == ir.AbsentType {
			n.Type = ir.SeqType
		}
		// extend with absent placeholders up to the upper bound
		if seg.Stop != nil && *seg.Stop > len(n.Values) {
			n.SeqSet(*seg.Stop-1, ir.Absent())
		}
		for _, i := range seg.sliceIndices(len(n.Values)) {
			newChild, err := updateNode(n.Values[i], rest, v.Clone(), depth)
			if err != nil {
				return nil, err
			}
			n.SeqSet(i, newChild)
		}
		return n, nil
	case KindWildcard, KindChildren, KindPredicate,
		KindDescendants, KindSiblings, KindAncestors:
		// traversal never allocates; the update applies to each match
		for _, m := range collect(n, Path{seg}) {
			res, err := updateNode(m, rest, v.Clone(), depth)
			if err != nil {
				return nil, err
			}
			if res != m {
				if err := replaceInParent(m, res); err != nil {
					return nil, err
				}
			}
		}
		return n, nil
	case KindParent:
		if n.Parent == nil {
			return nil, fmt.Errorf("no parent to ascend to")
		}
		if _, err := updateNode(n.Parent, rest, v, depth); err != nil {
			return nil, err
		}
		return n, nil
	case KindRoot:
		if n.Parent == nil {
			return updateNode(n, rest, v, depth)
		}
		if _, err := updateNode(n.Root(), rest, v, depth); err != nil {
			return nil, err
		}
		return n, nil
	case KindCurrent:
		return updateNode(n, rest, v, depth)
	case KindAppend:
		if len(rest) > 0 {
			return nil, fmt.Errorf("append must be the last segment")
		}
		return appendValue(n, v, depth)
	case KindExtend:
		if len(rest) > 0 {
			return nil, fmt.Errorf("extend must be the last segment")
		}
		return extendValue(n, v)
	case KindFanOut, KindFanOutSet, KindFanOutMap:
		// fan-out updates take exactly one source value, applied along
		// every sub-path
		cur := n
		for _, sub := range seg.Paths {
			res, err := updateNode(cur, sub.Join(rest), v.Clone(), depth)
			if err != nil {
				return nil, err
			}
			cur = res
		}
		return cur, nil
	}
	return nil, fmt.Errorf("cannot update through %v segment", seg.Kind)
}

func appendValue(n, v *ir.Node, depth int) (*ir.Node, error) {
	switch n.Type {
	case ir.AbsentType:
		return v, nil
	case ir.SeqType:
		n.SeqAppend(v)
		return n, nil
	case ir.MapType:
		if v.Type != ir.MapType {
			return nil, fmt.Errorf("cannot append %v to a mapping", v.Type)
		}
		return merge(n, v, depth), nil
	default:
		// scalar target promotes to [old, new]
		return ir.FromSlice([]*ir.Node{n, v}), nil
	}
}

func extendValue(n, v *ir.Node) (*ir.Node, error) {
	if v.Type != ir.SeqType {
		return nil, fmt.Errorf("extend wants a sequence, got %v", v.Type)
	}
	switch n.Type {
	case ir.AbsentType:
		return v, nil
	case ir.SeqType:
		for _, elt := range v.Values {
			n.SeqAppend(elt)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot extend %v", n.Type)
	}
}

// merge combines a new value into an old one. Mappings merge key-wise
// with decreasing depth; an explicitly absent mapping value deletes its
// key; everything else replaces. At depth 0 the new value replaces.
func merge(old, new *ir.Node, depth int) *ir.Node {
	if new.Type == ir.AbsentType {
		return old
	}
	if depth == 0 {
		return new
	}
	if old == nil || old.Type != ir.MapType || new.Type != ir.MapType {
		return new
	}
	for i := range new.Fields {
		key := new.Fields[i].String
		val := new.Values[i]
		if val.Type == ir.AbsentType {
			old.MapDelete(key)
			continue
		}
		prev := ir.Get(old, key)
		old.MapSet(key, merge(prev, val, depth-1))
	}
	return old
}

// Delete removes whatever the last segment of p addresses from its
// immediate parent and reports whether anything was removed. A missing
// target is not an error.
func Delete(root *ir.Node, p Path) bool {
	if len(p) == 0 {
		return false
	}
	prefix, last := p[:len(p)-1], p[len(p)-1]
	removed := false
	for _, parent := range collect(root, prefix) {
		if deleteLast(parent, last) {
			removed = true
		}
	}
	if debug.Path() {
		debug.Logf("delete %s -> %v\n", p, removed)
	}
	return removed
}

func deleteLast(parent *ir.Node, last Segment) bool {
	switch last.Kind {
	case KindKey:
		return parent.MapDelete(last.Key)
	case KindIndex:
		return parent.SeqDelete(last.Index)
	case KindSlice:
		idx := last.sliceIndices(parent.Len())
		removed := false
		for i := len(idx) - 1; i >= 0; i-- {
			if parent.SeqDelete(idx[i]) {
				removed = true
			}
		}
		return removed
	case KindWildcard, KindChildren:
		removed := len(parent.Values) > 0
		parent.Fields = nil
		parent.Values = nil
		return removed
	case KindPredicate:
		removed := false
		for i := len(parent.Values) - 1; i >= 0; i-- {
			if !last.Query.Check(parent.Values[i]) {
				continue
			}
			if parent.Type == ir.MapType {
				removed = parent.MapDelete(parent.Fields[i].String) || removed
			} else {
				removed = parent.SeqDelete(i) || removed
			}
		}
		return removed
	}
	return false
}

// collect materializes Search matches so the caller may mutate while
// ranging.
func collect(root *ir.Node, p Path) []*ir.Node {
	var res []*ir.Node
	for n := range Search(root, p) {
		res = append(res, n)
	}
	return res
}

func replaceInParent(old, new *ir.Node) error {
	parent := old.Parent
	if parent == nil {
		return fmt.Errorf("cannot replace a parentless node")
	}
	if parent.Type == ir.MapType {
		parent.MapSet(old.ParentField, new)
		return nil
	}
	parent.SeqSet(old.ParentIndex, new)
	return nil
}
