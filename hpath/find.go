package hpath

import (
	"iter"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/ir"
)

// Search yields every match of p under root in document order. The
// sequence is finite (containers are acyclic) and restartable: each
// iteration resolves afresh against the current state of root. Search
// never mutates.
func Search(root *ir.Node, p Path) iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		resolve(root, p, yield)
	}
}

// Find returns the first match of p under root, or Absent. A trailing
// fan-out returns a composite: ordered fan-outs build a sequence, keyed
// fan-outs a mapping whose keys are the fan-out labels.
func Find(root *ir.Node, p Path) *ir.Node {
	if n := len(p); n > 0 {
		if composite := findComposite(root, p[:n-1], p[n-1]); composite != nil {
			return composite
		}
	}
	res := ir.Absent()
	resolve(root, p, func(n *ir.Node) bool {
		res = n
		return false
	})
	if debug.Path() {
		debug.Logf("find %s -> %v\n", p, res)
	}
	return res
}

// Exists reports whether p matches anything under root.
func Exists(root *ir.Node, p Path) bool {
	return !ir.IsAbsent(Find(root, p))
}

// Count returns the number of matches of p under root.
func Count(root *ir.Node, p Path) int {
	n := 0
	for range Search(root, p) {
		n++
	}
	return n
}

func findComposite(root *ir.Node, prefix Path, last Segment) *ir.Node {
	switch last.Kind {
	case KindFanOut:
		base := Find(root, prefix)
		elts := make([]*ir.Node, len(last.Paths))
		for i, sub := range last.Paths {
			elts[i] = Find(base, sub).Clone()
		}
		return ir.FromSlice(elts)
	case KindFanOutSet:
		base := Find(root, prefix)
		kvs := make([]ir.KeyVal, len(last.Paths))
		for i, sub := range last.Paths {
			kvs[i] = ir.KeyVal{Key: sub.String(), Val: Find(base, sub).Clone()}
		}
		return ir.FromKeyVals(kvs)
	case KindFanOutMap:
		base := Find(root, prefix)
		kvs := make([]ir.KeyVal, len(last.Paths))
		for i, sub := range last.Paths {
			kvs[i] = ir.KeyVal{Key: last.Labels[i], Val: Find(base, sub).Clone()}
		}
		return ir.FromKeyVals(kvs)
	}
	return nil
}

// resolve walks segs from n, yielding matches. The return value follows
// the iterator protocol: false stops the whole walk.
func resolve(n *ir.Node, segs Path, yield func(*ir.Node) bool) bool {
	if ir.IsAbsent(n) {
		return true
	}
	if len(segs) == 0 {
		return yield(n)
	}
	seg, rest := segs[0], segs[1:]
	switch seg.Kind {
	case KindKey:
		if child := ir.Get(n, seg.Key); child != nil {
			return resolve(child, rest, yield)
		}
	case KindIndex:
		if n.Type != ir.SeqType {
			return true
		}
		i := seg.Index
		if i < 0 {
			i += len(n.Values)
		}
		if i >= 0 && i < len(n.Values) {
			return resolve(n.Values[i], rest, yield)
		}
	case KindSlice:
		if n.Type != ir.SeqType {
			return true
		}
		for _, i := range seg.sliceIndices(len(n.Values)) {
			if !resolve(n.Values[i], rest, yield) {
				return false
			}
		}
	case KindWildcard, KindChildren:
		for _, child := range n.Values {
			if !resolve(child, rest, yield) {
				return false
			}
		}
	case KindDescendants:
		for _, child := range n.Values {
			if !resolve(child, rest, yield) {
				return false
			}
			if !resolve(child, segs, yield) {
				return false
			}
		}
	case KindPredicate:
		for _, child := range n.Values {
			if seg.Query.Check(child) && !resolve(child, rest, yield) {
				return false
			}
		}
	case KindParent:
		if n.Parent != nil {
			return resolve(n.Parent, rest, yield)
		}
	case KindRoot:
		return resolve(n.Root(), rest, yield)
	case KindCurrent:
		return resolve(n, rest, yield)
	case KindSiblings:
		if n.Parent == nil {
			return true
		}
		for _, child := range n.Parent.Values {
			if child == n {
				continue
			}
			if !resolve(child, rest, yield) {
				return false
			}
		}
	case KindAncestors:
		for cur := n.Parent; cur != nil; cur = cur.Parent {
			if !resolve(cur, rest, yield) {
				return false
			}
		}
	case KindFanOut, KindFanOutSet, KindFanOutMap:
		for _, sub := range seg.Paths {
			if !resolve(n, sub.Join(rest), yield) {
				return false
			}
		}
	case KindAppend, KindExtend:
		// write-only tags match nothing
	}
	return true
}

// sliceIndices expands slice bounds against a concrete length.
func (s Segment) sliceIndices(length int) []int {
	step := 1
	if s.Step != nil {
		step = *s.Step
	}
	var start, stop int
	if step > 0 {
		start, stop = 0, length
	} else {
		start, stop = length-1, -1
	}
	if s.Start != nil {
		start = clampIndex(*s.Start, length)
	}
	if s.Stop != nil {
		stop = clampIndex(*s.Stop, length)
	}
	var res []int
	if step > 0 {
		for i := start; i < stop; i += step {
			res = append(res, i)
		}
	} else {
		for i := start; i > stop; i += step {
			res = append(res, i)
		}
	}
	return res
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	return i
}
