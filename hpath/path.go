package hpath

import (
	"strings"

	"github.com/htree-dev/go-htree/ir"
)

// Path is an ordered sequence of segments, resolved left to right.
type Path []Segment

// New builds a path from segments, resolving structural tags eagerly
// (see Append).
func New(segs ...Segment) Path {
	var p Path
	return p.Append(segs...)
}

// Append returns a new path with segs appended. Parent and Root resolve
// eagerly so concatenation is associative: a trailing Parent cancels the
// preceding concrete segment, Root clears everything before it, and
// Current vanishes. The receiver is not mutated.
func (p Path) Append(segs ...Segment) Path {
	res := make(Path, len(p), len(p)+len(segs))
	copy(res, p)
	for _, seg := range segs {
		switch seg.Kind {
		case KindCurrent:
			continue
		case KindRoot:
			res = res[:0]
			res = append(res, seg)
			continue
		case KindParent:
			if n := len(res); n > 0 && res[n-1].isConcrete() {
				res = res[:n-1]
				continue
			}
		}
		res = append(res, seg)
	}
	return res
}

// Join concatenates two paths with the same eager resolution as Append.
func (p Path) Join(q Path) Path {
	return p.Append(q...)
}

// IsAbsolute reports whether the path starts at the root.
func (p Path) IsAbsolute() bool {
	return len(p) > 0 && p[0].Kind == KindRoot
}

func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !equalSegments(p[i], q[i]) {
			return false
		}
	}
	return true
}

// String renders the path in its expression form. Parse(p.String())
// round-trips for paths built from parseable segments.
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, seg := range p {
		s := seg.String()
		if i > 0 {
			switch seg.Kind {
			case KindSlice, KindPredicate, KindFanOut, KindFanOutSet, KindFanOutMap:
				// bracketed selectors attach without a delimiter
			default:
				sb.WriteByte('/')
			}
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// PathOf reconstructs the position of a node inside its tree from the
// parent back-references.
func PathOf(n *ir.Node) Path {
	if n == nil {
		return nil
	}
	var segs []Segment
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		if cur.Parent.Type == ir.SeqType {
			segs = append(segs, Index(cur.ParentIndex))
		} else {
			segs = append(segs, Key(cur.ParentField))
		}
	}
	res := make(Path, 0, len(segs)+1)
	res = append(res, Root())
	for i := len(segs) - 1; i >= 0; i-- {
		res = append(res, segs[i])
	}
	return res
}
