package hpath

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindKey Kind = iota
	KindIndex
	KindSlice
	KindWildcard
	KindFanOut
	KindFanOutSet
	KindFanOutMap
	KindPredicate
	KindParent
	KindRoot
	KindCurrent
	KindChildren
	KindDescendants
	KindSiblings
	KindAncestors
	KindAppend
	KindExtend
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		KindKey:         "Key",
		KindIndex:       "Index",
		KindSlice:       "Slice",
		KindWildcard:    "Wildcard",
		KindFanOut:      "FanOut",
		KindFanOutSet:   "FanOutSet",
		KindFanOutMap:   "FanOutMap",
		KindPredicate:   "Predicate",
		KindParent:      "Parent",
		KindRoot:        "Root",
		KindCurrent:     "Current",
		KindChildren:    "Children",
		KindDescendants: "Descendants",
		KindSiblings:    "Siblings",
		KindAncestors:   "Ancestors",
		KindAppend:      "Append",
		KindExtend:      "Extend",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Segment is one atomic step of a Path.
type Segment struct {
	Kind Kind

	Key   string
	Index int

	// Slice bounds; nil means unbounded (Step nil means 1).
	Start, Stop, Step *int

	// Sub-paths for the fan-out kinds. For FanOutMap, Labels is parallel
	// to Paths.
	Paths  []Path
	Labels []string

	Query *Query
}

func Key(k string) Segment     { return Segment{Kind: KindKey, Key: k} }
func Index(i int) Segment      { return Segment{Kind: KindIndex, Index: i} }
func Wildcard() Segment        { return Segment{Kind: KindWildcard} }
func Parent() Segment          { return Segment{Kind: KindParent} }
func Root() Segment            { return Segment{Kind: KindRoot} }
func Current() Segment         { return Segment{Kind: KindCurrent} }
func Children() Segment        { return Segment{Kind: KindChildren} }
func Descendants() Segment     { return Segment{Kind: KindDescendants} }
func Siblings() Segment        { return Segment{Kind: KindSiblings} }
func Ancestors() Segment       { return Segment{Kind: KindAncestors} }
func Append() Segment          { return Segment{Kind: KindAppend} }
func Extend() Segment          { return Segment{Kind: KindExtend} }
func Predicate(q *Query) Segment {
	return Segment{Kind: KindPredicate, Query: q}
}

// Slice builds a slice segment; nil bounds are open.
func Slice(start, stop, step *int) Segment {
	return Segment{Kind: KindSlice, Start: start, Stop: stop, Step: step}
}

// FanOut builds an ordered fan-out over sub-paths.
func FanOut(paths ...Path) Segment {
	return Segment{Kind: KindFanOut, Paths: paths}
}

// FanOutSet builds a keyed fan-out; result keys are the sub-path strings.
func FanOutSet(paths ...Path) Segment {
	return Segment{Kind: KindFanOutSet, Paths: paths}
}

// FanOutMap builds a keyed fan-out with one sub-path per label.
func FanOutMap(labels []string, paths []Path) Segment {
	return Segment{Kind: KindFanOutMap, Labels: labels, Paths: paths}
}

// isConcrete reports whether a trailing Parent cancels this segment
// during composition.
func (s Segment) isConcrete() bool {
	switch s.Kind {
	case KindParent, KindRoot, KindCurrent, KindAncestors:
		return false
	}
	return true
}

func (s Segment) String() string {
	switch s.Kind {
	case KindKey:
		return s.Key
	case KindIndex:
		return strconv.Itoa(s.Index)
	case KindSlice:
		var sb strings.Builder
		if s.Start != nil {
			sb.WriteString(strconv.Itoa(*s.Start))
		}
		sb.WriteByte(':')
		if s.Stop != nil {
			sb.WriteString(strconv.Itoa(*s.Stop))
		}
		if s.Step != nil {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(*s.Step))
		}
		return "[" + sb.String() + "]"
	case KindWildcard:
		return "*"
	case KindFanOut:
		return "[" + joinPaths(s.Paths) + "]"
	case KindFanOutSet:
		return "{" + joinPaths(s.Paths) + "}"
	case KindFanOutMap:
		parts := make([]string, len(s.Paths))
		for i := range s.Paths {
			parts[i] = s.Labels[i] + "=" + s.Paths[i].String()
		}
		return "{" + strings.Join(parts, ",") + "}"
	case KindPredicate:
		return s.Query.String()
	case KindParent:
		return ".."
	case KindRoot:
		return ""
	case KindCurrent:
		return "."
	case KindChildren:
		return "$children"
	case KindDescendants:
		return "**"
	case KindSiblings:
		return "$siblings"
	case KindAncestors:
		return "..."
	case KindAppend:
		return "$append"
	case KindExtend:
		return "$extend"
	}
	return fmt.Sprintf("<%v>", s.Kind)
}

func joinPaths(paths []Path) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func equalSegments(a, b Segment) bool {
	if a.Kind != b.Kind {
		return false
	}
	return a.String() == b.String()
}
