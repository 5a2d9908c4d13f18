package textdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/htree-dev/go-htree/encode"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// Changed walks from and to structurally and returns the paths at
// which the two trees disagree, in document order of the "to" side
// where possible. Identical trees yield nil.
func Changed(from, to *ir.Node) []hpath.Path {
	return changed(from, to, hpath.Path{hpath.Root()})
}

func changed(from, to *ir.Node, at hpath.Path) []hpath.Path {
	if ir.Equal(from, to) {
		return nil
	}
	ft, tt := nodeType(from), nodeType(to)
	if ft != tt {
		return []hpath.Path{at}
	}
	switch ft {
	case ir.MapType:
		return changedMap(from, to, at)
	case ir.SeqType:
		return changedSeq(from, to, at)
	default:
		return []hpath.Path{at}
	}
}

func changedMap(from, to *ir.Node, at hpath.Path) []hpath.Path {
	var res []hpath.Path
	seen := map[string]bool{}
	for i, f := range from.Fields {
		key := f.String
		seen[key] = true
		res = append(res, changed(from.Values[i], ir.Get(to, key), at.Append(hpath.Key(key)))...)
	}
	for i, f := range to.Fields {
		key := f.String
		if seen[key] {
			continue
		}
		res = append(res, changed(ir.Absent(), to.Values[i], at.Append(hpath.Key(key)))...)
	}
	return res
}

// changedSeq aligns the two element lists with a rune diff over their
// rendered text, so a shifted tail does not report every index.
func changedSeq(from, to *ir.Node, at hpath.Path) []hpath.Path {
	eltMap := map[string]rune{}
	fromRunes := mapElementsTo(eltMap, from)
	toRunes := mapElementsTo(eltMap, to)
	dmp := diffpatch.New()
	diffs := dmp.DiffMainRunes(fromRunes, toRunes, false)

	var res []hpath.Path
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range diff.Text {
				res = append(res, at.Append(hpath.Index(fi)))
				fi++
			}
		case diffpatch.DiffEqual:
			fi += len([]rune(diff.Text))
			ti += len([]rune(diff.Text))
		case diffpatch.DiffInsert:
			for range diff.Text {
				res = append(res, at.Append(hpath.Index(ti)))
				ti++
			}
		}
	}
	return res
}

func mapElementsTo(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		s := encode.MustString(v)
		r, ok := m[s]
		if !ok {
			r = rune(len(m))
			m[s] = r
		}
		rs[i] = r
	}
	return rs
}

func nodeType(n *ir.Node) ir.Type {
	if n == nil {
		return ir.AbsentType
	}
	return n.Type
}
