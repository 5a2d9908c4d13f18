package htree

import (
	jsonpatch "github.com/evanphx/json-patch"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/ir"
)

// Flush writes local changes back to the entry as a merge patch: the
// cache is diffed against the snapshot taken at the last Fetch or
// Flush, so untouched fields are not rewritten. The node returns to
// Cached.
func (n *Node) Flush() error {
	if n.state != Dirty {
		return nil
	}
	if n.entry == nil {
		n.snapshot = n.cache.Clone()
		n.state = Cached
		return nil
	}
	before := n.snapshot
	if before == nil {
		before = ir.Null()
	}
	origJSON, err := ir.MarshalJSON(before)
	if err != nil {
		return err
	}
	curJSON, err := ir.MarshalJSON(n.cache)
	if err != nil {
		return err
	}
	patchJSON, err := jsonpatch.CreateMergePatch(origJSON, curJSON)
	if err != nil {
		return err
	}
	if debug.Flush() {
		debug.Logf("flush patch: %s\n", string(patchJSON))
	}
	patch, err := ir.UnmarshalJSON(patchJSON)
	if err != nil {
		return err
	}
	// merge-patch nulls mean deletion; translate to the algebra's tag
	nullsToDeleted(patch)
	if err := n.entry.Update(patch); err != nil {
		return err
	}
	// the patch goes to the source as-is so deletions propagate; a
	// whole-value write would merge and resurrect deleted keys
	if src := n.entry.Source(); src != nil {
		if err := src.Update(n.entry.Path(), patch); err != nil {
			return err
		}
	}
	n.snapshot = n.cache.Clone()
	n.state = Cached
	return nil
}

func nullsToDeleted(n *ir.Node) {
	if n == nil || n.Type != ir.MapType {
		return
	}
	for _, v := range n.Values {
		if v.Type == ir.NullType {
			v.Type = ir.AbsentType
			continue
		}
		nullsToDeleted(v)
	}
}
