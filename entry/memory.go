package entry

import (
	"iter"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// Memory is a Source over an in-memory tree. It is the simplest backend
// and the backing for translation tables and tests.
type Memory struct {
	root *ir.Node
}

func NewMemory(root *ir.Node) *Memory {
	if root == nil {
		root = ir.Absent()
	}
	return &Memory{root: root}
}

// Root exposes the backing tree; mutating it bypasses the Source
// contract and is for tests only.
func (m *Memory) Root() *ir.Node {
	return m.root
}

func (m *Memory) Find(p hpath.Path) (*ir.Node, error) {
	return hpath.Find(m.root, p), nil
}

func (m *Memory) Search(p hpath.Path) (iter.Seq[*ir.Node], error) {
	return hpath.Search(m.root, p), nil
}

func (m *Memory) Update(p hpath.Path, v *ir.Node) error {
	root, err := hpath.Update(m.root, p, v)
	if err != nil {
		return err
	}
	m.root = root
	return nil
}

func (m *Memory) Delete(p hpath.Path) (bool, error) {
	return hpath.Delete(m.root, p), nil
}

func (m *Memory) Close() error {
	return nil
}
