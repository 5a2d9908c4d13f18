package entry

import (
	"iter"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// Source is the contract a backing store implements. Implementations
// are synchronous; any blocking I/O happens inside the call. A Source
// is read-mostly and may be shared by many entries at once; only Update
// and Delete require external serialization by the caller.
//
// Find returns Absent, not an error, when nothing matches. Read-only
// sources return ErrUnsupported from Update and Delete; open/read
// failures are ErrUnavailable.
type Source interface {
	Find(p hpath.Path) (*ir.Node, error)
	Search(p hpath.Path) (iter.Seq[*ir.Node], error)
	Update(p hpath.Path, v *ir.Node) error
	Delete(p hpath.Path) (bool, error)
	Close() error
}

// ReadOnly is embedded by sources without mutation support.
type ReadOnly struct{}

func (ReadOnly) Update(hpath.Path, *ir.Node) error {
	return ErrUnsupported
}

func (ReadOnly) Delete(hpath.Path) (bool, error) {
	return false, ErrUnsupported
}
