package entry

import (
	"errors"
	"iter"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// Chain is a Source over an ordered list of sources: the first
// non-absent result wins on Find, Search concatenates every source's
// matches. Duplicate values across sources are preserved by Search,
// giving overlay semantics.
type Chain struct {
	ReadOnly
	sources []Source
}

func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// NewChainEntry wraps a chain of sources in a fresh Entry.
func NewChainEntry(sources ...Source) *Entry {
	return New(NewChain(sources...))
}

func (c *Chain) Find(p hpath.Path) (*ir.Node, error) {
	var errs []error
	for _, src := range c.sources {
		v, err := src.Find(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ir.IsAbsent(v) {
			return v, nil
		}
	}
	return ir.Absent(), errors.Join(errs...)
}

func (c *Chain) Search(p hpath.Path) (iter.Seq[*ir.Node], error) {
	return func(yield func(*ir.Node) bool) {
		for _, src := range c.sources {
			seq, err := src.Search(p)
			if err != nil {
				continue
			}
			for n := range seq {
				if !yield(n) {
					return
				}
			}
		}
	}, nil
}

func (c *Chain) Close() error {
	var errs []error
	for _, src := range c.sources {
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
