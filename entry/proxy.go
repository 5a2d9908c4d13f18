package entry

import (
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// Proxy is a Source presenting a target source under a caller-expected
// schema. Incoming paths are looked up in a translation table (itself a
// Source); the table row is a target path expression with ${var}
// placeholders, a sequence of expressions tried in order, or a constant
// value returned as-is. A path with no table row falls through to the
// target unchanged.
type Proxy struct {
	mapping Source
	target  Source
	vars    map[string]string
}

func NewProxy(mapping, target Source, vars map[string]string) *Proxy {
	return &Proxy{mapping: mapping, target: target, vars: vars}
}

// translate resolves the table row for p. Exactly one of paths and
// constant is set; a nil, empty result means identity.
func (x *Proxy) translate(p hpath.Path) (paths []hpath.Path, constant *ir.Node, err error) {
	row, err := x.mapping.Find(p)
	if err != nil {
		return nil, nil, fmt.Errorf("mapping table: %w", err)
	}
	switch {
	case ir.IsAbsent(row):
		return []hpath.Path{p}, nil, nil
	case row.Type == ir.StringType:
		tp, err := x.expand(row.String)
		if err != nil {
			return nil, nil, err
		}
		return []hpath.Path{tp}, nil, nil
	case row.Type == ir.SeqType:
		for _, elt := range row.Values {
			if elt.Type != ir.StringType {
				return nil, nil, fmt.Errorf("mapping row for %s: want path strings, got %v", p, elt.Type)
			}
			tp, err := x.expand(elt.String)
			if err != nil {
				return nil, nil, err
			}
			paths = append(paths, tp)
		}
		return paths, nil, nil
	default:
		return nil, row, nil
	}
}

func (x *Proxy) expand(tmpl string) (hpath.Path, error) {
	expanded := os.Expand(tmpl, func(name string) string {
		if v, ok := x.vars[name]; ok {
			return v
		}
		return ""
	})
	tp, err := hpath.Parse(strings.TrimSpace(expanded))
	if err != nil {
		return nil, fmt.Errorf("mapping target %q: %w", tmpl, err)
	}
	if debug.Entry() {
		debug.Logf("proxy %q -> %s\n", tmpl, tp)
	}
	return tp, nil
}

func (x *Proxy) Find(p hpath.Path) (*ir.Node, error) {
	paths, constant, err := x.translate(p)
	if err != nil {
		return nil, err
	}
	if constant != nil {
		return constant.Clone(), nil
	}
	// several targets behave as a chain: first non-absent wins
	for _, tp := range paths {
		v, err := x.target.Find(tp)
		if err != nil {
			return nil, err
		}
		if !ir.IsAbsent(v) {
			return v, nil
		}
	}
	return ir.Absent(), nil
}

func (x *Proxy) Search(p hpath.Path) (iter.Seq[*ir.Node], error) {
	paths, constant, err := x.translate(p)
	if err != nil {
		return nil, err
	}
	return func(yield func(*ir.Node) bool) {
		if constant != nil {
			yield(constant.Clone())
			return
		}
		for _, tp := range paths {
			seq, err := x.target.Search(tp)
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

func (x *Proxy) Update(p hpath.Path, v *ir.Node) error {
	paths, constant, err := x.translate(p)
	if err != nil {
		return err
	}
	if constant != nil || len(paths) != 1 {
		return fmt.Errorf("%w: ambiguous mapping for update at %s", ErrUnsupported, p)
	}
	return x.target.Update(paths[0], v)
}

func (x *Proxy) Delete(p hpath.Path) (bool, error) {
	paths, constant, err := x.translate(p)
	if err != nil {
		return false, err
	}
	if constant != nil || len(paths) != 1 {
		return false, fmt.Errorf("%w: ambiguous mapping for delete at %s", ErrUnsupported, p)
	}
	return x.target.Delete(paths[0])
}

func (x *Proxy) Close() error {
	return x.target.Close()
}
