package htree

import (
	"fmt"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// Field is a typed accessor for one declared member of a node: a name,
// a default used when nothing resolves, and an optional alias path
// tried after the name. The declared-type conversion happens at read
// time, once; the converted value lands in the node's cache like any
// other read.
type Field[T any] struct {
	Name    string
	Default T
	Alias   hpath.Path
}

// Get resolves the field against the node, converting the raw value to
// T. An absent field yields the default; a present value that cannot
// convert to T is an error.
func (f Field[T]) Get(n *Node) (T, error) {
	raw, err := n.Find(hpath.Path{hpath.Key(f.Name)})
	if err != nil {
		return f.Default, err
	}
	if ir.IsAbsent(raw) && len(f.Alias) > 0 {
		raw, err = n.Find(f.Alias)
		if err != nil {
			return f.Default, err
		}
	}
	if ir.IsAbsent(raw) {
		return f.Default, nil
	}
	v, ok := convert[T](raw)
	if !ok {
		return f.Default, fmt.Errorf("field %q: cannot read %v as %T", f.Name, raw.Type, f.Default)
	}
	return v, nil
}

// Set writes the field into the node's cache.
func (f Field[T]) Set(n *Node, v T) error {
	node, err := ir.FromAny(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	n.SetNode(f.Name, node)
	return nil
}

// convert performs the declared-type conversion from a raw tree value.
func convert[T any](raw *ir.Node) (T, bool) {
	var out T
	switch p := any(&out).(type) {
	case **ir.Node:
		*p = raw
		return out, true
	case *string:
		if raw.Type != ir.StringType {
			return out, false
		}
		*p = raw.String
		return out, true
	case *bool:
		if raw.Type != ir.BoolType {
			return out, false
		}
		*p = raw.Bool
		return out, true
	case *int:
		if raw.Type != ir.NumberType || raw.Int64 == nil {
			return out, false
		}
		*p = int(*raw.Int64)
		return out, true
	case *int64:
		if raw.Type != ir.NumberType || raw.Int64 == nil {
			return out, false
		}
		*p = *raw.Int64
		return out, true
	case *float64:
		if raw.Type != ir.NumberType {
			return out, false
		}
		*p = raw.AsFloat()
		return out, true
	case *[]float64:
		switch raw.Type {
		case ir.ArrayType:
			*p = raw.Data
			return out, true
		case ir.SeqType:
			res := make([]float64, len(raw.Values))
			for i, elt := range raw.Values {
				if elt.Type != ir.NumberType {
					return out, false
				}
				res[i] = elt.AsFloat()
			}
			*p = res
			return out, true
		}
		return out, false
	case *[]byte:
		if raw.Type != ir.BytesType {
			return out, false
		}
		*p = raw.Bytes
		return out, true
	case *[]string:
		if raw.Type != ir.SeqType {
			return out, false
		}
		res := make([]string, len(raw.Values))
		for i, elt := range raw.Values {
			if elt.Type != ir.StringType {
				return out, false
			}
			res[i] = elt.String
		}
		*p = res
		return out, true
	default:
		v, ok := ir.ToAny(raw).(T)
		return v, ok
	}
}
