package ir

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
)

// ToAny converts a node to plain Go values (the shapes produced by
// encoding/json and the YAML decoders). Absent map values are omitted;
// any other absent position becomes nil. Bytes and numeric buffers use
// self-describing single-key mappings so FromAny can reconstruct them:
//
//	{"$bytes": "<base64>"}
//	{"$array": [...], "$shape": [...]}
func ToAny(node *Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case MapType:
		n := len(node.Fields)
		res := make(map[string]any, n)
		for i := range n {
			if node.Values[i].Type == AbsentType {
				continue
			}
			res[node.Fields[i].String] = ToAny(node.Values[i])
		}
		return res
	case SeqType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case ArrayType:
		data := make([]any, len(node.Data))
		for i, f := range node.Data {
			data[i] = f
		}
		shape := make([]any, len(node.Shape))
		for i, d := range node.Shape {
			shape[i] = d
		}
		return map[string]any{"$array": data, "$shape": shape}
	case BytesType:
		return map[string]any{
			"$bytes": base64.StdEncoding.EncodeToString(node.Bytes),
		}
	case StringType:
		return node.String
	case NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		return *node.Float64
	case BoolType:
		return node.Bool
	case NullType, AbsentType:
		return nil
	default:
		panic("impossible production")
	}
}

// FromAny converts plain Go values to a node. Maps are keyed in sorted
// order. The $bytes and $array/$shape forms produced by ToAny round-trip
// to Bytes and Array nodes.
func FromAny(v any) (*Node, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return v.Clone(), nil
	case bool:
		return FromBool(v), nil
	case string:
		return FromString(v), nil
	case []byte:
		return FromBytes(v), nil
	case int:
		return FromInt(int64(v)), nil
	case int64:
		return FromInt(v), nil
	case uint64:
		return FromInt(int64(v)), nil
	case float64:
		return FromFloat(v), nil
	case float32:
		return FromFloat(float64(v)), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return FromInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return FromFloat(f), nil
	case []float64:
		return FromArray(v), nil
	case []any:
		elts := make([]*Node, len(v))
		for i, e := range v {
			elt, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			elts[i] = elt
		}
		return FromSlice(elts), nil
	case map[string]any:
		if n, ok, err := fromTaggedMap(v); ok || err != nil {
			return n, err
		}
		m := make(map[string]*Node, len(v))
		for key, e := range v {
			elt, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[key] = elt
		}
		return FromMap(m), nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for key, e := range v {
			s, ok := key.(string)
			if !ok {
				s = fmt.Sprintf("%v", key)
			}
			m[s] = e
		}
		return FromAny(m)
	default:
		return nil, fmt.Errorf("cannot represent %T", v)
	}
}

func fromTaggedMap(v map[string]any) (*Node, bool, error) {
	if b, ok := v["$bytes"]; ok && len(v) == 1 {
		s, ok := b.(string)
		if !ok {
			return nil, true, fmt.Errorf("$bytes: want string, got %T", b)
		}
		d, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, true, fmt.Errorf("$bytes: %w", err)
		}
		return FromBytes(d), true, nil
	}
	a, okA := v["$array"]
	s, okS := v["$shape"]
	if !okA || !okS || len(v) != 2 {
		return nil, false, nil
	}
	data, err := floatSlice(a)
	if err != nil {
		return nil, true, fmt.Errorf("$array: %w", err)
	}
	shapeF, err := floatSlice(s)
	if err != nil {
		return nil, true, fmt.Errorf("$shape: %w", err)
	}
	shape := make([]int, len(shapeF))
	for i, f := range shapeF {
		shape[i] = int(f)
	}
	return FromArray(data, shape...), true, nil
}

func floatSlice(v any) ([]float64, error) {
	switch v := v.(type) {
	case []float64:
		return v, nil
	case []any:
		res := make([]float64, len(v))
		for i, e := range v {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			if n.Type != NumberType {
				return nil, fmt.Errorf("want number, got %v", n.Type)
			}
			res[i] = n.AsFloat()
		}
		return res, nil
	default:
		return nil, fmt.Errorf("want list, got %T", v)
	}
}

// MarshalJSON encodes the node via ToAny with sorted map keys.
func MarshalJSON(node *Node) ([]byte, error) {
	return json.Marshal(ToAny(node))
}

// UnmarshalJSON decodes JSON into a node via FromAny.
func UnmarshalJSON(d []byte) (*Node, error) {
	var v any
	if err := json.Unmarshal(d, &v); err != nil {
		return nil, err
	}
	return FromAny(v)
}

// SortFields orders a mapping node's entries by key, recursively. It is
// used before diffing so two trees with different insertion orders
// compare equal.
func SortFields(n *Node) {
	if n == nil {
		return
	}
	if n.Type == MapType {
		idx := make([]int, len(n.Fields))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return n.Fields[idx[a]].String < n.Fields[idx[b]].String
		})
		fields := make([]*Node, len(idx))
		values := make([]*Node, len(idx))
		for i, j := range idx {
			fields[i] = n.Fields[j]
			values[i] = n.Values[j]
			fields[i].ParentIndex = i
			values[i].ParentIndex = i
		}
		n.Fields = fields
		n.Values = values
	}
	for _, v := range n.Values {
		SortFields(v)
	}
}
