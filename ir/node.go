package ir

import (
	"maps"
	"slices"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string

	Fields []*Node
	Values []*Node

	String  string
	Bool    bool
	Float64 *float64
	Int64   *int64
	Bytes   []byte

	Data  []float64
	Shape []int
}

// Absent returns a fresh absent node. Lookups that match nothing return
// absent, never an error.
func Absent() *Node {
	return &Node{Type: AbsentType}
}

// IsAbsent reports whether n is nil or absent-typed.
func IsAbsent(n *Node) bool {
	return n == nil || n.Type == AbsentType
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Int64: &v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Float64: &f}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromBytes(d []byte) *Node {
	return &Node{Type: BytesType, Bytes: d}
}

// FromArray builds a numeric buffer node. A nil shape means a 1-d buffer
// of len(data).
func FromArray(data []float64, shape ...int) *Node {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	return &Node{Type: ArrayType, Data: data, Shape: shape}
}

// FromMap builds a mapping node with sorted keys. The values are adopted,
// not cloned.
func FromMap(m map[string]*Node) *Node {
	res := &Node{Type: MapType}
	keys := slices.Sorted(maps.Keys(m))
	res.Fields = make([]*Node, len(keys))
	res.Values = make([]*Node, len(keys))
	for i, key := range keys {
		v := m[key]
		if v == nil {
			v = Null()
		}
		adopt(res, v, i, key)
		res.Fields[i] = &Node{
			Parent:      res,
			ParentIndex: i,
			ParentField: key,
			Type:        StringType,
			String:      key,
		}
		res.Values[i] = v
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds a mapping node preserving the given key order.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: MapType}
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		v := kv.Val
		if v == nil {
			v = Null()
		}
		adopt(res, v, i, kv.Key)
		res.Fields[i] = &Node{
			Parent:      res,
			ParentIndex: i,
			ParentField: kv.Key,
			Type:        StringType,
			String:      kv.Key,
		}
		res.Values[i] = v
	}
	return res
}

// FromSlice builds a sequence node. The elements are adopted, not cloned.
func FromSlice(elts []*Node) *Node {
	res := &Node{Type: SeqType}
	res.Values = make([]*Node, len(elts))
	for i, v := range elts {
		if v == nil {
			v = Absent()
		}
		adopt(res, v, i, "")
		res.Values[i] = v
	}
	return res
}

func adopt(parent, child *Node, index int, field string) {
	child.Parent = parent
	child.ParentIndex = index
	child.ParentField = field
}

func (n *Node) Clone() *Node {
	res := &Node{}
	return n.CloneTo(res)
}

func (n *Node) CloneTo(dst *Node) *Node {
	dst.Parent = n.Parent
	dst.ParentIndex = n.ParentIndex
	dst.ParentField = n.ParentField
	dst.Type = n.Type
	dst.String = n.String
	dst.Bool = n.Bool
	if n.Int64 != nil {
		i := *n.Int64
		dst.Int64 = &i
	}
	if n.Float64 != nil {
		f := *n.Float64
		dst.Float64 = &f
	}
	dst.Bytes = slices.Clone(n.Bytes)
	dst.Data = slices.Clone(n.Data)
	dst.Shape = slices.Clone(n.Shape)

	dst.Values = make([]*Node, len(n.Values))
	for i, v := range n.Values {
		dstV := &Node{}
		v.CloneTo(dstV)
		adopt(dst, dstV, i, v.ParentField)
		dst.Values[i] = dstV
	}
	dst.Fields = make([]*Node, len(n.Fields))
	for i, f := range n.Fields {
		dstF := &Node{}
		f.CloneTo(dstF)
		adopt(dst, dstF, i, f.String)
		dst.Fields[i] = dstF
	}
	return dst
}

// Get returns the value for field, or nil if the node is not a mapping or
// has no such field.
func Get(n *Node, field string) *Node {
	if n == nil || n.Type != MapType {
		return nil
	}
	for i := range n.Fields {
		if n.Fields[i].String == field {
			return n.Values[i]
		}
	}
	return nil
}

// Len returns the child count for containers, the element count for
// arrays, 0 for absent, and 1 for any other leaf.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Type {
	case AbsentType:
		return 0
	case MapType, SeqType:
		return len(n.Values)
	case ArrayType:
		return len(n.Data)
	default:
		return 1
	}
}

// MapSet sets field to v, inserting it at the end when not present.
// The node must be a mapping or absent (promoted to an empty mapping).
func (n *Node) MapSet(field string, v *Node) {
	if n.Type == AbsentType {
		n.Type = MapType
	}
	if v == nil {
		v = Null()
	}
	for i := range n.Fields {
		if n.Fields[i].String == field {
			adopt(n, v, i, field)
			n.Values[i] = v
			return
		}
	}
	i := len(n.Fields)
	adopt(n, v, i, field)
	n.Fields = append(n.Fields, &Node{
		Parent:      n,
		ParentIndex: i,
		ParentField: field,
		Type:        StringType,
		String:      field,
	})
	n.Values = append(n.Values, v)
}

// MapDelete removes field and reports whether it was present.
func (n *Node) MapDelete(field string) bool {
	if n.Type != MapType {
		return false
	}
	for i := range n.Fields {
		if n.Fields[i].String != field {
			continue
		}
		n.Fields = slices.Delete(n.Fields, i, i+1)
		n.Values = slices.Delete(n.Values, i, i+1)
		n.renumber(i)
		return true
	}
	return false
}

// SeqSet sets index i to v, extending the sequence with absent
// placeholders when i is past the end. The node must be a sequence or
// absent (promoted to an empty sequence). Negative indices count from the
// end and must be in range.
func (n *Node) SeqSet(i int, v *Node) {
	if n.Type == AbsentType {
		n.Type = SeqType
	}
	if i < 0 {
		i += len(n.Values)
	}
	for len(n.Values) <= i {
		ab := Absent()
		adopt(n, ab, len(n.Values), "")
		n.Values = append(n.Values, ab)
	}
	if v == nil {
		v = Null()
	}
	adopt(n, v, i, "")
	n.Values[i] = v
}

// SeqAppend appends v. The node must be a sequence or absent.
func (n *Node) SeqAppend(v *Node) {
	n.SeqSet(len(n.Values), v)
}

// SeqDelete removes index i and reports whether a removal occurred.
func (n *Node) SeqDelete(i int) bool {
	if n.Type != SeqType {
		return false
	}
	if i < 0 {
		i += len(n.Values)
	}
	if i < 0 || i >= len(n.Values) {
		return false
	}
	n.Values = slices.Delete(n.Values, i, i+1)
	n.renumber(i)
	return true
}

func (n *Node) renumber(from int) {
	for i := from; i < len(n.Values); i++ {
		n.Values[i].ParentIndex = i
	}
	for i := from; i < len(n.Fields); i++ {
		n.Fields[i].ParentIndex = i
	}
}

// Visit walks the tree pre- and post-order. The callback's dive result
// controls descent on the pre-order call and is ignored post-order.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, v := range n.Values {
			if err := v.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// Root follows parent back-references to the top of the tree.
func (n *Node) Root() *Node {
	res := n
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}
