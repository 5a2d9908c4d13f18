package ir

import "fmt"

type Type int

const (
	AbsentType Type = iota
	NullType
	BoolType
	NumberType
	StringType
	BytesType
	ArrayType
	SeqType
	MapType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		AbsentType: "Absent",
		NullType:   "Null",
		BoolType:   "Bool",
		NumberType: "Number",
		StringType: "String",
		BytesType:  "Bytes",
		ArrayType:  "Array",
		SeqType:    "Seq",
		MapType:    "Map",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Absent": AbsentType,
		"Null":   NullType,
		"Bool":   BoolType,
		"Number": NumberType,
		"String": StringType,
		"Bytes":  BytesType,
		"Array":  ArrayType,
		"Seq":    SeqType,
		"Map":    MapType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		AbsentType,
		NullType,
		BoolType,
		NumberType,
		StringType,
		BytesType,
		ArrayType,
		SeqType,
		MapType,
	}
}

// IsLeaf reports whether values of this type have no children.
// Array counts as a leaf: it is a buffer, not a container of nodes.
func (t Type) IsLeaf() bool {
	switch t {
	case SeqType, MapType:
		return false
	default:
		return true
	}
}

func (t Type) IsContainer() bool {
	return !t.IsLeaf()
}
