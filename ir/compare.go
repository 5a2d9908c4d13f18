package ir

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Nodes of different types order by rank:
// Absent < Null < Bool < Number < String < Bytes < Array < Seq < Map.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		a = Absent()
	}
	if b == nil {
		b = Absent()
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case ArrayType:
		if c := slices.Compare(a.Shape, b.Shape); c != 0 {
			return c
		}
		return slices.Compare(a.Data, b.Data)
	case SeqType:
		return compareSeqs(a, b)
	case MapType:
		return compareMaps(a, b)
	case AbsentType, NullType:
		return 0
	}
	return 0
}

// Equal reports whether a and b represent the same value. Parent
// back-references are not considered.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

func rank(t Type) int {
	switch t {
	case AbsentType:
		return 0
	case NullType:
		return 1
	case BoolType:
		return 2
	case NumberType:
		return 3
	case StringType:
		return 4
	case BytesType:
		return 5
	case ArrayType:
		return 6
	case SeqType:
		return 7
	case MapType:
		return 8
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	// Ints compare with ints and floats with floats; across the two, by
	// numeric value with Int64 first on a tie.
	if a.Int64 != nil && b.Int64 != nil {
		return cmp.Compare(*a.Int64, *b.Int64)
	}
	fa := a.AsFloat()
	fb := b.AsFloat()
	if fa != fb {
		return cmp.Compare(fa, fb)
	}
	if a.Int64 != nil && b.Int64 == nil {
		return -1
	}
	if a.Int64 == nil && b.Int64 != nil {
		return 1
	}
	return 0
}

// AsFloat returns the numeric value of a number node as a float64, and 0
// for non-number nodes.
func (n *Node) AsFloat() float64 {
	if n == nil {
		return 0
	}
	if n.Int64 != nil {
		return float64(*n.Int64)
	}
	if n.Float64 != nil {
		return *n.Float64
	}
	return 0
}

func compareSeqs(a, b *Node) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	for i := range min(lenA, lenB) {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareMaps(a, b *Node) int {
	lenA := len(a.Fields)
	lenB := len(b.Fields)
	for i := range min(lenA, lenB) {
		if c := strings.Compare(a.Fields[i].String, b.Fields[i].String); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}
