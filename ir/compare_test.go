package ir

import (
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected int
	}{
		// Type Ranking: Absent < Null < Bool < Number < String < Bytes < Array < Seq < Map
		{"Absent < Null", Absent(), Null(), -1},
		{"Null < Bool", Null(), FromBool(false), -1},
		{"Bool < Number", FromBool(true), FromInt(1), -1},
		{"Number < String", FromInt(1), FromString("a"), -1},
		{"String < Bytes", FromString("a"), FromBytes(nil), -1},
		{"Bytes < Array", FromBytes([]byte("x")), FromArray(nil), -1},
		{"Array < Seq", FromArray([]float64{1}), FromSlice(nil), -1},
		{"Seq < Map", FromSlice(nil), FromKeyVals(nil), -1},

		// nil reads as absent
		{"nil == Absent", nil, Absent(), 0},
		{"nil < Null", nil, Null(), -1},

		// Bool Comparison
		{"false < true", FromBool(false), FromBool(true), -1},
		{"true == true", FromBool(true), FromBool(true), 0},

		// Number Comparison
		{"Int < Int", FromInt(1), FromInt(2), -1},
		{"Float < Float", FromFloat(1.0), FromFloat(2.0), -1},
		{"Int < Float same value", FromInt(1), FromFloat(1.0), -1},
		{"Int < Float by value", FromInt(2), FromFloat(2.5), -1},
		{"Float < Int by value", FromFloat(0.5), FromInt(1), -1},

		// Bytes Comparison
		{"Bytes by content", FromBytes([]byte("ab")), FromBytes([]byte("ac")), -1},

		// Array Comparison
		{"Array by shape", FromArray([]float64{1, 2}, 1, 2), FromArray([]float64{1, 2}, 2, 1), -1},
		{"Array by data", FromArray([]float64{1, 2}), FromArray([]float64{1, 3}), -1},
		{"Array equal", FromArray([]float64{1, 2}), FromArray([]float64{1, 2}), 0},

		// Seq Comparison
		{"Empty Seq == Empty Seq", FromSlice(nil), FromSlice(nil), 0},
		{"Short Seq < Long Seq", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(1), FromInt(2)}), -1},
		{"Seq Element Comparison", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(2)}), -1},

		// Map Comparison
		{"Empty Map == Empty Map", FromKeyVals(nil), FromKeyVals(nil), 0},
		{"Short Map < Long Map",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}, {Key: "b", Val: FromInt(2)}}),
			-1},
		{"Map Key Comparison",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "b", Val: FromInt(1)}}),
			-1},
		{"Map Value Comparison",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(2)}}),
			-1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			// Test symmetry
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare(b, a) = %v, want %v", got, -tt.expected)
			}
		})
	}
}

func TestEqualIgnoresParent(t *testing.T) {
	inner := FromInt(7)
	FromMap(map[string]*Node{"k": inner})
	if !Equal(inner, FromInt(7)) {
		t.Errorf("parented and free nodes should compare equal")
	}
}
