// Package ir provides the in-memory representation for hierarchical
// tree-structured data.
//
// # Overview
//
// All data handled by this module, whether read from a backing source,
// built programmatically, or produced by a path operation, is represented
// as a tree of ir.Node values. The IR is a simple recursive tagged union
// that is readily representable in JSON and YAML.
//
// # Node Types
//
// The Type field indicates the node's type:
//
//   - AbsentType: no value (the zero Type; see below)
//   - NullType: explicit empty value
//   - BoolType: boolean
//   - NumberType: numeric value (int64 or float64)
//   - StringType: text
//   - BytesType: raw bytes
//   - ArrayType: homogeneous numeric buffer with a shape
//   - SeqType: ordered list of nodes
//   - MapType: key-value pairs (fields and values)
//
// # Absent, Null and nil
//
// Absent and Null are distinct and must not be conflated: Absent means "no
// entry exists" and is the standard non-error result of a lookup that
// matched nothing; Null is a value that exists and is empty. A nil *Node in
// a return position also reads as absent; use IsAbsent to test for either.
//
// # Structure Constraints
//
// For MapType nodes, Fields[i] is the key for the value at Values[i], so
// there are always the same number of fields as values. Fields are string
// typed. For SeqType nodes only Values is populated. ArrayType nodes hold a
// flat Data buffer and a Shape; len(Data) equals the product of Shape.
//
// Each node maintains a parent back-reference (Parent, ParentIndex,
// ParentField). The back-reference is non-owning: a node is kept alive by
// the Values slice of its container, never by a child. Trees are acyclic by
// construction; the constructors and the hpath mutation algebra maintain
// the back-references.
//
// # Thread Safety
//
// Node trees are not thread-safe. Mutation of any one tree must be
// externally serialized by the caller.
package ir
