// Package hpath implements the path expression language and the
// CRUD/merge algebra over ir.Node trees.
//
// A Path is an ordered sequence of segments: string keys, integer
// indices (negative counts from the end), slices, wildcards, fan-outs,
// predicates, and structural tags (parent, root, children, descendants,
// siblings, ancestors, append, extend). Paths come from Parse or are
// built programmatically; composition resolves parent/root tags eagerly
// so that concatenation is associative.
//
// The algebra is five primitives: Find (first match or absent), Search
// (all matches, lazily, in document order), Update (idempotent deep
// merge, creating intermediate containers on demand), Insert
// (non-idempotent append), and Delete (remove, reporting whether
// anything went away). Lookups never fail for "not found"; they return
// absent.
package hpath
