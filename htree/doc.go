// Package htree is the tree node layer: in-memory mapping and sequence
// containers overlaying an optional backing entry, with lazy child
// materialization, write-through caching, typed field accessors, and an
// explicit flush of local changes back to the store.
package htree
