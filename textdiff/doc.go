// Package textdiff compares two documents.
//
// Unified renders both documents and produces a line diff of the text,
// optionally colorized for terminals. Changed walks the trees
// structurally and reports the paths at which they disagree.
package textdiff
