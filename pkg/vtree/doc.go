// Package vtree implements the virtual-tree reconciliation engine: an
// immutable node model, a diff algorithm that compares two successive
// renders, and the patch taxonomy the diff emits.
//
// A render cycle produces a fresh Node tree; a Differ compares it
// against the retained previous tree and returns an ordered []Patch
// that transforms a live render surface from the old state to the new
// one. Keyed children reconcile through a longest-increasing-subsequence
// pass, so reorders cost the minimum number of moves. Memo nodes skip
// both evaluation and diffing when their key is unchanged.
//
// Patches address nodes by stable string id only; encoding them for a
// process boundary lives in package wire, applying them to a concrete
// surface is the sink's concern. Apply in this package is a reference
// sink over a model tree, used by tests and tooling.
package vtree
