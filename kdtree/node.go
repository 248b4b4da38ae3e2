// Package kdtree implements an approximate k-nearest-neighbor index
// over a median-split binary tree, searched with a bounded
// best-bin-first traversal.
package kdtree

import "github.com/patrikhermansson/cbir/core"

// node is one level of the KD-tree. It holds exactly one record, the
// axis its children split on, and optional children. Invariant: every
// descendant in left has vector[axis] <= record.vector[axis]; every
// descendant in right has vector[axis] >= record.vector[axis].
type node struct {
	record core.FeatureRecord
	axis   int
	left   *node
	right  *node
}
