// Package balltree implements an approximate k-nearest-neighbor index
// over a hierarchy of bounding hyperspheres, searched with
// branch-and-bound pruning under Euclidean distance.
package balltree

import "github.com/patrikhermansson/cbir/core"

// node is either a leaf holding a non-empty list of records or an
// internal node holding two children. Every node carries a centroid
// and a radius such that every record reachable from the node lies
// within Euclidean distance radius of centroid. Once returned from
// build, an internal node's children are never nil.
type node struct {
	centroid []float32
	radius   float64

	isLeaf   bool
	features []core.FeatureRecord // leaf only

	left  *node // internal only
	right *node // internal only
}
