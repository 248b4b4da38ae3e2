package balltree

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/cbir/core"
)

// defaultLeafSize is the default maximum number of records a leaf
// node holds before a ball tree splits it further.
const defaultLeafSize = 50

// Index is a ball-tree index searched by Euclidean branch-and-bound.
// It is effectively immutable post-build: Build publishes a freshly
// built tree through a single atomic pointer store so concurrent
// readers never observe a partially built tree.
type Index struct {
	root     atomic.Pointer[node]
	dim      atomic.Int64
	size     atomic.Int64
	leafSize int
}

// New returns a ball-tree index builder with the given leaf size.
// leafSize <= 0 selects defaultLeafSize.
func New(leafSize int) *Index {
	if leafSize <= 0 {
		leafSize = defaultLeafSize
	}
	return &Index{leafSize: leafSize}
}

// Capabilities reports that the ball-tree index supports build and
// query but not point-wise insert.
func (idx *Index) Capabilities() core.Capabilities {
	return core.Capabilities{Buildable: true, Searchable: true}
}

// Build constructs a ball tree over records and publishes it
// atomically. Fails with core.ErrDimensionMismatch if records disagree
// on vector length.
func (idx *Index) Build(records []core.FeatureRecord) error {
	if len(records) == 0 {
		idx.root.Store(nil)
		idx.size.Store(0)
		return nil
	}
	dim := records[0].Dim()
	for _, r := range records {
		if r.Dim() != dim {
			return core.ErrDimensionMismatch
		}
	}
	root := build(records, dim, idx.leafSize)
	idx.dim.Store(int64(dim))
	idx.size.Store(int64(len(records)))
	idx.root.Store(root)
	log.Debug().Int("count", len(records)).Int("dim", dim).Float64("root_radius", root.radius).Msg("ball tree built")
	return nil
}

// Len returns the number of records the index currently holds.
func (idx *Index) Len() int { return int(idx.size.Load()) }

// Query returns up to k FeatureRecords for q in ascending Euclidean
// distance order. k is clamped to the index size. Fails with
// core.ErrIndexNotReady if Build has not run yet.
func (idx *Index) Query(q []float32, k int) ([]core.FeatureRecord, error) {
	if len(q) == 0 || k <= 0 {
		return nil, core.ErrInvalidArgument
	}
	root := idx.root.Load()
	if root == nil {
		return nil, core.ErrIndexNotReady
	}
	if int(idx.dim.Load()) != len(q) {
		return nil, core.ErrDimensionMismatch
	}
	size := int(idx.size.Load())
	if k > size {
		k = size
	}
	return search(root, q, k), nil
}

var (
	_ core.Searchable = (*Index)(nil)
	_ core.Buildable  = (*Index)(nil)
)
