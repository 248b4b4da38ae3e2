package kdtree

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/cbir/core"
)

// defaultMaxChecks is the default bound on nodes visited per query.
const defaultMaxChecks = 1000

// Index is a KD-tree index searched with bounded best-bin-first
// traversal. It is effectively immutable post-build: concurrent
// queries require no synchronization as long as no goroutine calls
// Build concurrently; Build publishes a freshly built tree through a
// single atomic pointer store so readers never observe a partially
// built tree.
type Index struct {
	root      atomic.Pointer[node]
	dim       atomic.Int64
	size      atomic.Int64
	maxChecks int
	cosine    bool
	distance  core.DistanceFunc
}

// New returns a KD-tree index configured with a check budget and
// metric. maxChecks <= 0 selects defaultMaxChecks. useCosine selects
// cosine distance; otherwise Euclidean distance is used. Cosine
// distance is not coordinate-additive, so the far-child pruning
// penalty degrades to zero under cosine — max_checks is what bounds
// the work in that case, not geometric pruning.
func New(maxChecks int, useCosine bool) *Index {
	if maxChecks <= 0 {
		maxChecks = defaultMaxChecks
	}
	dist := core.Euclidean
	if useCosine {
		dist = core.Cosine
	}
	return &Index{maxChecks: maxChecks, cosine: useCosine, distance: dist}
}

// Capabilities reports that the KD-tree index supports build and
// query but not point-wise insert.
func (idx *Index) Capabilities() core.Capabilities {
	return core.Capabilities{Buildable: true, Searchable: true}
}

// Build constructs a median-split KD-tree over records and publishes
// it atomically. An empty input yields an empty (nil-root) index.
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
	root := build(records, 0, dim)
	idx.dim.Store(int64(dim))
	idx.size.Store(int64(len(records)))
	idx.root.Store(root)
	log.Debug().Int("count", len(records)).Int("dim", dim).Msg("kd-tree built")
	return nil
}

// Len returns the number of records the index currently holds.
func (idx *Index) Len() int { return int(idx.size.Load()) }

// Query returns up to k FeatureRecords for q in ascending distance
// order under the configured metric, visiting at most maxChecks
// distinct nodes. Fails with core.ErrIndexNotReady if Build has not
// run yet, core.ErrInvalidArgument if q is empty or k <= 0.
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
	return bestBinFirst(root, q, k, idx.maxChecks, idx.distance, idx.cosine), nil
}

var (
	_ core.Searchable = (*Index)(nil)
	_ core.Buildable  = (*Index)(nil)
)
