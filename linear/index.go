// Package linear implements the exact, concurrency-safe reference
// index: an append-only list of feature records ranked by cosine
// distance at query time. It never prunes, so it always returns the
// true k nearest neighbors.
package linear

import (
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/cbir/core"
)

// Index is an append-only, read-write-locked list of FeatureRecords.
// Build replaces the contents atomically; Insert appends a single
// record; Query ranks every stored record by cosine distance. Multiple
// queries may run concurrently with each other; Build/Insert/Clear
// take exclusive access.
type Index struct {
	mu       sync.RWMutex
	features []core.FeatureRecord
}

// New returns an empty Index.
func New() *Index {
	return &Index{}
}

// Capabilities reports that the linear index supports every operation.
func (idx *Index) Capabilities() core.Capabilities {
	return core.Capabilities{Insertable: true, Buildable: true, Searchable: true}
}

// Build replaces the index's contents atomically. A nil or empty
// slice is permitted and results in an empty index.
func (idx *Index) Build(records []core.FeatureRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.features = append([]core.FeatureRecord(nil), records...)
	log.Debug().Int("count", len(idx.features)).Msg("linear index built")
	return nil
}

// Insert appends one record without rebuilding. Fails with
// core.ErrInvalidArgument if the record's vector is empty.
func (idx *Index) Insert(record core.FeatureRecord) error {
	if record.Dim() == 0 {
		return core.ErrInvalidArgument
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.features = append(idx.features, record)
	return nil
}

// Clear empties the index under the same exclusive access Build uses.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.features = nil
}

// Len returns the number of currently stored records.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.features)
}

// Query ranks every stored record by cosine distance to q and returns
// the first k in ascending order. An empty index returns an empty
// slice, never an error. Requires q non-empty and k > 0.
func (idx *Index) Query(q []float32, k int) ([]core.FeatureRecord, error) {
	if len(q) == 0 {
		return nil, core.ErrInvalidArgument
	}
	if k <= 0 {
		return nil, core.ErrInvalidArgument
	}

	idx.mu.RLock()
	snapshot := idx.features // re-reads during this call see this same backing slice, no tearing
	idx.mu.RUnlock()

	if len(snapshot) == 0 {
		return []core.FeatureRecord{}, nil
	}

	type scored struct {
		record core.FeatureRecord
		dist   float64
	}
	scores := make([]scored, len(snapshot))

	var firstErr error
	var errOnce sync.Once

	numWorkers := runtime.NumCPU()
	if numWorkers > len(snapshot) {
		numWorkers = len(snapshot)
	}
	chunkSize := (len(snapshot) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(snapshot) {
			end = len(snapshot)
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				d, err := core.CosineDistance(q, snapshot[i].Vector())
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				scores[i] = scored{record: snapshot[i], dist: d}
			}
		}(start, end)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].dist < scores[j].dist
	})

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]core.FeatureRecord, k)
	for i := 0; i < k; i++ {
		out[i] = scores[i].record
	}
	return out, nil
}

var (
	_ core.Searchable = (*Index)(nil)
	_ core.Buildable  = (*Index)(nil)
	_ core.Insertable = (*Index)(nil)
)
