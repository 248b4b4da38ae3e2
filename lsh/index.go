package lsh

import (
	"math/rand"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/cbir/core"
)

// defaultTables is the default number of independent hash tables (L).
const defaultTables = 10

// defaultBits is the default number of bits per table (K).
const defaultBits = 8

// Index is a random-projection LSH index. It does not support Insert:
// random-projection calibration happens at build time, and an insert
// would need to re-hash under the same projections against every
// table — possible, but not offered here, to keep the index's
// semantics (build replaces everything, query never mutates) clean.
type Index struct {
	tables atomic.Pointer[[]*table]
	dim    atomic.Int64
	size   atomic.Int64
	l, k   int
	seed   int64
}

// New returns an LSH index with l tables of k bits each, seeded
// reproducibly from core.GetSeed so repeated builds with the same seed
// produce identical tables. l <= 0 selects defaultTables; k <= 0
// selects defaultBits.
func New(l, k int) *Index {
	if l <= 0 {
		l = defaultTables
	}
	if k <= 0 {
		k = defaultBits
	}
	return &Index{l: l, k: k, seed: core.GetSeed()}
}

// Capabilities reports that the LSH index supports build and query
// but not point-wise insert.
func (idx *Index) Capabilities() core.Capabilities {
	return core.Capabilities{Buildable: true, Searchable: true}
}

// Build generates l independent tables of k random projections each
// and hashes every record into each table. A copy of each record's
// vector is normalized for hashing purposes; the caller's vector is
// never mutated.
func (idx *Index) Build(records []core.FeatureRecord) error {
	if len(records) == 0 {
		idx.tables.Store(nil)
		idx.size.Store(0)
		return nil
	}
	dim := records[0].Dim()
	for _, r := range records {
		if r.Dim() != dim {
			return core.ErrDimensionMismatch
		}
	}

	rnd := rand.New(rand.NewSource(idx.seed))
	newTables := make([]*table, idx.l)
	for i := 0; i < idx.l; i++ {
		tbl := newTable(idx.k, dim, rnd)
		for _, r := range records {
			normalized, err := core.NormalizedCopy(r.Vector())
			if err != nil {
				return err
			}
			sig := tbl.signature(normalized)
			tbl.buckets[sig] = append(tbl.buckets[sig], r)
		}
		newTables[i] = tbl
	}

	idx.dim.Store(int64(dim))
	idx.size.Store(int64(len(records)))
	idx.tables.Store(&newTables)
	log.Debug().Int("count", len(records)).Int("tables", idx.l).Int("bits", idx.k).Msg("lsh index built")
	return nil
}

// Len returns the number of records the index currently holds.
func (idx *Index) Len() int { return int(idx.size.Load()) }

// Query gathers candidates from the bucket q hashes to in each table,
// deduplicates them, ranks the union by exact cosine distance, and
// returns the top k. Fails with core.ErrIndexNotReady if Build has not
// run yet.
func (idx *Index) Query(q []float32, k int) ([]core.FeatureRecord, error) {
	if len(q) == 0 || k <= 0 {
		return nil, core.ErrInvalidArgument
	}
	tablesPtr := idx.tables.Load()
	if tablesPtr == nil {
		return nil, core.ErrIndexNotReady
	}
	if int(idx.dim.Load()) != len(q) {
		return nil, core.ErrDimensionMismatch
	}

	qNorm, err := core.NormalizedCopy(q)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]core.FeatureRecord)
	for _, tbl := range *tablesPtr {
		for _, rec := range tbl.candidates(qNorm) {
			seen[rec.ID()] = rec
		}
	}
	if len(seen) == 0 {
		return []core.FeatureRecord{}, nil
	}

	type scored struct {
		record core.FeatureRecord
		dist   float64
	}
	scores := make([]scored, 0, len(seen))
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic iteration order before the distance sort
	for _, id := range ids {
		rec := seen[id]
		d, err := core.CosineDistance(qNorm, rec.Vector())
		if err != nil {
			return nil, err
		}
		scores = append(scores, scored{record: rec, dist: d})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })

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
)
