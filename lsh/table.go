// Package lsh implements a locality-sensitive-hashing index: L tables
// of K-bit random-projection sign hashes group angularly similar
// vectors into shared buckets with high probability.
package lsh

import (
	"math/rand"

	"github.com/patrikhermansson/cbir/core"
)

// table is one random-projection hash table: K normalized projection
// vectors of dimension D, and a map from the resulting K-bit signature
// string to the records that hash to it.
type table struct {
	projections [][]float32 // K rows, each length D, L2-normalized
	buckets     map[string][]core.FeatureRecord
}

// newTable generates K random projection vectors of dimension dim,
// drawn from the standard normal distribution and L2-normalized, using
// rnd for reproducibility.
func newTable(k, dim int, rnd *rand.Rand) *table {
	projections := make([][]float32, k)
	for i := 0; i < k; i++ {
		row := make([]float32, dim)
		for j := 0; j < dim; j++ {
			row[j] = float32(rnd.NormFloat64())
		}
		_ = core.Normalize(row)
		projections[i] = row
	}
	return &table{projections: projections, buckets: make(map[string][]core.FeatureRecord)}
}

// signature computes the K-bit sign signature of v under this table's
// projections: '1' when the dot product is >= 0, else '0'.
func (t *table) signature(v []float32) string {
	bits := make([]byte, len(t.projections))
	for i, proj := range t.projections {
		var dot float64
		for j := range v {
			dot += float64(v[j]) * float64(proj[j])
		}
		if dot >= 0 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}

// add hashes record's (already-normalized) vector and appends it to
// the matching bucket.
func (t *table) add(record core.FeatureRecord) {
	sig := t.signature(record.Vector())
	t.buckets[sig] = append(t.buckets[sig], record)
}

// candidates returns the records sharing q's signature in this table.
func (t *table) candidates(q []float32) []core.FeatureRecord {
	return t.buckets[t.signature(q)]
}

// bucketCount returns the number of distinct buckets populated.
func (t *table) bucketCount() int { return len(t.buckets) }

// totalRecords returns the sum of bucket sizes, used to verify every
// indexed feature landed in exactly one bucket.
func (t *table) totalRecords() int {
	n := 0
	for _, b := range t.buckets {
		n += len(b)
	}
	return n
}
