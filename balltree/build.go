package balltree

import (
	"math/rand"
	"sync"

	"github.com/patrikhermansson/cbir/core"
)

// seededRand is the package-level RNG used for the random element
// pick and the degenerate-split fallback, seeded reproducibly via
// core.GetSeed so builds (and therefore queries) are deterministic
// under a fixed seed.
var seededRand = rand.New(rand.NewSource(core.GetSeed()))
var seededRandMu sync.Mutex

func randIntn(n int) int {
	seededRandMu.Lock()
	defer seededRandMu.Unlock()
	return seededRand.Intn(n)
}

func shuffle(ids []int) {
	seededRandMu.Lock()
	defer seededRandMu.Unlock()
	seededRand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

// centroidAndRadius computes the mean vector and the maximum Euclidean
// distance from that mean to any record's vector.
func centroidAndRadius(records []core.FeatureRecord, dim int) ([]float32, float64) {
	centroid := make([]float32, dim)
	for _, r := range records {
		v := r.Vector()
		for i := 0; i < dim; i++ {
			centroid[i] += v[i]
		}
	}
	n := float32(len(records))
	for i := range centroid {
		centroid[i] /= n
	}
	var radius float64
	for _, r := range records {
		d, _ := core.EuclideanDistance(centroid, r.Vector())
		if d > radius {
			radius = d
		}
	}
	return centroid, radius
}

// build constructs a ball tree over records with the given leaf size.
// All records must share dim; the caller validates this once before
// recursing.
func build(records []core.FeatureRecord, dim, leafSize int) *node {
	centroid, radius := centroidAndRadius(records, dim)

	if len(records) <= leafSize {
		return &node{centroid: centroid, radius: radius, isLeaf: true, features: records}
	}

	left, right := splitFarthestPair(records)
	if len(left) == 0 || len(right) == 0 {
		left, right = splitBalancedRandom(records)
	}

	n := &node{centroid: centroid, radius: radius}
	n.left = build(left, dim, leafSize)
	n.right = build(right, dim, leafSize)
	return n
}

// splitFarthestPair approximates a diameter pair: pick a random
// element p1, let p2 be the farthest point from p1, then replace p1
// with the point farthest from p2. Partition by which of p1/p2 each
// record is closer to; ties go left.
func splitFarthestPair(records []core.FeatureRecord) (left, right []core.FeatureRecord) {
	p1 := records[randIntn(len(records))]
	p2 := farthestFrom(records, p1)
	p1 = farthestFrom(records, p2)

	for _, r := range records {
		d1, _ := core.EuclideanDistance(r.Vector(), p1.Vector())
		d2, _ := core.EuclideanDistance(r.Vector(), p2.Vector())
		if d1 <= d2 {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

func farthestFrom(records []core.FeatureRecord, from core.FeatureRecord) core.FeatureRecord {
	best := records[0]
	bestDist := -1.0
	for _, r := range records {
		d, _ := core.EuclideanDistance(r.Vector(), from.Vector())
		if d > bestDist {
			bestDist = d
			best = r
		}
	}
	return best
}

// splitBalancedRandom is the degenerate-case fallback: shuffle and cut
// at the midpoint, used when every record is equidistant from both
// poles and the farthest-pair partition left one side empty.
func splitBalancedRandom(records []core.FeatureRecord) (left, right []core.FeatureRecord) {
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	shuffle(idx)
	mid := len(idx) / 2
	left = make([]core.FeatureRecord, mid)
	right = make([]core.FeatureRecord, len(idx)-mid)
	for i, id := range idx[:mid] {
		left[i] = records[id]
	}
	for i, id := range idx[mid:] {
		right[i] = records[id]
	}
	return left, right
}
