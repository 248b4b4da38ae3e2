package kdtree

import (
	"sort"

	"github.com/patrikhermansson/cbir/core"
)

// build constructs a KD-tree over records at the given depth, cycling
// the split axis as depth mod dimension. The median index is the
// split point; the left recursion gets the strict prefix, the right
// recursion the strict suffix. The stable sort keeps records with an
// equal split coordinate in their input order around the median, so
// such ties can land in either subtree.
func build(records []core.FeatureRecord, depth, dim int) *node {
	if len(records) == 0 {
		return nil
	}
	axis := depth % dim

	sorted := make([]core.FeatureRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Vector()[axis] < sorted[j].Vector()[axis]
	})

	mid := len(sorted) / 2
	n := &node{record: sorted[mid], axis: axis}
	n.left = build(sorted[:mid], depth+1, dim)
	n.right = build(sorted[mid+1:], depth+1, dim)
	return n
}
