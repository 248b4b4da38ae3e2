package balltree

import (
	"container/heap"

	"github.com/patrikhermansson/cbir/core"
)

// frontierItem is a node awaiting exploration, ordered by its lower
// bound: the minimum possible Euclidean distance from the query to
// any record the node could contain.
type frontierItem struct {
	n        *node
	lowerBnd float64
}

type frontierHeap []frontierItem

func (h frontierHeap) Len() int           { return len(h) }
func (h frontierHeap) Less(i, j int) bool { return h[i].lowerBnd < h[j].lowerBnd }
func (h frontierHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *frontierHeap) Push(x interface{}) {
	*h = append(*h, x.(frontierItem))
}
func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type resultItem struct {
	record core.FeatureRecord
	dist   float64
}

type resultHeap []resultItem

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].dist > h[j].dist }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) {
	*h = append(*h, x.(resultItem))
}
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func lowerBound(q []float32, n *node) float64 {
	d, _ := core.EuclideanDistance(q, n.centroid)
	lb := d - n.radius
	if lb < 0 {
		lb = 0
	}
	return lb
}

// search runs branch-and-bound KNN: expand the node with the smallest
// lower bound first, and stop as soon as that bound is no better than
// the current worst kept result — every remaining node is then
// provably worse than every kept candidate. Correctness relies on the
// Euclidean triangle inequality, so this must only be used with
// Euclidean distance.
func search(root *node, q []float32, k int) []core.FeatureRecord {
	if root == nil {
		return nil
	}

	frontier := &frontierHeap{{n: root, lowerBnd: lowerBound(q, root)}}
	heap.Init(frontier)
	results := &resultHeap{}

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(frontierItem)
		if results.Len() >= k {
			worst := (*results)[0].dist
			if item.lowerBnd >= worst {
				break
			}
		}

		n := item.n
		if n.isLeaf {
			for _, rec := range n.features {
				d, _ := core.EuclideanDistance(q, rec.Vector())
				heap.Push(results, resultItem{record: rec, dist: d})
				if results.Len() > k {
					heap.Pop(results)
				}
			}
			continue
		}
		if n.left != nil {
			heap.Push(frontier, frontierItem{n: n.left, lowerBnd: lowerBound(q, n.left)})
		}
		if n.right != nil {
			heap.Push(frontier, frontierItem{n: n.right, lowerBnd: lowerBound(q, n.right)})
		}
	}

	out := make([]core.FeatureRecord, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(resultItem).record
	}
	return out
}
