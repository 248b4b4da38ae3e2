package kdtree

import (
	"container/heap"

	"github.com/patrikhermansson/cbir/core"
)

// searchItem is an entry in the bounded priority frontier: a node
// awaiting exploration, ordered by ascending priority.
type searchItem struct {
	n        *node
	priority float64
}

type searchHeap []searchItem

func (h searchHeap) Len() int            { return len(h) }
func (h searchHeap) Less(i, j int) bool   { return h[i].priority < h[j].priority }
func (h searchHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *searchHeap) Push(x interface{})  { *h = append(*h, x.(searchItem)) }
func (h *searchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// resultItem is an entry in the bounded max-heap of best-so-far
// candidates, ordered so the current worst (largest distance) is at
// the root and can be evicted in O(log k).
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

// bestBinFirst runs the bounded priority-driven KD traversal described
// by the best-bin-first search: expand the most promising unvisited
// node first, bound total work by maxChecks, and keep the k closest
// records seen so far in a bounded max-heap.
func bestBinFirst(root *node, q []float32, k, maxChecks int, distance core.DistanceFunc, cosine bool) []core.FeatureRecord {
	if root == nil {
		return nil
	}

	search := &searchHeap{{n: root, priority: 0}}
	heap.Init(search)
	results := &resultHeap{}
	visited := make(map[*node]bool)

	checks := 0
	for search.Len() > 0 && checks < maxChecks {
		item := heap.Pop(search).(searchItem)
		n := item.n
		if visited[n] {
			continue
		}
		visited[n] = true
		checks++

		d := distance(q, n.record.Vector())
		heap.Push(results, resultItem{record: n.record, dist: d})
		if results.Len() > k {
			heap.Pop(results)
		}

		axis := n.axis
		splitVal := n.record.Vector()[axis]
		var near, far *node
		if q[axis] < splitVal {
			near, far = n.left, n.right
		} else {
			near, far = n.right, n.left
		}
		if near != nil {
			heap.Push(search, searchItem{n: near, priority: 0})
		}
		if far != nil {
			penalty := 0.0
			if !cosine {
				diff := float64(q[axis]) - float64(splitVal)
				penalty = diff * diff
			}
			heap.Push(search, searchItem{n: far, priority: penalty})
		}
	}

	out := make([]core.FeatureRecord, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(resultItem).record
	}
	return out
}
