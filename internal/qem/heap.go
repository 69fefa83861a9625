package qem

import "container/heap"

// pairRefHeap is a min-heap of (pair_id, cost_snapshot) entries,
// mirroring the teacher engine's EdgeHeap (mesh_simplification.go) but
// over pair IDs rather than direct pointers to edges, since this
// package addresses everything by ID (see doc.go).
//
// The heap holds snapshots, not live state: a pair's actual cost lives
// in the pair store and can drift after the entry was pushed (the
// "dirty" condition, see pair.rewriteEndpoint). Rather than an updatable
// priority queue keyed by position, stale entries are simply filtered
// on pop and re-pushed when a recompute is needed — trading heap size
// (it grows with re-insertions) for O(1) "mark dirty".
type pairHeapEntry struct {
	pairID int
	cost   float64
}

type pairRefHeap []pairHeapEntry

func (h pairRefHeap) Len() int            { return len(h) }
func (h pairRefHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h pairRefHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pairRefHeap) Push(x interface{}) { *h = append(*h, x.(pairHeapEntry)) }
func (h *pairRefHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

func (h *pairRefHeap) push(pairID int, cost float64) {
	heap.Push(h, pairHeapEntry{pairID: pairID, cost: cost})
}

// popEntry pops and returns the heap's current minimum, and whether
// there was one.
func (h *pairRefHeap) popEntry() (pairHeapEntry, bool) {
	if h.Len() == 0 {
		return pairHeapEntry{}, false
	}
	return heap.Pop(h).(pairHeapEntry), true
}
