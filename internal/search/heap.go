package search

import (
	"github.com/Faultbox/tilenav/internal/graph"
)

// searchNode is the per-tile search state. Nodes live in a pool indexed by
// arena index and are reset lazily when their generation is stale.
type searchNode struct {
	index  int32
	gen    uint32
	g      float64 // Cost from the search origin
	h      float64 // Heuristic (estimated cost to target)
	f      float64 // Total cost (g + h)
	parent int32
	move   graph.Move // Move between parent and this node, in travel order
	slot   int        // Index in heap, -1 when not queued
}

// openHeap implements a priority queue ordered by f, then h, then tile.
type openHeap []*searchNode

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.index < b.index
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].slot = i
	h[j].slot = j
}

func (h *openHeap) Push(x interface{}) {
	n := len(*h)
	node := x.(*searchNode)
	node.slot = n
	*h = append(*h, node)
}

func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.slot = -1
	*h = old[0 : n-1]
	return node
}

// holds reports whether node sits in the slot it claims.
func (h openHeap) holds(node *searchNode) bool {
	return node.slot >= 0 && node.slot < len(h) && h[node.slot] == node
}
