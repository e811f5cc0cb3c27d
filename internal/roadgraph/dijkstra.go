package roadgraph

import (
	"container/heap"
	"fmt"

	"depot-route-service/internal/domain"
)

// ShortestPathLength returns the length in metres of the shortest directed
// path from -> to, summing edge lengths.
//
// Dijkstra with a lazy decrease-key heap: improved distances are pushed as new
// heap items and stale items are skipped when popped. The search stops as
// soon as the target is settled.
func (g *RoadGraph) ShortestPathLength(from, to domain.NodeRef) (float64, error) {
	src, ok := g.index[from]
	if !ok {
		return 0, fmt.Errorf("shortest path: source: %w: %d", ErrNodeNotFound, from)
	}
	dst, ok := g.index[to]
	if !ok {
		return 0, fmt.Errorf("shortest path: target: %w: %d", ErrNodeNotFound, to)
	}
	if src == dst {
		return 0, nil
	}

	dist := map[int]float64{src: 0}
	settled := make(map[int]struct{})
	pq := nodePQ{{idx: src, dist: 0}}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(nodeItem)
		u := item.idx
		if _, done := settled[u]; done {
			continue
		}
		settled[u] = struct{}{}

		if u == dst {
			return item.dist, nil
		}

		for k := g.firstOut[u]; k < g.firstOut[u+1]; k++ {
			v := g.head[k]
			if _, done := settled[v]; done {
				continue
			}
			nd := item.dist + g.length[k]
			if cur, seen := dist[v]; seen && nd >= cur {
				continue
			}
			dist[v] = nd
			heap.Push(&pq, nodeItem{idx: v, dist: nd})
		}
	}

	return 0, fmt.Errorf("shortest path %d -> %d: %w", from, to, ErrNoPath)
}

type nodeItem struct {
	idx  int
	dist float64
}

// nodePQ is a min-heap of nodeItem ordered by dist.
type nodePQ []nodeItem

func (pq nodePQ) Len() int { return len(pq) }
func (pq nodePQ) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
