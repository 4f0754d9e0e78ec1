package topology

import (
	"container/heap"
)

// originHeap is a min-heap of item ids ordered by origin_index, giving the
// "available item with smallest origin_index" rule a unique canonical order
// (§4.3 "Ordering").
type originHeap struct {
	ids   []string
	index map[string]int // id -> origin_index
}

func (h originHeap) Len() int            { return len(h.ids) }
func (h originHeap) Less(i, j int) bool  { return h.index[h.ids[i]] < h.index[h.ids[j]] }
func (h originHeap) Swap(i, j int)       { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }
func (h *originHeap) Push(x interface{}) { h.ids = append(h.ids, x.(string)) }
func (h *originHeap) Pop() interface{} {
	old := h.ids
	n := len(old)
	v := old[n-1]
	h.ids = old[:n-1]
	return v
}

// kahnOrder implements §4.3 method 2 plus the canonical-order rule: a
// worklist of in-degree-zero items, always emitting the one with the
// smallest origin_index. Returns (order, true) if every item was emitted,
// or (partial order, false) if a cycle left items stranded.
func kahnOrder(a *adjacency) ([]string, bool) {
	indeg := make(map[string]int, len(a.indegree))
	for id, d := range a.indegree {
		indeg[id] = d
	}
	originIndex := make(map[string]int, len(a.items))
	for _, it := range a.items {
		originIndex[it.ID] = it.OriginIndex
	}

	h := &originHeap{index: originIndex}
	for _, it := range a.items {
		if indeg[it.ID] == 0 {
			heap.Push(h, it.ID)
		}
	}
	heap.Init(h)

	var order []string
	for h.Len() > 0 {
		id := heap.Pop(h).(string)
		order = append(order, id)
		for _, dep := range a.out[id] {
			indeg[dep]--
			if indeg[dep] == 0 {
				heap.Push(h, dep)
			}
		}
	}

	return order, len(order) == len(a.items)
}

// extractCycle runs a DFS from each not-yet-emitted vertex to find one
// concrete cycle path for the error report (§4.3).
func extractCycle(a *adjacency) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range a.out[id] {
			switch color[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				// Found the back edge; extract the cycle from the stack.
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				cycle = append([]string{}, stack[start:]...)
				cycle = append(cycle, next)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, it := range a.items {
		if color[it.ID] == white {
			if visit(it.ID) {
				return cycle
			}
		}
	}
	return nil
}

// computeLayers assigns each item the longest-path depth from any source
// (an item with no predecessors), per the canonical order so every
// predecessor's layer is already known (SPEC_FULL §C.2).
func computeLayers(a *adjacency, order []string) map[string]int {
	layers := make(map[string]int, len(order))
	for _, id := range order {
		layer := 0
		for _, pred := range a.in[id] {
			if l := layers[pred] + 1; l > layer {
				layer = l
			}
		}
		layers[id] = layer
	}
	return layers
}

// computeComponents assigns each item a weakly-connected-component index
// via BFS over the undirected view of the graph (SPEC_FULL §C.2).
func computeComponents(a *adjacency) map[string]int {
	undirected := map[string][]string{}
	for _, it := range a.items {
		undirected[it.ID] = nil
	}
	for id, outs := range a.out {
		for _, to := range outs {
			undirected[id] = append(undirected[id], to)
			undirected[to] = append(undirected[to], id)
		}
	}

	components := map[string]int{}
	comp := 0
	for _, it := range a.items {
		if _, visited := components[it.ID]; visited {
			continue
		}
		queue := []string{it.ID}
		components[it.ID] = comp
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, n := range undirected[id] {
				if _, ok := components[n]; !ok {
					components[n] = comp
					queue = append(queue, n)
				}
			}
		}
		comp++
	}
	return components
}
