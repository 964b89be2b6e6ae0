package algo

import (
	"container/heap"
	"context"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// nodeHeap orders nodes by f, preferring larger g (deeper nodes) and then
// insertion order on ties.
type nodeHeap []*searchNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return a.seq < b.seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// AStar is best-first search ordered by g + h. With the Zero heuristic it
// is uniform-cost search.
type AStar struct {
	name string
	h    Heuristic
	cfg  Config
}

// NewAStar creates an A* strategy. Optimality requires h to be admissible
// under cfg's cost model; that is the caller's contract.
func NewAStar(h Heuristic, cfg Config) *AStar {
	if h == nil {
		h = Zero{}
	}
	return &AStar{name: "astar-" + h.Name(), h: h, cfg: cfg.withDefaultCost(TimeCost)}
}

// NewUCS creates a uniform-cost strategy.
func NewUCS(cfg Config) *AStar {
	return &AStar{name: "ucs", h: Zero{}, cfg: cfg.withDefaultCost(TimeCost)}
}

func (a *AStar) Name() string { return a.name }

// Heuristic returns the heuristic guiding the search.
func (a *AStar) Heuristic() Heuristic { return a.h }

// Search runs best-first search. The visited map holds the best known cost
// per canonical key; a state is pushed again only when strictly cheaper
// and stale entries are dropped when popped.
func (a *AStar) Search(ctx context.Context, space Space, start core.State) (*core.Result, error) {
	start = start.Canonical()
	r := newRun(ctx, a.name, a.cfg, start)

	best := map[core.Key]float64{r.key(start): 0}
	open := &nodeHeap{}
	seq := 0
	heap.Push(open, &searchNode{state: start, f: a.h.Estimate(start)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*searchNode)
		if g, ok := best[r.key(cur.state)]; ok && g < cur.g {
			continue // stale
		}

		if space.IsGoal(cur.state) {
			return r.finish(cur, len(best)), nil
		}

		more, err := r.expand()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		for _, tr := range space.Successors(cur.state) {
			g := cur.g + a.cfg.CostModel.edge(tr)
			k := r.key(tr.State)
			if old, ok := best[k]; ok && old <= g+core.TimeTolerance/2 {
				continue
			}
			best[k] = g
			seq++
			heap.Push(open, &searchNode{
				state:  tr.State,
				step:   tr.Step,
				g:      g,
				f:      g + a.h.Estimate(tr.State),
				depth:  cur.depth + 1,
				seq:    seq,
				parent: cur,
			})
		}
	}

	return r.finish(nil, len(best)), nil
}
