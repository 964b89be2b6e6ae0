package algo

import (
	"context"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// BFS is breadth-first search. The first goal dequeued has the fewest
// transitions; its elapsed time is not necessarily minimal.
type BFS struct {
	cfg Config
}

// NewBFS creates a breadth-first strategy. The default cost model counts steps.
func NewBFS(cfg Config) *BFS {
	return &BFS{cfg: cfg.withDefaultCost(StepCost)}
}

func (b *BFS) Name() string { return "bfs" }

// Search runs breadth-first search. Every canonical key is enqueued at
// most once.
func (b *BFS) Search(ctx context.Context, space Space, start core.State) (*core.Result, error) {
	start = start.Canonical()
	r := newRun(ctx, b.Name(), b.cfg, start)

	visited := map[core.Key]struct{}{r.key(start): {}}
	queue := []*searchNode{{state: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue[0] = nil
		queue = queue[1:]

		if space.IsGoal(cur.state) {
			return r.finish(cur, len(visited)), nil
		}

		more, err := r.expand()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		for _, tr := range space.Successors(cur.state) {
			k := r.key(tr.State)
			if _, seen := visited[k]; seen {
				continue
			}
			visited[k] = struct{}{}
			queue = append(queue, &searchNode{
				state:  tr.State,
				step:   tr.Step,
				g:      cur.g + b.cfg.CostModel.edge(tr),
				depth:  cur.depth + 1,
				parent: cur,
			})
		}
	}

	return r.finish(nil, len(visited)), nil
}
