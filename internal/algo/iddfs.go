package algo

import (
	"context"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// IDDFS is iterative deepening depth-first search with an explicit stack.
//
// One visited map is shared across iterations. It records the largest
// remaining depth budget each canonical state was expanded with, so a state
// is expanded again only when reached with more budget than before. This
// bounds memory and repeated work, and it may return a deeper plan than the
// shallowest one when a state was first reached through a longer path.
type IDDFS struct {
	maxDepth int
	cfg      Config
}

// NewIDDFS creates an iterative deepening strategy with depth cap maxDepth.
func NewIDDFS(maxDepth int, cfg Config) *IDDFS {
	return &IDDFS{maxDepth: maxDepth, cfg: cfg.withDefaultCost(TimeCost)}
}

func (d *IDDFS) Name() string { return "iddfs" }

// MaxDepth returns the depth cap.
func (d *IDDFS) MaxDepth() int { return d.maxDepth }

type budget struct {
	remaining int
	iteration int
}

func (d *IDDFS) Search(ctx context.Context, space Space, start core.State) (*core.Result, error) {
	start = start.Canonical()
	r := newRun(ctx, d.Name(), d.cfg, start)
	visited := make(map[core.Key]budget)

	for limit := 0; limit <= d.maxDepth; limit++ {
		goal, cutoff, err := d.limited(r, space, start, limit, visited)
		if err != nil {
			return nil, err
		}
		r.log.Debug("iteration done", "limit", limit, "visited", len(visited), "expanded", r.expanded)
		if goal != nil {
			return r.finish(goal, len(visited)), nil
		}
		if r.result.Truncated || !cutoff {
			break // nothing deeper to find
		}
	}

	return r.finish(nil, len(visited)), nil
}

// limited runs one depth-bounded pass. cutoff reports whether any branch
// was cut by the limit, directly or through a budget recorded in an earlier
// iteration.
func (d *IDDFS) limited(r *run, space Space, start core.State, limit int, visited map[core.Key]budget) (*searchNode, bool, error) {
	cutoff := false
	stack := []*searchNode{{state: start}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]

		if space.IsGoal(cur.state) {
			return cur, cutoff, nil
		}
		if cur.depth >= limit {
			cutoff = true
			continue
		}

		rem := limit - cur.depth
		k := r.key(cur.state)
		if b, ok := visited[k]; ok && b.remaining >= rem {
			if b.iteration < limit {
				cutoff = true
			}
			continue
		}
		visited[k] = budget{remaining: rem, iteration: limit}

		more, err := r.expand()
		if err != nil {
			return nil, false, err
		}
		if !more {
			return nil, false, nil
		}

		succ := space.Successors(cur.state)
		// Push in reverse so the first successor is explored first.
		for i := len(succ) - 1; i >= 0; i-- {
			tr := succ[i]
			stack = append(stack, &searchNode{
				state:  tr.State,
				step:   tr.Step,
				g:      cur.g + r.cfg.CostModel.edge(tr),
				depth:  cur.depth + 1,
				parent: cur,
			})
		}
	}
	return nil, cutoff, nil
}
