// Package algo implements the search strategies over the café transition
// model: breadth-first, uniform-cost, A* and iterative deepening.
package algo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/logging"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

// ErrNoPlan is returned by callers that treat a not-found result as an error.
// Strategies themselves report exhaustion through Result.Found.
var ErrNoPlan = errors.New("no plan found")

// Space is the search graph: successor generation plus the goal predicate.
// *sim.Model satisfies it.
type Space interface {
	Successors(s core.State) []sim.Transition
	IsGoal(s core.State) bool
}

// Strategy is the interface for search algorithms.
type Strategy interface {
	// Search looks for a plan from start to a goal state. Exhausting the
	// space is not an error: the result has Found == false.
	Search(ctx context.Context, space Space, start core.State) (*core.Result, error)

	// Name returns the strategy name.
	Name() string
}

// CostModel selects what a transition costs.
type CostModel int

const (
	DefaultCost CostModel = iota // Strategy's own default
	StepCost                     // One per transition
	TimeCost                     // Elapsed simulated time
)

var costModelNames = [...]string{"default", "step", "time"}

func (c CostModel) String() string {
	if c >= 0 && int(c) < len(costModelNames) {
		return costModelNames[c]
	}
	return fmt.Sprintf("CostModel(%d)", int(c))
}

// ParseCostModel converts a cost model name.
func ParseCostModel(s string) (CostModel, error) {
	switch s {
	case "", "default":
		return DefaultCost, nil
	case "step", "steps":
		return StepCost, nil
	case "time":
		return TimeCost, nil
	default:
		return 0, fmt.Errorf("unknown cost model %q", s)
	}
}

func (c CostModel) edge(tr sim.Transition) float64 {
	if c == StepCost {
		return 1
	}
	return tr.Elapsed
}

// Config holds the knobs shared by all strategies.
type Config struct {
	CostModel CostModel
	// TimedKey includes global time in the visited-set key. The server can
	// walk back and forth forever, so timed keys never repeat and the
	// visited set stops bounding the search: on an unsolvable problem BFS
	// and IDDFS then end only at MaxExpansions or context cancellation.
	TimedKey      bool
	MaxExpansions int // 0 means unlimited
	Logger        logging.Logger
}

func (c Config) withDefaultCost(m CostModel) Config {
	if c.CostModel == DefaultCost {
		c.CostModel = m
	}
	return c
}

// cancelCheckInterval is how many expansions pass between context polls.
const cancelCheckInterval = 1024

// searchNode is one frontier entry. Nodes form a tree through parent.
type searchNode struct {
	state  core.State
	step   core.Step // Label of the edge from parent
	g      float64   // Cost so far
	f      float64   // g + h
	depth  int
	seq    int // Insertion order, for deterministic ties
	parent *searchNode
	index  int // heap index
}

func reconstructPlan(n *searchNode) core.Plan {
	plan := make(core.Plan, n.depth)
	for cur := n; cur.parent != nil; cur = cur.parent {
		plan[cur.depth-1] = cur.step
	}
	return plan
}

// run tracks bookkeeping common to every strategy.
type run struct {
	name     string
	cfg      Config
	log      logging.Logger
	ctx      context.Context
	start    time.Time
	startAt  float64
	result   *core.Result
	expanded int
}

func newRun(ctx context.Context, name string, cfg Config, start core.State) *run {
	id := uuid.NewString()
	return &run{
		name:    name,
		cfg:     cfg,
		log:     logging.With(logging.OrNoOp(cfg.Logger), "strategy", name, "run", id),
		ctx:     ctx,
		start:   time.Now(),
		startAt: start.Time,
		result:  &core.Result{RunID: id, Strategy: name},
	}
}

func (r *run) key(s core.State) core.Key {
	return s.Key(r.cfg.TimedKey)
}

// expand counts one expansion and reports whether the search may go on.
// It returns an error only for cancellation.
func (r *run) expand() (bool, error) {
	if r.cfg.MaxExpansions > 0 && r.expanded >= r.cfg.MaxExpansions {
		r.result.Truncated = true
		return false, nil
	}
	if r.expanded%cancelCheckInterval == 0 {
		if err := r.ctx.Err(); err != nil {
			return false, fmt.Errorf("%s search: %w", r.name, err)
		}
		if r.expanded > 0 {
			r.log.Debug("searching", "expanded", r.expanded)
		}
	}
	r.expanded++
	return true, nil
}

// finish fills the result. goal may be nil.
func (r *run) finish(goal *searchNode, visited int) *core.Result {
	res := r.result
	res.Visited = visited
	res.Expanded = r.expanded
	res.Runtime = time.Since(r.start)
	if goal != nil {
		res.Found = true
		res.Cost = goal.g
		res.Plan = reconstructPlan(goal)
		res.Steps = len(res.Plan)
		res.Final = goal.state
		res.Makespan = goal.state.Time - r.startAt
	}
	r.log.Info("search finished",
		"found", res.Found,
		"cost", res.Cost,
		"steps", res.Steps,
		"visited", res.Visited,
		"expanded", res.Expanded,
		"truncated", res.Truncated,
		"runtime", res.Runtime)
	return res
}
