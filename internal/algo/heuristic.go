package algo

import (
	"fmt"
	"math"
	"sort"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// Heuristic estimates the remaining cost from a state to a goal. Every
// heuristic returns 0 at goal states.
type Heuristic interface {
	Name() string
	Estimate(s core.State) float64
	// Admissible reports whether Estimate never exceeds the true remaining
	// elapsed time.
	Admissible() bool
}

// Zero turns A* into uniform-cost search.
type Zero struct{}

func (Zero) Name() string                { return "zero" }
func (Zero) Estimate(core.State) float64 { return 0 }
func (Zero) Admissible() bool            { return true }

// hasDrinks reports whether any drink is pending, prepared or carried.
func hasDrinks(s core.State) bool {
	return len(s.Orders) > 0 || len(s.Prepared) > 0 || len(s.Carried) > 0
}

// PrepClean sums the preparation time of pending orders and the cleaning
// time of dirty tables, plus a relocation penalty when the server is away
// from the depot with drinks outstanding. The two agents work in parallel,
// so the sum can overestimate.
type PrepClean struct {
	env *core.Environment
}

func NewPrepClean(env *core.Environment) *PrepClean { return &PrepClean{env: env} }

func (h *PrepClean) Name() string     { return "prep-clean" }
func (h *PrepClean) Admissible() bool { return false }

func (h *PrepClean) Estimate(s core.State) float64 {
	var est float64
	for _, it := range s.Orders {
		est += h.env.MakeTime(it.Kind)
	}
	for _, loc := range s.Dirty {
		est += h.env.CleanTime(loc)
	}
	if hasDrinks(s) && s.Location != h.env.Depot() {
		est++
	}
	return est
}

// Count is the number of outstanding items, plus one when the server is
// away from the depot with drinks outstanding. Cheap and poorly informed.
type Count struct {
	depot core.Location
}

func NewCount(env *core.Environment) *Count { return &Count{depot: env.Depot()} }

func (h *Count) Name() string     { return "count" }
func (h *Count) Admissible() bool { return false }

func (h *Count) Estimate(s core.State) float64 {
	est := float64(s.Outstanding())
	if hasDrinks(s) && s.Location != h.depot {
		est++
	}
	return est
}

// MinDuration charges every outstanding item its cheapest possible
// duration and sums the charges over both agents.
type MinDuration struct {
	env *core.Environment
}

func NewMinDuration(env *core.Environment) *MinDuration { return &MinDuration{env: env} }

func (h *MinDuration) Name() string     { return "min-duration" }
func (h *MinDuration) Admissible() bool { return false }

func (h *MinDuration) Estimate(s core.State) float64 {
	d := h.env.Durations()
	est := float64(len(s.Orders)) * math.Min(d.MakeCold, d.MakeHot)
	est += float64(len(s.Prepared)+len(s.Carried)) * d.Deliver
	if len(s.Dirty) > 0 {
		minClean := math.Inf(1)
		for _, loc := range s.Dirty {
			minClean = math.Min(minClean, h.env.CleanTime(loc))
		}
		est += float64(len(s.Dirty)) * minClean
	}
	return est
}

// CriticalPath is the larger of two lower bounds on the remaining time:
// the preparer's remaining work followed by picking up and delivering the
// last drink, and the server's remaining work. Actions in flight count with
// their remaining time only.
type CriticalPath struct {
	env *core.Environment
}

func NewCriticalPath(env *core.Environment) *CriticalPath { return &CriticalPath{env: env} }

func (h *CriticalPath) Name() string     { return "critical-path" }
func (h *CriticalPath) Admissible() bool { return true }

func (h *CriticalPath) Estimate(s core.State) float64 {
	return math.Max(h.preparerBound(s), h.serverBound(s))
}

func (h *CriticalPath) preparerBound(s core.State) float64 {
	if len(s.Orders) == 0 {
		return 0
	}
	d := h.env.Durations()
	var work float64
	for _, it := range s.Orders {
		work += h.env.MakeTime(it.Kind)
	}
	if p := s.Preparer; p.Action == core.Making {
		work += remaining(s, p) - h.env.MakeTime(p.Item.Kind)
	}
	return work + d.Pickup + d.Deliver
}

func (h *CriticalPath) serverBound(s core.State) float64 {
	d := h.env.Durations()
	sv := s.Server

	work := remaining(s, sv)
	work += float64(len(s.Orders)+len(s.Prepared)) * d.Pickup
	work += float64(len(s.Orders)+len(s.Prepared)+len(s.Carried)) * d.Deliver
	for _, loc := range s.Dirty {
		work += h.env.CleanTime(loc)
	}
	trayOut := s.Tray || sv.Action == core.TakingTray
	if trayOut && sv.Action != core.ReturningTray {
		work += d.ReturnTray
	}

	// The in-flight action's payload is still listed; it was charged above.
	switch sv.Action {
	case core.PickingUp:
		work -= d.Pickup
	case core.Delivering:
		work -= d.Deliver
	case core.Cleaning:
		work -= h.env.CleanTime(sv.Place)
	}
	return work
}

func remaining(s core.State, st core.Status) float64 {
	if st.IsIdle() {
		return 0
	}
	return math.Max(0, st.Finish-s.Time)
}

type heuristicFactory func(env *core.Environment) Heuristic

var heuristics = map[string]heuristicFactory{
	"zero":          func(*core.Environment) Heuristic { return Zero{} },
	"prep-clean":    func(env *core.Environment) Heuristic { return NewPrepClean(env) },
	"count":         func(env *core.Environment) Heuristic { return NewCount(env) },
	"min-duration":  func(env *core.Environment) Heuristic { return NewMinDuration(env) },
	"critical-path": func(env *core.Environment) Heuristic { return NewCriticalPath(env) },
}

// HeuristicByName returns the named heuristic bound to env.
func HeuristicByName(env *core.Environment, name string) (Heuristic, error) {
	f, ok := heuristics[name]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q (have %v)", name, HeuristicNames())
	}
	return f(env), nil
}

// HeuristicNames lists the registered heuristics, sorted.
func HeuristicNames() []string {
	names := make([]string, 0, len(heuristics))
	for n := range heuristics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
