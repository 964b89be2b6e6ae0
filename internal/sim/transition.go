// Package sim implements the discrete-event transition model: the two
// agents progress asynchronously on one clock and the model always jumps
// to the next event tick instead of stepping time uniformly.
package sim

import (
	"fmt"
	"math"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// MovePolicy decides which destinations the server may walk to.
type MovePolicy int

const (
	MoveAll      MovePolicy = iota // Any other reachable location
	MoveRelevant                   // Depot, carried-drink tables and dirty tables only
)

var movePolicyNames = [...]string{"all", "relevant"}

func (p MovePolicy) String() string {
	if p >= 0 && int(p) < len(movePolicyNames) {
		return movePolicyNames[p]
	}
	return fmt.Sprintf("MovePolicy(%d)", int(p))
}

// ParseMovePolicy converts a policy name to a MovePolicy.
func ParseMovePolicy(s string) (MovePolicy, error) {
	switch s {
	case "", "all":
		return MoveAll, nil
	case "relevant":
		return MoveRelevant, nil
	default:
		return 0, fmt.Errorf("unknown move policy %q", s)
	}
}

// Transition is one labeled successor edge.
type Transition struct {
	State   core.State
	Step    core.Step
	Elapsed float64 // Event tick minus parent time
}

// Model generates successors for the two-agent café.
type Model struct {
	env    *core.Environment
	moves  MovePolicy
	strict bool
}

// Option configures a Model.
type Option func(*Model)

// WithMovePolicy sets the server's move policy.
func WithMovePolicy(p MovePolicy) Option {
	return func(m *Model) { m.moves = p }
}

// WithStrictChecks validates every generated successor against the full
// data-model invariants. Meant for tests.
func WithStrictChecks() Option {
	return func(m *Model) { m.strict = true }
}

// NewModel creates a transition model over env.
func NewModel(env *core.Environment, opts ...Option) *Model {
	m := &Model{env: env}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Env returns the environment the model reads durations from.
func (m *Model) Env() *core.Environment { return m.env }

// MovePolicy returns the move policy in use.
func (m *Model) MovePolicy() MovePolicy { return m.moves }

// IsGoal is the goal predicate of the search space.
func (m *Model) IsGoal(s core.State) bool { return s.IsGoal() }

// NextEventTime returns the earliest finish time among busy agents,
// or s.Time when both are idle.
func NextEventTime(s core.State) float64 {
	next := math.Inf(1)
	for _, st := range []core.Status{s.Preparer, s.Server} {
		if !st.IsIdle() && st.Finish < next {
			next = st.Finish
		}
	}
	if math.IsInf(next, 1) {
		return s.Time
	}
	return next
}

// Successors advances s to its next event tick, applies the effects of
// every action finishing there and returns the cartesian product of the
// choices of whichever agents are free.
func (m *Model) Successors(s core.State) []Transition {
	next := NextEventTime(s)
	w, applied := m.applyEvents(s, next)

	prepCands := []core.Status{w.Preparer}
	if w.Preparer.IsIdle() {
		prepCands = m.preparerActions(w, next)
	}
	servCands := []core.Status{w.Server}
	if w.Server.IsIdle() {
		servCands = m.serverActions(w, next)
	}

	out := make([]Transition, 0, len(prepCands)*len(servCands))
	for _, p := range prepCands {
		for _, sv := range servCands {
			if !applied && p.IsIdle() && sv.IsIdle() {
				// Would reproduce s without advancing time.
				continue
			}
			ns := w.Clone()
			ns.Time = next
			ns.Preparer = p
			ns.Server = sv
			m.check(s, ns)
			out = append(out, Transition{
				State:   ns,
				Step:    core.Step{Time: next, Preparer: p, Server: sv, Location: ns.Location},
				Elapsed: next - s.Time,
			})
		}
	}
	return out
}

// applyEvents returns the world at tick with every action finishing at
// tick applied and its agent set idle. applied reports whether any
// action finished.
func (m *Model) applyEvents(s core.State, tick float64) (core.State, bool) {
	w := s.Clone()
	w.Time = tick
	applied := false

	if st := s.Preparer; !st.IsIdle() && st.Finish <= tick+core.TimeTolerance {
		var ok bool
		w.Orders, ok = core.RemoveItem(w.Orders, st.Item)
		invariant(ok, "preparer finished %s but the order is not pending", st)
		w.Prepared = core.InsertItem(w.Prepared, st.Item)
		w.Preparer = core.IdleStatus()
		applied = true
	}

	if st := s.Server; !st.IsIdle() && st.Finish <= tick+core.TimeTolerance {
		var ok bool
		switch st.Action {
		case core.Moving:
			w.Location, ok = st.Place, true
		case core.TakingTray:
			w.Tray, ok = true, true
		case core.ReturningTray:
			w.Tray, ok = false, true
		case core.PickingUp:
			w.Prepared, ok = core.RemoveItem(w.Prepared, st.Item)
			w.Carried = core.InsertItem(w.Carried, st.Item)
		case core.Delivering:
			w.Carried, ok = core.RemoveItem(w.Carried, st.Item)
		case core.Cleaning:
			w.Dirty, ok = core.RemoveLocation(w.Dirty, st.Place)
		}
		invariant(ok, "server finished %s with no matching payload", st)
		w.Server = core.IdleStatus()
		applied = true
	}

	return w, applied
}

func (m *Model) preparerActions(w core.State, t float64) []core.Status {
	if len(w.Orders) == 0 {
		return []core.Status{core.IdleStatus()}
	}
	var out []core.Status
	for i, it := range w.Orders {
		if i > 0 && w.Orders[i-1] == it {
			continue // identical order, identical successor
		}
		out = append(out, core.Status{
			Action: core.Making,
			Item:   it,
			Finish: t + m.env.Duration(core.Making, it, ""),
		})
	}
	return out
}

func (m *Model) serverActions(w core.State, t float64) []core.Status {
	var out []core.Status
	depot := m.env.Depot()
	emptyHanded := len(w.Carried) == 0

	// Tray
	if w.Location == depot && emptyHanded {
		if w.Tray {
			out = append(out, core.Status{Action: core.ReturningTray, Finish: t + m.env.Duration(core.ReturningTray, core.Item{}, "")})
		} else {
			out = append(out, core.Status{Action: core.TakingTray, Finish: t + m.env.Duration(core.TakingTray, core.Item{}, "")})
		}
	}

	// Pick up
	if w.Location == depot && len(w.Carried) < m.env.Capacity(w.Tray) {
		for i, it := range w.Prepared {
			if i > 0 && w.Prepared[i-1] == it {
				continue
			}
			out = append(out, core.Status{Action: core.PickingUp, Item: it, Finish: t + m.env.Duration(core.PickingUp, it, "")})
		}
	}

	// Deliver
	for i, it := range w.Carried {
		if it.Dest != w.Location || (i > 0 && w.Carried[i-1] == it) {
			continue
		}
		out = append(out, core.Status{Action: core.Delivering, Item: it, Finish: t + m.env.Duration(core.Delivering, it, "")})
	}

	// Clean
	if !w.Tray && emptyHanded && containsLocation(w.Dirty, w.Location) {
		out = append(out, core.Status{Action: core.Cleaning, Place: w.Location, Finish: t + m.env.Duration(core.Cleaning, core.Item{}, w.Location)})
	}

	// Move
	relevant := m.relevantDestinations(w)
	for _, dest := range m.env.Locations() {
		if dest == w.Location {
			continue
		}
		if relevant != nil && !relevant[dest] {
			continue
		}
		d, ok := m.env.TravelTime(w.Location, dest, w.Tray)
		if !ok {
			continue
		}
		out = append(out, core.Status{Action: core.Moving, Place: dest, Finish: t + d})
	}

	// Wait for the preparer when there is nothing of the server's own to
	// finish, or when nothing else applies.
	noOwnWork := !w.Tray && emptyHanded && len(w.Prepared) == 0 && len(w.Dirty) == 0
	if len(out) == 0 || noOwnWork {
		out = append(out, core.IdleStatus())
	}
	return out
}

// relevantDestinations returns nil under MoveAll.
func (m *Model) relevantDestinations(w core.State) map[core.Location]bool {
	if m.moves != MoveRelevant {
		return nil
	}
	rel := map[core.Location]bool{m.env.Depot(): true}
	for _, it := range w.Carried {
		rel[it.Dest] = true
	}
	for _, loc := range w.Dirty {
		rel[loc] = true
	}
	return rel
}

func (m *Model) check(parent, s core.State) {
	invariant(s.Time >= parent.Time, "time went backwards: %v -> %v", parent.Time, s.Time)
	invariant(len(s.Carried) <= m.env.Capacity(s.Tray), "carrying %d drinks, capacity %d", len(s.Carried), m.env.Capacity(s.Tray))
	if m.strict {
		if err := s.Validate(m.env); err != nil {
			invariant(false, "%v", err)
		}
	}
}

func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("sim: invariant violated: "+format, args...))
	}
}

func containsLocation(locs []core.Location, loc core.Location) bool {
	for _, l := range locs {
		if l == loc {
			return true
		}
	}
	return false
}
