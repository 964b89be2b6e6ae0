package core

import (
	"fmt"
	"math"
	"slices"
)

// TimeTolerance for floating-point time comparison.
const TimeTolerance = 0.001

// TimeEqual compares times with tolerance.
func TimeEqual(t1, t2 float64) bool {
	return math.Abs(t1-t2) < TimeTolerance
}

// Status is what one agent is doing: Idle, or busy with an action
// that completes at Finish.
type Status struct {
	Action ActionKind
	Item   Item     // Payload of Making, PickingUp, Delivering
	Place  Location // Payload of Moving, Cleaning
	Finish float64  // Absolute completion time; zero when Idle
}

// IdleStatus returns the Idle status.
func IdleStatus() Status { return Status{} }

// IsIdle reports whether the agent has no action in flight.
func (s Status) IsIdle() bool { return s.Action == Idle }

func (s Status) String() string {
	switch s.Action {
	case Idle:
		return "idle"
	case Making, PickingUp, Delivering:
		return fmt.Sprintf("%s %s until %.1f", s.Action, s.Item, s.Finish)
	case Moving:
		return fmt.Sprintf("%s -> %s until %.1f", s.Action, s.Place, s.Finish)
	case Cleaning:
		return fmt.Sprintf("%s %s until %.1f", s.Action, s.Place, s.Finish)
	default:
		return fmt.Sprintf("%s until %.1f", s.Action, s.Finish)
	}
}

// State is one node of the search graph. States are values: once a state
// is handed to a frontier it is never mutated, successors are built from
// Clone.
type State struct {
	Time     float64
	Preparer Status
	Server   Status
	Location Location // Server location
	Tray     bool
	Carried  []Item
	Orders   []Item // Pending orders
	Prepared []Item // Drinks waiting on the bar
	Dirty    []Location
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.Carried = slices.Clone(s.Carried)
	c.Orders = slices.Clone(s.Orders)
	c.Prepared = slices.Clone(s.Prepared)
	c.Dirty = slices.Clone(s.Dirty)
	return c
}

// Status returns the status of an agent.
func (s State) Status(a Agent) Status {
	if a == Preparer {
		return s.Preparer
	}
	return s.Server
}

// Outstanding counts items and tables that still need work.
func (s State) Outstanding() int {
	return len(s.Orders) + len(s.Prepared) + len(s.Carried) + len(s.Dirty)
}

// IsGoal reports whether every order is delivered, every table is clean,
// the tray is back and both agents are idle.
func (s State) IsGoal() bool {
	return len(s.Orders) == 0 &&
		len(s.Prepared) == 0 &&
		len(s.Carried) == 0 &&
		len(s.Dirty) == 0 &&
		!s.Tray &&
		s.Preparer.IsIdle() &&
		s.Server.IsIdle()
}

// Validate checks the data-model invariants against an environment.
func (s State) Validate(env *Environment) error {
	if s.Time < 0 || math.IsNaN(s.Time) {
		return fmt.Errorf("time %v: %w", s.Time, ErrInvalidState)
	}
	if !env.HasLocation(s.Location) {
		return fmt.Errorf("server location %q: %w", s.Location, ErrUnknownLocation)
	}
	if c := env.Capacity(s.Tray); len(s.Carried) > c {
		return fmt.Errorf("carrying %d drinks with capacity %d: %w", len(s.Carried), c, ErrInvalidState)
	}
	for _, group := range [][]Item{s.Carried, s.Orders, s.Prepared} {
		for _, it := range group {
			if !env.HasLocation(it.Dest) {
				return fmt.Errorf("drink %s: %w", it, ErrUnknownLocation)
			}
			if it.Kind != Cold && it.Kind != Hot {
				return fmt.Errorf("drink %s: %w", it, ErrInvalidState)
			}
		}
	}
	seen := make(map[Location]bool, len(s.Dirty))
	for _, loc := range s.Dirty {
		if !env.HasLocation(loc) {
			return fmt.Errorf("dirty table %q: %w", loc, ErrUnknownLocation)
		}
		if seen[loc] {
			return fmt.Errorf("dirty table %q listed twice: %w", loc, ErrInvalidState)
		}
		seen[loc] = true
	}
	if err := s.validateStatus(Preparer, env); err != nil {
		return err
	}
	return s.validateStatus(Server, env)
}

func (s State) validateStatus(a Agent, env *Environment) error {
	st := s.Status(a)
	if !st.Action.PerformedBy(a) {
		return fmt.Errorf("%s cannot be %s: %w", a, st.Action, ErrInvalidState)
	}
	if st.IsIdle() {
		return nil
	}
	if st.Finish < s.Time-TimeTolerance {
		return fmt.Errorf("%s finishes at %v before time %v: %w", a, st.Finish, s.Time, ErrInvalidState)
	}
	var ok bool
	switch st.Action {
	case Making:
		ok = slices.Contains(s.Orders, st.Item)
	case PickingUp:
		ok = slices.Contains(s.Prepared, st.Item)
	case Delivering:
		ok = slices.Contains(s.Carried, st.Item) && st.Item.Dest == s.Location
	case Cleaning:
		ok = slices.Contains(s.Dirty, st.Place) && st.Place == s.Location
	case Moving, TakingTray, ReturningTray:
		ok = true
	}
	if !ok {
		return fmt.Errorf("%s: %s has no matching payload: %w", a, st, ErrInvalidState)
	}
	return s.checkPreconditions(st, env)
}

// checkPreconditions rejects an in-flight server action that could not
// have been started from s, so completing it never breaks an invariant.
func (s State) checkPreconditions(st Status, env *Environment) error {
	depot := env.Depot()
	emptyHanded := len(s.Carried) == 0
	var ok bool
	switch st.Action {
	case Moving:
		if !env.HasLocation(st.Place) {
			return fmt.Errorf("server walking to %q: %w", st.Place, ErrUnknownLocation)
		}
		_, reachable := env.Distance(s.Location, st.Place)
		ok = st.Place != s.Location && reachable
	case PickingUp:
		ok = s.Location == depot && len(s.Carried) < env.Capacity(s.Tray)
	case TakingTray:
		ok = s.Location == depot && emptyHanded && !s.Tray
	case ReturningTray:
		ok = s.Location == depot && emptyHanded && s.Tray
	case Cleaning:
		ok = emptyHanded && !s.Tray
	default:
		ok = true
	}
	if !ok {
		return fmt.Errorf("server cannot be %s from %s: %w", st, s.Location, ErrInvalidState)
	}
	return nil
}

// RemoveItem returns a copy of items without the first occurrence of it.
func RemoveItem(items []Item, it Item) ([]Item, bool) {
	i := slices.Index(items, it)
	if i < 0 {
		return items, false
	}
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

// InsertItem returns a sorted copy of items with it added.
func InsertItem(items []Item, it Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, it)
	slices.SortFunc(out, CompareItems)
	return out
}

// RemoveLocation returns a copy of locs without loc.
func RemoveLocation(locs []Location, loc Location) ([]Location, bool) {
	i := slices.Index(locs, loc)
	if i < 0 {
		return locs, false
	}
	out := make([]Location, 0, len(locs)-1)
	out = append(out, locs[:i]...)
	return append(out, locs[i+1:]...), true
}
