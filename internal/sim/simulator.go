package sim

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// ErrStepNotApplicable is returned when a plan step is not among the
// successors of the state it is applied to.
var ErrStepNotApplicable = errors.New("step not applicable")

// Metrics summarizes the execution of a plan.
type Metrics struct {
	Steps    int
	Makespan float64

	// Agent utilization
	PreparerBusy float64 // Seconds spent making drinks
	ServerBusy   float64 // Seconds spent on server actions
	ServerIdle   float64

	// Work done
	DrinksMade      int
	DrinksDelivered int
	TablesCleaned   int
	TrayTrips       int
	Walked          float64 // Meters
}

// Utilization returns the busy fraction of each agent.
func (m Metrics) Utilization() (preparer, server float64) {
	if m.Makespan <= 0 {
		return 0, 0
	}
	return m.PreparerBusy / m.Makespan, m.ServerBusy / m.Makespan
}

// Replay executes plan from initial through the model, checking every step
// against the generated successors, and returns the final state.
func (m *Model) Replay(initial core.State, plan core.Plan) (core.State, Metrics, error) {
	var met Metrics
	final, err := m.walk(initial, plan, func(prev, next core.State) {
		m.account(&met, prev, next)
	})
	if err != nil {
		return final, met, err
	}

	met.Steps = len(plan)
	met.Makespan = final.Time - initial.Time
	met.ServerIdle = met.Makespan - met.ServerBusy
	return final, met, nil
}

// Trace returns the state reached after every step of plan. The states
// before a rejected step are returned along with the error.
func (m *Model) Trace(initial core.State, plan core.Plan) ([]core.State, error) {
	frames := make([]core.State, 0, len(plan))
	_, err := m.walk(initial, plan, func(_, next core.State) {
		frames = append(frames, next)
	})
	return frames, err
}

func (m *Model) walk(initial core.State, plan core.Plan, visit func(prev, next core.State)) (core.State, error) {
	cur := initial
	for i, step := range plan {
		var next *Transition
		for _, tr := range m.Successors(cur) {
			if stepMatches(tr.Step, step) {
				tr := tr
				next = &tr
				break
			}
		}
		if next == nil {
			return cur, fmt.Errorf("step %d %s: %w", i, step, ErrStepNotApplicable)
		}
		visit(cur, next.State)
		cur = next.State
	}
	return cur, nil
}

// account adds the actions started between prev and next.
func (m *Model) account(met *Metrics, prev, next core.State) {
	if p := next.Preparer; !p.IsIdle() && p != prev.Preparer {
		met.PreparerBusy += p.Finish - next.Time
		met.DrinksMade++
	}
	sv := next.Server
	if sv.IsIdle() || sv == prev.Server {
		return
	}
	met.ServerBusy += sv.Finish - next.Time
	switch sv.Action {
	case core.Moving:
		if d, ok := m.env.Distance(next.Location, sv.Place); ok {
			met.Walked += d
		}
	case core.Delivering:
		met.DrinksDelivered++
	case core.Cleaning:
		met.TablesCleaned++
	case core.TakingTray:
		met.TrayTrips++
	}
}

func stepMatches(a, b core.Step) bool {
	return core.TimeEqual(a.Time, b.Time) &&
		a.Location == b.Location &&
		statusMatches(a.Preparer, b.Preparer) &&
		statusMatches(a.Server, b.Server)
}

func statusMatches(a, b core.Status) bool {
	return a.Action == b.Action && a.Item == b.Item && a.Place == b.Place &&
		(a.IsIdle() || core.TimeEqual(a.Finish, b.Finish))
}
