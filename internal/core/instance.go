package core

import (
	"fmt"
	"slices"
)

// Problem is one planning instance: the environment and the initial state.
type Problem struct {
	Name    string
	Env     *Environment
	Initial State
}

// NewProblem validates the initial state against env and returns a
// problem whose initial state is in canonical order.
func NewProblem(name string, env *Environment, initial State) (*Problem, error) {
	if env == nil {
		return nil, fmt.Errorf("problem %q: nil environment", name)
	}
	if err := initial.Validate(env); err != nil {
		return nil, fmt.Errorf("problem %q: initial state: %w", name, err)
	}
	return &Problem{
		Name:    name,
		Env:     env,
		Initial: initial.Canonical(),
	}, nil
}

// Tables returns the locations that are not the depot.
func (p *Problem) Tables() []Location {
	var out []Location
	for _, loc := range p.Env.Locations() {
		if loc != p.Env.Depot() {
			out = append(out, loc)
		}
	}
	return out
}

// OrderCount returns how many drinks the initial state still has to serve.
func (p *Problem) OrderCount() int {
	return len(p.Initial.Orders) + len(p.Initial.Prepared) + len(p.Initial.Carried)
}

// IdleAt builds an initial state with both agents idle.
func IdleAt(loc Location, orders []Item, dirty []Location) State {
	return State{
		Preparer: IdleStatus(),
		Server:   IdleStatus(),
		Location: loc,
		Orders:   slices.Clone(orders),
		Dirty:    slices.Clone(dirty),
	}
}
