package core

import (
	"fmt"
	"slices"
)

// MissingPolicy decides what a distance lookup returns for a pair that is
// absent from the topology table.
type MissingPolicy int

const (
	MissingFallback    MissingPolicy = iota // Use Topology.Fallback (1 by default)
	MissingUnreachable                      // No path between the pair
	MissingStrict                           // Rejected when the Environment is built
)

var missingPolicyNames = [...]string{"fallback", "unreachable", "strict"}

func (p MissingPolicy) String() string {
	if p >= 0 && int(p) < len(missingPolicyNames) {
		return missingPolicyNames[p]
	}
	return fmt.Sprintf("MissingPolicy(%d)", int(p))
}

// ParseMissingPolicy converts a policy name to a MissingPolicy.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "", "fallback":
		return MissingFallback, nil
	case "unreachable":
		return MissingUnreachable, nil
	case "strict":
		return MissingStrict, nil
	default:
		return 0, fmt.Errorf("unknown missing-distance policy %q", s)
	}
}

type locPair [2]Location

func pairOf(a, b Location) locPair {
	if b < a {
		a, b = b, a
	}
	return locPair{a, b}
}

// Topology is the static set of locations and pairwise distances (meters).
type Topology struct {
	Depot     Location // Bar: tray rack, pickup counter, preparer's station
	Locations []Location
	Missing   MissingPolicy
	Fallback  float64 // Distance used for missing pairs under MissingFallback

	dist map[locPair]float64
}

// NewTopology creates a topology with the given depot and locations.
// The depot is added to the location list if absent.
func NewTopology(depot Location, locations ...Location) *Topology {
	locs := slices.Clone(locations)
	if !slices.Contains(locs, depot) {
		locs = append([]Location{depot}, locs...)
	}
	return &Topology{
		Depot:     depot,
		Locations: locs,
		Missing:   MissingFallback,
		Fallback:  1,
		dist:      make(map[locPair]float64),
	}
}

// SetDistance records a symmetric distance.
func (t *Topology) SetDistance(a, b Location, d float64) {
	t.dist[pairOf(a, b)] = d
}

// HasLocation checks if loc belongs to the topology.
func (t *Topology) HasLocation(loc Location) bool {
	return slices.Contains(t.Locations, loc)
}

func (t *Topology) lookup(a, b Location) (float64, bool) {
	if a == b {
		return 0, true
	}
	d, ok := t.dist[pairOf(a, b)]
	if ok {
		return d, true
	}
	if t.Missing == MissingFallback {
		return t.Fallback, true
	}
	return 0, false
}

func (t *Topology) validate() error {
	if !t.HasLocation(t.Depot) {
		return fmt.Errorf("depot %q: %w", t.Depot, ErrUnknownLocation)
	}
	if t.Missing == MissingFallback && t.Fallback <= 0 {
		return fmt.Errorf("fallback distance %v: %w", t.Fallback, ErrInvalidDistance)
	}
	for p, d := range t.dist {
		if !t.HasLocation(p[0]) || !t.HasLocation(p[1]) {
			return fmt.Errorf("distance %s-%s: %w", p[0], p[1], ErrUnknownLocation)
		}
		if p[0] != p[1] && d <= 0 {
			return fmt.Errorf("distance %s-%s = %v: %w", p[0], p[1], d, ErrInvalidDistance)
		}
	}
	if t.Missing == MissingStrict {
		for i, a := range t.Locations {
			for _, b := range t.Locations[i+1:] {
				if _, ok := t.dist[pairOf(a, b)]; !ok {
					return fmt.Errorf("%s-%s: %w", a, b, ErrUndefinedDistance)
				}
			}
		}
	}
	return nil
}

// Durations holds action-duration parameters (seconds), speeds (m/s)
// and carry capacities.
type Durations struct {
	MakeCold     float64
	MakeHot      float64
	Pickup       float64
	Deliver      float64
	TakeTray     float64
	ReturnTray   float64
	CleanDefault float64
	Clean        map[Location]float64 // Per-table cleaning time overrides

	SpeedWithTray    float64
	SpeedWithoutTray float64

	CapacityWithoutTray int
	CapacityWithTray    int
}

func (d Durations) validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"make_cold", d.MakeCold},
		{"make_hot", d.MakeHot},
		{"pickup", d.Pickup},
		{"deliver", d.Deliver},
		{"take_tray", d.TakeTray},
		{"return_tray", d.ReturnTray},
		{"clean_default", d.CleanDefault},
		{"speed_with_tray", d.SpeedWithTray},
		{"speed_without_tray", d.SpeedWithoutTray},
	}
	for _, n := range named {
		if n.v <= 0 {
			return fmt.Errorf("%s = %v: %w", n.name, n.v, ErrInvalidDuration)
		}
	}
	for loc, v := range d.Clean {
		if v <= 0 {
			return fmt.Errorf("clean[%s] = %v: %w", loc, v, ErrInvalidDuration)
		}
	}
	if d.CapacityWithoutTray < 1 || d.CapacityWithTray < d.CapacityWithoutTray {
		return fmt.Errorf("capacity %d/%d: %w", d.CapacityWithoutTray, d.CapacityWithTray, ErrInvalidDuration)
	}
	return nil
}

// Environment is the read-only lookup of topology and durations.
// It holds no mutable state once built and can be shared between searches.
type Environment struct {
	topo *Topology
	dur  Durations
}

// NewEnvironment validates the topology and durations.
func NewEnvironment(topo *Topology, dur Durations) (*Environment, error) {
	if err := topo.validate(); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}
	if err := dur.validate(); err != nil {
		return nil, fmt.Errorf("durations: %w", err)
	}
	for loc := range dur.Clean {
		if !topo.HasLocation(loc) {
			return nil, fmt.Errorf("durations: clean[%s]: %w", loc, ErrUnknownLocation)
		}
	}
	return &Environment{topo: topo, dur: dur}, nil
}

// Depot returns the bar location.
func (e *Environment) Depot() Location { return e.topo.Depot }

// Locations returns all locations in topology order.
func (e *Environment) Locations() []Location { return e.topo.Locations }

// HasLocation checks if loc is part of the topology.
func (e *Environment) HasLocation(loc Location) bool { return e.topo.HasLocation(loc) }

// Missing returns the missing-distance policy in use.
func (e *Environment) Missing() MissingPolicy { return e.topo.Missing }

// Durations returns the duration parameters.
func (e *Environment) Durations() Durations { return e.dur }

// Distance returns the symmetric distance between a and b.
// ok is false when no path exists (MissingUnreachable).
func (e *Environment) Distance(a, b Location) (d float64, ok bool) {
	return e.topo.lookup(a, b)
}

// TravelTime returns how long the server takes to walk from a to b.
func (e *Environment) TravelTime(a, b Location, tray bool) (float64, bool) {
	d, ok := e.Distance(a, b)
	if !ok {
		return 0, false
	}
	return d / e.Speed(tray), true
}

// Speed returns the server's walking speed.
func (e *Environment) Speed(tray bool) float64 {
	if tray {
		return e.dur.SpeedWithTray
	}
	return e.dur.SpeedWithoutTray
}

// MakeTime returns how long the preparer takes to make a drink.
func (e *Environment) MakeTime(k Kind) float64 {
	if k == Hot {
		return e.dur.MakeHot
	}
	return e.dur.MakeCold
}

// CleanTime returns how long cleaning a table takes.
func (e *Environment) CleanTime(loc Location) float64 {
	if v, ok := e.dur.Clean[loc]; ok {
		return v
	}
	return e.dur.CleanDefault
}

// Capacity returns how many drinks the server can carry.
func (e *Environment) Capacity(tray bool) int {
	if tray {
		return e.dur.CapacityWithTray
	}
	return e.dur.CapacityWithoutTray
}

// Duration returns the duration of a stationary action given its payload.
// Moving depends on the origin and tray, use TravelTime instead.
func (e *Environment) Duration(a ActionKind, it Item, place Location) float64 {
	switch a {
	case Making:
		return e.MakeTime(it.Kind)
	case TakingTray:
		return e.dur.TakeTray
	case ReturningTray:
		return e.dur.ReturnTray
	case PickingUp:
		return e.dur.Pickup
	case Delivering:
		return e.dur.Deliver
	case Cleaning:
		return e.CleanTime(place)
	default:
		return 0
	}
}
