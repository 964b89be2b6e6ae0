// Package core defines domain models for the two-agent café planner.
package core

import "fmt"

// Location is a named place in the café (the bar or a table).
type Location string

// Kind classifies a drink.
type Kind int

const (
	Cold Kind = iota // Cold drink, quick to make
	Hot              // Hot drink, slower to make
)

func (k Kind) String() string {
	switch k {
	case Cold:
		return "cold"
	case Hot:
		return "hot"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts "cold" or "hot" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "cold":
		return Cold, nil
	case "hot":
		return Hot, nil
	default:
		return 0, fmt.Errorf("unknown drink kind %q", s)
	}
}

// Item identifies one drink order, prepared drink or carried drink.
type Item struct {
	Dest Location // Table the drink goes to
	Kind Kind
}

func (it Item) String() string {
	return fmt.Sprintf("(%s, %s)", it.Dest, it.Kind)
}

// Less orders items by destination, then kind.
func (it Item) Less(o Item) bool {
	if it.Dest != o.Dest {
		return it.Dest < o.Dest
	}
	return it.Kind < o.Kind
}

// CompareItems is a three-way comparison usable with slices.SortFunc.
func CompareItems(a, b Item) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// Agent names one of the two cooperating agents.
type Agent int

const (
	Preparer Agent = iota // Makes drinks at the bar
	Server                // Carries drinks and cleans tables
)

var agentNames = [...]string{"preparer", "server"}

func (a Agent) String() string {
	if a >= 0 && int(a) < len(agentNames) {
		return agentNames[a]
	}
	return fmt.Sprintf("Agent(%d)", int(a))
}

// ActionKind is what an agent is currently doing.
type ActionKind int

const (
	Idle          ActionKind = iota
	Making                   // Preparer: Item moves pending -> prepared
	Moving                   // Server: Place becomes the server location
	TakingTray               // Server: tray picked up at the depot
	ReturningTray            // Server: tray returned at the depot
	PickingUp                // Server: Item moves prepared -> carried
	Delivering               // Server: Item leaves carried
	Cleaning                 // Server: Place leaves the dirty set
)

var actionNames = [...]string{"idle", "making", "moving", "taking_tray", "returning_tray", "picking_up", "delivering", "cleaning"}

func (a ActionKind) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("ActionKind(%d)", int(a))
}

// ParseActionKind converts a name produced by ActionKind.String.
func ParseActionKind(s string) (ActionKind, error) {
	for a := Idle; a <= Cleaning; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// PerformedBy reports which agent can perform an action kind.
// Idle belongs to both.
func (a ActionKind) PerformedBy(ag Agent) bool {
	switch a {
	case Idle:
		return true
	case Making:
		return ag == Preparer
	default:
		return ag == Server
	}
}
