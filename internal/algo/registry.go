package algo

import (
	"fmt"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// Defaults used when a StrategySpec leaves a field empty.
const (
	DefaultHeuristic = "critical-path"
	DefaultMaxDepth  = 40
)

// StrategyNames lists the strategies New understands.
var StrategyNames = []string{"bfs", "ucs", "astar", "iddfs"}

// StrategySpec selects and parameterizes a strategy by name.
type StrategySpec struct {
	Name      string
	Heuristic string // astar only
	MaxDepth  int    // iddfs only
	Config    Config
}

// New builds the strategy described by spec. The environment binds the
// heuristic's duration lookups.
func New(env *core.Environment, spec StrategySpec) (Strategy, error) {
	switch spec.Name {
	case "bfs":
		return NewBFS(spec.Config), nil
	case "ucs":
		return NewUCS(spec.Config), nil
	case "astar", "a*":
		name := spec.Heuristic
		if name == "" {
			name = DefaultHeuristic
		}
		h, err := HeuristicByName(env, name)
		if err != nil {
			return nil, err
		}
		return NewAStar(h, spec.Config), nil
	case "iddfs":
		depth := spec.MaxDepth
		if depth <= 0 {
			depth = DefaultMaxDepth
		}
		return NewIDDFS(depth, spec.Config), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (have %v)", spec.Name, StrategyNames)
	}
}
