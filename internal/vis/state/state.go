// Package state manages the visualization state.
package state

import (
	"math"
	"sort"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

// Pos is a floor position in meters.
type Pos struct {
	X, Y float64
}

// Lerp interpolates between p and q.
func (p Pos) Lerp(q Pos, alpha float64) Pos {
	return Pos{X: p.X + alpha*(q.X-p.X), Y: p.Y + alpha*(q.Y-p.Y)}
}

// State holds all visualization state.
type State struct {
	Problem  *core.Problem
	Result   *core.Result
	Frames   []core.State // World after every plan step
	Spans    []core.Span
	Ticks    []float64 // Distinct event ticks of the plan
	Floor    map[core.Location]Pos
	Playback *PlaybackState
}

// NewState replays result's plan through model so the viewer can show the
// world at any point in time. A nil or unsuccessful result shows the
// initial state only.
func NewState(p *core.Problem, result *core.Result, model *sim.Model) (*State, error) {
	s := &State{
		Problem: p,
		Result:  result,
		Floor:   FloorLayout(p.Env),
	}

	if result != nil && result.Found {
		frames, err := model.Trace(p.Initial, result.Plan)
		if err != nil {
			return nil, err
		}
		s.Frames = frames
		s.Spans = result.Plan.Spans()
	}

	start := p.Initial.Time
	end := start
	for _, f := range s.Frames {
		if len(s.Ticks) == 0 || !core.TimeEqual(s.Ticks[len(s.Ticks)-1], f.Time) {
			s.Ticks = append(s.Ticks, f.Time)
		}
		end = math.Max(end, f.Time)
	}

	s.Playback = NewPlaybackState(start, end)
	s.Playback.Ticks = s.Ticks
	return s, nil
}

// FloorLayout places the depot at the origin and fans the tables out to
// its right, each at its distance from the depot when one is known.
func FloorLayout(env *core.Environment) map[core.Location]Pos {
	depot := env.Depot()
	out := map[core.Location]Pos{depot: {}}

	var tables []core.Location
	for _, loc := range env.Locations() {
		if loc != depot {
			tables = append(tables, loc)
		}
	}

	for i, loc := range tables {
		r, ok := env.Distance(depot, loc)
		if !ok || r <= 0 {
			r = 2
		}
		angle := -math.Pi/2 + math.Pi*(float64(i)+0.5)/float64(len(tables))
		out[loc] = Pos{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}
	return out
}

// Snapshot is what the floor looks like at one instant.
type Snapshot struct {
	Time    float64
	World   core.State // State at the last event tick at or before Time
	Server  Pos
	Walking bool
}

// FrameAt returns the world at the last event tick at or before t.
func (s *State) FrameAt(t float64) core.State {
	i := sort.Search(len(s.Frames), func(i int) bool {
		return s.Frames[i].Time > t+core.TimeTolerance
	})
	if i == 0 {
		return s.Problem.Initial
	}
	return s.Frames[i-1]
}

// SnapshotAt returns the world at t with the server placed along its
// current walk.
func (s *State) SnapshotAt(t float64) Snapshot {
	w := s.FrameAt(t)
	snap := Snapshot{Time: t, World: w, Server: s.Floor[w.Location]}

	sv := w.Server
	if sv.Action != core.Moving {
		return snap
	}
	span, ok := s.SpanAt(core.Server, t)
	if !ok || span.Status != sv || span.End <= span.Start {
		return snap
	}
	alpha := (t - span.Start) / (span.End - span.Start)
	alpha = math.Max(0, math.Min(1, alpha))
	snap.Server = s.Floor[w.Location].Lerp(s.Floor[sv.Place], alpha)
	snap.Walking = true
	return snap
}

// SpanAt returns the action agent is performing at t.
func (s *State) SpanAt(agent core.Agent, t float64) (core.Span, bool) {
	for _, sp := range s.Spans {
		if sp.Agent == agent && sp.Start <= t+core.TimeTolerance && t < sp.End-core.TimeTolerance {
			return sp, true
		}
	}
	return core.Span{}, false
}

// Current returns the snapshot at the playback time.
func (s *State) Current() Snapshot {
	return s.SnapshotAt(s.Playback.CurrentTime)
}

// NextStart returns the first action either agent starts after t.
func (s *State) NextStart(t float64) (core.Span, bool) {
	var next core.Span
	found := false
	for _, sp := range s.Spans {
		if sp.Start > t+core.TimeTolerance && (!found || sp.Start < next.Start) {
			next, found = sp, true
		}
	}
	return next, found
}
