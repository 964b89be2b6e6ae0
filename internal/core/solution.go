package core

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Step labels one edge of a plan: the event tick and what each agent
// is doing from that tick on.
type Step struct {
	Time     float64
	Preparer Status
	Server   Status
	Location Location // Server location at the tick
}

func (s Step) String() string {
	return fmt.Sprintf("[%6.1f] preparer: %s | server: %s @ %s",
		s.Time, s.Preparer, s.Server, s.Location)
}

// Plan is an ordered sequence of steps.
type Plan []Step

// Span is one action of one agent on the plan's time axis.
type Span struct {
	Agent  Agent
	Status Status
	Start  float64
	End    float64
}

// Spans returns the actions each agent starts along the plan, in order.
func (p Plan) Spans() []Span {
	var spans []Span
	var prev [2]Status
	for i, st := range p {
		for _, a := range []Agent{Preparer, Server} {
			cur := st.Preparer
			if a == Server {
				cur = st.Server
			}
			if cur.IsIdle() || (i > 0 && cur == prev[a]) {
				continue
			}
			spans = append(spans, Span{Agent: a, Status: cur, Start: st.Time, End: cur.Finish})
		}
		prev = [2]Status{st.Preparer, st.Server}
	}
	return spans
}

// Result is the outcome of one search.
type Result struct {
	RunID     string
	Strategy  string
	Found     bool
	Cost      float64 // Under the strategy's cost model
	Steps     int     // Number of plan steps
	Makespan  float64 // Simulated time from start to goal
	Plan      Plan
	Final     State
	Visited   int // Canonical states recorded
	Expanded  int // States whose successors were generated
	Truncated bool // Expansion budget exhausted before the frontier
	Runtime   time.Duration
}

// Format writes a human-readable report.
func (r *Result) Format(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Strategy: %s (run %s)\n", r.Strategy, r.RunID)
	fmt.Fprintf(&b, "Runtime: %v\n", r.Runtime)
	fmt.Fprintf(&b, "Visited states: %d, expanded: %d\n", r.Visited, r.Expanded)
	if !r.Found {
		if r.Truncated {
			b.WriteString("No plan found (expansion budget exhausted).\n")
		} else {
			b.WriteString("No plan found.\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "Cost: %g, steps: %d, makespan: %.1f s\n", r.Cost, r.Steps, r.Makespan)
	fmt.Fprintf(&b, "%8s | %-40s | %s\n", "Time [s]", "Preparer", "Server")
	b.WriteString(strings.Repeat("-", 90))
	b.WriteByte('\n')
	for _, st := range r.Plan {
		fmt.Fprintf(&b, "%8.1f | %-40s | %s @ %s\n", st.Time, st.Preparer, st.Server, st.Location)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
