package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/barista-planner/internal/core"
)

// singleOrderPlan serves one cold drink to table1 from an idle start.
func singleOrderPlan() core.Plan {
	cold := core.Item{Dest: "table1", Kind: core.Cold}
	idle := core.IdleStatus()
	return core.Plan{
		{Time: 0, Preparer: core.Status{Action: core.Making, Item: cold, Finish: 3}, Server: idle, Location: "bar"},
		{Time: 3, Preparer: idle, Server: core.Status{Action: core.PickingUp, Item: cold, Finish: 4}, Location: "bar"},
		{Time: 4, Preparer: idle, Server: core.Status{Action: core.Moving, Place: "table1", Finish: 5}, Location: "bar"},
		{Time: 5, Preparer: idle, Server: core.Status{Action: core.Delivering, Item: cold, Finish: 6}, Location: "table1"},
		{Time: 6, Preparer: idle, Server: idle, Location: "table1"},
	}
}

func TestReplay(t *testing.T) {
	m := NewModel(createEnv(t), WithStrictChecks())
	start := core.IdleAt("bar", []core.Item{{Dest: "table1", Kind: core.Cold}}, nil)

	final, met, err := m.Replay(start, singleOrderPlan())
	require.NoError(t, err)
	assert.True(t, final.IsGoal())
	assert.Equal(t, 6.0, final.Time)

	assert.Equal(t, 5, met.Steps)
	assert.Equal(t, 6.0, met.Makespan)
	assert.Equal(t, 3.0, met.PreparerBusy)
	assert.Equal(t, 3.0, met.ServerBusy)
	assert.Equal(t, 3.0, met.ServerIdle)
	assert.Equal(t, 1, met.DrinksMade)
	assert.Equal(t, 1, met.DrinksDelivered)
	assert.Equal(t, 2.0, met.Walked)
	assert.Zero(t, met.TrayTrips)

	prep, srv := met.Utilization()
	assert.InDelta(t, 0.5, prep, 1e-9)
	assert.InDelta(t, 0.5, srv, 1e-9)
}

func TestReplay_RejectsInapplicableStep(t *testing.T) {
	m := NewModel(createEnv(t))
	start := core.IdleAt("bar", []core.Item{{Dest: "table1", Kind: core.Cold}}, nil)

	plan := singleOrderPlan()
	// Delivering before walking to the table.
	plan[2] = plan[3]
	plan[2].Time = 4
	plan[2].Location = "bar"

	final, _, err := m.Replay(start, plan[:3])
	require.ErrorIs(t, err, ErrStepNotApplicable)
	assert.Equal(t, 3.0, final.Time, "replay stops at the last good state")
}

func TestReplay_EmptyPlan(t *testing.T) {
	m := NewModel(createEnv(t))
	start := core.IdleAt("bar", nil, nil)

	final, met, err := m.Replay(start, nil)
	require.NoError(t, err)
	assert.Equal(t, start, final)
	assert.Zero(t, met.Makespan)

	prep, srv := met.Utilization()
	assert.Zero(t, prep)
	assert.Zero(t, srv)
}

func TestTrace(t *testing.T) {
	m := NewModel(createEnv(t))
	start := core.IdleAt("bar", []core.Item{{Dest: "table1", Kind: core.Cold}}, nil)
	plan := singleOrderPlan()

	frames, err := m.Trace(start, plan)
	require.NoError(t, err)
	require.Len(t, frames, len(plan))
	for i, f := range frames {
		assert.Equal(t, plan[i].Time, f.Time)
		assert.Equal(t, plan[i].Location, f.Location)
	}
	assert.Equal(t, []core.Item{{Dest: "table1", Kind: core.Cold}}, frames[2].Carried)
	assert.True(t, frames[len(frames)-1].IsGoal())

	plan[2] = plan[3]
	frames, err = m.Trace(start, plan)
	require.ErrorIs(t, err, ErrStepNotApplicable)
	assert.Len(t, frames, 2)
}
