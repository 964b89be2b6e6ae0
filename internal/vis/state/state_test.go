package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

func createProblem(t *testing.T) (*core.Problem, *sim.Model) {
	t.Helper()
	topo := core.NewTopology("bar", "table1", "table2")
	topo.SetDistance("bar", "table1", 2)
	topo.SetDistance("bar", "table2", 2)
	topo.SetDistance("table1", "table2", 1)
	env, err := core.NewEnvironment(topo, core.Durations{
		MakeCold:            3,
		MakeHot:             5,
		Pickup:              1,
		Deliver:             1,
		TakeTray:            1,
		ReturnTray:          1,
		CleanDefault:        2,
		SpeedWithTray:       1,
		SpeedWithoutTray:    2,
		CapacityWithoutTray: 1,
		CapacityWithTray:    3,
	})
	require.NoError(t, err)

	p, err := core.NewProblem("one-cold", env,
		core.IdleAt("bar", []core.Item{{Dest: "table1", Kind: core.Cold}}, nil))
	require.NoError(t, err)
	return p, sim.NewModel(env)
}

func oneColdResult() *core.Result {
	cold := core.Item{Dest: "table1", Kind: core.Cold}
	idle := core.IdleStatus()
	plan := core.Plan{
		{Time: 0, Preparer: core.Status{Action: core.Making, Item: cold, Finish: 3}, Server: idle, Location: "bar"},
		{Time: 3, Preparer: idle, Server: core.Status{Action: core.PickingUp, Item: cold, Finish: 4}, Location: "bar"},
		{Time: 4, Preparer: idle, Server: core.Status{Action: core.Moving, Place: "table1", Finish: 5}, Location: "bar"},
		{Time: 5, Preparer: idle, Server: core.Status{Action: core.Delivering, Item: cold, Finish: 6}, Location: "table1"},
		{Time: 6, Preparer: idle, Server: idle, Location: "table1"},
	}
	return &core.Result{Strategy: "ucs", Found: true, Plan: plan, Steps: len(plan), Makespan: 6}
}

func TestNewState(t *testing.T) {
	p, m := createProblem(t)
	st, err := NewState(p, oneColdResult(), m)
	require.NoError(t, err)

	assert.Len(t, st.Frames, 5)
	assert.Equal(t, []float64{0, 3, 4, 5, 6}, st.Ticks)
	assert.Equal(t, 6.0, st.Playback.MaxTime)
	assert.Equal(t, st.Ticks, st.Playback.Ticks)
	assert.Len(t, st.Spans, 4)
}

func TestNewState_NoPlan(t *testing.T) {
	p, m := createProblem(t)
	st, err := NewState(p, &core.Result{Strategy: "bfs"}, m)
	require.NoError(t, err)

	assert.Empty(t, st.Frames)
	assert.Zero(t, st.Playback.MaxTime)
	assert.Equal(t, p.Initial, st.Current().World)
}

func TestNewState_RejectsForeignPlan(t *testing.T) {
	p, m := createProblem(t)
	res := oneColdResult()
	res.Plan = res.Plan[1:]

	_, err := NewState(p, res, m)
	assert.ErrorIs(t, err, sim.ErrStepNotApplicable)
}

func TestSnapshotAt(t *testing.T) {
	p, m := createProblem(t)
	st, err := NewState(p, oneColdResult(), m)
	require.NoError(t, err)

	bar := st.Floor["bar"]
	table1 := st.Floor["table1"]

	snap := st.SnapshotAt(1)
	assert.Equal(t, core.Making, snap.World.Preparer.Action)
	assert.Equal(t, bar, snap.Server)
	assert.False(t, snap.Walking)

	snap = st.SnapshotAt(4.5)
	assert.True(t, snap.Walking)
	assert.InDelta(t, (bar.X+table1.X)/2, snap.Server.X, 1e-9)
	assert.InDelta(t, (bar.Y+table1.Y)/2, snap.Server.Y, 1e-9)
	assert.Len(t, snap.World.Carried, 1)

	snap = st.SnapshotAt(6)
	assert.True(t, snap.World.IsGoal())
	assert.Equal(t, table1, snap.Server)
}

func TestSpanAt(t *testing.T) {
	p, m := createProblem(t)
	st, err := NewState(p, oneColdResult(), m)
	require.NoError(t, err)

	sp, ok := st.SpanAt(core.Preparer, 2.9)
	require.True(t, ok)
	assert.Equal(t, core.Making, sp.Status.Action)

	_, ok = st.SpanAt(core.Preparer, 3)
	assert.False(t, ok, "preparer is idle after the drink")

	sp, ok = st.SpanAt(core.Server, 3)
	require.True(t, ok)
	assert.Equal(t, core.PickingUp, sp.Status.Action)
}

func TestNextStart(t *testing.T) {
	p, m := createProblem(t)
	st, err := NewState(p, oneColdResult(), m)
	require.NoError(t, err)

	sp, ok := st.NextStart(0)
	require.True(t, ok)
	assert.Equal(t, core.Server, sp.Agent)
	assert.Equal(t, core.PickingUp, sp.Status.Action)
	assert.Equal(t, 3.0, sp.Start)

	sp, ok = st.NextStart(4.2)
	require.True(t, ok)
	assert.Equal(t, core.Delivering, sp.Status.Action)

	_, ok = st.NextStart(5)
	assert.False(t, ok, "nothing starts after the last delivery")
}

func TestFloorLayout(t *testing.T) {
	p, _ := createProblem(t)
	floor := FloorLayout(p.Env)

	require.Len(t, floor, 3)
	assert.Equal(t, Pos{}, floor["bar"])
	for _, table := range []core.Location{"table1", "table2"} {
		pos := floor[table]
		assert.InDelta(t, 4.0, pos.X*pos.X+pos.Y*pos.Y, 1e-9, "%s sits at its distance from the bar", table)
	}
	assert.NotEqual(t, floor["table1"], floor["table2"])
}
