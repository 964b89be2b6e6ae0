package algo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

func testDurations() core.Durations {
	return core.Durations{
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
	}
}

// createEnv builds bar, table1, table2 with bar-table 2 m and table1-table2 1 m.
func createEnv(t *testing.T) *core.Environment {
	t.Helper()
	topo := core.NewTopology("bar", "table1", "table2")
	topo.SetDistance("bar", "table1", 2)
	topo.SetDistance("bar", "table2", 2)
	topo.SetDistance("table1", "table2", 1)
	env, err := core.NewEnvironment(topo, testDurations())
	require.NoError(t, err)
	return env
}

// twoOrders is one cold drink for table1 and one hot drink for table2.
func twoOrders() core.State {
	return core.IdleAt("bar", []core.Item{
		{Dest: "table1", Kind: core.Cold},
		{Dest: "table2", Kind: core.Hot},
	}, nil)
}

func allStrategies(t *testing.T, env *core.Environment, cfg Config) []Strategy {
	t.Helper()
	var out []Strategy
	for _, name := range StrategyNames {
		s, err := New(env, StrategySpec{Name: name, MaxDepth: 16, Config: cfg})
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func search(t *testing.T, s Strategy, m *sim.Model, start core.State) *core.Result {
	t.Helper()
	res, err := s.Search(context.Background(), m, start)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// assertReplays checks the plan is executable and ends where the search said.
func assertReplays(t *testing.T, m *sim.Model, start core.State, res *core.Result) {
	t.Helper()
	final, _, err := m.Replay(start, res.Plan)
	require.NoError(t, err, res.Strategy)
	assert.True(t, final.IsGoal(), res.Strategy)
	assert.InDelta(t, res.Final.Time, final.Time, core.TimeTolerance, res.Strategy)
}

func TestUCS_TwoOrders(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env, sim.WithStrictChecks())
	start := twoOrders()

	res := search(t, NewUCS(Config{}), m, start)

	require.True(t, res.Found)
	// cold first: ready at 3, delivered by 6; hot ready at 8, delivered at 11
	assert.InDelta(t, 11.0, res.Cost, core.TimeTolerance)
	assert.InDelta(t, 11.0, res.Makespan, core.TimeTolerance)
	assert.Equal(t, len(res.Plan), res.Steps)
	assert.True(t, res.Final.IsGoal())
	assert.NotEmpty(t, res.RunID)
	assert.Positive(t, res.Visited)
	assert.Positive(t, res.Expanded)
	assertReplays(t, m, start, res)
}

func TestAStar_AdmissibleMatchesUCS(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)

	withDirty := twoOrders()
	withDirty.Dirty = []core.Location{"table2"}

	for _, start := range []core.State{twoOrders(), withDirty} {
		ucs := search(t, NewUCS(Config{}), m, start)
		require.True(t, ucs.Found)

		for _, name := range HeuristicNames() {
			h, err := HeuristicByName(env, name)
			require.NoError(t, err)
			if !h.Admissible() {
				continue
			}
			res := search(t, NewAStar(h, Config{}), m, start)
			require.True(t, res.Found, name)
			assert.InDelta(t, ucs.Cost, res.Cost, core.TimeTolerance, name)
			assertReplays(t, m, start, res)
		}
	}
}

func TestAStar_InadmissibleStillFindsPlan(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	start := twoOrders()

	for _, name := range []string{"prep-clean", "count", "min-duration"} {
		h, err := HeuristicByName(env, name)
		require.NoError(t, err)
		res := search(t, NewAStar(h, Config{}), m, start)
		require.True(t, res.Found, name)
		assert.GreaterOrEqual(t, res.Cost, 11.0-core.TimeTolerance, name)
		assertReplays(t, m, start, res)
	}
}

func TestBFS_FewestSteps(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	start := twoOrders()

	bfs := search(t, NewBFS(Config{}), m, start)
	ucs := search(t, NewUCS(Config{}), m, start)

	require.True(t, bfs.Found)
	assert.Equal(t, float64(bfs.Steps), bfs.Cost, "step cost by default")
	assert.LessOrEqual(t, bfs.Steps, ucs.Steps)
	assert.GreaterOrEqual(t, bfs.Makespan, ucs.Makespan-core.TimeTolerance)
	assertReplays(t, m, start, bfs)

	timed := search(t, NewBFS(Config{CostModel: TimeCost}), m, start)
	assert.InDelta(t, timed.Makespan, timed.Cost, core.TimeTolerance)
}

func TestBFS_TimedKey(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	start := core.IdleAt("bar", []core.Item{{Dest: "table1", Kind: core.Cold}}, nil)

	untimed := search(t, NewBFS(Config{}), m, start)
	timed := search(t, NewBFS(Config{TimedKey: true}), m, start)

	require.True(t, timed.Found)
	assert.Equal(t, untimed.Steps, timed.Steps)
}

func TestIDDFS_FindsPlan(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	start := twoOrders()

	res := search(t, NewIDDFS(20, Config{}), m, start)
	require.True(t, res.Found)
	assert.GreaterOrEqual(t, res.Cost, 11.0-core.TimeTolerance)
	assert.LessOrEqual(t, res.Steps, 20)
	assertReplays(t, m, start, res)
}

func TestIDDFS_DepthCap(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)

	res := search(t, NewIDDFS(3, Config{}), m, twoOrders())
	assert.False(t, res.Found)
	assert.Empty(t, res.Plan)
}

func TestEmptyInitialState(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	start := core.IdleAt("table1", nil, nil)

	for _, s := range allStrategies(t, env, Config{}) {
		res := search(t, s, m, start)
		assert.True(t, res.Found, s.Name())
		assert.Zero(t, res.Cost, s.Name())
		assert.Empty(t, res.Plan, s.Name())
		assert.Zero(t, res.Steps, s.Name())
	}
}

func TestUnreachableTable(t *testing.T) {
	topo := core.NewTopology("bar", "table1", "table2")
	topo.Missing = core.MissingUnreachable
	topo.SetDistance("bar", "table1", 2)
	env, err := core.NewEnvironment(topo, testDurations())
	require.NoError(t, err)
	m := sim.NewModel(env)
	start := core.IdleAt("bar", []core.Item{{Dest: "table2", Kind: core.Hot}}, nil)

	for _, s := range allStrategies(t, env, Config{}) {
		res := search(t, s, m, start)
		assert.False(t, res.Found, s.Name())
		assert.False(t, res.Truncated, s.Name())
		assert.Empty(t, res.Plan, s.Name())
	}
}

func TestIdempotent(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	start := twoOrders()
	start.Dirty = []core.Location{"table1"}

	for _, s := range allStrategies(t, env, Config{}) {
		first := search(t, s, m, start)
		second := search(t, s, m, start)
		assert.Equal(t, first.Found, second.Found, s.Name())
		assert.InDelta(t, first.Cost, second.Cost, core.TimeTolerance, s.Name())
		assert.NotEqual(t, first.RunID, second.RunID)
	}
}

func TestSearch_Canceled(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range allStrategies(t, env, Config{}) {
		res, err := s.Search(ctx, m, twoOrders())
		assert.ErrorIs(t, err, context.Canceled, s.Name())
		assert.Nil(t, res, s.Name())
	}
}

func TestSearch_MaxExpansions(t *testing.T) {
	env := createEnv(t)
	m := sim.NewModel(env)

	for _, s := range allStrategies(t, env, Config{MaxExpansions: 3}) {
		res := search(t, s, m, twoOrders())
		assert.False(t, res.Found, s.Name())
		assert.True(t, res.Truncated, s.Name())
		assert.Equal(t, 3, res.Expanded, s.Name())
	}
}

func TestNew(t *testing.T) {
	env := createEnv(t)

	s, err := New(env, StrategySpec{Name: "astar"})
	require.NoError(t, err)
	assert.Equal(t, "astar-"+DefaultHeuristic, s.Name())

	s, err = New(env, StrategySpec{Name: "iddfs"})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, s.(*IDDFS).MaxDepth())

	_, err = New(env, StrategySpec{Name: "dijkstra"})
	assert.Error(t, err)

	_, err = New(env, StrategySpec{Name: "astar", Heuristic: "magic"})
	assert.Error(t, err)
}

func TestParseCostModel(t *testing.T) {
	c, err := ParseCostModel("time")
	require.NoError(t, err)
	assert.Equal(t, TimeCost, c)

	c, err = ParseCostModel("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, c)

	_, err = ParseCostModel("money")
	assert.Error(t, err)
	assert.Equal(t, "CostModel(3)", CostModel(3).String())
}
