package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/barista-planner/internal/algo"
	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

func TestDefault(t *testing.T) {
	p, err := Default().Problem()
	require.NoError(t, err)

	env := p.Env
	assert.Equal(t, core.Location("bar"), env.Depot())
	assert.Len(t, env.Locations(), 5)

	d, ok := env.Distance("table3", "bar")
	require.True(t, ok)
	assert.Equal(t, 3.0, d)

	assert.Equal(t, 4.0, env.CleanTime("table3"))
	assert.Equal(t, 2.0, env.CleanTime("table1"))
	assert.Equal(t, 5.0, env.MakeTime(core.Hot))
	assert.Equal(t, 1.0, env.Durations().TakeTray)
	assert.Equal(t, 3, env.Capacity(true))

	assert.Len(t, p.Initial.Orders, 3)
	assert.Equal(t, []core.Location{"table2"}, p.Initial.Dirty)
}

func TestParse_OverridesKeepDefaults(t *testing.T) {
	f, err := Parse([]byte(`
durations:
  make_hot: 6
search:
  strategy: ucs
`))
	require.NoError(t, err)
	assert.Equal(t, 6.0, f.Durations.MakeHot)
	assert.Equal(t, 3.0, f.Durations.MakeCold)
	assert.Len(t, f.Distances, 10)
	assert.Equal(t, "ucs", f.Search.Strategy)

	env, err := f.Environment()
	require.NoError(t, err)
	assert.Equal(t, 6.0, env.MakeTime(core.Hot))
	assert.Equal(t, 4.0, env.CleanTime("table3"))
}

func TestParse_NewFloorPlan(t *testing.T) {
	f, err := Parse([]byte(`
name: corner
depot: counter
locations: [counter, window]
distances:
  - {from: counter, to: window, meters: 4}
missing: strict
initial:
  location: counter
  orders:
    - {table: window, kind: hot}
`))
	require.NoError(t, err)

	p, err := f.Problem()
	require.NoError(t, err)
	assert.Equal(t, "corner", p.Name)
	assert.Equal(t, []core.Location{"counter", "window"}, p.Env.Locations())
	assert.Equal(t, core.MissingStrict, p.Env.Missing())
	assert.Equal(t, []core.Item{{Dest: "window", Kind: core.Hot}}, p.Initial.Orders)
	assert.Empty(t, p.Initial.Dirty)

	tt, ok := p.Env.TravelTime("counter", "window", false)
	require.True(t, ok)
	assert.Equal(t, 2.0, tt)
}

func TestParse_SchemaViolations(t *testing.T) {
	docs := map[string]string{
		"unknown field":      "colour: blue\n",
		"zero duration":      "durations: {make_cold: 0}\n",
		"bad kind":           "initial: {location: bar, orders: [{table: table1, kind: lukewarm}]}\n",
		"bad policy":         "missing: guess\n",
		"bad strategy":       "search: {strategy: dfs}\n",
		"negative distance":  "distances: [{from: bar, to: table1, meters: -1}]\n",
		"fractional capacity": "capacity: {with_tray: 2.5}\n",
	}
	for name, doc := range docs {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}

	_, err := Parse([]byte("durations: [1, 2\n"))
	assert.Error(t, err, "malformed yaml")
}

func TestProblem_ConfigurationErrors(t *testing.T) {
	f, err := Parse([]byte(`
locations: [bar, table1, table2]
distances:
  - {from: bar, to: table1, meters: 2}
missing: strict
initial: {location: bar}
`))
	require.NoError(t, err)
	_, err = f.Problem()
	assert.ErrorIs(t, err, core.ErrUndefinedDistance)

	f, err = Parse([]byte(`
initial:
  location: bar
  carried:
    - {table: table1, kind: cold}
    - {table: table2, kind: hot}
`))
	require.NoError(t, err)
	_, err = f.Problem()
	assert.ErrorIs(t, err, core.ErrInvalidState)

	f, err = Parse([]byte("initial: {location: patio}\n"))
	require.NoError(t, err)
	_, err = f.Problem()
	assert.ErrorIs(t, err, core.ErrUnknownLocation)
}

func TestParse_InFlightInitialState(t *testing.T) {
	f, err := Parse([]byte(`
initial:
  time: 2
  location: bar
  orders:
    - {table: table1, kind: hot}
  preparer:
    action: making
    item: {table: table1, kind: hot}
    finish: 5
  server:
    action: moving
    place: table4
    finish: 3.5
`))
	require.NoError(t, err)
	p, err := f.Problem()
	require.NoError(t, err)

	s := p.Initial
	assert.Equal(t, 2.0, s.Time)
	assert.Equal(t, core.Status{Action: core.Making, Item: core.Item{Dest: "table1", Kind: core.Hot}, Finish: 5}, s.Preparer)
	assert.Equal(t, core.Status{Action: core.Moving, Place: "table4", Finish: 3.5}, s.Server)
}

func TestSearch_StrategySpec(t *testing.T) {
	spec, err := Search{Strategy: "iddfs", MaxDepth: 12, Cost: "step", MaxExpansions: 500, TimedKey: true}.StrategySpec()
	require.NoError(t, err)
	assert.Equal(t, algo.StrategySpec{
		Name:     "iddfs",
		MaxDepth: 12,
		Config:   algo.Config{CostModel: algo.StepCost, TimedKey: true, MaxExpansions: 500},
	}, spec)

	_, err = Search{Cost: "money"}.StrategySpec()
	assert.Error(t, err)

	_, err = Search{Strategy: "bfs", TimedKey: true}.StrategySpec()
	assert.ErrorContains(t, err, "max_expansions")
}

func TestModelOptions(t *testing.T) {
	f, err := Parse([]byte("move_policy: relevant\n"))
	require.NoError(t, err)
	opts, err := f.ModelOptions()
	require.NoError(t, err)

	env, err := f.Environment()
	require.NoError(t, err)
	assert.Equal(t, sim.MoveRelevant, sim.NewModel(env, opts...).MovePolicy())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: tiny\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", f.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTrip(t *testing.T) {
	raw, err := Default().Marshal()
	require.NoError(t, err)

	f, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}
