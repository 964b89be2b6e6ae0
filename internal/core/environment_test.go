package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDurations() Durations {
	return Durations{
		MakeCold:            3,
		MakeHot:             5,
		Pickup:              1,
		Deliver:             1,
		TakeTray:            1,
		ReturnTray:          1,
		CleanDefault:        2,
		Clean:               map[Location]float64{"table3": 4},
		SpeedWithTray:       1,
		SpeedWithoutTray:    2,
		CapacityWithoutTray: 1,
		CapacityWithTray:    3,
	}
}

func testTopology() *Topology {
	topo := NewTopology("bar", "table1", "table2", "table3")
	topo.SetDistance("bar", "table1", 2)
	topo.SetDistance("bar", "table2", 2)
	topo.SetDistance("bar", "table3", 3)
	topo.SetDistance("table1", "table2", 1)
	return topo
}

func testEnv(t *testing.T) *Environment {
	t.Helper()
	env, err := NewEnvironment(testTopology(), testDurations())
	require.NoError(t, err)
	return env
}

func TestDistance(t *testing.T) {
	env := testEnv(t)

	tests := []struct {
		a, b Location
		want float64
	}{
		{"bar", "bar", 0},
		{"bar", "table1", 2},
		{"table1", "bar", 2},
		{"table2", "table1", 1},
		{"table1", "table3", 1}, // missing pair, fallback
	}

	for _, tt := range tests {
		got, ok := env.Distance(tt.a, tt.b)
		assert.True(t, ok, "Distance(%v, %v) should be defined", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "Distance(%v, %v)", tt.a, tt.b)
	}
}

func TestDistance_Unreachable(t *testing.T) {
	topo := testTopology()
	topo.Missing = MissingUnreachable
	env, err := NewEnvironment(topo, testDurations())
	require.NoError(t, err)

	_, ok := env.Distance("table1", "table3")
	assert.False(t, ok)
	_, ok = env.TravelTime("table3", "table1", false)
	assert.False(t, ok)

	d, ok := env.Distance("table3", "bar")
	assert.True(t, ok)
	assert.Equal(t, 3.0, d)
}

func TestNewEnvironment_Strict(t *testing.T) {
	topo := testTopology()
	topo.Missing = MissingStrict
	_, err := NewEnvironment(topo, testDurations())
	assert.ErrorIs(t, err, ErrUndefinedDistance)

	topo.SetDistance("table1", "table3", 1)
	topo.SetDistance("table2", "table3", 1)
	_, err = NewEnvironment(topo, testDurations())
	assert.NoError(t, err)
}

func TestNewEnvironment_Invalid(t *testing.T) {
	badDur := testDurations()
	badDur.MakeHot = 0
	_, err := NewEnvironment(testTopology(), badDur)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	badClean := testDurations()
	badClean.Clean = map[Location]float64{"kitchen": 3}
	_, err = NewEnvironment(testTopology(), badClean)
	assert.ErrorIs(t, err, ErrUnknownLocation)

	topo := testTopology()
	topo.SetDistance("bar", "patio", 4)
	_, err = NewEnvironment(topo, testDurations())
	assert.ErrorIs(t, err, ErrUnknownLocation)

	topo = testTopology()
	topo.SetDistance("bar", "table1", -1)
	_, err = NewEnvironment(topo, testDurations())
	assert.ErrorIs(t, err, ErrInvalidDistance)
}

func TestDurations(t *testing.T) {
	env := testEnv(t)

	assert.Equal(t, 3.0, env.Duration(Making, Item{"table1", Cold}, ""))
	assert.Equal(t, 5.0, env.Duration(Making, Item{"table1", Hot}, ""))
	assert.Equal(t, 4.0, env.Duration(Cleaning, Item{}, "table3"))
	assert.Equal(t, 2.0, env.Duration(Cleaning, Item{}, "table1"))
	assert.Equal(t, 1.0, env.Duration(PickingUp, Item{"table1", Cold}, ""))

	tt, ok := env.TravelTime("bar", "table1", false)
	require.True(t, ok)
	assert.Equal(t, 1.0, tt)
	tt, ok = env.TravelTime("bar", "table1", true)
	require.True(t, ok)
	assert.Equal(t, 2.0, tt)

	assert.Equal(t, 1, env.Capacity(false))
	assert.Equal(t, 3, env.Capacity(true))
}

func TestParseMissingPolicy(t *testing.T) {
	for _, p := range []MissingPolicy{MissingFallback, MissingUnreachable, MissingStrict} {
		got, err := ParseMissingPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseMissingPolicy("teleport")
	assert.Error(t, err)
	assert.Equal(t, "MissingPolicy(7)", MissingPolicy(7).String())
}
