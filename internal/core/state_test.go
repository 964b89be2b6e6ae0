package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() State {
	return State{
		Time:     2,
		Preparer: Status{Action: Making, Item: Item{"table2", Hot}, Finish: 5},
		Server:   Status{Action: Moving, Place: "table1", Finish: 3},
		Location: "bar",
		Tray:     true,
		Carried:  []Item{{"table2", Cold}, {"table1", Hot}, {"table1", Cold}},
		Orders:   []Item{{"table2", Hot}, {"table1", Cold}, {"table2", Hot}},
		Prepared: []Item{{"table3", Hot}, {"table1", Cold}},
		Dirty:    []Location{"table3", "table1"},
	}
}

func shuffled(s State, rng *rand.Rand) State {
	c := s.Clone()
	rng.Shuffle(len(c.Carried), func(i, j int) { c.Carried[i], c.Carried[j] = c.Carried[j], c.Carried[i] })
	rng.Shuffle(len(c.Orders), func(i, j int) { c.Orders[i], c.Orders[j] = c.Orders[j], c.Orders[i] })
	rng.Shuffle(len(c.Prepared), func(i, j int) { c.Prepared[i], c.Prepared[j] = c.Prepared[j], c.Prepared[i] })
	rng.Shuffle(len(c.Dirty), func(i, j int) { c.Dirty[i], c.Dirty[j] = c.Dirty[j], c.Dirty[i] })
	return c
}

func TestKey_OrderIndependent(t *testing.T) {
	s := sampleState()
	rng := rand.New(rand.NewSource(7))

	for _, timed := range []bool{false, true} {
		want := s.Key(timed)
		for i := 0; i < 50; i++ {
			got := shuffled(s, rng).Key(timed)
			require.Equal(t, want, got, "timed=%v permutation %d", timed, i)
		}
	}
}

func TestKey_DistinguishesContent(t *testing.T) {
	s := sampleState()
	base := s.Key(false)

	other := s.Clone()
	other.Orders[0].Kind = Cold
	assert.NotEqual(t, base, other.Key(false))

	other = s.Clone()
	other.Tray = false
	assert.NotEqual(t, base, other.Key(false))

	other = s.Clone()
	other.Dirty = other.Dirty[:1]
	assert.NotEqual(t, base, other.Key(false))

	// Moving an item between multisets must change the key.
	other = s.Clone()
	other.Prepared = append(other.Prepared, other.Orders[1])
	other.Orders = append(other.Orders[:1:1], other.Orders[2:]...)
	assert.NotEqual(t, base, other.Key(false))
}

func TestKey_SeparatorsInNames(t *testing.T) {
	tests := []struct {
		name string
		a, b State
	}{
		{"comma in dirty table",
			IdleAt("bar", nil, []Location{"t1,t2"}),
			IdleAt("bar", nil, []Location{"t1", "t2"})},
		{"slash in destination",
			IdleAt("bar", []Item{{"t1/0", Cold}}, nil),
			IdleAt("bar", []Item{{"t1", Cold}}, nil)},
		{"semicolon in location",
			IdleAt("bar;-", nil, nil),
			IdleAt("bar", nil, nil)},
		{"quote in location",
			IdleAt(`a","b`, nil, nil),
			IdleAt("a", nil, []Location{"b"})},
	}

	for _, tt := range tests {
		for _, timed := range []bool{false, true} {
			assert.NotEqual(t, tt.a.Key(timed), tt.b.Key(timed), tt.name)
		}
	}

	moving := IdleAt("bar", nil, nil)
	moving.Server = Status{Action: Moving, Place: "t1/0/", Finish: 1}
	other := IdleAt("bar", nil, nil)
	other.Server = Status{Action: Moving, Place: "t1", Finish: 1}
	assert.NotEqual(t, moving.Key(false), other.Key(false))
}

func TestKey_TimeFraming(t *testing.T) {
	s := sampleState()
	shifted := s.Clone()
	shifted.Time += 10
	shifted.Preparer.Finish += 10
	shifted.Server.Finish += 10

	assert.Equal(t, s.Key(false), shifted.Key(false), "untimed key ignores a uniform time shift")
	assert.NotEqual(t, s.Key(true), shifted.Key(true), "timed key keeps global time")

	// Different remaining work is never collapsed.
	later := s.Clone()
	later.Preparer.Finish += 1
	assert.NotEqual(t, s.Key(false), later.Key(false))
}

func TestCanonical_DoesNotMutate(t *testing.T) {
	s := sampleState()
	orig := s.Clone()
	_ = s.Canonical()
	_ = s.Key(false)
	assert.Equal(t, orig, s)
}

func TestIsGoal(t *testing.T) {
	goal := IdleAt("table1", nil, nil)
	assert.True(t, goal.IsGoal())

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"pending order", func(s *State) { s.Orders = []Item{{"table1", Cold}} }},
		{"prepared drink", func(s *State) { s.Prepared = []Item{{"table1", Cold}} }},
		{"carried drink", func(s *State) { s.Carried = []Item{{"table1", Cold}} }},
		{"dirty table", func(s *State) { s.Dirty = []Location{"table2"} }},
		{"tray out", func(s *State) { s.Tray = true }},
		{"server busy", func(s *State) { s.Server = Status{Action: Moving, Place: "bar", Finish: 1} }},
	}

	for _, tt := range tests {
		s := goal.Clone()
		tt.mutate(&s)
		assert.False(t, s.IsGoal(), tt.name)
	}
}

func TestValidate(t *testing.T) {
	env := testEnv(t)

	ok := IdleAt("bar", []Item{{"table1", Cold}, {"table2", Hot}}, []Location{"table3"})
	require.NoError(t, ok.Validate(env))

	tests := []struct {
		name   string
		mutate func(*State)
		want   error
	}{
		{"over capacity without tray", func(s *State) {
			s.Carried = []Item{{"table1", Cold}, {"table2", Cold}}
		}, ErrInvalidState},
		{"over capacity with tray", func(s *State) {
			s.Tray = true
			s.Carried = []Item{{"table1", Cold}, {"table2", Cold}, {"table1", Hot}, {"table2", Hot}}
		}, ErrInvalidState},
		{"unknown location", func(s *State) { s.Location = "kitchen" }, ErrUnknownLocation},
		{"unknown destination", func(s *State) { s.Orders = []Item{{"patio", Hot}} }, ErrUnknownLocation},
		{"duplicate dirty table", func(s *State) { s.Dirty = []Location{"table3", "table3"} }, ErrInvalidState},
		{"negative time", func(s *State) { s.Time = -1 }, ErrInvalidState},
		{"preparer cleaning", func(s *State) {
			s.Preparer = Status{Action: Cleaning, Place: "table3", Finish: 4}
		}, ErrInvalidState},
		{"making unknown order", func(s *State) {
			s.Preparer = Status{Action: Making, Item: Item{"table3", Hot}, Finish: 5}
		}, ErrInvalidState},
		{"finish in the past", func(s *State) {
			s.Time = 4
			s.Preparer = Status{Action: Making, Item: Item{"table1", Cold}, Finish: 3}
		}, ErrInvalidState},
		{"walking to unknown place", func(s *State) {
			s.Server = Status{Action: Moving, Place: "nowhere", Finish: 1}
		}, ErrUnknownLocation},
		{"walking to empty place", func(s *State) {
			s.Server = Status{Action: Moving, Finish: 1}
		}, ErrUnknownLocation},
		{"walking to own location", func(s *State) {
			s.Server = Status{Action: Moving, Place: "bar", Finish: 1}
		}, ErrInvalidState},
		{"picking up away from bar", func(s *State) {
			s.Location = "table1"
			s.Prepared = []Item{{"table2", Cold}}
			s.Server = Status{Action: PickingUp, Item: Item{"table2", Cold}, Finish: 1}
		}, ErrInvalidState},
		{"picking up with hands full", func(s *State) {
			s.Carried = []Item{{"table1", Hot}}
			s.Prepared = []Item{{"table2", Cold}}
			s.Server = Status{Action: PickingUp, Item: Item{"table2", Cold}, Finish: 1}
		}, ErrInvalidState},
		{"taking a second tray", func(s *State) {
			s.Tray = true
			s.Server = Status{Action: TakingTray, Finish: 1}
		}, ErrInvalidState},
		{"taking tray while carrying", func(s *State) {
			s.Carried = []Item{{"table1", Hot}}
			s.Server = Status{Action: TakingTray, Finish: 1}
		}, ErrInvalidState},
		{"taking tray away from bar", func(s *State) {
			s.Location = "table2"
			s.Server = Status{Action: TakingTray, Finish: 1}
		}, ErrInvalidState},
		{"returning tray not held", func(s *State) {
			s.Server = Status{Action: ReturningTray, Finish: 1}
		}, ErrInvalidState},
		{"cleaning with tray", func(s *State) {
			s.Location = "table3"
			s.Tray = true
			s.Server = Status{Action: Cleaning, Place: "table3", Finish: 4}
		}, ErrInvalidState},
	}

	for _, tt := range tests {
		s := ok.Clone()
		tt.mutate(&s)
		assert.ErrorIs(t, s.Validate(env), tt.want, tt.name)
	}

	// In-flight server actions that could have been started are accepted.
	valid := []func(*State){
		func(s *State) { s.Server = Status{Action: Moving, Place: "table1", Finish: 1} },
		func(s *State) { s.Server = Status{Action: TakingTray, Finish: 1} },
		func(s *State) {
			s.Tray = true
			s.Server = Status{Action: ReturningTray, Finish: 1}
		},
		func(s *State) {
			s.Tray = true
			s.Carried = []Item{{"table1", Hot}}
			s.Prepared = []Item{{"table2", Cold}}
			s.Server = Status{Action: PickingUp, Item: Item{"table2", Cold}, Finish: 1}
		},
	}
	for i, mutate := range valid {
		s := ok.Clone()
		mutate(&s)
		assert.NoError(t, s.Validate(env), "valid in-flight case %d", i)
	}
}

func TestNewProblem_RejectsImpossibleInFlight(t *testing.T) {
	env := testEnv(t)

	full := IdleAt("bar", nil, nil)
	full.Carried = []Item{{"table1", Cold}}
	full.Prepared = []Item{{"table2", Hot}}
	full.Server = Status{Action: PickingUp, Item: Item{"table2", Hot}, Finish: 1}
	_, err := NewProblem("full", env, full)
	assert.ErrorIs(t, err, ErrInvalidState)

	lost := IdleAt("bar", []Item{{"table1", Cold}}, nil)
	lost.Server = Status{Action: Moving, Place: "nowhere", Finish: 1}
	_, err = NewProblem("lost", env, lost)
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestNewProblem(t *testing.T) {
	env := testEnv(t)
	p, err := NewProblem("two", env, IdleAt("bar", []Item{{"table2", Hot}, {"table1", Cold}}, nil))
	require.NoError(t, err)
	assert.Equal(t, []Item{{"table1", Cold}, {"table2", Hot}}, p.Initial.Orders)
	assert.Equal(t, 2, p.OrderCount())
	assert.Equal(t, []Location{"table1", "table2", "table3"}, p.Tables())

	bad := IdleAt("bar", nil, nil)
	bad.Carried = []Item{{"table1", Cold}, {"table1", Hot}}
	_, err = NewProblem("bad", env, bad)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestItemHelpers(t *testing.T) {
	items := []Item{{"table1", Cold}, {"table1", Cold}, {"table2", Hot}}

	out, ok := RemoveItem(items, Item{"table1", Cold})
	require.True(t, ok)
	assert.Equal(t, []Item{{"table1", Cold}, {"table2", Hot}}, out)
	assert.Len(t, items, 3, "RemoveItem must not modify its input")

	_, ok = RemoveItem(items, Item{"table3", Hot})
	assert.False(t, ok)

	in := InsertItem([]Item{{"table2", Hot}}, Item{"table1", Hot})
	assert.Equal(t, []Item{{"table1", Hot}, {"table2", Hot}}, in)

	locs, ok := RemoveLocation([]Location{"table1", "table2"}, "table1")
	require.True(t, ok)
	assert.Equal(t, []Location{"table2"}, locs)
}

func TestEnumStrings_OutOfRange(t *testing.T) {
	assert.Equal(t, "server", Server.String())
	assert.Equal(t, "Agent(2)", Agent(2).String())
	assert.Equal(t, "cleaning", Cleaning.String())
	assert.Equal(t, "ActionKind(-1)", ActionKind(-1).String())
	assert.NotPanics(t, func() { _ = Status{Action: ActionKind(8), Finish: 3}.String() })
}
