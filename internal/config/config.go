// Package config loads planning problems from YAML. Documents are checked
// against an embedded JSON schema before they are decoded, and fields a
// document leaves out keep the values of the built-in café problem.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/barista-planner/internal/algo"
	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed problem.schema.json
var schemaJSON string

// File mirrors a problem document.
type File struct {
	Name             string     `yaml:"name"`
	Depot            string     `yaml:"depot"`
	Locations        []string   `yaml:"locations"`
	Distances        []Distance `yaml:"distances"`
	Missing          string     `yaml:"missing"`
	FallbackDistance float64    `yaml:"fallback_distance"`
	Durations        Durations  `yaml:"durations"`
	Speed            Pair       `yaml:"speed"`
	Capacity         Capacity   `yaml:"capacity"`
	MovePolicy       string     `yaml:"move_policy"`
	Initial          Initial    `yaml:"initial"`
	Search           Search     `yaml:"search"`
}

type Distance struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Meters float64 `yaml:"meters"`
}

type Durations struct {
	MakeCold     float64            `yaml:"make_cold"`
	MakeHot      float64            `yaml:"make_hot"`
	Pickup       float64            `yaml:"pickup"`
	Deliver      float64            `yaml:"deliver"`
	TakeTray     float64            `yaml:"take_tray"`
	ReturnTray   float64            `yaml:"return_tray"`
	CleanDefault float64            `yaml:"clean_default"`
	Clean        map[string]float64 `yaml:"clean"`
}

// Pair is a value with and without the tray.
type Pair struct {
	WithTray    float64 `yaml:"with_tray"`
	WithoutTray float64 `yaml:"without_tray"`
}

type Capacity struct {
	WithTray    int `yaml:"with_tray"`
	WithoutTray int `yaml:"without_tray"`
}

type Item struct {
	Table string `yaml:"table"`
	Kind  string `yaml:"kind"`
}

type Status struct {
	Action string  `yaml:"action"`
	Item   *Item   `yaml:"item,omitempty"`
	Place  string  `yaml:"place,omitempty"`
	Finish float64 `yaml:"finish,omitempty"`
}

type Initial struct {
	Time     float64  `yaml:"time,omitempty"`
	Location string   `yaml:"location"`
	Tray     bool     `yaml:"tray"`
	Preparer *Status  `yaml:"preparer,omitempty"`
	Server   *Status  `yaml:"server,omitempty"`
	Orders   []Item   `yaml:"orders"`
	Prepared []Item   `yaml:"prepared,omitempty"`
	Carried  []Item   `yaml:"carried,omitempty"`
	Dirty    []string `yaml:"dirty"`
}

// Search holds the optional strategy selection of a problem.
type Search struct {
	Strategy      string `yaml:"strategy,omitempty"`
	Heuristic     string `yaml:"heuristic,omitempty"`
	Cost          string `yaml:"cost,omitempty"`
	MaxDepth      int    `yaml:"max_depth,omitempty"`
	MaxExpansions int    `yaml:"max_expansions,omitempty"`
	TimedKey      bool   `yaml:"timed_key,omitempty"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("problem.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Validate checks a raw YAML document against the problem schema.
func Validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	if doc == nil {
		return nil // empty document: all defaults
	}
	// The validator expects JSON values; round-trip through encoding/json.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("yaml to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("yaml to json: %w", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Parse validates raw and decodes it over the defaults.
func Parse(raw []byte) (*File, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	f := defaultFile()

	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	// A new floor plan replaces the café's distances and initial state.
	if _, ok := keys["locations"]; ok {
		f.Distances = nil
		f.Durations.Clean = nil
		f.Initial = Initial{}
	}
	if _, ok := keys["initial"]; ok {
		f.Initial = Initial{}
	}

	if err := yaml.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return f, nil
}

// Load reads and parses a problem file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func defaultFile() *File {
	var f File
	if err := yaml.Unmarshal(defaultYAML, &f); err != nil {
		panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
	}
	return &f
}

// Default returns the built-in café problem.
func Default() *File {
	return defaultFile()
}

// Marshal renders f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Environment builds the validated environment.
func (f *File) Environment() (*core.Environment, error) {
	locs := make([]core.Location, len(f.Locations))
	for i, l := range f.Locations {
		locs[i] = core.Location(l)
	}
	topo := core.NewTopology(core.Location(f.Depot), locs...)
	policy, err := core.ParseMissingPolicy(f.Missing)
	if err != nil {
		return nil, err
	}
	topo.Missing = policy
	if f.FallbackDistance > 0 {
		topo.Fallback = f.FallbackDistance
	}
	for _, d := range f.Distances {
		topo.SetDistance(core.Location(d.From), core.Location(d.To), d.Meters)
	}

	dur := core.Durations{
		MakeCold:            f.Durations.MakeCold,
		MakeHot:             f.Durations.MakeHot,
		Pickup:              f.Durations.Pickup,
		Deliver:             f.Durations.Deliver,
		TakeTray:            f.Durations.TakeTray,
		ReturnTray:          f.Durations.ReturnTray,
		CleanDefault:        f.Durations.CleanDefault,
		SpeedWithTray:       f.Speed.WithTray,
		SpeedWithoutTray:    f.Speed.WithoutTray,
		CapacityWithTray:    f.Capacity.WithTray,
		CapacityWithoutTray: f.Capacity.WithoutTray,
	}
	if len(f.Durations.Clean) > 0 {
		dur.Clean = make(map[core.Location]float64, len(f.Durations.Clean))
		for loc, v := range f.Durations.Clean {
			dur.Clean[core.Location(loc)] = v
		}
	}
	return core.NewEnvironment(topo, dur)
}

// Problem builds the environment and validates the initial state.
func (f *File) Problem() (*core.Problem, error) {
	env, err := f.Environment()
	if err != nil {
		return nil, err
	}
	initial, err := f.Initial.state()
	if err != nil {
		return nil, err
	}
	return core.NewProblem(f.Name, env, initial)
}

// ModelOptions returns the transition model options the file asks for.
func (f *File) ModelOptions() ([]sim.Option, error) {
	p, err := sim.ParseMovePolicy(f.MovePolicy)
	if err != nil {
		return nil, err
	}
	return []sim.Option{sim.WithMovePolicy(p)}, nil
}

// StrategySpec converts the search block. An empty strategy name means
// the caller picks. A timed key needs an expansion budget since it no
// longer bounds the visited set.
func (s Search) StrategySpec() (algo.StrategySpec, error) {
	cost, err := algo.ParseCostModel(s.Cost)
	if err != nil {
		return algo.StrategySpec{}, err
	}
	if s.TimedKey && s.MaxExpansions <= 0 {
		return algo.StrategySpec{}, fmt.Errorf("timed_key requires max_expansions")
	}
	return algo.StrategySpec{
		Name:      s.Strategy,
		Heuristic: s.Heuristic,
		MaxDepth:  s.MaxDepth,
		Config: algo.Config{
			CostModel:     cost,
			TimedKey:      s.TimedKey,
			MaxExpansions: s.MaxExpansions,
		},
	}, nil
}

func (in Initial) state() (core.State, error) {
	s := core.State{
		Time:     in.Time,
		Location: core.Location(in.Location),
		Tray:     in.Tray,
	}
	var err error
	if s.Orders, err = items(in.Orders); err != nil {
		return s, err
	}
	if s.Prepared, err = items(in.Prepared); err != nil {
		return s, err
	}
	if s.Carried, err = items(in.Carried); err != nil {
		return s, err
	}
	for _, d := range in.Dirty {
		s.Dirty = append(s.Dirty, core.Location(d))
	}
	if s.Preparer, err = in.Preparer.status(); err != nil {
		return s, fmt.Errorf("preparer: %w", err)
	}
	if s.Server, err = in.Server.status(); err != nil {
		return s, fmt.Errorf("server: %w", err)
	}
	return s, nil
}

func (st *Status) status() (core.Status, error) {
	if st == nil {
		return core.IdleStatus(), nil
	}
	a, err := core.ParseActionKind(st.Action)
	if err != nil {
		return core.Status{}, err
	}
	out := core.Status{Action: a, Place: core.Location(st.Place), Finish: st.Finish}
	if st.Item != nil {
		it, err := st.Item.item()
		if err != nil {
			return core.Status{}, err
		}
		out.Item = it
	}
	return out, nil
}

func (it Item) item() (core.Item, error) {
	k, err := core.ParseKind(it.Kind)
	if err != nil {
		return core.Item{}, err
	}
	return core.Item{Dest: core.Location(it.Table), Kind: k}, nil
}

func items(in []Item) ([]core.Item, error) {
	var out []core.Item
	for _, it := range in {
		ci, err := it.item()
		if err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, nil
}
