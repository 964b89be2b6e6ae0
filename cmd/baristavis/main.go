// Command baristavis solves a café problem and plays the plan back in a
// window: the floor, both agents' action lanes and an event-tick scrubber.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/gonuts/flag"

	"github.com/elektrokombinacija/barista-planner/internal/algo"
	"github.com/elektrokombinacija/barista-planner/internal/config"
	"github.com/elektrokombinacija/barista-planner/internal/logging"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
	"github.com/elektrokombinacija/barista-planner/internal/vis"
)

var (
	problemFile   = flag.String("problem", "", "Problem YAML file (default: built-in café)")
	strategyName  = flag.String("strategy", "", "Strategy: bfs, ucs, astar, iddfs (default: from problem)")
	heuristicName = flag.String("heuristic", "", "A* heuristic")
	timeout       = flag.Duration("timeout", 0, "Wall-clock limit for the search (0 = none)")
	logLevel      = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	application, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		os.Exit(1)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Barista Planner"),
			app.Size(unit.Dp(1400), unit.Dp(900)),
		)

		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// build solves the problem before the window opens.
func build() (*vis.App, error) {
	lvl, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewSlogLogger(lvl, "text", os.Stderr)

	f := config.Default()
	if *problemFile != "" {
		if f, err = config.Load(*problemFile); err != nil {
			return nil, err
		}
	}
	p, err := f.Problem()
	if err != nil {
		return nil, fmt.Errorf("problem %q: %w", f.Name, err)
	}
	opts, err := f.ModelOptions()
	if err != nil {
		return nil, err
	}
	model := sim.NewModel(p.Env, opts...)

	search := f.Search
	if *strategyName != "" {
		search.Strategy = *strategyName
	}
	if *heuristicName != "" {
		search.Heuristic = *heuristicName
	}
	if search.Strategy == "" {
		search.Strategy = "ucs"
	}
	spec, err := search.StrategySpec()
	if err != nil {
		return nil, err
	}
	spec.Config.Logger = logger
	strategy, err := algo.New(p.Env, spec)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	res, err := strategy.Search(ctx, model, p.Initial)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		logger.Warn("no plan to play back", "strategy", res.Strategy, "visited", res.Visited)
	}

	return vis.NewApp(p, res, model)
}
