package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/elektrokombinacija/barista-planner/internal/algo"
	"github.com/elektrokombinacija/barista-planner/internal/core"
)

var (
	compareDepth      int
	compareExpansions int
)

func compareCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runCompare,
		UsageLine: "compare [options]",
		Short:     "run every strategy on one problem side by side",
		Long: `
run BFS, UCS, IDDFS and A* with every heuristic on one problem and print
cost, plan length, makespan, visited states and runtime for each

	$ baristaplan compare -problem <problem file> -timeout 30s
`,
		Flag: *flag.NewFlagSet("compare", flag.ExitOnError),
	}
	addCommonFlags(cmd)
	cmd.Flag.IntVar(&compareDepth, "max-depth", algo.DefaultMaxDepth, "IDDFS depth cap")
	cmd.Flag.IntVar(&compareExpansions, "max-expansions", 0, "Expansion budget per run (0 = unlimited)")
	return cmd
}

func compareSpecs() []algo.StrategySpec {
	cfg := algo.Config{MaxExpansions: compareExpansions}
	specs := []algo.StrategySpec{
		{Name: "bfs", Config: cfg},
		{Name: "ucs", Config: cfg},
		{Name: "iddfs", MaxDepth: compareDepth, Config: cfg},
	}
	for _, h := range algo.HeuristicNames() {
		if h == "zero" {
			continue // same as ucs
		}
		specs = append(specs, algo.StrategySpec{Name: "astar", Heuristic: h, Config: cfg})
	}
	return specs
}

func runCompare(cmd *commander.Command, args []string) error {
	s, err := load()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Problem: %s\n\n", s.problem.Name)
	fmt.Fprintln(tw, "Strategy\tFound\tCost\tSteps\tMakespan\tVisited\tExpanded\tRuntime\t")

	for _, spec := range compareSpecs() {
		spec.Config.Logger = s.log
		strategy, err := algo.New(s.problem.Env, spec)
		if err != nil {
			return err
		}
		res, err := runOne(strategy, s.model, s.problem.Initial)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			fmt.Fprintf(tw, "%s\ttimeout\t\t\t\t\t\t\t\n", strategy.Name())
			continue
		case err != nil:
			return err
		}
		found := fmt.Sprint(res.Found)
		if res.Truncated {
			found = "budget"
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%d\t%.1f\t%d\t%d\t%v\t\n",
			strategy.Name(), found, res.Cost, res.Steps, res.Makespan,
			res.Visited, res.Expanded, res.Runtime.Round(time.Microsecond))
	}
	return tw.Flush()
}

func runOne(strategy algo.Strategy, space algo.Space, start core.State) (*core.Result, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return strategy.Search(ctx, space, start)
}
