package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/elektrokombinacija/barista-planner/internal/algo"
)

var (
	strategyName  string
	heuristicName string
	costModel     string
	maxDepth      int
	maxExpansions int
	timedKey      bool
	showMetrics   bool
)

func solveCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runSolve,
		UsageLine: "solve [options]",
		Short:     "search for a plan and print it",
		Long: `
search for a plan with one strategy and print it step by step

	$ baristaplan solve -problem <problem file> -strategy ucs [options]

Strategy options left unset fall back to the problem's search block.
`,
		Flag: *flag.NewFlagSet("solve", flag.ExitOnError),
	}
	addCommonFlags(cmd)
	cmd.Flag.StringVar(&strategyName, "strategy", "", "Strategy: bfs, ucs, astar, iddfs")
	cmd.Flag.StringVar(&heuristicName, "heuristic", "", "A* heuristic: "+fmt.Sprint(algo.HeuristicNames()))
	cmd.Flag.StringVar(&costModel, "cost", "", "Cost model: step or time (default: strategy's own)")
	cmd.Flag.IntVar(&maxDepth, "max-depth", 0, "IDDFS depth cap")
	cmd.Flag.IntVar(&maxExpansions, "max-expansions", 0, "Expansion budget (0 = unlimited)")
	cmd.Flag.BoolVar(&timedKey, "timed-key", false, "Include global time in the visited-set key (needs -max-expansions)")
	cmd.Flag.BoolVar(&showMetrics, "metrics", false, "Replay the plan and print agent utilization")
	return cmd
}

func runSolve(cmd *commander.Command, args []string) error {
	s, err := load()
	if err != nil {
		return err
	}

	search := s.file.Search
	if strategyName != "" {
		search.Strategy = strategyName
	}
	if heuristicName != "" {
		search.Heuristic = heuristicName
	}
	if costModel != "" {
		search.Cost = costModel
	}
	if maxDepth > 0 {
		search.MaxDepth = maxDepth
	}
	if maxExpansions > 0 {
		search.MaxExpansions = maxExpansions
	}
	if timedKey {
		search.TimedKey = true
	}
	if search.Strategy == "" {
		search.Strategy = "ucs"
	}

	spec, err := search.StrategySpec()
	if err != nil {
		return err
	}
	spec.Config.Logger = s.log
	strategy, err := algo.New(s.problem.Env, spec)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := strategy.Search(ctx, s.model, s.problem.Initial)
	if err != nil {
		return err
	}
	fmt.Printf("Problem: %s\n", s.problem.Name)
	if err := res.Format(os.Stdout); err != nil {
		return err
	}
	if !res.Found {
		return fmt.Errorf("%s: %w", strategy.Name(), algo.ErrNoPlan)
	}

	if showMetrics {
		_, met, err := s.model.Replay(s.problem.Initial, res.Plan)
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		prep, srv := met.Utilization()
		fmt.Printf("\nPreparer busy %.1f s (%.0f%%), server busy %.1f s (%.0f%%)\n",
			met.PreparerBusy, prep*100, met.ServerBusy, srv*100)
		fmt.Printf("Drinks made %d, delivered %d, tables cleaned %d, tray trips %d, walked %.1f m\n",
			met.DrinksMade, met.DrinksDelivered, met.TablesCleaned, met.TrayTrips, met.Walked)
	}
	return nil
}
