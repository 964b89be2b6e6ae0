package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gonuts/commander"

	"github.com/elektrokombinacija/barista-planner/internal/config"
	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/logging"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

// Flags shared by the subcommands that run searches.
var (
	problemFile string
	movePolicy  string
	logLevel    string
	logFormat   string
	timeout     time.Duration
)

func addCommonFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&problemFile, "problem", "", "Problem YAML file (default: built-in café)")
	cmd.Flag.StringVar(&movePolicy, "moves", "", "Server move policy: all or relevant (default: from problem)")
	cmd.Flag.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.Flag.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.Flag.DurationVar(&timeout, "timeout", 0, "Wall-clock limit per search (0 = none)")
}

func newLogger() (logging.Logger, error) {
	lvl, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(lvl, logFormat, os.Stderr), nil
}

func loadFile() (*config.File, error) {
	if problemFile == "" {
		return config.Default(), nil
	}
	return config.Load(problemFile)
}

// setup is everything a search needs.
type setup struct {
	file    *config.File
	problem *core.Problem
	model   *sim.Model
	log     logging.Logger
}

func load() (*setup, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	f, err := loadFile()
	if err != nil {
		return nil, err
	}
	if movePolicy != "" {
		f.MovePolicy = movePolicy
	}
	p, err := f.Problem()
	if err != nil {
		return nil, fmt.Errorf("problem %q: %w", f.Name, err)
	}
	opts, err := f.ModelOptions()
	if err != nil {
		return nil, err
	}
	log.Info("problem loaded",
		"name", p.Name,
		"locations", len(p.Env.Locations()),
		"orders", p.OrderCount(),
		"dirty", len(p.Initial.Dirty),
		"moves", f.MovePolicy)
	return &setup{file: f, problem: p, model: sim.NewModel(p.Env, opts...), log: log}, nil
}
