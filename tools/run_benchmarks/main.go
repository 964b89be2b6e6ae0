// Package main runs every search strategy over a directory of problem
// files and collects metrics.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gonuts/flag"

	"github.com/elektrokombinacija/barista-planner/internal/algo"
	"github.com/elektrokombinacija/barista-planner/internal/config"
	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
)

// BenchmarkResult stores results from a single strategy run.
type BenchmarkResult struct {
	Timestamp  string
	CommitHash string
	GoVersion  string
	OS         string
	Arch       string
	RunID      string
	Instance   string
	NumTables  int
	NumOrders  int
	NumDirty   int
	Strategy   string
	RuntimeMs  float64
	Success    bool
	TimedOut   bool
	Truncated  bool
	Cost       float64
	Steps      int
	Makespan   float64
	Visited    int
	Expanded   int
}

// StrategyMetrics holds per-strategy aggregated metrics.
type StrategyMetrics struct {
	Name           string
	TotalRuns      int
	Successes      int
	Timeouts       int
	TotalRuntimeMs float64
	TotalMakespan  float64
	TotalVisited   int
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// strategySpecs lists the strategies to run, optionally filtered by
// strategy name ("astar" matches every heuristic).
func strategySpecs(filter []string, maxDepth, maxExpansions int) []algo.StrategySpec {
	cfg := algo.Config{MaxExpansions: maxExpansions}
	all := []algo.StrategySpec{
		{Name: "bfs", Config: cfg},
		{Name: "ucs", Config: cfg},
		{Name: "iddfs", MaxDepth: maxDepth, Config: cfg},
	}
	for _, h := range algo.HeuristicNames() {
		if h != "zero" {
			all = append(all, algo.StrategySpec{Name: "astar", Heuristic: h, Config: cfg})
		}
	}
	if len(filter) == 0 {
		return all
	}

	want := make(map[string]bool, len(filter))
	for _, f := range filter {
		want[strings.TrimSpace(f)] = true
	}
	var out []algo.StrategySpec
	for _, s := range all {
		if want[s.Name] || want[s.Name+"-"+s.Heuristic] {
			out = append(out, s)
		}
	}
	return out
}

// benchProblem is one loaded problem file.
type benchProblem struct {
	problem *core.Problem
	model   *sim.Model
}

func loadProblem(path string) (*benchProblem, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	p, err := f.Problem()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	opts, err := f.ModelOptions()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &benchProblem{problem: p, model: sim.NewModel(p.Env, opts...)}, nil
}

// runStrategy searches bp with spec under timeout and records the outcome.
func runStrategy(bp *benchProblem, spec algo.StrategySpec, timeout time.Duration, commit string) (*BenchmarkResult, error) {
	p := bp.problem
	result := &BenchmarkResult{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		CommitHash: commit,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Instance:   p.Name,
		NumTables:  len(p.Tables()),
		NumOrders:  p.OrderCount(),
		NumDirty:   len(p.Initial.Dirty),
	}

	strategy, err := algo.New(p.Env, spec)
	if err != nil {
		return nil, err
	}
	result.Strategy = strategy.Name()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	res, err := strategy.Search(ctx, bp.model, p.Initial)
	result.RuntimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		result.TimedOut = true
		return result, nil
	case err != nil:
		return nil, err
	}

	result.RunID = res.RunID
	result.Success = res.Found
	result.Truncated = res.Truncated
	result.Cost = res.Cost
	result.Steps = res.Steps
	result.Makespan = res.Makespan
	result.Visited = res.Visited
	result.Expanded = res.Expanded
	return result, nil
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch", "run_id",
		"instance", "num_tables", "num_orders", "num_dirty", "strategy",
		"runtime_ms", "success", "timed_out", "truncated",
		"cost", "steps", "makespan", "visited", "expanded",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch, r.RunID,
			r.Instance, fmt.Sprintf("%d", r.NumTables), fmt.Sprintf("%d", r.NumOrders),
			fmt.Sprintf("%d", r.NumDirty), r.Strategy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Success),
			fmt.Sprintf("%t", r.TimedOut), fmt.Sprintf("%t", r.Truncated),
			fmt.Sprintf("%g", r.Cost), fmt.Sprintf("%d", r.Steps),
			fmt.Sprintf("%.3f", r.Makespan), fmt.Sprintf("%d", r.Visited),
			fmt.Sprintf("%d", r.Expanded),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

func summarize(results []*BenchmarkResult) []*StrategyMetrics {
	metrics := make(map[string]*StrategyMetrics)
	for _, r := range results {
		m, ok := metrics[r.Strategy]
		if !ok {
			m = &StrategyMetrics{Name: r.Strategy}
			metrics[r.Strategy] = m
		}
		m.TotalRuns++
		if r.TimedOut {
			m.Timeouts++
		}
		if r.Success {
			m.Successes++
			m.TotalRuntimeMs += r.RuntimeMs
			m.TotalMakespan += r.Makespan
			m.TotalVisited += r.Visited
		}
	}

	out := make([]*StrategyMetrics, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func printSummary(results []*BenchmarkResult) {
	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-22s %6s %8s %8s %12s %12s %12s\n",
		"Strategy", "Runs", "Success", "Timeout", "Avg Time(ms)", "AvgMakespan", "AvgVisited")
	fmt.Println(strings.Repeat("-", 86))

	for _, m := range summarize(results) {
		avgTime, avgMakespan, avgVisited := 0.0, 0.0, 0.0
		if m.Successes > 0 {
			n := float64(m.Successes)
			avgTime = m.TotalRuntimeMs / n
			avgMakespan = m.TotalMakespan / n
			avgVisited = float64(m.TotalVisited) / n
		}
		fmt.Printf("%-22s %6d %8d %8d %12.2f %12.2f %12.0f\n",
			m.Name, m.TotalRuns, m.Successes, m.Timeouts, avgTime, avgMakespan, avgVisited)
	}
}

func main() {
	inputDir := flag.String("input", "testdata", "Directory containing problem YAML files")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	timeout := flag.Duration("timeout", time.Minute, "Timeout per strategy run")
	strategyFilter := flag.String("strategy", "", "Run only these strategies (comma-separated, e.g. ucs,astar-critical-path)")
	maxDepth := flag.Int("max-depth", algo.DefaultMaxDepth, "IDDFS depth cap")
	maxExpansions := flag.Int("max-expansions", 0, "Expansion budget per run (0 = unlimited)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*inputDir, "*.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding problem files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No problem files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "Run gen_instances first: go run ./tools/gen_instances -scaling -output testdata\n")
		os.Exit(1)
	}

	var filter []string
	if *strategyFilter != "" {
		filter = strings.Split(*strategyFilter, ",")
	}
	specs := strategySpecs(filter, *maxDepth, *maxExpansions)
	commit := getGitCommit()

	var results []*BenchmarkResult
	totalRuns := len(files) * len(specs)
	currentRun := 0

	fmt.Printf("Running benchmarks: %d problems x %d strategies = %d runs\n",
		len(files), len(specs), totalRuns)
	fmt.Printf("Timeout per run: %v\n", *timeout)
	fmt.Println()

	for _, file := range files {
		bp, err := loadProblem(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", file, err)
			continue
		}

		for _, spec := range specs {
			currentRun++
			if *verbose {
				fmt.Printf("[%d/%d] %s / %s ... ", currentRun, totalRuns, bp.problem.Name, spec.Name)
			} else {
				fmt.Printf("\r[%d/%d] Running...", currentRun, totalRuns)
			}

			result, err := runStrategy(bp, spec, *timeout, commit)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running %s on %s: %v\n", spec.Name, file, err)
				continue
			}
			results = append(results, result)

			if *verbose {
				switch {
				case result.Success:
					fmt.Printf("OK (%.2fms, cost=%g, makespan=%.1f)\n", result.RuntimeMs, result.Cost, result.Makespan)
				case result.TimedOut:
					fmt.Printf("TIMEOUT\n")
				default:
					fmt.Printf("NO PLAN\n")
				}
			}
		}
	}

	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
