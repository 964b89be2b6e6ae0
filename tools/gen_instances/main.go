// Package main generates café problem files for benchmarks.
// Generation is deterministic for a given seed.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/gonuts/flag"

	"github.com/elektrokombinacija/barista-planner/internal/config"
)

// InstanceParams defines parameters for instance generation.
type InstanceParams struct {
	Seed      int64
	Tables    int
	Orders    int
	Dirty     int
	HotRatio  float64 // Fraction of orders that are hot drinks
	MaxMeters int     // Longest bar-to-table walk
}

// generateInstance builds a problem over the built-in durations with a
// random floor and random orders.
func generateInstance(params InstanceParams) (*config.File, error) {
	if params.Tables < 1 {
		return nil, fmt.Errorf("need at least one table, got %d", params.Tables)
	}
	if params.Dirty > params.Tables {
		return nil, fmt.Errorf("%d dirty tables but only %d tables", params.Dirty, params.Tables)
	}
	rng := rand.New(rand.NewSource(params.Seed))

	f := config.Default()
	f.Name = fmt.Sprintf("cafe_t%d_o%d_d%d_%d", params.Tables, params.Orders, params.Dirty, params.Seed)
	f.Search = config.Search{}
	f.Durations.Clean = map[string]float64{}

	tables := make([]string, params.Tables)
	for i := range tables {
		tables[i] = fmt.Sprintf("table%d", i+1)
	}
	f.Locations = append([]string{f.Depot}, tables...)

	// Every pair gets a distance so no fallback is needed.
	f.Distances = nil
	for i, a := range tables {
		f.Distances = append(f.Distances, config.Distance{
			From:   f.Depot,
			To:     a,
			Meters: float64(1 + rng.Intn(max(params.MaxMeters, 1))),
		})
		for _, b := range tables[i+1:] {
			f.Distances = append(f.Distances, config.Distance{From: a, To: b, Meters: float64(1 + rng.Intn(2))})
		}
	}

	// Some tables take longer to clean.
	for _, t := range tables {
		if rng.Float64() < 0.25 {
			f.Durations.Clean[t] = f.Durations.CleanDefault * 2
		}
	}

	f.Initial = config.Initial{Location: f.Depot}
	for i := 0; i < params.Orders; i++ {
		kind := "cold"
		if rng.Float64() < params.HotRatio {
			kind = "hot"
		}
		f.Initial.Orders = append(f.Initial.Orders, config.Item{Table: tables[rng.Intn(len(tables))], Kind: kind})
	}
	for _, i := range rng.Perm(len(tables))[:params.Dirty] {
		f.Initial.Dirty = append(f.Initial.Dirty, tables[i])
	}
	return f, nil
}

func main() {
	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	tables := flag.Int("tables", 4, "Number of tables")
	orders := flag.Int("orders", 3, "Number of orders")
	dirty := flag.Int("dirty", 1, "Number of dirty tables")
	hotRatio := flag.Float64("hot", 0.4, "Fraction of hot drinks (0-1)")
	maxMeters := flag.Int("max-meters", 3, "Longest walk from the bar to a table")
	outputDir := flag.String("output", "testdata", "Output directory")
	scalingMode := flag.Bool("scaling", false, "Generate a scaling suite (1 to 6 orders)")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var suite []InstanceParams
	base := InstanceParams{
		Seed:      *seed,
		Tables:    *tables,
		Orders:    *orders,
		Dirty:     *dirty,
		HotRatio:  *hotRatio,
		MaxMeters: *maxMeters,
	}
	if *scalingMode {
		for n := 1; n <= 6; n++ {
			p := base
			p.Orders = n
			p.Dirty = min(n/2, p.Tables)
			suite = append(suite, p)
		}
	} else {
		suite = append(suite, base)
	}

	for _, params := range suite {
		f, err := generateInstance(params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating instance: %v\n", err)
			os.Exit(1)
		}
		data, err := f.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling instance %s: %v\n", f.Name, err)
			continue
		}
		// Reject anything the loader would reject.
		if _, err := config.Parse(data); err != nil {
			fmt.Fprintf(os.Stderr, "Generated invalid instance %s: %v\n", f.Name, err)
			continue
		}

		filename := filepath.Join(*outputDir, f.Name+".yaml")
		if err := os.WriteFile(filename, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing instance %s: %v\n", filename, err)
			continue
		}
		fmt.Printf("Generated: %s (%d tables, %d orders, %d dirty)\n",
			filename, params.Tables, params.Orders, params.Dirty)
	}
}
