// Command baristaplan searches for plans that coordinate the café's
// drink-preparer and server.
//
//	$ baristaplan solve -problem cafe.yaml -strategy astar -heuristic critical-path
//	$ baristaplan compare -problem cafe.yaml -timeout 30s
//	$ baristaplan show-config > cafe.yaml
package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
)

var root = &commander.Command{
	UsageLine: "baristaplan <command> [options]",
	Short:     "plan drink preparation and service for a two-agent café",
}

func init() {
	root.Subcommands = []*commander.Command{
		solveCmd(),
		compareCmd(),
		showConfigCmd(),
	}
}

func main() {
	if err := root.Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		os.Exit(1)
	}
}
