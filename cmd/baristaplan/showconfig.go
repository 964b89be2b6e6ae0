package main

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func showConfigCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runShowConfig,
		UsageLine: "show-config [options]",
		Short:     "print the effective problem as YAML",
		Long: `
print the problem that solve would run, with defaults filled in

	$ baristaplan show-config > cafe.yaml
	$ baristaplan show-config -problem <problem file>
`,
		Flag: *flag.NewFlagSet("show-config", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&problemFile, "problem", "", "Problem YAML file (default: built-in café)")
	return cmd
}

func runShowConfig(cmd *commander.Command, args []string) error {
	f, err := loadFile()
	if err != nil {
		return err
	}
	if _, err := f.Problem(); err != nil {
		return err
	}
	raw, err := f.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(raw)
	return err
}
