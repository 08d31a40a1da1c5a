package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pablasso/todo/internal/cli"
)

type parseResult struct {
	Flags       *pflag.FlagSet
	ConfigFile  string
	ShowHelp    bool
	ShowVersion bool
	HelpText    string
}

// parseArgs parses the flags accepted when launching the TUI.
func parseArgs(args []string) (parseResult, error) {
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configFile string
	cli.AddConfigFlags(fs, &configFile)
	showVersion := fs.BoolP("version", "v", false, "Show version information")

	usage := func() string {
		var b strings.Builder
		fmt.Fprintln(&b, "Usage: todo [flags]")
		fmt.Fprintln(&b, "       todo <command> [flags]")
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, "Without a command, todo opens the interactive task list.")
		fmt.Fprintln(&b, "Run 'todo help' to see the commands.")
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, "Flags:")
		b.WriteString(fs.FlagUsages())
		return b.String()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return parseResult{ShowHelp: true, HelpText: usage()}, nil
		}
		return parseResult{}, fmt.Errorf("%v\n\n%s", err, usage())
	}

	if fs.NArg() > 0 {
		return parseResult{}, fmt.Errorf("commands go before flags, e.g. 'todo %s --api-url ...'\n\n%s", fs.Arg(0), usage())
	}

	if *showVersion {
		return parseResult{ShowVersion: true}, nil
	}

	return parseResult{Flags: fs, ConfigFile: configFile}, nil
}

// isCommand reports whether args start with a CLI subcommand rather than
// TUI flags.
func isCommand(args []string) bool {
	return len(args) > 0 && !strings.HasPrefix(args[0], "-")
}
