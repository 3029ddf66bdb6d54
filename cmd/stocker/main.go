// Command stocker keeps a small stock portfolio: positions with a quote and an
// amount, their total value and an allocation chart.
//
// Usage:
//
//	stocker [-config config.yaml] [-storage json:./data/portfolio.json] <command> [args]
//
// Commands: add, edit, rm, ls, reset, size, serve, tui.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/vadiminshakov/stocker/config"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(int(run(context.Background(), path.Base(os.Args[0]), os.Args[1:])))
}

// run parses args with a fresh flag set so it can be called more than once.
func run(ctx context.Context, name string, args []string) subcommands.ExitStatus {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var globals config.Flags
	globals.Register(fs)

	commander := subcommands.NewCommander(fs, name)
	commander.Output = stdout
	commander.Error = stderr
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range portfolioCommands(&globals) {
		commander.Register(c, "portfolio")
	}
	commander.Register(&sizeCmd{}, "tools")
	commander.Register(&serveCmd{globals: &globals}, "frontends")
	commander.Register(&tuiCmd{globals: &globals}, "frontends")

	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}

	return commander.Execute(ctx)
}

func portfolioCommands(globals *config.Flags) []subcommands.Command {
	return []subcommands.Command{
		&addCmd{globals: globals},
		&editCmd{globals: globals},
		&rmCmd{globals: globals},
		&lsCmd{globals: globals},
		&resetCmd{globals: globals},
	}
}
