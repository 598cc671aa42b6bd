// Command sg keeps the books of a share portfolio: trades, dividends, valuation
// at market prices and rebalancing towards target allocations.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/etnz/stockgains/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("sg")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// unknown subcommands may be provided by an sg-<name> executable
	if name := flag.Arg(0); name != "" && !cmd.Has(name) && !builtin(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

func builtin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	return false
}
