package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/renderer"
	"github.com/google/subcommands"
)

// --- Targets Command ---

type targetsCmd struct{}

func (*targetsCmd) Name() string     { return "targets" }
func (*targetsCmd) Synopsis() string { return "show or replace the target allocation" }
func (*targetsCmd) Usage() string {
	return `targets [<ticker>[+<ticker>...]=<percent> ...]

  Without arguments, shows the target allocation. Otherwise replaces it with the
  given buckets, e.g.

    targets NDQ.AX+IVV.AX=40 VAS.AX=35 VGE.AX=15

  Buckets cannot share a ticker and their targets cannot exceed 100% in total.
`
}

func (*targetsCmd) SetFlags(f *flag.FlagSet) {}

func (*targetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	if f.NArg() > 0 {
		targets, err := parseTargets(f.Args())
		if err != nil {
			return fail(err)
		}
		if err := e.book.ReplaceTargets(ctx, targets); err != nil {
			return fail(err)
		}
	}
	targets, err := e.book.Targets(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.TargetsMarkdown(targets))
	return subcommands.ExitSuccess
}

// parseTargets parses buckets one by one, stopping at the first that does not fit.
func parseTargets(args []string) (stockgains.Targets, error) {
	var b stockgains.TargetsBuilder
	for _, arg := range args {
		bucket, err := stockgains.ParseBucket(arg)
		if err != nil {
			return stockgains.Targets{}, err
		}
		if err := b.Add(bucket); err != nil {
			return stockgains.Targets{}, fmt.Errorf("%w (%s%% left)", err, b.Remaining())
		}
	}
	return b.Build()
}

// --- Rebalance Command ---

type rebalanceCmd struct {
	total string
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "suggest how to reach the target allocation" }
func (*rebalanceCmd) Usage() string {
	return `rebalance [-total <amount>]

  Computes how much to buy (or sell) in every bucket to match the target
  allocation. By default the portfolio is sized on its most overweight bucket so
  that nothing has to be sold. With -total, buckets are sized on that amount.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.total, "total", "", "Target value of the allocated portfolio")
}

func (c *rebalanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	total := stockgains.None[stockgains.Money]()
	if c.total != "" {
		m, err := stockgains.ParseMoney(c.total, e.cfg.Currency)
		if err != nil {
			return fail(err)
		}
		total = stockgains.Some(m)
	}
	r, err := e.book.Rebalance(ctx, e.market(), total)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderRebalance(r))
	return subcommands.ExitSuccess
}
