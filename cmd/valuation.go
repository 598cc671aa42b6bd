package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/date"
	"github.com/etnz/stockgains/renderer"
	"github.com/google/subcommands"
)

// reportCmd is a command without flags printing a markdown report.
type reportCmd struct {
	name, synopsis, usage string
	report                func(ctx context.Context, e *env) (string, error)
}

func (c *reportCmd) Name() string             { return c.name }
func (c *reportCmd) Synopsis() string         { return c.synopsis }
func (c *reportCmd) Usage() string            { return c.usage }
func (c *reportCmd) SetFlags(f *flag.FlagSet) {}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	md, err := c.report(ctx, e)
	if err != nil {
		return fail(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// --- Reports without flags ---

var valueCmd = &reportCmd{
	name:     "value",
	synopsis: "value the portfolio at market prices",
	usage: `value

  Values every open position at its current price. Closed positions are summarized
  on their own line.
`,
	report: func(ctx context.Context, e *env) (string, error) {
		v, err := e.book.Valuation(ctx, e.market())
		if err != nil {
			return "", err
		}
		return renderer.RenderValuation(v), nil
	},
}

var exposureCmd = &reportCmd{
	name:     "exposure",
	synopsis: "show the weight of every position",
	usage: `exposure

  Shows the weight of every open position in the portfolio, by market value and by
  cost.
`,
	report: func(ctx context.Context, e *env) (string, error) {
		x, err := e.book.Exposure(ctx, e.market())
		if err != nil {
			return "", err
		}
		return renderer.ExposureMarkdown(x), nil
	},
}

var estimateCmd = &reportCmd{
	name:     "estimate",
	synopsis: "estimate the yearly dividends",
	usage: `estimate

  Estimates the yearly dividends of the open positions from their trailing yield.
`,
	report: func(ctx context.Context, e *env) (string, error) {
		d, err := e.book.DividendEstimate(ctx, e.market())
		if err != nil {
			return "", err
		}
		return renderer.DividendEstimateMarkdown(d), nil
	},
}

var performanceCmd = &reportCmd{
	name:     "performance",
	synopsis: "show the reported returns of every position",
	usage: `performance

  Shows the YTD, 3 and 5 year returns and the P/E ratio reported for every open
  position.
`,
	report: func(ctx context.Context, e *env) (string, error) {
		p, err := e.book.Performance(ctx, e.market())
		if err != nil {
			return "", err
		}
		return renderer.PerformanceMarkdown(p), nil
	},
}

var indicesCmd = &reportCmd{
	name:     "indices",
	synopsis: "show the market indices of interest",
	usage: `indices

  Shows the indicators of the indices listed in the configuration file.
`,
	report: func(ctx context.Context, e *env) (string, error) {
		indices, err := stockgains.Indices(ctx, e.market(), e.cfg.Indices)
		if err != nil {
			return "", err
		}
		return renderer.IndicesMarkdown(indices), nil
	},
}

// --- Ticker Command ---

type tickerCmd struct{}

func (*tickerCmd) Name() string     { return "ticker" }
func (*tickerCmd) Synopsis() string { return "value a single ticker" }
func (*tickerCmd) Usage() string {
	return `ticker <ticker>

  Shows the position of a ticker and, when it is open, its value at market price.
`
}

func (*tickerCmd) SetFlags(f *flag.FlagSet) {}

func (*tickerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	row, err := e.book.TickerValuation(ctx, e.market(), f.Arg(0))
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.TickerMarkdown(row))
	return subcommands.ExitSuccess
}

// --- Growth Command ---

type growthCmd struct {
	date string
}

func (*growthCmd) Name() string     { return "growth" }
func (*growthCmd) Synopsis() string { return "show the price growth of every traded ticker" }
func (*growthCmd) Usage() string {
	return `growth [-d <date>]

  Shows the price return of every traded ticker over YTD, 1, 2, 3 and 5 years,
  computed from daily closes. Multi-year returns are annualized.
`
}

func (c *growthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Last day of the periods (YYYY-MM-DD)")
}

func (c *growthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", stockgains.ErrInvalidInput, err))
	}
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	g, err := e.book.Growth(ctx, e.market(), on)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.GrowthMarkdown(g))
	return subcommands.ExitSuccess
}
