package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/date"
	"github.com/etnz/stockgains/renderer"
	"github.com/google/subcommands"
)

// --- Buy and Sell Commands ---

type tradeCmd struct {
	side      stockgains.Side
	date      string
	ticker    string
	price     string
	volume    string
	brokerage string
}

type buyCmd struct{ tradeCmd }
type sellCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares" }
func (*buyCmd) Usage() string {
	return `buy -s <ticker> -p <price> -v <volume> [-b <brokerage>] [-d <date>]

  Records a purchase. The cost basis of the position grows by price × volume plus
  brokerage.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.side = stockgains.Buy
	c.tradeCmd.SetFlags(f)
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares" }
func (*sellCmd) Usage() string {
	return `sell -s <ticker> -p <price> -v <volume> [-b <brokerage>] [-d <date>]

  Records a sale at the average cost. The volume cannot exceed the volume held on
  that date.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.side = stockgains.Sell
	c.tradeCmd.SetFlags(f)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trade date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "s", "", "Ticker")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.volume, "v", "", "Number of shares")
	f.StringVar(&c.brokerage, "b", "0", "Brokerage paid")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.price == "" || c.volume == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	t, err := stockgains.ParseTrade(c.ticker, string(c.side), c.price, c.volume, c.brokerage, c.date, e.cfg.Currency)
	if err != nil {
		return fail(err)
	}
	t, err = e.book.AppendTrade(ctx, t)
	if err != nil {
		return fail(err)
	}
	p, err := e.book.Position(ctx, t.Ticker)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s #%d: %s %s @ %s on %s\n", t.Side.Command(), t.ID, t.Volume, t.Ticker, t.Price, t.Date)
	fmt.Printf("%s: %s shares, cost basis %s\n", p.Ticker, p.Volume, p.CostBasis)
	return subcommands.ExitSuccess
}

// --- Dividend Command ---

type dividendCmd struct {
	date   string
	ticker string
	value  string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend received" }
func (*dividendCmd) Usage() string {
	return `dividend -s <ticker> -a <amount> [-d <date>]

  Records the total amount of a dividend received for a ticker that has been traded.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Payment date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "s", "", "Ticker")
	f.StringVar(&c.value, "a", "", "Total amount received")
}

func (c *dividendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.value == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	d, err := stockgains.ParseDividend(c.ticker, c.value, c.date, e.cfg.Currency)
	if err != nil {
		return fail(err)
	}
	d, err = e.book.AppendDividend(ctx, d)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded dividend #%d: %s %s on %s\n", d.ID, d.Ticker, d.Value, d.Date)
	return subcommands.ExitSuccess
}

// --- History Command ---

type historyCmd struct {
	ticker string
	from   string
	to     string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the trades and dividends" }
func (*historyCmd) Usage() string {
	return `history [-s <ticker>] [-from <date>] [-to <date>]

  Lists the ledger events in chronological order.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "s", "", "Only list the events of this ticker")
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD)")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := date.ParseRange(c.from, c.to)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", stockgains.ErrInvalidInput, err))
	}
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	ledger, err := e.book.Ledger(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.HistoryMarkdown(stockgains.NewHistory(ledger, c.ticker, r)))
	return subcommands.ExitSuccess
}

// --- Check Command ---

type checkCmd struct {
	fix bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the positions against the ledger" }
func (*checkCmd) Usage() string {
	return `check [-fix]

  Recomputes every position from the ledger and reports the ones that differ from
  the stored positions. With -fix, every position is recomputed and stored again.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fix, "fix", false, "Store the recomputed positions")
}

func (c *checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	drifted, err := e.book.Verify(ctx)
	if err != nil {
		return fail(err)
	}
	if len(drifted) == 0 {
		fmt.Println("Positions are consistent with the ledger.")
		return subcommands.ExitSuccess
	}
	for _, t := range drifted {
		fmt.Printf("%s: stored position differs from the ledger\n", t)
	}
	if !c.fix {
		return subcommands.ExitFailure
	}
	if err := e.book.Rebuild(ctx); err != nil {
		return fail(err)
	}
	fmt.Printf("Rebuilt %d positions.\n", len(drifted))
	return subcommands.ExitSuccess
}

// --- Export and Import Commands ---

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as JSONL" }
func (*exportCmd) Usage() string {
	return `export [-o <file>]

  Writes every ledger event, one JSON object per line, in chronological order.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, defaults to stdout")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	ledger, err := e.book.Ledger(ctx)
	if err != nil {
		return fail(err)
	}
	w := os.Stdout
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return fail(err)
		}
		defer f.Close()
		w = f
	}
	if err := stockgains.EncodeLedger(w, ledger); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a JSONL ledger" }
func (*importCmd) Usage() string {
	return `import [-n] <file>

  Appends every event of a JSONL ledger to the book, all or nothing. Events are
  checked in chronological order against the existing ledger.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Check the import without recording it")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer in.Close()
	ledger, err := stockgains.DecodeLedger(in, e.cfg.Currency)
	if err != nil {
		return fail(fmt.Errorf("decoding %s: %w", f.Arg(0), err))
	}

	book := e.book
	if c.dryRun {
		if book, err = dryRun(ctx, e); err != nil {
			return fail(err)
		}
	}
	n, err := book.Import(ctx, ledger)
	if err != nil {
		return fail(err)
	}
	if c.dryRun {
		fmt.Printf("%d events can be imported from %s.\n", n, f.Arg(0))
		return subcommands.ExitSuccess
	}
	fmt.Printf("Imported %d events from %s.\n", n, f.Arg(0))
	return subcommands.ExitSuccess
}
