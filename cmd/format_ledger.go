package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/store"
	"github.com/google/subcommands"
)

type formatLedgerCmd struct{}

func (*formatLedgerCmd) Name() string     { return "format-ledger" }
func (*formatLedgerCmd) Synopsis() string { return "formats a JSONL ledger file into a canonical form" }
func (*formatLedgerCmd) Usage() string {
	return `format-ledger <file>

  Checks a JSONL ledger file and rewrites it in chronological order with fresh ids.
  The file is left untouched when any event is invalid.
`
}

func (*formatLedgerCmd) SetFlags(f *flag.FlagSet) {}

func (*formatLedgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	filename := f.Arg(0)
	if err := formatLedger(filename, cfg.Currency); err != nil {
		return fail(err)
	}
	fmt.Printf("Ledger file '%s' has been formatted.\n", filename)
	return subcommands.ExitSuccess
}

// formatLedger rewrites the ledger file in canonical form.
func formatLedger(filename, currency string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	ledger, err := stockgains.DecodeLedger(bytes.NewReader(data), currency)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filename, err)
	}
	var b bytes.Buffer
	if err := stockgains.EncodeLedger(&b, ledger); err != nil {
		return err
	}
	return os.WriteFile(filename, b.Bytes(), 0644)
}

// dryRun returns an in-memory copy of the book, writes to it are discarded.
func dryRun(ctx context.Context, e *env) (*stockgains.Book, error) {
	ledger, err := e.book.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	book := stockgains.NewBook(store.NewMemory(),
		stockgains.WithLogger(e.logger),
		stockgains.WithCurrency(e.cfg.Currency),
	)
	if _, err := book.Import(ctx, ledger); err != nil {
		return nil, err
	}
	return book, nil
}
