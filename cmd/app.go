// Package cmd implements the sg command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/config"
	"github.com/etnz/stockgains/store"
	"github.com/etnz/stockgains/yahoo"
	"github.com/google/subcommands"
	"github.com/ternarybob/arbor"
)

// Commands are every sg subcommand, by group.
var Commands = []struct {
	Group   string
	Command subcommands.Command
}{
	{"ledger", &buyCmd{}},
	{"ledger", &sellCmd{}},
	{"ledger", &dividendCmd{}},
	{"ledger", &historyCmd{}},
	{"ledger", &exportCmd{}},
	{"ledger", &importCmd{}},
	{"ledger", &formatLedgerCmd{}},
	{"ledger", &checkCmd{}},

	{"valuation", valueCmd},
	{"valuation", &tickerCmd{}},
	{"valuation", exposureCmd},
	{"valuation", estimateCmd},
	{"valuation", performanceCmd},
	{"valuation", &growthCmd{}},
	{"valuation", indicesCmd},

	{"allocation", &targetsCmd{}},
	{"allocation", &rebalanceCmd{}},

	{"manual", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range Commands {
		c.Register(e.Command, e.Group)
	}
}

// Has reports whether name is a built-in subcommand.
func Has(name string) bool {
	for _, e := range Commands {
		if e.Command.Name() == name {
			return true
		}
	}
	return false
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", config.DefaultPath(), "Path to the YAML configuration file")
	dbFile     = flag.String("db", "", "Path to the SQLite database, overrides database.path")
	logLevel   = flag.String("log-level", "", "Log level, overrides logging.level")
	rawOutput  = flag.Bool("markdown", false, "Print reports as raw markdown")
)

// loadConfig loads the configuration file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dbFile != "" {
		cfg.Database.Path = *dbFile
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", *configFile, err)
	}
	return cfg, nil
}

// env is what commands work with: the configuration, a logger and the book.
type env struct {
	cfg    *config.Config
	logger arbor.ILogger
	book   *stockgains.Book
}

// openEnv loads the configuration and opens the book database.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger()
	db, err := store.OpenSQLite(cfg.Database.Path,
		store.WithLogger(logger),
		store.WithCurrency(cfg.Currency),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", cfg.Database.Path).Str("currency", cfg.Currency).Msg("book opened")
	book := stockgains.NewBook(db,
		stockgains.WithLogger(logger),
		stockgains.WithCurrency(cfg.Currency),
	)
	return &env{cfg: cfg, logger: logger, book: book}, nil
}

// market returns the market data provider.
func (e *env) market() stockgains.MarketData {
	return yahoo.NewClient(e.cfg.MarketOptions(e.logger)...)
}

func (e *env) Close() {
	if err := e.book.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("closing the book")
	}
}

// fail reports err and returns the matching exit status: invalid input is a usage
// error, anything else a failure.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, stockgains.ErrInvalidInput) || errors.Is(err, stockgains.ErrOverAllocated) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
