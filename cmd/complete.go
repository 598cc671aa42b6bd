package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/docs"
	"github.com/etnz/stockgains/store"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the sg commands and their flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"db":        predict.Files("*.db"),
			"log-level": predict.Set{"debug", "info", "warn", "error", "disabled"},
			"markdown":  nil,
		},
	}
	for _, e := range Commands {
		f := flag.NewFlagSet(e.Command.Name(), flag.ContinueOnError)
		e.Command.SetFlags(f)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		f.VisitAll(func(fl *flag.Flag) {
			sub.Flags[fl.Name] = flagPredictor(fl)
		})
		root.Sub[e.Command.Name()] = sub
	}
	root.Sub["ticker"].Args = predictTickers
	root.Sub["targets"].Args = predictTickers
	root.Sub["import"].Args = predict.Files("*.jsonl")
	root.Sub["format-ledger"].Args = predict.Files("*.jsonl")
	root.Sub["topic"].Args = predict.Set(append(docs.Topics(), docs.Index))
	return root
}

// flagPredictor predicts the values of a subcommand flag. Boolean flags take no value.
func flagPredictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return nil
	}
	switch f.Name {
	case "s":
		return predictTickers
	case "o":
		return predict.Files("*.jsonl")
	}
	return predict.Something
}

// predictTickers predicts the tickers traded in the book, if it exists.
var predictTickers = complete.PredictFunc(func(string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(cfg.Database.Path); err != nil {
		return nil
	}
	db, err := store.OpenSQLite(cfg.Database.Path, store.WithCurrency(cfg.Currency))
	if err != nil {
		return nil
	}
	book := stockgains.NewBook(db, stockgains.WithCurrency(cfg.Currency))
	defer book.Close()
	positions, err := book.Positions(context.Background())
	if err != nil {
		return nil
	}
	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	return tickers
})
