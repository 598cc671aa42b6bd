package stockgains

import "context"

// Store persists the ledger, the derived positions and the targets.
//
// Implementations live in the store package.
type Store interface {
	// Update runs fn in a read-write transaction. The transaction is committed only
	// if fn returns nil, otherwise nothing fn did is visible.
	Update(ctx context.Context, fn func(tx Tx) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is a store transaction.
type Tx interface {
	// Trades returns the trades of ticker in chronological order, all of them when
	// ticker is empty.
	Trades(ticker string) ([]TradeEvent, error)
	// Dividends returns the dividends of ticker in chronological order, all of them
	// when ticker is empty.
	Dividends(ticker string) ([]DividendEvent, error)
	// InsertTrade records t and returns it with its assigned id. Ids are
	// monotonic across trades and dividends.
	InsertTrade(t TradeEvent) (TradeEvent, error)
	InsertDividend(d DividendEvent) (DividendEvent, error)

	// Position returns the cached position of ticker.
	Position(ticker string) (Position, bool, error)
	// Positions returns every cached position sorted by ticker.
	Positions() ([]Position, error)
	PutPosition(p Position) error

	// Targets returns the current targets, unset if none was ever stored.
	Targets() (Targets, error)
	// ReplaceTargets replaces the whole target set.
	ReplaceTargets(t Targets) error
}

// loadLedger loads the events of ticker, or every event when ticker is empty.
func loadLedger(tx Tx, ticker string) (*Ledger, error) {
	trades, err := tx.Trades(ticker)
	if err != nil {
		return nil, err
	}
	dividends, err := tx.Dividends(ticker)
	if err != nil {
		return nil, err
	}
	return newLedgerFrom(trades, dividends), nil
}
