package stockgains

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
)

// Book is the portfolio: it records events and keeps the derived positions in sync
// with the ledger.
//
// Every write runs in a single store transaction: the event is checked against the
// ledger, inserted, and the position of its ticker is recomputed and cached. If any
// step fails nothing is recorded.
type Book struct {
	store    Store
	logger   arbor.ILogger
	currency string
}

// BookOption configures a Book.
type BookOption func(*Book)

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) BookOption {
	return func(b *Book) { b.logger = logger }
}

// WithCurrency sets the currency of every amount in the book.
func WithCurrency(currency string) BookOption {
	return func(b *Book) { b.currency = currency }
}

// NewBook returns a Book persisted in store.
func NewBook(store Store, opts ...BookOption) *Book {
	b := &Book{
		store:    store,
		logger:   arbor.NewLogger(),
		currency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Currency returns the currency of the book.
func (b *Book) Currency() string { return b.currency }

// Close closes the underlying store.
func (b *Book) Close() error { return b.store.Close() }

// AppendTrade records t and updates the position of its ticker.
func (b *Book) AppendTrade(ctx context.Context, t TradeEvent) (TradeEvent, error) {
	var saved TradeEvent
	err := b.store.Update(ctx, func(tx Tx) error {
		ledger, err := loadLedger(tx, t.Ticker)
		if err != nil {
			return err
		}
		if err := ledger.CheckTrade(t); err != nil {
			return err
		}
		if saved, err = tx.InsertTrade(t); err != nil {
			return err
		}
		ledger.recordTrade(saved)
		return cachePosition(tx, ledger, t.Ticker)
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("ticker", t.Ticker).Str("side", string(t.Side)).Msg("trade rejected")
		return TradeEvent{}, err
	}
	b.logger.Info().
		Str("ticker", saved.Ticker).
		Str("side", string(saved.Side)).
		Str("volume", saved.Volume.String()).
		Str("price", saved.Price.Decimal().String()).
		Str("date", saved.Date.String()).
		Msg("trade recorded")
	return saved, nil
}

// AppendDividend records d and updates the position of its ticker.
func (b *Book) AppendDividend(ctx context.Context, d DividendEvent) (DividendEvent, error) {
	var saved DividendEvent
	err := b.store.Update(ctx, func(tx Tx) error {
		ledger, err := loadLedger(tx, d.Ticker)
		if err != nil {
			return err
		}
		if err := ledger.CheckDividend(d); err != nil {
			return err
		}
		if saved, err = tx.InsertDividend(d); err != nil {
			return err
		}
		ledger.recordDividend(saved)
		return cachePosition(tx, ledger, d.Ticker)
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("ticker", d.Ticker).Msg("dividend rejected")
		return DividendEvent{}, err
	}
	b.logger.Info().Str("ticker", saved.Ticker).Str("value", saved.Value.Decimal().String()).Msg("dividend recorded")
	return saved, nil
}

func cachePosition(tx Tx, ledger *Ledger, ticker string) error {
	p, err := ledger.Project(ticker)
	if err != nil {
		return err
	}
	return tx.PutPosition(p)
}

// Position returns the position of ticker, open or closed.
func (b *Book) Position(ctx context.Context, ticker string) (Position, error) {
	ticker = normalizeTicker(ticker)
	var p Position
	err := b.store.View(ctx, func(tx Tx) error {
		var ok bool
		var err error
		p, ok, err = tx.Position(ticker)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTicker, ticker)
		}
		return nil
	})
	return p, err
}

// Positions returns every position, open and closed, sorted by ticker.
func (b *Book) Positions(ctx context.Context) ([]Position, error) {
	var positions []Position
	err := b.store.View(ctx, func(tx Tx) (err error) {
		positions, err = tx.Positions()
		return err
	})
	return positions, err
}

// OpenTickers returns the tickers currently held.
func (b *Book) OpenTickers(ctx context.Context) ([]string, error) {
	positions, err := b.Positions(ctx)
	if err != nil {
		return nil, err
	}
	return OpenTickers(positions), nil
}

// Ledger returns the whole ledger.
func (b *Book) Ledger(ctx context.Context) (*Ledger, error) {
	var ledger *Ledger
	err := b.store.View(ctx, func(tx Tx) (err error) {
		ledger, err = loadLedger(tx, "")
		return err
	})
	return ledger, err
}

// Targets returns the target allocation, unset if none was defined.
func (b *Book) Targets(ctx context.Context) (Targets, error) {
	var targets Targets
	err := b.store.View(ctx, func(tx Tx) (err error) {
		targets, err = tx.Targets()
		return err
	})
	return targets, err
}

// ReplaceTargets replaces the whole target allocation at once.
func (b *Book) ReplaceTargets(ctx context.Context, targets Targets) error {
	if !targets.IsSet() {
		return fmt.Errorf("%w: no bucket", ErrInvalidInput)
	}
	err := b.store.Update(ctx, func(tx Tx) error { return tx.ReplaceTargets(targets) })
	if err != nil {
		return err
	}
	b.logger.Info().Int("buckets", len(targets.buckets)).Str("total", targets.Total().String()).Msg("targets replaced")
	return nil
}

// Import appends every event of ledger in a single transaction.
//
// Events are replayed in chronological order through the same checks as
// AppendTrade and AppendDividend, they receive new ids. It returns the number of
// events imported, if any event is rejected none is imported.
func (b *Book) Import(ctx context.Context, ledger *Ledger) (int, error) {
	n := 0
	err := b.store.Update(ctx, func(tx Tx) error {
		current, err := loadLedger(tx, "")
		if err != nil {
			return err
		}
		touched := make(map[string]bool)
		for t := range ledger.Trades() {
			t.ID = 0
			if err := current.CheckTrade(t); err != nil {
				return fmt.Errorf("import trade %s %s %s: %w", t.Date, t.Side, t.Ticker, err)
			}
			saved, err := tx.InsertTrade(t)
			if err != nil {
				return err
			}
			current.recordTrade(saved)
			touched[t.Ticker] = true
			n++
		}
		for d := range ledger.Dividends() {
			d.ID = 0
			if err := current.CheckDividend(d); err != nil {
				return fmt.Errorf("import dividend %s %s: %w", d.Date, d.Ticker, err)
			}
			saved, err := tx.InsertDividend(d)
			if err != nil {
				return err
			}
			current.recordDividend(saved)
			touched[d.Ticker] = true
			n++
		}
		for ticker := range touched {
			if err := cachePosition(tx, current, ticker); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("import failed")
		return 0, err
	}
	b.logger.Info().Int("events", n).Msg("ledger imported")
	return n, nil
}

// Verify recomputes every position from the ledger and returns the tickers whose
// cached position differs.
func (b *Book) Verify(ctx context.Context) ([]string, error) {
	var drifted []string
	err := b.store.View(ctx, func(tx Tx) error {
		ledger, err := loadLedger(tx, "")
		if err != nil {
			return err
		}
		projected, err := ledger.ProjectAll()
		if err != nil {
			return err
		}
		for _, p := range projected {
			cached, ok, err := tx.Position(p.Ticker)
			if err != nil {
				return err
			}
			if !ok || !cached.Equal(p) {
				drifted = append(drifted, p.Ticker)
			}
		}
		return nil
	})
	if len(drifted) > 0 {
		b.logger.Warn().Strs("tickers", drifted).Msg("cached positions differ from the ledger")
	}
	return drifted, err
}

// Rebuild recomputes and caches every position from the ledger.
func (b *Book) Rebuild(ctx context.Context) error {
	return b.store.Update(ctx, func(tx Tx) error {
		ledger, err := loadLedger(tx, "")
		if err != nil {
			return err
		}
		for _, ticker := range ledger.Tickers() {
			if err := cachePosition(tx, ledger, ticker); err != nil {
				return err
			}
		}
		return nil
	})
}
