package stockgains

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/stockgains/date"
)

// Ledger is the append-only record of trade and dividend events.
//
// In a Ledger events are always in chronological order, events on the same day are
// ordered by id, i.e. by insertion.
type Ledger struct {
	trades    []TradeEvent
	dividends []DividendEvent
	lastID    int64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// newLedgerFrom wraps already recorded events, as loaded from a store.
func newLedgerFrom(trades []TradeEvent, dividends []DividendEvent) *Ledger {
	l := &Ledger{
		trades:    slices.Clone(trades),
		dividends: slices.Clone(dividends),
	}
	slices.SortStableFunc(l.trades, compareTrades)
	slices.SortStableFunc(l.dividends, compareDividends)
	for _, t := range l.trades {
		l.lastID = max(l.lastID, t.ID)
	}
	for _, d := range l.dividends {
		l.lastID = max(l.lastID, d.ID)
	}
	return l
}

func compareTrades(a, b TradeEvent) int {
	return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
}

func compareDividends(a, b DividendEvent) int {
	return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
}

// Len returns the number of events in the ledger.
func (l *Ledger) Len() int { return len(l.trades) + len(l.dividends) }

// CheckTrade reports whether t can be appended.
//
// A sell is rejected with ErrInsufficientHoldings if, at its date, it would sell
// more than the volume held. Backdated sells are checked against the holdings of
// their date, not today's.
func (l *Ledger) CheckTrade(t TradeEvent) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Side != Sell {
		return nil
	}
	t.ID = l.lastID + 1
	var p Position
	for _, e := range l.withTrade(t) {
		if e.Ticker != t.Ticker {
			continue
		}
		if err := p.apply(e); err != nil {
			return err
		}
	}
	return nil
}

// CheckDividend reports whether d can be appended: the ticker must have been traded
// on or before the dividend date.
func (l *Ledger) CheckDividend(d DividendEvent) error {
	if err := d.Validate(); err != nil {
		return err
	}
	first, ok := l.firstTrade(d.Ticker)
	if !ok {
		return fmt.Errorf("%w: %q has never been traded", ErrUnknownTicker, d.Ticker)
	}
	if first.After(d.Date) {
		return fmt.Errorf("%w: %q is first traded on %s, after the dividend of %s", ErrUnknownTicker, d.Ticker, first, d.Date)
	}
	return nil
}

// AppendTrade checks t, assigns it the next id and records it.
func (l *Ledger) AppendTrade(t TradeEvent) (TradeEvent, error) {
	if err := l.CheckTrade(t); err != nil {
		return TradeEvent{}, err
	}
	l.lastID++
	t.ID = l.lastID
	l.trades = l.withTrade(t)
	return t, nil
}

// AppendDividend checks d, assigns it the next id and records it.
func (l *Ledger) AppendDividend(d DividendEvent) (DividendEvent, error) {
	if err := l.CheckDividend(d); err != nil {
		return DividendEvent{}, err
	}
	l.lastID++
	d.ID = l.lastID
	l.recordDividend(d)
	return d, nil
}

// recordTrade inserts an event that already has its id, without any check.
func (l *Ledger) recordTrade(t TradeEvent) {
	l.lastID = max(l.lastID, t.ID)
	l.trades = l.withTrade(t)
}

// recordDividend inserts a dividend that already has its id.
func (l *Ledger) recordDividend(d DividendEvent) {
	l.lastID = max(l.lastID, d.ID)
	i, _ := slices.BinarySearchFunc(l.dividends, d, compareDividends)
	l.dividends = slices.Insert(l.dividends, i, d)
}

// withTrade returns the trades with t inserted at its place, l is unchanged.
func (l *Ledger) withTrade(t TradeEvent) []TradeEvent {
	i, _ := slices.BinarySearchFunc(l.trades, t, compareTrades)
	res := make([]TradeEvent, 0, len(l.trades)+1)
	res = append(res, l.trades[:i]...)
	res = append(res, t)
	return append(res, l.trades[i:]...)
}

// Trades returns an iterator over all trades in chronological order.
//
// The sequence can be restarted, each call to the iterator starts over.
func (l *Ledger) Trades() iter.Seq[TradeEvent] { return slices.Values(l.trades) }

// Dividends returns an iterator over all dividends in chronological order.
func (l *Ledger) Dividends() iter.Seq[DividendEvent] { return slices.Values(l.dividends) }

// TickerTrades returns an iterator over the trades of a single ticker.
func (l *Ledger) TickerTrades(ticker string) iter.Seq[TradeEvent] {
	return func(yield func(TradeEvent) bool) {
		for _, t := range l.trades {
			if t.Ticker == ticker && !yield(t) {
				return
			}
		}
	}
}

// TickerDividends returns an iterator over the dividends of a single ticker.
func (l *Ledger) TickerDividends(ticker string) iter.Seq[DividendEvent] {
	return func(yield func(DividendEvent) bool) {
		for _, d := range l.dividends {
			if d.Ticker == ticker && !yield(d) {
				return
			}
		}
	}
}

// HasTicker reports whether ticker has been traded at least once.
func (l *Ledger) HasTicker(ticker string) bool {
	return slices.ContainsFunc(l.trades, func(t TradeEvent) bool { return t.Ticker == ticker })
}

// firstTrade returns the date of the earliest trade of ticker.
func (l *Ledger) firstTrade(ticker string) (date.Date, bool) {
	i := slices.IndexFunc(l.trades, func(t TradeEvent) bool { return t.Ticker == ticker })
	if i < 0 {
		return date.Date{}, false
	}
	return l.trades[i].Date, true
}

// Tickers returns every traded ticker, sorted.
func (l *Ledger) Tickers() []string {
	var tickers []string
	for _, t := range l.trades {
		if !slices.Contains(tickers, t.Ticker) {
			tickers = append(tickers, t.Ticker)
		}
	}
	slices.Sort(tickers)
	return tickers
}

// Project returns the position of ticker derived from the whole ledger.
func (l *Ledger) Project(ticker string) (Position, error) {
	return Project(ticker, l.TickerTrades(ticker), l.TickerDividends(ticker))
}

// ProjectAll returns the positions of every traded ticker, open and closed, sorted by ticker.
func (l *Ledger) ProjectAll() ([]Position, error) {
	tickers := l.Tickers()
	positions := make([]Position, 0, len(tickers))
	for _, t := range tickers {
		p, err := l.Project(t)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}
