package stockgains

import (
	"fmt"
	"iter"
)

// Position is the state of a ticker derived from its ledger events with the
// weighted average cost method.
//
// A Position with a zero Volume is closed: its cost basis is zero but its realized
// profit, brokerage and dividends remain.
type Position struct {
	Ticker         string
	Volume         Quantity
	CostBasis      Money // includes buy brokerage of the shares still held
	BuyBrokerage   Money
	SellBrokerage  Money
	Dividends      Money
	RealizedProfit Money // net of sell brokerage
}

// Project folds the trades and dividends of ticker into a Position.
//
// trades must be in chronological order, as the Ledger iterators provide them.
// Events for other tickers are ignored. A sell exceeding the volume held means the
// history was corrupted outside of the Ledger checks, it is reported as an error.
func Project(ticker string, trades iter.Seq[TradeEvent], dividends iter.Seq[DividendEvent]) (Position, error) {
	p := Position{Ticker: ticker}
	for t := range trades {
		if t.Ticker != ticker {
			continue
		}
		if err := p.apply(t); err != nil {
			return Position{}, fmt.Errorf("corrupted ledger: %w", err)
		}
	}
	for d := range dividends {
		if d.Ticker == ticker {
			p.Dividends = p.Dividends.Add(d.Value)
		}
	}
	return p, nil
}

// apply updates p with trade t.
func (p *Position) apply(t TradeEvent) error {
	switch t.Side {
	case Buy:
		p.CostBasis = p.CostBasis.Add(t.Amount()).Add(t.Brokerage)
		p.Volume = p.Volume.Add(t.Volume)
		p.BuyBrokerage = p.BuyBrokerage.Add(t.Brokerage)
	case Sell:
		if t.Volume.GreaterThan(p.Volume) {
			return fmt.Errorf("%w: cannot sell %v %s on %s, only %v held", ErrInsufficientHoldings, t.Volume, t.Ticker, t.Date, p.Volume)
		}
		// released = avgCost × v, computed as cost × v / volume to stay exact.
		released := p.CostBasis.Scale(t.Volume.value, p.Volume.value)
		p.RealizedProfit = p.RealizedProfit.Add(t.Amount().Sub(released).Sub(t.Brokerage))
		p.CostBasis = p.CostBasis.Sub(released)
		p.Volume = p.Volume.Sub(t.Volume)
		p.SellBrokerage = p.SellBrokerage.Add(t.Brokerage)
		if p.Volume.IsZero() {
			// no residual dust on a closed position
			p.CostBasis = Money{cur: p.CostBasis.cur}
		}
	default:
		return fmt.Errorf("%w: unknown side %q", ErrInvalidInput, t.Side)
	}
	return nil
}

// IsClosed reports whether the position holds no share.
func (p Position) IsClosed() bool { return p.Volume.IsZero() }

// AverageCost returns the cost basis per share, unknown for a closed position.
func (p Position) AverageCost() Opt[Money] {
	if p.IsClosed() {
		return None[Money]()
	}
	return Some(p.CostBasis.Div(p.Volume))
}

// Brokerage returns the total brokerage paid on the ticker.
func (p Position) Brokerage() Money { return p.BuyBrokerage.Add(p.SellBrokerage) }

// Equal reports whether p and q hold the same values.
func (p Position) Equal(q Position) bool {
	return p.Ticker == q.Ticker &&
		p.Volume.Equal(q.Volume) &&
		p.CostBasis.Equal(q.CostBasis) &&
		p.BuyBrokerage.Equal(q.BuyBrokerage) &&
		p.SellBrokerage.Equal(q.SellBrokerage) &&
		p.Dividends.Equal(q.Dividends) &&
		p.RealizedProfit.Equal(q.RealizedProfit)
}
