package stockgains

import (
	"fmt"
	"strings"

	"github.com/etnz/stockgains/date"
)

// CommandType is a typed string for identifying ledger events in the JSONL format.
type CommandType string

// Command types used for identifying ledger events.
const (
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdDividend CommandType = "dividend"
)

// Side of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide parses "buy" or "sell", case insensitive.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(s)) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidInput, s)
	}
}

// Command returns the JSONL command of the side.
func (s Side) Command() CommandType {
	if s == Sell {
		return CmdSell
	}
	return CmdBuy
}

// TradeEvent records a buy or a sell of a ticker.
//
// Events are immutable once appended, ID is assigned by the ledger.
type TradeEvent struct {
	ID        int64
	Ticker    string
	Side      Side
	Price     Money    // per share, strictly positive
	Volume    Quantity // whole shares, strictly positive
	Brokerage Money    // fee paid for the trade
	Date      date.Date
}

// NewTrade returns a validated, not yet recorded, trade.
func NewTrade(ticker string, side Side, price Money, volume Quantity, brokerage Money, on date.Date) (TradeEvent, error) {
	t := TradeEvent{
		Ticker:    normalizeTicker(ticker),
		Side:      side,
		Price:     price,
		Volume:    volume,
		Brokerage: brokerage,
		Date:      on,
	}
	return t, t.Validate()
}

// ParseTrade builds a trade from raw text values as typed on the command line.
func ParseTrade(ticker, side, price, volume, brokerage, on, currency string) (TradeEvent, error) {
	s, err := ParseSide(side)
	if err != nil {
		return TradeEvent{}, err
	}
	p, err := ParseMoney(price, currency)
	if err != nil {
		return TradeEvent{}, err
	}
	v, err := ParseQuantity(volume)
	if err != nil {
		return TradeEvent{}, err
	}
	if brokerage == "" {
		brokerage = "0"
	}
	b, err := ParseMoney(brokerage, currency)
	if err != nil {
		return TradeEvent{}, err
	}
	d, err := parseDate(on)
	if err != nil {
		return TradeEvent{}, err
	}
	return NewTrade(ticker, s, p, v, b, d)
}

// Validate checks the intrinsic constraints of a trade, independently of the ledger.
func (t TradeEvent) Validate() error {
	if t.Ticker == "" {
		return fmt.Errorf("%w: ticker is missing", ErrInvalidInput)
	}
	if t.Side != Buy && t.Side != Sell {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidInput, t.Side)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, t.Price.Decimal())
	}
	if err := t.Volume.validateVolume(); err != nil {
		return err
	}
	if t.Brokerage.IsNegative() {
		return fmt.Errorf("%w: brokerage cannot be negative, got %v", ErrInvalidInput, t.Brokerage.Decimal())
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is missing", ErrInvalidInput)
	}
	return nil
}

// Amount returns price × volume, brokerage excluded.
func (t TradeEvent) Amount() Money { return t.Price.Mul(t.Volume) }

// DividendEvent records a dividend received for a ticker.
type DividendEvent struct {
	ID     int64
	Ticker string
	Date   date.Date
	Value  Money // total amount received, not per share
}

// NewDividend returns a validated, not yet recorded, dividend.
func NewDividend(ticker string, value Money, on date.Date) (DividendEvent, error) {
	d := DividendEvent{Ticker: normalizeTicker(ticker), Date: on, Value: value}
	return d, d.Validate()
}

// ParseDividend builds a dividend from raw text values.
func ParseDividend(ticker, value, on, currency string) (DividendEvent, error) {
	v, err := ParseMoney(value, currency)
	if err != nil {
		return DividendEvent{}, err
	}
	d, err := parseDate(on)
	if err != nil {
		return DividendEvent{}, err
	}
	return NewDividend(ticker, v, d)
}

// Validate checks the intrinsic constraints of a dividend.
func (d DividendEvent) Validate() error {
	if d.Ticker == "" {
		return fmt.Errorf("%w: ticker is missing", ErrInvalidInput)
	}
	if d.Value.IsNegative() {
		return fmt.Errorf("%w: dividend cannot be negative, got %v", ErrInvalidInput, d.Value.Decimal())
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is missing", ErrInvalidInput)
	}
	return nil
}

func parseDate(s string) (date.Date, error) {
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return d, nil
}

// tickers are case insensitive, stored upper case.
func normalizeTicker(t string) string { return strings.ToUpper(strings.TrimSpace(t)) }
