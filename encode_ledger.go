package stockgains

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON writes a trade as a JSONL ledger line.
func (t TradeEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Side.Command())
	w.Optional("id", t.ID)
	w.Append("date", t.Date)
	w.Append("ticker", t.Ticker)
	w.Append("price", t.Price)
	w.Append("volume", t.Volume)
	w.Append("brokerage", t.Brokerage)
	return w.MarshalJSON()
}

// MarshalJSON writes a dividend as a JSONL ledger line.
func (d DividendEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", CmdDividend)
	w.Optional("id", d.ID)
	w.Append("date", d.Date)
	w.Append("ticker", d.Ticker)
	w.Append("value", d.Value)
	return w.MarshalJSON()
}

// EncodeLedger writes every event of the ledger in chronological order, one JSON
// object per line.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	enc := json.NewEncoder(w)
	trades := slices.Collect(ledger.Trades())
	dividends := slices.Collect(ledger.Dividends())
	i, j := 0, 0
	for i < len(trades) || j < len(dividends) {
		var err error
		if j == len(dividends) || (i < len(trades) && !trades[i].Date.After(dividends[j].Date)) {
			err = enc.Encode(trades[i])
			i++
		} else {
			err = enc.Encode(dividends[j])
			j++
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ledgerLine has all the fields of any ledger line.
type ledgerLine struct {
	Command   CommandType     `json:"command"`
	ID        int64           `json:"id"`
	Date      string          `json:"date"`
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	Brokerage decimal.Decimal `json:"brokerage"`
	Value     decimal.Decimal `json:"value"`
}

// DecodeLedger reads a JSONL ledger, amounts are in currency.
//
// The events are replayed through the Ledger checks in chronological order, an
// invalid history (e.g. selling more than held) is rejected. Events receive new ids,
// the order of same-day events in the stream is kept.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	var trades []TradeEvent
	var dividends []DividendEvent
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var l ledgerLine
		if err := json.Unmarshal(lineBytes, &l); err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, ErrInvalidInput, err)
		}
		on, err := parseDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch l.Command {
		case CmdBuy, CmdSell:
			side := Buy
			if l.Command == CmdSell {
				side = Sell
			}
			t, err := NewTrade(l.Ticker, side, M(l.Price, currency), Q(l.Volume), M(l.Brokerage, currency), on)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			t.ID = int64(line)
			trades = append(trades, t)
		case CmdDividend:
			d, err := NewDividend(l.Ticker, M(l.Value, currency), on)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			d.ID = int64(line)
			dividends = append(dividends, d)
		default:
			return nil, fmt.Errorf("line %d: %w: unknown command %q", line, ErrInvalidInput, l.Command)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// the line number orders same-day events
	slices.SortStableFunc(trades, compareTrades)
	ledger := NewLedger()
	for _, t := range trades {
		t.ID = 0
		if _, err := ledger.AppendTrade(t); err != nil {
			return nil, err
		}
	}
	slices.SortStableFunc(dividends, compareDividends)
	for _, d := range dividends {
		d.ID = 0
		if _, err := ledger.AppendDividend(d); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}
