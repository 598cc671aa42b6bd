package stockgains

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/stockgains/date"
)

func TestParseTrade(t *testing.T) {
	testCases := []struct {
		name                               string
		side, price, volume, brokerage, on string
		wantErr                            error
	}{
		{name: "valid", side: "buy", price: "100", volume: "10", brokerage: "5", on: "2024-01-10"},
		{name: "no brokerage", side: "sell", price: "100", volume: "10", brokerage: "", on: "2024-01-10"},
		{name: "zero price", side: "buy", price: "0", volume: "10", brokerage: "5", on: "2024-01-10", wantErr: ErrInvalidInput},
		{name: "negative price", side: "buy", price: "-1", volume: "10", brokerage: "5", on: "2024-01-10", wantErr: ErrInvalidInput},
		{name: "zero volume", side: "buy", price: "100", volume: "0", brokerage: "5", on: "2024-01-10", wantErr: ErrInvalidInput},
		{name: "fractional volume", side: "buy", price: "100", volume: "1.5", brokerage: "5", on: "2024-01-10", wantErr: ErrInvalidInput},
		{name: "negative brokerage", side: "buy", price: "100", volume: "10", brokerage: "-5", on: "2024-01-10", wantErr: ErrInvalidInput},
		{name: "bad date", side: "buy", price: "100", volume: "10", brokerage: "5", on: "10/01/2024", wantErr: ErrInvalidInput},
		{name: "bad side", side: "hold", price: "100", volume: "10", brokerage: "5", on: "2024-01-10", wantErr: ErrInvalidInput},
		{name: "not a number", side: "buy", price: "abc", volume: "10", brokerage: "5", on: "2024-01-10", wantErr: ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTrade("abc.ax", tc.side, tc.price, tc.volume, tc.brokerage, tc.on, "AUD")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ParseTrade() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLedger_AppendTrade_InsufficientHoldings(t *testing.T) {
	ledger := mustAppend(t, trade(t, "2024-01-10", Buy, "ABC", 50, 10, 0))
	before := mustProject(t, ledger, "ABC")

	_, err := ledger.AppendTrade(trade(t, "2024-02-10", Sell, "ABC", 100, 12, 0))
	if !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("AppendTrade(sell 100) error = %v, want %v", err, ErrInsufficientHoldings)
	}
	if ledger.Len() != 1 {
		t.Errorf("ledger.Len() = %d after a rejected sell, want 1", ledger.Len())
	}
	if after := mustProject(t, ledger, "ABC"); !after.Equal(before) {
		t.Errorf("Project() = %+v after a rejected sell, want %+v", after, before)
	}
}

func TestLedger_AppendTrade_BackdatedSell(t *testing.T) {
	ledger := mustAppend(t, trade(t, "2024-03-01", Buy, "ABC", 50, 10, 0))

	// 50 shares are held today, but none on 2024-02-01
	_, err := ledger.AppendTrade(trade(t, "2024-02-01", Sell, "ABC", 10, 12, 0))
	if !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("AppendTrade(backdated sell) error = %v, want %v", err, ErrInsufficientHoldings)
	}
	// but selling other shares the same day as the buy is fine
	if _, err := ledger.AppendTrade(trade(t, "2024-03-01", Sell, "ABC", 50, 12, 0)); err != nil {
		t.Fatalf("AppendTrade(same day sell) error = %v", err)
	}
}

func TestLedger_AppendDividend(t *testing.T) {
	ledger := mustAppend(t,
		trade(t, "2024-01-10", Buy, "ABC", 10, 10, 0),
		trade(t, "2024-02-10", Sell, "ABC", 10, 12, 0),
	)
	testCases := []struct {
		name    string
		div     DividendEvent
		wantErr error
	}{
		{name: "never traded", div: dividend(t, "2024-03-01", "XYZ", 10), wantErr: ErrUnknownTicker},
		{name: "closed position", div: dividend(t, "2024-03-01", "ABC", 10)},
		{name: "same day as the first buy", div: dividend(t, "2024-01-10", "ABC", 10)},
		{name: "before the first buy", div: dividend(t, "2024-01-09", "ABC", 10), wantErr: ErrUnknownTicker},
		{name: "negative", div: DividendEvent{Ticker: "ABC", Date: date.MustParse("2024-03-01"), Value: AUD(-1)}, wantErr: ErrInvalidInput},
		{name: "no date", div: DividendEvent{Ticker: "ABC", Value: AUD(1)}, wantErr: ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := ledger.Len()
			_, err := ledger.AppendDividend(tc.div)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("AppendDividend() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil && ledger.Len() != n {
				t.Errorf("ledger.Len() = %d after a rejected dividend, want %d", ledger.Len(), n)
			}
		})
	}
}

func TestLedger_Order(t *testing.T) {
	ledger := mustAppend(t,
		trade(t, "2024-02-01", Buy, "B", 1, 10, 0),
		trade(t, "2024-01-01", Buy, "A", 1, 10, 0),
		trade(t, "2024-02-01", Buy, "C", 1, 10, 0),
	)
	var got []string
	for tr := range ledger.Trades() {
		got = append(got, tr.Ticker)
	}
	// same day events keep their insertion order
	if want := []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("Trades() = %v, want %v", got, want)
	}
	// the sequence can be restarted
	if n := len(slices.Collect(ledger.Trades())); n != 3 {
		t.Errorf("second iteration of Trades() yields %d trades, want 3", n)
	}
	if got, want := ledger.Tickers(), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}
