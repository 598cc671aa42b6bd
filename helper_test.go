package stockgains

import (
	"testing"

	"github.com/etnz/stockgains/date"
)

// AUD is a helper for test to create money from const.
func AUD(v float64) Money { return M(v, "AUD") }

// trade is a helper for test to create a valid trade.
func trade(t *testing.T, on string, side Side, ticker string, volume int64, price, brokerage float64) TradeEvent {
	t.Helper()
	tr, err := NewTrade(ticker, side, AUD(price), Q(volume), AUD(brokerage), date.MustParse(on))
	if err != nil {
		t.Fatalf("NewTrade() error = %v", err)
	}
	return tr
}

// dividend is a helper for test to create a valid dividend.
func dividend(t *testing.T, on string, ticker string, value float64) DividendEvent {
	t.Helper()
	d, err := NewDividend(ticker, AUD(value), date.MustParse(on))
	if err != nil {
		t.Fatalf("NewDividend() error = %v", err)
	}
	return d
}

// mustAppend appends trades to a new ledger.
func mustAppend(t *testing.T, trades ...TradeEvent) *Ledger {
	t.Helper()
	ledger := NewLedger()
	for _, tr := range trades {
		if _, err := ledger.AppendTrade(tr); err != nil {
			t.Fatalf("AppendTrade(%v) error = %v", tr, err)
		}
	}
	return ledger
}

func mustProject(t *testing.T, ledger *Ledger, ticker string) Position {
	t.Helper()
	p, err := ledger.Project(ticker)
	if err != nil {
		t.Fatalf("Project(%q) error = %v", ticker, err)
	}
	return p
}
