package stockgains

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecodeLedger(t *testing.T) {
	jsonlStream := `
{"command":"buy","date":"2024-01-10","ticker":"vas.ax","price":90,"volume":100,"brokerage":9.5}
{"command":"dividend","date":"2024-04-01","ticker":"VAS.AX","value":120.4}
{"command":"sell","date":"2024-03-15","ticker":"VAS.AX","price":95,"volume":40,"brokerage":9.5}
{"command":"buy","date":"2024-03-15","ticker":"NDQ.AX","price":40.25,"volume":10}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream), "AUD")
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if got := ledger.Len(); got != 4 {
		t.Fatalf("ledger.Len() = %d, want 4", got)
	}
	var order []string
	for tr := range ledger.Trades() {
		order = append(order, string(tr.Side)+" "+tr.Ticker)
	}
	// same-day events keep the stream order
	want := []string{"BUY VAS.AX", "SELL VAS.AX", "BUY NDQ.AX"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("trades order = %v, want %v", order, want)
	}

	p := mustProject(t, ledger, "VAS.AX")
	if !p.Volume.Equal(Q(60)) {
		t.Errorf("VAS.AX volume = %v, want 60", p.Volume)
	}
	if !p.Dividends.Equal(AUD(120.4)) {
		t.Errorf("VAS.AX dividends = %v, want 120.4", p.Dividends.Decimal())
	}
	if p := mustProject(t, ledger, "NDQ.AX"); !p.BuyBrokerage.IsZero() {
		t.Errorf("NDQ.AX brokerage = %v, want 0", p.BuyBrokerage.Decimal())
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		stream  string
		wantErr error
	}{
		{
			name: "oversell",
			stream: `{"command":"buy","date":"2024-01-10","ticker":"A","price":1,"volume":10}
{"command":"sell","date":"2024-01-11","ticker":"A","price":1,"volume":11}`,
			wantErr: ErrInsufficientHoldings,
		},
		{
			name:    "dividend before any trade",
			stream:  `{"command":"dividend","date":"2024-01-10","ticker":"A","value":1}`,
			wantErr: ErrUnknownTicker,
		},
		{
			name: "dividend before the first buy",
			stream: `{"command":"dividend","date":"2024-01-09","ticker":"A","value":1}
{"command":"buy","date":"2024-01-10","ticker":"A","price":1,"volume":10}`,
			wantErr: ErrUnknownTicker,
		},
		{
			name:    "unknown command",
			stream:  `{"command":"deposit","date":"2024-01-10","value":1}`,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad date",
			stream:  `{"command":"buy","date":"10/01/2024","ticker":"A","price":1,"volume":10}`,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "fractional volume",
			stream:  `{"command":"buy","date":"2024-01-10","ticker":"A","price":1,"volume":1.5}`,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "not json",
			stream:  `buy A 10`,
			wantErr: ErrInvalidInput,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tc.stream), "AUD")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("DecodeLedger() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	ledger := mustAppend(t,
		trade(t, "2024-01-10", Buy, "VAS.AX", 100, 90, 9.5),
		trade(t, "2024-03-15", Sell, "VAS.AX", 40, 95, 9.5),
	)
	if _, err := ledger.AppendDividend(dividend(t, "2024-02-01", "VAS.AX", 120.4)); err != nil {
		t.Fatalf("AppendDividend() error = %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	want := `{"command":"buy","id":1,"date":"2024-01-10","ticker":"VAS.AX","price":90,"volume":100,"brokerage":9.5}
{"command":"dividend","id":3,"date":"2024-02-01","ticker":"VAS.AX","value":120.4}
{"command":"sell","id":2,"date":"2024-03-15","ticker":"VAS.AX","price":95,"volume":40,"brokerage":9.5}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeLedger() =\n%s\nwant\n%s", got, want)
	}

	decoded, err := DecodeLedger(&buf, "AUD")
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	before, _ := ledger.ProjectAll()
	after, _ := decoded.ProjectAll()
	if len(before) != len(after) {
		t.Fatalf("decoded ledger has %d positions, want %d", len(after), len(before))
	}
	for i := range before {
		if !before[i].Equal(after[i]) {
			t.Errorf("decoded position = %+v, want %+v", after[i], before[i])
		}
	}
}
