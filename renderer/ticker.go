package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/stockgains"
)

// TickerMarkdown renders the position and valuation of a single ticker.
func TickerMarkdown(row stockgains.ValuationRow) string {
	var b strings.Builder
	p := row.Position

	fmt.Fprintf(&b, "# %s\n\n", row.Ticker)
	if name, ok := row.Name.Get(); ok {
		fmt.Fprintf(&b, "%s\n\n", name)
	}
	if p.IsClosed() {
		fmt.Fprint(&b, "The position is closed.\n\n")
	}

	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Volume | %s |\n", p.Volume)
	fmt.Fprintf(&b, "| Average Cost | %s |\n", p.AverageCost().Format(stockgains.Money.String))
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", p.CostBasis)
	if !p.IsClosed() {
		fmt.Fprintf(&b, "| Price | %s |\n", row.Price)
		fmt.Fprintf(&b, "| Market Value | %s |\n", row.MarketValue)
		fmt.Fprintf(&b, "| Unrealized Gain | %s |\n", row.UnrealizedGain.SignedString())
		fmt.Fprintf(&b, "| Gain | %s |\n", row.PctGain.Format(stockgains.Percent.SignedString))
	}
	fmt.Fprintf(&b, "| Realized Profit | %s |\n", p.RealizedProfit.SignedString())
	fmt.Fprintf(&b, "| Dividends | %s |\n", p.Dividends)
	fmt.Fprintf(&b, "| Brokerage | %s |\n", p.Brokerage())
	fmt.Fprintf(&b, "| Net Gain | %s |\n", row.NetGain.SignedString())
	fmt.Fprintf(&b, "| Net | %s |\n", row.PctNetGain.Format(stockgains.Percent.SignedString))
	return b.String()
}
