package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/stockgains"
)

// GrowthMarkdown renders the price returns of every traded ticker.
func GrowthMarkdown(g *stockgains.Growth) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Growth on %s\n\n", g.On)
	fmt.Fprint(&b, "| Ticker |")
	for _, p := range g.Periods {
		fmt.Fprintf(&b, " %s |", strings.ToUpper(p.String()))
	}
	fmt.Fprint(&b, "\n|:---|")
	for range g.Periods {
		fmt.Fprint(&b, "---:|")
	}
	fmt.Fprintln(&b)
	for _, r := range g.Rows {
		ticker := r.Ticker
		if !r.Held {
			ticker += " (closed)"
		}
		fmt.Fprintf(&b, "| %s |", ticker)
		for _, p := range g.Periods {
			fmt.Fprintf(&b, " %s |", r.Returns[p].Format(stockgains.Percent.SignedString))
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprint(&b, "| **Average** |")
	for _, p := range g.Periods {
		fmt.Fprintf(&b, " **%s** |", g.Average[p].Format(stockgains.Percent.SignedString))
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, "\nMulti-year returns are annualized.\n")
	return b.String()
}

// IndicesMarkdown renders the indicators of market indices. Their price is in the
// quote currency, so it is printed as a plain number.
func IndicesMarkdown(indices []stockgains.Indicators) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Market Indices\n\n")
	fmt.Fprintln(&b, "| Index | Name | Price | Currency | 52wk Change | From 52wk High | From 52wk Low | From 50d Avg | From 200d Avg |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|---:|---:|---:|---:|---:|")
	for _, i := range indices {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			i.Ticker,
			text(i.Name),
			i.Price.Format(func(m stockgains.Money) string { return m.Decimal().StringFixed(2) }),
			text(i.Currency),
			i.FiftyTwoWeekChange.Format(stockgains.Percent.SignedString),
			i.FromFiftyTwoWeekHigh.Format(stockgains.Percent.SignedString),
			i.FromFiftyTwoWeekLow.Format(stockgains.Percent.SignedString),
			i.FromFiftyDayAvg.Format(stockgains.Percent.SignedString),
			i.FromTwoHundredDayAvg.Format(stockgains.Percent.SignedString),
		)
	}
	return b.String()
}
