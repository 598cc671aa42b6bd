package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/stockgains"
)

// ExposureMarkdown renders the weight of every open position.
func ExposureMarkdown(e *stockgains.Exposure) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Exposure\n\n")
	fmt.Fprintln(&b, "| Ticker | Name | Market Value | Weight | Cost Basis | Weight at Cost |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, r := range e.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			r.Ticker,
			text(r.Name),
			r.MarketValue,
			r.PctValue.Format(stockgains.Percent.String),
			r.CostBasis,
			r.PctCost.Format(stockgains.Percent.String),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | | **%s** | |\n", e.MarketValue, e.CostBasis)
	return b.String()
}

// DividendEstimateMarkdown renders the estimated yearly dividends.
func DividendEstimateMarkdown(e *stockgains.DividendEstimate) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Dividend Estimate\n\n")
	fmt.Fprintln(&b, "| Ticker | Name | Market Value | Yield | Estimate |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for _, r := range e.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Ticker,
			text(r.Name),
			r.MarketValue,
			r.Yield.Format(stockgains.Percent.String),
			r.Estimate.Format(stockgains.Money.String),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** | **%s** |\n",
		e.MarketValue,
		e.AverageYield.Format(stockgains.Percent.String),
		e.Estimate,
	)
	return b.String()
}

// PerformanceMarkdown renders the returns reported for every open position.
func PerformanceMarkdown(p *stockgains.Performance) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Performance\n\n")
	fmt.Fprintln(&b, "| Ticker | Name | Market Value | YTD | 3Y | 5Y | P/E |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
	for _, r := range p.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Ticker,
			text(r.Name),
			r.MarketValue,
			r.YTDReturn.Format(stockgains.Percent.SignedString),
			r.ThreeYearReturn.Format(stockgains.Percent.SignedString),
			r.FiveYearReturn.Format(stockgains.Percent.SignedString),
			ratio(r.PERatio),
		)
	}
	fmt.Fprintf(&b, "| **Average** | | | **%s** | **%s** | **%s** | **%s** |\n",
		p.YTDReturn.Format(stockgains.Percent.SignedString),
		p.ThreeYearReturn.Format(stockgains.Percent.SignedString),
		p.FiveYearReturn.Format(stockgains.Percent.SignedString),
		ratio(p.PERatio),
	)
	return b.String()
}

func text(o stockgains.Opt[string]) string {
	return o.Format(func(s string) string { return s })
}
