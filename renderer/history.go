package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/stockgains"
)

// HistoryMarkdown renders the events of a history, trades and dividends merged in
// chronological order.
func HistoryMarkdown(h *stockgains.History) string {
	var b strings.Builder

	title := "History"
	if h.Ticker != "" {
		title = "History for " + h.Ticker
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if r := h.Range.String(); r != ".." {
		fmt.Fprintf(&b, "Range: %s\n\n", r)
	}
	if len(h.Trades) == 0 && len(h.Dividends) == 0 {
		fmt.Fprint(&b, "No events.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | ID | Event | Ticker | Volume | Price | Brokerage | Amount |")
	fmt.Fprintln(&b, "|:---|---:|:---|:---|---:|---:|---:|---:|")
	i, j := 0, 0
	for i < len(h.Trades) || j < len(h.Dividends) {
		if j == len(h.Dividends) || (i < len(h.Trades) && !h.Trades[i].Date.After(h.Dividends[j].Date)) {
			t := h.Trades[i]
			amount := t.Amount()
			if t.Side == stockgains.Sell {
				amount = amount.Neg()
			}
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s |\n",
				t.Date, t.ID, t.Side.Command(), t.Ticker, t.Volume, t.Price, t.Brokerage, amount.SignedString())
			i++
			continue
		}
		d := h.Dividends[j]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | | | | %s |\n",
			d.Date, d.ID, stockgains.CmdDividend, d.Ticker, d.Value.SignedString())
		j++
	}
	return b.String()
}

// TargetsMarkdown renders the target allocation.
func TargetsMarkdown(t stockgains.Targets) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Targets\n\n")
	if !t.IsSet() {
		fmt.Fprint(&b, "No targets are set.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Bucket | Target |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, bucket := range t.Buckets() {
		fmt.Fprintf(&b, "| %s | %s |\n", bucket.Name(), bucket.Percent())
	}
	fmt.Fprintf(&b, "| *Unallocated* | %s |\n", stockgains.Percent(t.Unallocated().InexactFloat64()))
	return b.String()
}
