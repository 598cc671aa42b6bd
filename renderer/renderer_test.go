package renderer

import (
	"slices"
	"strings"
	"testing"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
)

// parseTables returns the cells of every table in md, header row first.
func parseTables(t *testing.T, md string) [][][]string {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(gtext.NewReader(src))
	var tables [][][]string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			tables = append(tables, nil)
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, cellText(c, src))
			}
			tables[len(tables)-1] = append(tables[len(tables)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return tables
}

func cellText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func aud(v float64) stockgains.Money { return stockgains.M(v, "AUD") }

func price(ticker string, v float64) stockgains.Quote {
	return stockgains.Quote{Ticker: ticker, Price: stockgains.Some(aud(v))}
}

func testValuation(t *testing.T) *stockgains.Valuation {
	t.Helper()
	positions := []stockgains.Position{
		{Ticker: "ABC", Volume: stockgains.Q(10), CostBasis: aud(1000), BuyBrokerage: aud(10)},
		{Ticker: "OLD", RealizedProfit: aud(50), Dividends: aud(5), BuyBrokerage: aud(5), SellBrokerage: aud(5)},
		{Ticker: "XYZ", Volume: stockgains.Q(10), CostBasis: aud(500)},
	}
	abc := price("ABC", 110)
	abc.FullName = stockgains.Some("Abc Corp")
	quotes := stockgains.Quotes{"ABC": abc, "XYZ": price("XYZ", 40)}
	v, err := stockgains.NewValuation(positions, quotes)
	if err != nil {
		t.Fatalf("NewValuation() error = %v", err)
	}
	return v
}

func TestRenderValuation(t *testing.T) {
	md := RenderValuation(testValuation(t))
	tables := parseTables(t, md)
	if len(tables) != 2 {
		t.Fatalf("RenderValuation() has %d tables, want 2:\n%s", len(tables), md)
	}

	want := [][]string{
		{"ABC", "Abc Corp", "10", "A$100.00", "A$110.00", "A$1,100.00", "A$1,000.00", "+A$100.00", "+10.00%", "A$0.00", "+A$90.00", "+9.00%"},
		{"XYZ", "N/A", "10", "A$50.00", "A$40.00", "A$400.00", "A$500.00", "-A$100.00", "-20.00%", "A$0.00", "-A$100.00", "-20.00%"},
		{"Total", "", "", "", "", "A$1,500.00", "A$1,500.00", "-", "-", "A$0.00", "-A$10.00", "-0.67%"},
	}
	if got := tables[0][1:]; !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("valuation rows =\n%q\nwant\n%q", got, want)
	}

	closed := []string{"+A$50.00", "A$5.00", "A$10.00", "+A$45.00"}
	if got := tables[1][1]; !slices.Equal(got, closed) {
		t.Errorf("closed positions = %q, want %q", got, closed)
	}
	if !strings.Contains(md, "OLD") {
		t.Errorf("RenderValuation() does not list the closed ticker:\n%s", md)
	}
	if !strings.Contains(md, "**+A$35.00**") {
		t.Errorf("RenderValuation() total net gain missing:\n%s", md)
	}
}

func TestRenderValuation_NoClosedPositions(t *testing.T) {
	v := testValuation(t)
	v.Closed = stockgains.ClosedPositions{}
	md := RenderValuation(v)
	if strings.Contains(md, "Closed Positions") {
		t.Errorf("RenderValuation() renders an empty closed section:\n%s", md)
	}
	if got := len(parseTables(t, md)); got != 1 {
		t.Errorf("RenderValuation() has %d tables, want 1", got)
	}
}

func TestTickerMarkdown(t *testing.T) {
	v := testValuation(t)
	row, _ := v.Row("ABC")
	md := TickerMarkdown(row)
	if !strings.HasPrefix(md, "# ABC\n\nAbc Corp") {
		t.Errorf("TickerMarkdown() title =\n%s", md)
	}
	fields := make(map[string]string)
	for _, r := range parseTables(t, md)[0][1:] {
		fields[r[0]] = r[1]
	}
	want := map[string]string{
		"Volume":       "10",
		"Average Cost": "A$100.00",
		"Market Value": "A$1,100.00",
		"Brokerage":    "A$10.00",
		"Net Gain":     "+A$90.00",
		"Net":          "+9.00%",
	}
	for k, w := range want {
		if fields[k] != w {
			t.Errorf("TickerMarkdown() %s = %q, want %q", k, fields[k], w)
		}
	}

	closed := stockgains.Valuate(stockgains.Position{Ticker: "OLD", RealizedProfit: aud(50)}, aud(0))
	md = TickerMarkdown(closed)
	fields = make(map[string]string)
	for _, r := range parseTables(t, md)[0][1:] {
		fields[r[0]] = r[1]
	}
	if _, ok := fields["Market Value"]; ok {
		t.Errorf("TickerMarkdown() of a closed position has a market value:\n%s", md)
	}
	if fields["Average Cost"] != "N/A" || fields["Net"] != "N/A" {
		t.Errorf("TickerMarkdown() of a closed position = %v, want N/A average cost and net", fields)
	}
}

func TestRenderRebalance(t *testing.T) {
	a, _ := stockgains.ParseBucket("A=60")
	b, _ := stockgains.ParseBucket("B=40")
	targets, err := stockgains.NewTargets(a, b)
	if err != nil {
		t.Fatalf("NewTargets() error = %v", err)
	}
	r, err := stockgains.ComputeRebalance(targets, map[string]stockgains.Money{"A": aud(9000), "B": aud(1000)}, stockgains.None[stockgains.Money]())
	if err != nil {
		t.Fatalf("ComputeRebalance() error = %v", err)
	}

	report := &stockgains.RebalanceReport{Rebalance: r}
	md := RenderRebalance(report)
	if !strings.Contains(md, "Anchored on **A**") {
		t.Errorf("RenderRebalance() does not name the anchor:\n%s", md)
	}
	if strings.Contains(md, "Market Indicators") {
		t.Errorf("RenderRebalance() renders indicators without any:\n%s", md)
	}
	tables := parseTables(t, md)
	want := [][]string{
		{"A", "60.00%", "A$9,000.00", "90.00%", "+50.00%", "A$9,000.00", "-"},
		{"B", "40.00%", "A$1,000.00", "10.00%", "-75.00%", "A$6,000.00", "+A$5,000.00"},
		{"Total", "", "A$10,000.00", "", "", "A$15,000.00", ""},
	}
	if got := tables[0][1:]; !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("rebalance rows =\n%q\nwant\n%q", got, want)
	}

	q := price("A", 100)
	q.FiftyTwoWeekHigh = stockgains.Some(aud(125))
	report.Indicators = []stockgains.Indicators{stockgains.NewIndicators(q)}
	md = RenderRebalance(report)
	tables = parseTables(t, md)
	if len(tables) != 2 {
		t.Fatalf("RenderRebalance() has %d tables, want 2:\n%s", len(tables), md)
	}
	indicators := []string{"A", "A$100.00", "N/A", "N/A", "N/A", "-20.00%", "N/A", "N/A", "N/A"}
	if got := tables[1][1]; !slices.Equal(got, indicators) {
		t.Errorf("indicators = %q, want %q", got, indicators)
	}
}

func TestExposureMarkdown(t *testing.T) {
	md := ExposureMarkdown(stockgains.NewExposure(testValuation(t)))
	rows := parseTables(t, md)[0][1:]
	want := [][]string{
		{"ABC", "Abc Corp", "A$1,100.00", "73.33%", "A$1,000.00", "66.67%"},
		{"XYZ", "N/A", "A$400.00", "26.67%", "A$500.00", "33.33%"},
		{"Total", "", "A$1,500.00", "", "A$1,500.00", ""},
	}
	if !slices.EqualFunc(rows, want, slices.Equal) {
		t.Errorf("exposure rows =\n%q\nwant\n%q", rows, want)
	}
}

func TestDividendEstimateMarkdown(t *testing.T) {
	abc := price("ABC", 110)
	abc.Yield = stockgains.Some[stockgains.Percent](4)
	e := stockgains.NewDividendEstimate(testValuation(t), stockgains.Quotes{"ABC": abc})
	rows := parseTables(t, DividendEstimateMarkdown(e))[0][1:]
	want := [][]string{
		{"ABC", "Abc Corp", "A$1,100.00", "4.00%", "A$44.00"},
		{"XYZ", "N/A", "A$400.00", "N/A", "N/A"},
		{"Total", "", "A$1,500.00", "4.00%", "A$44.00"},
	}
	if !slices.EqualFunc(rows, want, slices.Equal) {
		t.Errorf("estimate rows =\n%q\nwant\n%q", rows, want)
	}
}

func TestPerformanceMarkdown(t *testing.T) {
	abc := price("ABC", 110)
	abc.YTDReturn = stockgains.Some[stockgains.Percent](12.5)
	abc.PERatio = stockgains.Some(18.25)
	p := stockgains.NewPerformance(testValuation(t), stockgains.Quotes{"ABC": abc})
	rows := parseTables(t, PerformanceMarkdown(p))[0][1:]
	want := [][]string{
		{"ABC", "Abc Corp", "A$1,100.00", "+12.50%", "N/A", "N/A", "18.25"},
		{"XYZ", "N/A", "A$400.00", "N/A", "N/A", "N/A", "N/A"},
		{"Average", "", "", "+12.50%", "N/A", "N/A", "18.25"},
	}
	if !slices.EqualFunc(rows, want, slices.Equal) {
		t.Errorf("performance rows =\n%q\nwant\n%q", rows, want)
	}
}

func TestGrowthMarkdown(t *testing.T) {
	on := date.New(2024, 6, 30)
	closes := new(date.History[stockgains.Money])
	closes.Append(date.New(2023, 12, 29), aud(100))
	closes.Append(date.New(2024, 6, 28), aud(110))
	row := stockgains.NewGrowthRow("ABC", closes, on)
	g := &stockgains.Growth{
		On:      on,
		Periods: []date.Period{date.YTD, date.FiveYears},
		Rows:    []stockgains.GrowthRow{row},
		Average: row.Returns,
	}
	md := GrowthMarkdown(g)
	tables := parseTables(t, md)
	want := [][]string{
		{"Ticker", "YTD", "5Y"},
		{"ABC (closed)", "+10.00%", "N/A"},
		{"Average", "+10.00%", "N/A"},
	}
	if !slices.EqualFunc(tables[0], want, slices.Equal) {
		t.Errorf("growth table =\n%q\nwant\n%q", tables[0], want)
	}
}

func TestIndicesMarkdown(t *testing.T) {
	q := stockgains.Quote{
		Ticker:   "^GSPC",
		FullName: stockgains.Some("S&P 500"),
		Currency: stockgains.Some("USD"),
		Price:    stockgains.Some(aud(5000.5)),
	}
	rows := parseTables(t, IndicesMarkdown([]stockgains.Indicators{stockgains.NewIndicators(q)}))[0][1:]
	want := [][]string{{"^GSPC", "S&P 500", "5000.50", "USD", "N/A", "N/A", "N/A", "N/A", "N/A"}}
	if !slices.EqualFunc(rows, want, slices.Equal) {
		t.Errorf("indices rows =\n%q\nwant\n%q", rows, want)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	buy, err := stockgains.ParseTrade("abc", "buy", "10", "100", "5", "2024-01-10", "AUD")
	if err != nil {
		t.Fatal(err)
	}
	sell, err := stockgains.ParseTrade("abc", "sell", "12", "50", "5", "2024-03-01", "AUD")
	if err != nil {
		t.Fatal(err)
	}
	div, err := stockgains.ParseDividend("abc", "20", "2024-02-01", "AUD")
	if err != nil {
		t.Fatal(err)
	}
	buy.ID, sell.ID, div.ID = 1, 3, 2
	h := &stockgains.History{
		Ticker:    "ABC",
		Trades:    []stockgains.TradeEvent{buy, sell},
		Dividends: []stockgains.DividendEvent{div},
	}
	md := HistoryMarkdown(h)
	if !strings.HasPrefix(md, "# History for ABC\n\n|") {
		t.Errorf("HistoryMarkdown() title =\n%s", md)
	}
	want := [][]string{
		{"2024-01-10", "1", "buy", "ABC", "100", "A$10.00", "A$5.00", "+A$1,000.00"},
		{"2024-02-01", "2", "dividend", "ABC", "", "", "", "+A$20.00"},
		{"2024-03-01", "3", "sell", "ABC", "50", "A$12.00", "A$5.00", "-A$600.00"},
	}
	if got := parseTables(t, md)[0][1:]; !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("history rows =\n%q\nwant\n%q", got, want)
	}

	if md := HistoryMarkdown(&stockgains.History{}); !strings.Contains(md, "No events.") {
		t.Errorf("HistoryMarkdown() of an empty history =\n%s", md)
	}
}

func TestTargetsMarkdown(t *testing.T) {
	if md := TargetsMarkdown(stockgains.Targets{}); !strings.Contains(md, "No targets are set.") {
		t.Errorf("TargetsMarkdown() of unset targets =\n%s", md)
	}
	a, _ := stockgains.ParseBucket("A+B=60")
	targets, err := stockgains.NewTargets(a)
	if err != nil {
		t.Fatalf("NewTargets() error = %v", err)
	}
	want := [][]string{{"A+B", "60.00%"}, {"Unallocated", "40.00%"}}
	if got := parseTables(t, TargetsMarkdown(targets))[0][1:]; !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("targets rows = %q, want %q", got, want)
	}
}
