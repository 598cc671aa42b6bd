package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/stockgains"
)

//go:embed *.md
var templates embed.FS

// funcs are the formatting helpers available in templates. Unknown values render as N/A.
var funcs = template.FuncMap{
	"str":   func(o stockgains.Opt[string]) string { return o.Format(func(s string) string { return s }) },
	"money": func(o stockgains.Opt[stockgains.Money]) string { return o.Format(stockgains.Money.String) },
	"pct":   func(o stockgains.Opt[stockgains.Percent]) string { return o.Format(stockgains.Percent.String) },
	"spct":  func(o stockgains.Opt[stockgains.Percent]) string { return o.Format(stockgains.Percent.SignedString) },
	"ratio": ratio,
	"join":  strings.Join,
}

// RenderValuation renders the valuation of the whole portfolio.
func RenderValuation(v *stockgains.Valuation) string {
	partials := map[string]string{
		"valuation_rows":   "valuation_rows.md",
		"valuation_closed": "valuation_closed.md",
	}
	return renderTemplate("valuation", "valuation.md", partials, v)
}

// RenderRebalance renders the rebalancing suggestions and, when known, the market
// indicators of the bucket tickers.
func RenderRebalance(r *stockgains.RebalanceReport) string {
	partials := map[string]string{
		"rebalance_indicators": "rebalance_indicators.md",
	}
	if len(r.Indicators) == 0 {
		partials["rebalance_indicators"] = ""
	}
	return renderTemplate("rebalance", "rebalance.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

func ratio(o stockgains.Opt[float64]) string {
	return o.Format(func(f float64) string { return fmt.Sprintf("%.2f", f) })
}
