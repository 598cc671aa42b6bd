package date

import (
	"fmt"
	"strings"
)

// Period is a lookback window ending on a given day.
type Period int

const (
	YTD Period = iota
	OneYear
	TwoYears
	ThreeYears
	FiveYears
)

// Periods lists every period, shortest first.
var Periods = []Period{YTD, OneYear, TwoYears, ThreeYears, FiveYears}

func (p Period) String() string {
	switch p {
	case YTD:
		return "ytd"
	case OneYear:
		return "1y"
	case TwoYears:
		return "2y"
	case ThreeYears:
		return "3y"
	case FiveYears:
		return "5y"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// Years returns the length of the period in years, 0 for YTD.
func (p Period) Years() int {
	switch p {
	case OneYear:
		return 1
	case TwoYears:
		return 2
	case ThreeYears:
		return 3
	case FiveYears:
		return 5
	default:
		return 0
	}
}

// Start returns the first day of the period ending on end.
func (p Period) Start(end Date) Date {
	if p == YTD {
		return New(end.Year(), 1, 1)
	}
	return end.AddYears(-p.Years())
}

// Range returns the period ending on end.
func (p Period) Range(end Date) Range { return Range{From: p.Start(end), To: end} }

func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "ytd":
		return YTD, nil
	case "1y", "year":
		return OneYear, nil
	case "2y":
		return TwoYears, nil
	case "3y":
		return ThreeYears, nil
	case "5y":
		return FiveYears, nil
	default:
		return YTD, fmt.Errorf("unknown period %q", p)
	}
}
