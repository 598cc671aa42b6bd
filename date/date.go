// Package date provides a day granularity Date, date ranges, lookback periods and
// daily series.
package date

import (
	"fmt"
	"strconv"
	"time"
)

// Layout is the ISO-8601 layout dates are written in.
const Layout = "2006-01-02"

// lenientLayout also reads single digit months and days.
const lenientLayout = "2006-1-2"

// Date is a civil day, without time nor location. It is comparable with ==.
//
// The zero Date is not a valid day.
type Date struct {
	y int
	m time.Month
	d int
}

// time is midnight UTC on d.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns the day, normalized: New(2024, 1, 32) is February 1st.
func New(year int, month time.Month, day int) Date {
	y, m, dd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, dd}
}

// FromTime returns the day of t in its own location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Today is the current day in the local time zone.
func Today() Date { return FromTime(time.Now()) }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Add returns the day n days later, or earlier when n is negative.
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// AddYears returns the same day n years later. February 29th overflows to March 1st.
func (d Date) AddYears(n int) Date { return New(d.y+n, d.m, d.d) }

// DaysUntil counts the days from d to x.
func (d Date) DaysUntil(x Date) int { return int(x.time().Sub(d.time()).Hours() / 24) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// Unix is the Unix time of midnight UTC.
func (d Date) Unix() int64 { return d.time().Unix() }

func (d Date) String() string { return d.time().Format(Layout) }

// Parse reads a day in the YYYY-MM-DD layout, "2025-7-1" is accepted too.
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenientLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON writes d as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, d.String()), nil
}

// UnmarshalJSON reads a JSON string with Parse.
func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("date %s is not a JSON string", b)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
