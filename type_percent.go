package stockgains

import (
	"math"
	"strconv"
)

// Percent is a percentage: 12.5 is 12.5%.
type Percent float64

// percentTolerance is the difference under which two percentages are equal.
const percentTolerance = 1e-4

// Fraction returns the percentage of a ratio, 0.035 is 3.5%.
func Fraction(f float64) Percent { return Percent(f * 100) }

func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < percentTolerance }

// String formats p with two decimals, e.g. "12.50%".
func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64) + "%"
}

// SignedString always shows the sign, e.g. "+12.50%". It is "-" when p rounds to
// zero.
func (p Percent) SignedString() string {
	s := p.String()
	switch {
	case s == "0.00%" || s == "-0.00%":
		return "-"
	case s[0] != '-':
		return "+" + s
	}
	return s
}
