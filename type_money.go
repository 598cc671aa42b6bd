package stockgains

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of a book when none is configured.
const DefaultCurrency = "AUD"

// Money represents a monetary value in the book currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money for value in the given currency.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses a decimal amount such as "110.5".
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, s)
	}
	return Money{value: d, cur: currency}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	cur := m.cur
	if cur == "" {
		cur = DefaultCurrency
	}
	return *money.New(0, cur).Currency()
}

// String returns the amount formatted with the currency grapheme, e.g. "A$1,234.56" in AUD.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string                { return m.cur }

// In returns the same amount tagged with currency, nothing is converted.
func (m Money) In(currency string) Money { return Money{value: m.value, cur: currency} }

func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money            { return Money{value: m.value.Div(q.value), cur: m.cur} }

// Scale multiplies m by num/den, multiplying first so exact results stay exact.
func (m Money) Scale(num, den decimal.Decimal) Money {
	return Money{value: m.value.Mul(num).Div(den), cur: m.cur}
}

// Ratio returns m/n as a percentage. It is undefined when n is not strictly positive.
func (m Money) Ratio(n Money) Opt[Percent] {
	if !n.value.IsPositive() {
		return None[Percent]()
	}
	return Some(Percent(m.value.Mul(hundred).Div(n.value).InexactFloat64()))
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON writes the exact amount, the currency is a property of the book.
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }

var hundred = decimal.NewFromInt(100)
