package stockgains

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Suggestion is the funding gap of one bucket.
type Suggestion struct {
	Bucket             Bucket
	CurrentValue       Money
	CurrentPct         Opt[Percent] // unknown when the portfolio has no value
	RelativeOverweight Opt[Percent]
	TargetValue        Money
	Amount             Money // to buy when positive, to sell when negative
}

// Rebalance is the result of the rebalancing solver.
type Rebalance struct {
	CurrentTotal Money
	TargetTotal  Money
	Anchor       string // name of the most overweight bucket, empty with an explicit total
	Suggestions  []Suggestion
}

// ComputeRebalance computes, for every bucket, how much to add (or remove) so that
// the portfolio matches targets.
//
// values maps each bucket name to the current market value of its tickers, a
// missing bucket is worth zero.
//
// Without an explicit total, the target total is chosen so that no bucket needs to
// be sold: the most overweight bucket relatively to its target (the anchor) keeps
// its current value and every other bucket is topped up to match. Ties are won by
// the first bucket.
func ComputeRebalance(targets Targets, values map[string]Money, explicitTotal Opt[Money]) (*Rebalance, error) {
	if !targets.IsSet() {
		return nil, ErrTargetsUnset
	}
	r := &Rebalance{}
	for _, b := range targets.buckets {
		r.CurrentTotal = r.CurrentTotal.Add(values[b.Name()])
	}

	var anchor Opt[int]
	var anchorOverweight decimal.Decimal
	for _, b := range targets.buckets {
		s := Suggestion{Bucket: b, CurrentValue: values[b.Name()]}
		if r.CurrentTotal.IsPositive() {
			current := s.CurrentValue.Decimal().Mul(hundred).Div(r.CurrentTotal.Decimal())
			// (currentPct − targetPct) × (100 / targetPct)
			overweight := current.Sub(b.Target).Mul(hundred).Div(b.Target)
			s.CurrentPct = Some(Percent(current.InexactFloat64()))
			s.RelativeOverweight = Some(Percent(overweight.InexactFloat64()))
			if !anchor.OK() || overweight.GreaterThan(anchorOverweight) {
				anchor, anchorOverweight = Some(len(r.Suggestions)), overweight
			}
		}
		r.Suggestions = append(r.Suggestions, s)
	}

	switch total, ok := explicitTotal.Get(); {
	case ok:
		if total.IsNegative() {
			return nil, fmt.Errorf("%w: target total cannot be negative, got %v", ErrInvalidInput, total.Decimal())
		}
		r.TargetTotal = total
	case anchor.OK():
		a := r.Suggestions[anchor.v]
		r.Anchor = a.Bucket.Name()
		r.TargetTotal = a.CurrentValue.Scale(hundred, a.Bucket.Target)
	default:
		return nil, fmt.Errorf("%w: the portfolio has no value, a target total is required", ErrInvalidInput)
	}

	for i := range r.Suggestions {
		s := &r.Suggestions[i]
		s.TargetValue = r.TargetTotal.Scale(s.Bucket.Target, hundred)
		s.Amount = s.TargetValue.Sub(s.CurrentValue)
	}
	return r, nil
}

// BucketValues returns the current market value of each bucket, keyed by bucket name.
//
// Tickers that are not held are worth zero and need no quote, a held ticker
// without price fails with a *MarketDataError.
func BucketValues(targets Targets, positions []Position, quotes Quotes) (map[string]Money, error) {
	held := make(map[string]Position, len(positions))
	for _, p := range positions {
		held[p.Ticker] = p
	}
	values := make(map[string]Money)
	for _, b := range targets.buckets {
		var v Money
		for _, t := range b.Tickers {
			p, ok := held[t]
			if !ok || p.IsClosed() {
				continue
			}
			price, err := quotes.Price(t)
			if err != nil {
				return nil, err
			}
			v = v.Add(price.Mul(p.Volume))
		}
		values[b.Name()] = v
	}
	return values, nil
}
