package stockgains

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Bucket is a group of tickers sharing one target percentage of the portfolio.
type Bucket struct {
	Tickers []string
	Target  decimal.Decimal // percentage, in (0, 100]
}

// NewBucket returns a bucket of tickers with target percent.
func NewBucket(target decimal.Decimal, tickers ...string) Bucket {
	b := Bucket{Target: target}
	for _, t := range tickers {
		b.Tickers = append(b.Tickers, normalizeTicker(t))
	}
	return b
}

// ParseBucket parses the "TICKER[+TICKER...]=PERCENT" notation, e.g. "NDQ.AX+IVV.AX=40".
func ParseBucket(s string) (Bucket, error) {
	tickers, pct, ok := strings.Cut(s, "=")
	if !ok {
		return Bucket{}, fmt.Errorf("%w: bucket %q, want TICKER[+TICKER...]=PERCENT", ErrInvalidInput, s)
	}
	target, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(pct), "%"))
	if err != nil {
		return Bucket{}, fmt.Errorf("%w: bucket %q: percentage %q is not a number", ErrInvalidInput, s, pct)
	}
	b := NewBucket(target, strings.Split(tickers, "+")...)
	return b, b.Validate()
}

// Name is the tickers joined with "+".
func (b Bucket) Name() string { return strings.Join(b.Tickers, "+") }

// Percent returns the target as a Percent.
func (b Bucket) Percent() Percent { return Percent(b.Target.InexactFloat64()) }

// Validate checks the bucket on its own.
func (b Bucket) Validate() error {
	if len(b.Tickers) == 0 {
		return fmt.Errorf("%w: bucket has no ticker", ErrInvalidInput)
	}
	for i, t := range b.Tickers {
		if t == "" {
			return fmt.Errorf("%w: bucket %q has an empty ticker", ErrInvalidInput, b.Name())
		}
		if slices.Contains(b.Tickers[:i], t) {
			return fmt.Errorf("%w: bucket %q lists %q twice", ErrInvalidInput, b.Name(), t)
		}
	}
	if !b.Target.IsPositive() || b.Target.GreaterThan(hundred) {
		return fmt.Errorf("%w: bucket %q target %s%% must be in (0, 100]", ErrInvalidInput, b.Name(), b.Target)
	}
	return nil
}

// Targets is the set of target buckets.
//
// The zero value is the UNSET state: no target has been defined yet. A Targets
// built by NewTargets or a TargetsBuilder is SET, its buckets sum to at most 100%.
type Targets struct {
	buckets []Bucket
}

// NewTargets validates buckets as a whole.
func NewTargets(buckets ...Bucket) (Targets, error) {
	var b TargetsBuilder
	for _, bucket := range buckets {
		if err := b.Add(bucket); err != nil {
			return Targets{}, err
		}
	}
	return b.Build()
}

// IsSet reports whether targets have been defined.
func (t Targets) IsSet() bool { return len(t.buckets) > 0 }

// Buckets returns the buckets in definition order.
func (t Targets) Buckets() []Bucket { return slices.Clone(t.buckets) }

// Total returns the sum of the target percentages.
func (t Targets) Total() decimal.Decimal {
	var sum decimal.Decimal
	for _, b := range t.buckets {
		sum = sum.Add(b.Target)
	}
	return sum
}

// Unallocated returns 100% minus the total of the targets.
func (t Targets) Unallocated() decimal.Decimal { return hundred.Sub(t.Total()) }

// BucketOf returns the bucket that contains ticker.
func (t Targets) BucketOf(ticker string) (Bucket, bool) {
	for _, b := range t.buckets {
		if slices.Contains(b.Tickers, ticker) {
			return b, true
		}
	}
	return Bucket{}, false
}

// TargetsBuilder accumulates buckets one by one, failing as soon as the running
// total exceeds 100%. Its zero value is ready to use.
type TargetsBuilder struct {
	buckets []Bucket
	total   decimal.Decimal
}

// Add appends a bucket. It fails with ErrOverAllocated if the running total would
// exceed 100%, and ErrInvalidInput if the bucket is invalid or shares a ticker
// with a previous bucket. A failed Add leaves the builder unchanged.
func (b *TargetsBuilder) Add(bucket Bucket) error {
	if err := bucket.Validate(); err != nil {
		return err
	}
	for _, t := range bucket.Tickers {
		for _, prev := range b.buckets {
			if slices.Contains(prev.Tickers, t) {
				return fmt.Errorf("%w: %q is already in bucket %q", ErrInvalidInput, t, prev.Name())
			}
		}
	}
	total := b.total.Add(bucket.Target)
	if total.GreaterThan(hundred) {
		return fmt.Errorf("%w: %q brings the total to %s%%", ErrOverAllocated, bucket.Name(), total)
	}
	b.buckets = append(b.buckets, bucket)
	b.total = total
	return nil
}

// Remaining returns how many percent can still be allocated.
func (b *TargetsBuilder) Remaining() decimal.Decimal { return hundred.Sub(b.total) }

// Build returns the Targets, it fails with ErrInvalidInput when no bucket was added.
func (b *TargetsBuilder) Build() (Targets, error) {
	if len(b.buckets) == 0 {
		return Targets{}, fmt.Errorf("%w: no bucket", ErrInvalidInput)
	}
	return Targets{buckets: slices.Clone(b.buckets)}, nil
}
