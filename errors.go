package stockgains

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a malformed value: non positive price or volume,
	// negative brokerage or dividend, unparseable date, bad bucket definition.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientHoldings reports a sell larger than the current volume.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	// ErrUnknownTicker reports a dividend for a ticker that was never traded.
	ErrUnknownTicker = errors.New("unknown ticker")
	// ErrOverAllocated reports target buckets summing to more than 100%.
	ErrOverAllocated = errors.New("over allocated")
	// ErrMarketDataUnavailable reports a price the market data provider could not supply.
	ErrMarketDataUnavailable = errors.New("market data unavailable")
	// ErrTargetsUnset reports a rebalance requested before any target was set.
	ErrTargetsUnset = errors.New("targets are not set")
)

// MarketDataError is returned when a quote is missing for a ticker.
type MarketDataError struct {
	Ticker string
	Err    error // cause, may be nil when the provider simply had no value
}

func (e *MarketDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: no price for %q", ErrMarketDataUnavailable, e.Ticker)
	}
	return fmt.Sprintf("%s: %q: %v", ErrMarketDataUnavailable, e.Ticker, e.Err)
}

func (e *MarketDataError) Is(target error) bool { return target == ErrMarketDataUnavailable }

func (e *MarketDataError) Unwrap() error { return e.Err }
