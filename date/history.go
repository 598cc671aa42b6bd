package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		// the last data wins
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// First returns the earliest date and value, ok is false for an empty history.
func (h *History[T]) First() (day Date, value T, ok bool) {
	if len(h.days) == 0 {
		return Date{}, value, false
	}
	return h.days[0], h.values[0], true
}

// Latest returns the latest date and value, ok is false for an empty history.
func (h *History[T]) Latest() (day Date, value T, ok bool) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value, false
	}
	return h.days[last], h.values[last], true
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns false when there is no value on or before that day.
func (h *History[T]) ValueAsOf(day Date) (on Date, value T, ok bool) {
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if found {
		return h.days[i], h.values[i], true
	}
	// i is where day would be inserted, the previous entry is the last one before day.
	if i == 0 {
		return Date{}, value, false
	}
	return h.days[i-1], h.values[i-1], true
}
