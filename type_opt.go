package stockgains

// Opt holds a value that may be unknown, like a market field the provider did not
// report or a percentage of a zero cost basis. The zero value is unknown.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a known value.
func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

// None returns an unknown value.
func None[T any]() Opt[T] { return Opt[T]{} }

// Get returns the value and whether it is known.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

// OK reports whether the value is known.
func (o Opt[T]) OK() bool { return o.ok }

// Or returns the value if known, def otherwise.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Format renders a known value with f, and unknown ones as "N/A".
func (o Opt[T]) Format(f func(T) string) string {
	if !o.ok {
		return "N/A"
	}
	return f(o.v)
}
