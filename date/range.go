package date

import "fmt"

// Range represents a range of dates, boundaries included.
//
// A zero From or To leaves that side open.
type Range struct{ From, To Date }

// ParseRange parses optional from and to dates, an empty string leaves that side open.
func ParseRange(from, to string) (Range, error) {
	var r Range
	var err error
	if from != "" {
		if r.From, err = Parse(from); err != nil {
			return Range{}, err
		}
	}
	if to != "" {
		if r.To, err = Parse(to); err != nil {
			return Range{}, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return Range{}, fmt.Errorf("invalid range: %s is before %s", r.To, r.From)
	}
	return r, nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// String returns "from..to" with open sides left empty.
func (r Range) String() string {
	var from, to string
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	return from + ".." + to
}
