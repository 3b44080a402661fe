package date

import "iter"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains reports whether the date is included in the range (boundaries included).
func (r Range) Contains(on Date) bool { return !on.Before(r.From) && !on.After(r.To) }

// Days returns the number of calendar days spanned by the range, boundaries included.
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

// BusinessDays returns an iterator over the business days (Mon-Fri) of the range,
// in chronological order.
func (r Range) BusinessDays() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		on := r.From
		if !on.IsBusinessDay() {
			on = on.NextBusinessDay()
		}
		for !on.After(r.To) {
			if !yield(on) {
				return
			}
			on = on.NextBusinessDay()
		}
	}
}

// String formats the range as "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
