package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PartialDate is a date specified to year, year-month, or year-month-day
// granularity. The zero value is "timeless": no temporal dimension at all.
// A set day implies a set month, and a set month implies a set year; the
// constructors enforce this.
type PartialDate struct {
	Year  int // 0 = unset
	Month int // 0 = unset, otherwise 1..12
	Day   int // 0 = unset, otherwise 1..31
}

// Ordering is the result of comparing two partial dates.
type Ordering int

const (
	OrderedBefore Ordering = iota
	OrderedEqual
	OrderedAfter
	// OrderedIncomparable means the shared components are equal but the
	// precisions differ: the coarser date encompasses the finer one, so
	// neither strictly precedes the other.
	OrderedIncomparable
)

// NewPartialDate builds a partial date from its components. Pass 0 for
// unset trailing components.
func NewPartialDate(year, month, day int) (PartialDate, error) {
	d := PartialDate{Year: year, Month: month, Day: day}
	if err := d.validate(); err != nil {
		return PartialDate{}, err
	}
	return d, nil
}

// ParsePartialDate parses "YYYY", "YYYY-MM", or "YYYY-MM-DD". The empty
// string parses to the timeless zero value.
func ParsePartialDate(s string) (PartialDate, error) {
	if s == "" {
		return PartialDate{}, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return PartialDate{}, &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date %q, expected YYYY, YYYY-MM, or YYYY-MM-DD", s)}
	}
	var d PartialDate
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return PartialDate{}, &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date component %q in %q", p, s)}
		}
		switch i {
		case 0:
			d.Year = n
		case 1:
			d.Month = n
		case 2:
			d.Day = n
		}
	}
	if err := d.validate(); err != nil {
		return PartialDate{}, err
	}
	return d, nil
}

func (d PartialDate) validate() error {
	if d.Day != 0 && d.Month == 0 {
		return &ValidationError{Field: "date", Message: "day set without month"}
	}
	if d.Month != 0 && d.Year == 0 {
		return &ValidationError{Field: "date", Message: "month set without year"}
	}
	if d.Month < 0 || d.Month > 12 {
		return &ValidationError{Field: "date", Message: fmt.Sprintf("month %d out of range", d.Month)}
	}
	if d.Day < 0 || d.Day > 31 {
		return &ValidationError{Field: "date", Message: fmt.Sprintf("day %d out of range", d.Day)}
	}
	if d.Day != 0 {
		// Reject days that do not exist in the given month (e.g. Feb 30).
		t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
		if t.Day() != d.Day || int(t.Month()) != d.Month {
			return &ValidationError{Field: "date", Message: fmt.Sprintf("day %d does not exist in %04d-%02d", d.Day, d.Year, d.Month)}
		}
	}
	return nil
}

// IsTimeless reports whether the date has no temporal data at all.
func (d PartialDate) IsTimeless() bool {
	return d.Year == 0
}

// Precision returns the finest component the date specifies.
func (d PartialDate) Precision() DatePrecision {
	switch {
	case d.Year == 0:
		return PrecisionNone
	case d.Month == 0:
		return PrecisionYear
	case d.Day == 0:
		return PrecisionMonth
	default:
		return PrecisionDay
	}
}

// String formats the date at its own precision: "", "2007", "2007-03",
// or "2007-03-15".
func (d PartialDate) String() string {
	switch d.Precision() {
	case PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	case PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case PrecisionDay:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	default:
		return ""
	}
}

// Compare orders two partial dates component-wise. If all components
// present in both dates are equal but one date is coarser, the result is
// OrderedIncomparable: the coarse date encompasses the fine one rather
// than sitting before or after it. Timeless dates are incomparable with
// everything, including each other.
func (d PartialDate) Compare(other PartialDate) Ordering {
	if d.IsTimeless() || other.IsTimeless() {
		return OrderedIncomparable
	}
	pairs := [3][2]int{{d.Year, other.Year}, {d.Month, other.Month}, {d.Day, other.Day}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a == 0 || b == 0 {
			if a != b {
				return OrderedIncomparable
			}
			return OrderedEqual
		}
		if a < b {
			return OrderedBefore
		}
		if a > b {
			return OrderedAfter
		}
	}
	return OrderedEqual
}

// Interval is a temporal range with a partial-precision start and an
// optional end. A timeless End means the interval is open-ended
// ("ongoing", extending to the present). A timeless Start means the
// interval carries no temporal data.
type Interval struct {
	Start PartialDate
	End   PartialDate
}

// Ongoing reports whether the interval has a start but no end.
func (iv Interval) Ongoing() bool {
	return !iv.Start.IsTimeless() && iv.End.IsTimeless()
}

// IsTimeless reports whether the interval carries no temporal data.
func (iv Interval) IsTimeless() bool {
	return iv.Start.IsTimeless()
}

// Validate rejects intervals whose end strictly precedes their start.
func (iv Interval) Validate() error {
	if iv.Start.IsTimeless() || iv.End.IsTimeless() {
		return nil
	}
	if iv.End.Compare(iv.Start) == OrderedBefore {
		return &ValidationError{Field: "end", Message: fmt.Sprintf("end date %s precedes start date %s", iv.End, iv.Start)}
	}
	return nil
}

// BoundaryAdjacent is the boundary-touching policy: when one interval's
// end equals another's start (at the stored precision, including the
// coarse/fine case where the shared components match), the intervals are
// adjacent, not conflicting. Encoded as a constant so the choice is
// explicit and tested rather than inferred per call site.
const BoundaryAdjacent = true

// Conflicts reports whether two intervals overlap for constraint
// purposes. An interval with no temporal data never conflicts. An
// open-ended interval extends to the present. The test is symmetric:
// take the later start and the earlier end (preferring the finer date
// when the comparison is incomparable, since the finer date is the
// tighter bound) and conflict only when the start is strictly before
// the end, per BoundaryAdjacent.
func (iv Interval) Conflicts(other Interval) bool {
	if iv.IsTimeless() || other.IsTimeless() {
		return false
	}

	start := pickBound(iv.Start, other.Start, OrderedAfter)

	switch {
	case iv.End.IsTimeless() && other.End.IsTimeless():
		// Both ongoing: they necessarily coexist now.
		return true
	case iv.End.IsTimeless():
		return start.Compare(other.End) == OrderedBefore
	case other.End.IsTimeless():
		return start.Compare(iv.End) == OrderedBefore
	}

	end := pickBound(iv.End, other.End, OrderedBefore)
	return start.Compare(end) == OrderedBefore
}

// pickBound returns whichever of a, b compares with the given ordering
// (the later start, or the earlier end). On Equal or Incomparable it
// prefers the finer-precision date, which is the tighter bound.
func pickBound(a, b PartialDate, want Ordering) PartialDate {
	switch a.Compare(b) {
	case want:
		return a
	case OrderedBefore, OrderedAfter:
		return b
	default:
		if finer(a, b) {
			return a
		}
		return b
	}
}

func finer(a, b PartialDate) bool {
	rank := func(p DatePrecision) int {
		switch p {
		case PrecisionDay:
			return 3
		case PrecisionMonth:
			return 2
		case PrecisionYear:
			return 1
		default:
			return 0
		}
	}
	return rank(a.Precision()) > rank(b.Precision())
}
