package math3d

import "math"

// Interval is a closed range [Min, Max] on the real line.
// An interval with Min > Max contains nothing.
type Interval struct {
	Min, Max float64
}

var (
	// Empty contains no value.
	Empty = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	// Universe contains every value.
	Universe = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// NewInterval creates the interval [lo, hi].
func NewInterval(lo, hi float64) Interval {
	return Interval{Min: lo, Max: hi}
}

// From returns the interval [lo, +inf).
func From(lo float64) Interval {
	return Interval{Min: lo, Max: math.Inf(1)}
}

// Contains reports whether Min <= t <= Max.
func (i Interval) Contains(t float64) bool {
	return i.Min <= t && t <= i.Max
}

// Clamp limits t to the interval.
func (i Interval) Clamp(t float64) float64 {
	if t < i.Min {
		return i.Min
	}
	if t > i.Max {
		return i.Max
	}
	return t
}

// Size returns Max - Min.
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Expand widens the interval by delta on both ends.
func (i Interval) Expand(delta float64) Interval {
	return Interval{Min: i.Min - delta, Max: i.Max + delta}
}

// Union returns the smallest interval containing both i and o.
func (i Interval) Union(o Interval) Interval {
	return Interval{Min: math.Min(i.Min, o.Min), Max: math.Max(i.Max, o.Max)}
}

// IsEmpty reports whether the interval contains nothing.
func (i Interval) IsEmpty() bool {
	return i.Min > i.Max
}
