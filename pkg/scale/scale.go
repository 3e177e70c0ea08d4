// Package scale maps data values to pixel positions.
//
// It provides the three scales the charts need: [Linear] for counts and
// stacked values, [Time] for the stream x axis and [Band] for the
// categorical axis of the drill-down bar chart. Degenerate domains (zero
// length) never divide by zero; they are widened to one unit first.
package scale

import (
	"math"
	"time"
)

// Linear maps [D0, D1] onto [R0, R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear returns a linear scale. A zero-length domain is widened to
// [d0, d0+1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	if d1 == d0 {
		d1 = d0 + 1
	}
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// At maps v into the range. Values outside the domain extrapolate.
func (s Linear) At(v float64) float64 {
	d := s.D1 - s.D0
	if d == 0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/d*(s.R1-s.R0)
}

// Ticks returns roughly count round values inside the domain.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(math.Min(s.D0, s.D1), math.Max(s.D0, s.D1), count)
}

// Time maps the instant range [T0, T1] onto [R0, R1].
type Time struct {
	T0, T1 time.Time
	R0, R1 float64
}

// NewTime returns a time scale. Equal endpoints are widened by one
// millisecond so the scale stays invertible.
func NewTime(t0, t1 time.Time, r0, r1 float64) Time {
	if !t1.After(t0) {
		t1 = t0.Add(time.Millisecond)
	}
	return Time{T0: t0, T1: t1, R0: r0, R1: r1}
}

// At maps t into the range.
func (s Time) At(t time.Time) float64 {
	span := float64(s.T1.Sub(s.T0))
	return s.R0 + float64(t.Sub(s.T0))/span*(s.R1-s.R0)
}

// Band splits [R0, R1] into equal bands, one per category, with the same
// padding fraction inside and outside the bands and centered alignment.
type Band struct {
	n         int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand returns a band scale for n categories.
func NewBand(n int, r0, r1, padding float64) Band {
	if n <= 0 {
		return Band{}
	}
	padding = math.Max(0, math.Min(1, padding))
	span := r1 - r0
	step := span / math.Max(1, float64(n)-padding+2*padding)
	start := r0 + (span-step*(float64(n)-padding))*0.5
	return Band{n: n, start: start, step: step, bandwidth: step * (1 - padding)}
}

// At returns the left edge of band i.
func (b Band) At(i int) float64 { return b.start + b.step*float64(i) }

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Len returns the number of categories.
func (b Band) Len() int { return b.n }
