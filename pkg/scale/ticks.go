package scale

import (
	"math"
	"time"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickStep returns a round step (1, 2 or 5 times a power of ten) giving
// about count intervals over [start, stop].
func tickStep(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(1, float64(count))
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	return factor * math.Pow(10, power)
}

// Ticks returns round values in [start, stop], about count of them.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	step := tickStep(start, stop, count)
	if step <= 0 || math.IsInf(step, 0) {
		return nil
	}
	lo := math.Ceil(start / step)
	hi := math.Floor(stop / step)
	ticks := make([]float64, 0, int(hi-lo)+1)
	for i := lo; i <= hi; i++ {
		// Snap away float noise such as 0.30000000000000004.
		ticks = append(ticks, math.Round(i*step*1e12)/1e12)
	}
	return ticks
}

// TimeTick is a labeled tick on a time axis.
type TimeTick struct {
	Time  time.Time
	Label string
}

type timeInterval struct {
	approx time.Duration
	floor  func(time.Time) time.Time
	next   func(time.Time) time.Time
	format string
}

const day = 24 * time.Hour

func months(n int) timeInterval {
	return timeInterval{
		approx: time.Duration(n) * 30 * day,
		floor: func(t time.Time) time.Time {
			m := (int(t.Month()) - 1) / n * n
			return time.Date(t.Year(), time.Month(m+1), 1, 0, 0, 0, 0, t.Location())
		},
		next:   func(t time.Time) time.Time { return t.AddDate(0, n, 0) },
		format: "Jan",
	}
}

// years ticks on every nth January 1st, aligned to multiples of n.
func years(n int) timeInterval {
	return timeInterval{
		approx: time.Duration(n) * 365 * day,
		floor: func(t time.Time) time.Time {
			y := t.Year() / n * n
			return time.Date(y, 1, 1, 0, 0, 0, 0, t.Location())
		},
		next:   func(t time.Time) time.Time { return t.AddDate(n, 0, 0) },
		format: "2006",
	}
}

var timeIntervals = []timeInterval{
	{approx: day, floor: floorDay, next: func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }, format: "Jan 02"},
	{approx: 7 * day, floor: floorDay, next: func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }, format: "Jan 02"},
	months(1),
	months(3),
	years(1),
}

func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Ticks returns about count calendar-aligned ticks inside the scale domain.
// January ticks of a month interval are labeled with the year. Spans of many
// years tick on round multiples of years.
func (s Time) Ticks(count int) []TimeTick {
	if count <= 0 {
		return nil
	}
	span := s.T1.Sub(s.T0)
	var iv timeInterval
	found := false
	for _, cand := range timeIntervals {
		if span/cand.approx <= time.Duration(count) {
			iv, found = cand, true
			break
		}
	}
	if !found {
		n := tickStep(0, span.Hours()/24/365, count)
		iv = years(max(1, int(math.Round(n))))
	}

	var ticks []TimeTick
	t := iv.floor(s.T0)
	if t.Before(s.T0) {
		t = iv.next(t)
	}
	for ; !t.After(s.T1); t = iv.next(t) {
		label := t.Format(iv.format)
		if iv.format == "Jan" && t.Month() == time.January {
			label = t.Format("2006")
		}
		ticks = append(ticks, TimeTick{Time: t, Label: label})
	}
	return ticks
}
