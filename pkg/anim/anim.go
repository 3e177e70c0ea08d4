// Package anim schedules keyed tweens on a virtual clock.
//
// A [Scheduler] owns every pending animation of one visualization. Each
// tween is registered under a key (a label token, a tooltip id); scheduling
// a second tween under a key that is still running replaces the first, so
// one element never has two overlapping animations. The clock only moves
// when the owner calls [Scheduler.Advance], which keeps playback
// deterministic and lets tests step through a transition frame by frame.
//
// A Scheduler is not safe for concurrent use. Each visualization instance
// owns one and drives it from a single goroutine.
//
// The scheduler backs [surface] and any other host that animates labels in
// Go. SVG output does not use it; there the viewer's SMIL clock plays the
// transition.
//
// [surface]: github.com/matzehuels/wordstream/pkg/surface
package anim

import (
	"math"
	"slices"
	"time"
)

// EaseFunc maps linear progress in [0, 1] to eased progress.
type EaseFunc func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// CubicInOut accelerates through the first half and decelerates through
// the second.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Tween describes one animation. Step receives eased progress; it is
// called once per Advance while the tween is running and always receives
// exactly 1 on the final call. Done runs after the final Step unless the
// tween is cancelled or replaced.
type Tween struct {
	Delay    time.Duration
	Duration time.Duration
	Ease     EaseFunc
	Step     func(t float64)
	Done     func()
}

type entry struct {
	key   string
	start time.Duration
	tw    Tween
}

// Scheduler runs keyed tweens.
type Scheduler struct {
	now     time.Duration
	entries []*entry
}

// NewScheduler returns an empty scheduler at time zero.
func NewScheduler() *Scheduler { return &Scheduler{} }

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration { return s.now }

// Schedule starts tw under key at the current time. A running tween with
// the same key is dropped without calling its Done.
func (s *Scheduler) Schedule(key string, tw Tween) {
	if tw.Ease == nil {
		tw.Ease = CubicInOut
	}
	s.Cancel(key)
	s.entries = append(s.entries, &entry{key: key, start: s.now, tw: tw})
}

// Advance moves the clock by dt and steps every tween whose delay has
// elapsed. Finished tweens are removed before their Done runs, so Done
// may schedule a follow-up tween under the same key.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	s.now += dt

	var done []Tween
	active := s.entries[:0]
	for _, e := range s.entries {
		elapsed := s.now - e.start - e.tw.Delay
		if elapsed < 0 {
			active = append(active, e)
			continue
		}
		t := 1.0
		if e.tw.Duration > 0 {
			t = math.Min(1, float64(elapsed)/float64(e.tw.Duration))
		}
		if e.tw.Step != nil {
			if t >= 1 {
				e.tw.Step(1)
			} else {
				e.tw.Step(e.tw.Ease(t))
			}
		}
		if t >= 1 {
			done = append(done, e.tw)
			continue
		}
		active = append(active, e)
	}
	clear(s.entries[len(active):])
	s.entries = active

	for _, tw := range done {
		if tw.Done != nil {
			tw.Done()
		}
	}
}

// Flush advances the clock until every pending tween has finished.
func (s *Scheduler) Flush() {
	var end time.Duration
	for _, e := range s.entries {
		end = max(end, e.start+e.tw.Delay+e.tw.Duration)
	}
	if end > s.now {
		s.Advance(end - s.now)
	} else if len(s.entries) > 0 {
		s.Advance(0)
	}
}

// Cancel drops the tween under key. It reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	i := slices.IndexFunc(s.entries, func(e *entry) bool { return e.key == key })
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return true
}

// CancelAll drops every pending tween and returns how many there were.
func (s *Scheduler) CancelAll() int {
	n := len(s.entries)
	clear(s.entries)
	s.entries = s.entries[:0]
	return n
}

// Pending returns the number of tweens that have not finished.
func (s *Scheduler) Pending() int { return len(s.entries) }

// Keys returns the keys of pending tweens in scheduling order.
func (s *Scheduler) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}
