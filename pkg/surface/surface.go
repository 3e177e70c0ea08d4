// Package surface is an in-memory rendering surface for label clouds.
//
// A [Surface] owns the label elements of one visualization, the animation
// [anim.Scheduler] moving them and the floating tooltip panel. It applies
// the steps of a [transition.Plan] as keyed tweens and remembers the plan's
// committed set, so the next [Surface.Render] diffs against the last
// completed pass rather than whatever is mid-flight on screen.
//
// Elements are keyed by token. A step for a token that still has a running
// animation replaces it and starts from the element's current attributes,
// so no token is ever on screen twice.
//
// A Surface is not safe for concurrent use.
//
// Surface is library API for hosts that drive labels themselves, such as a
// Go UI or a test harness replaying frames. The SVG sink does not use it:
// SVG output encodes the same steps as SMIL animations that the viewer
// plays.
package surface

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/wordstream/pkg/anim"
	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/stream/drilldown"
)

// Label is an element on the surface.
type Label struct {
	Token   string
	Count   int
	Attrs   transition.Attrs
	Exiting bool
}

// Surface holds the elements of one visualization instance.
type Surface struct {
	width, height float64

	labels    map[string]*Label
	sched     *anim.Scheduler
	committed transition.RenderedLabelSet
	tooltip   *drilldown.Tooltip
	destroyed bool
}

// New returns an empty surface.
func New(width, height float64) *Surface {
	return &Surface{
		width:  width,
		height: height,
		labels: make(map[string]*Label),
		sched:  anim.NewScheduler(),
	}
}

// Size returns the canvas size.
func (s *Surface) Size() (float64, float64) { return s.width, s.height }

// Committed returns the label set of the last applied plan.
func (s *Surface) Committed() transition.RenderedLabelSet { return s.committed }

// Render diffs res against the committed set, applies the resulting plan
// and returns it.
func (s *Surface) Render(res layout.Result) (transition.Plan, error) {
	plan := transition.Render(s.committed, res)
	if err := s.Apply(plan); err != nil {
		return transition.Plan{}, err
	}
	return plan, nil
}

// Apply schedules every step of plan and commits plan.Next.
func (s *Surface) Apply(plan transition.Plan) error {
	if s.destroyed {
		return errors.New(errors.ErrCodeInvalidSession, "surface destroyed")
	}
	for _, step := range plan.Steps {
		s.schedule(step)
	}
	s.committed = plan.Next
	return nil
}

func (s *Surface) schedule(step transition.Step) {
	el, ok := s.labels[step.Token]
	if !ok {
		if step.Kind == transition.Exit {
			return
		}
		el = &Label{Token: step.Token, Attrs: step.From}
		s.labels[step.Token] = el
	}
	el.Count = step.Count
	el.Exiting = step.Kind == transition.Exit

	from, to := el.Attrs, step.To
	tw := anim.Tween{
		Delay:    step.Delay,
		Duration: step.Duration,
		Step: func(t float64) {
			if t >= 1 {
				el.Attrs = to
				return
			}
			el.Attrs = transition.Attrs{
				X:        anim.Lerp(from.X, to.X, t),
				Y:        anim.Lerp(from.Y, to.Y, t),
				FontSize: anim.Lerp(from.FontSize, to.FontSize, t),
				Opacity:  anim.Lerp(from.Opacity, to.Opacity, t),
			}
		},
	}
	if el.Exiting {
		token := step.Token
		tw.Done = func() {
			if cur, ok := s.labels[token]; ok && cur == el {
				delete(s.labels, token)
			}
		}
	}
	s.sched.Schedule(step.Token, tw)
}

// Tick advances every animation by dt.
func (s *Surface) Tick(dt time.Duration) {
	if s.destroyed {
		return
	}
	s.sched.Advance(dt)
}

// Settle runs every pending animation to completion.
func (s *Surface) Settle() {
	if s.destroyed {
		return
	}
	s.sched.Flush()
}

// Pending returns the number of running animations.
func (s *Surface) Pending() int { return s.sched.Pending() }

// Labels returns a snapshot of the elements ordered by x.
func (s *Surface) Labels() []Label {
	out := make([]Label, 0, len(s.labels))
	for _, l := range s.labels {
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Label) int {
		return cmp.Or(cmp.Compare(a.Attrs.X, b.Attrs.X), strings.Compare(a.Token, b.Token))
	})
	return out
}

// Label returns the element of token.
func (s *Surface) Label(token string) (Label, bool) {
	l, ok := s.labels[token]
	if !ok {
		return Label{}, false
	}
	return *l, true
}

// ShowTooltip displays the floating panel.
func (s *Surface) ShowTooltip(t drilldown.Tooltip) {
	if s.destroyed {
		return
	}
	s.tooltip = &t
}

// HideTooltip removes the floating panel and its content.
func (s *Surface) HideTooltip() { s.tooltip = nil }

// Tooltip returns the visible panel, if any.
func (s *Surface) Tooltip() (drilldown.Tooltip, bool) {
	if s.tooltip == nil {
		return drilldown.Tooltip{}, false
	}
	return *s.tooltip, true
}

// Destroy cancels every pending animation, removes all elements and the
// tooltip panel. It returns the number of cancelled animations. The
// surface rejects further plans.
func (s *Surface) Destroy() int {
	n := s.sched.CancelAll()
	clear(s.labels)
	s.tooltip = nil
	s.committed = transition.RenderedLabelSet{}
	s.destroyed = true
	return n
}

// Destroyed reports whether Destroy has been called.
func (s *Surface) Destroyed() bool { return s.destroyed }
