package transition

import (
	"fmt"
	"time"

	"github.com/matzehuels/wordstream/pkg/cloud/layout"
)

// Animation timing.
const (
	Duration      = 900 * time.Millisecond
	ExitDuration  = 600 * time.Millisecond
	FirstStagger  = 60 * time.Millisecond
	EnterStagger  = 80 * time.Millisecond
	UpdateStagger = 60 * time.Millisecond
)

// OffCanvas is how far past the right canvas edge entering labels start
// and exiting labels end.
const OffCanvas = 30.0

// EnterFontSize is the font size entering labels grow from.
const EnterFontSize = 4.0

// Kind classifies a step.
type Kind int

const (
	Enter Kind = iota
	Update
	Exit
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Update:
		return "update"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Attrs are the animatable attributes of a label.
type Attrs struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
	Opacity  float64 `json:"opacity"`
}

// Step animates one label from one set of attributes to another.
type Step struct {
	Token    string        `json:"token"`
	Count    int           `json:"count"`
	Kind     Kind          `json:"kind"`
	Rank     int           `json:"rank"`
	From     Attrs         `json:"from"`
	To       Attrs         `json:"to"`
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration"`
}

// End returns when the step finishes, relative to the start of the pass.
func (s Step) End() time.Duration { return s.Delay + s.Duration }

// Plan is the output of one reconciliation pass.
type Plan struct {
	First bool             `json:"first"`
	Steps []Step           `json:"steps"`
	Next  RenderedLabelSet `json:"next"`
}

// Counts returns the number of entering, updating and exiting steps.
func (p Plan) Counts() (enter, update, exit int) {
	for _, s := range p.Steps {
		switch s.Kind {
		case Enter:
			enter++
		case Update:
			update++
		case Exit:
			exit++
		}
	}
	return enter, update, exit
}

// Total returns the time until the last step of the plan finishes.
func (p Plan) Total() time.Duration {
	var end time.Duration
	for _, s := range p.Steps {
		end = max(end, s.End())
	}
	return end
}

// Diff reconciles prev with next on a canvas of the given width. Steps are
// ordered exits first, then enters and updates in rank order.
func Diff(prev RenderedLabelSet, next []layout.Placement, width float64) Plan {
	plan := Plan{
		First: prev.Empty(),
		Next:  NewRenderedLabelSet(next, width),
		Steps: make([]Step, 0, len(next)+prev.Len()),
	}
	offX := width + OffCanvas

	for _, p := range prev.Labels {
		if plan.Next.Has(p.Token) {
			continue
		}
		from := attrsOf(p)
		to := from
		to.X = offX
		to.Opacity = 0
		plan.Steps = append(plan.Steps, Step{
			Token:    p.Token,
			Count:    p.Count,
			Kind:     Exit,
			Rank:     -1,
			From:     from,
			To:       to,
			Duration: ExitDuration,
		})
	}

	for rank, p := range next {
		to := attrsOf(p)
		if old, ok := prev.Get(p.Token); ok {
			plan.Steps = append(plan.Steps, Step{
				Token:    p.Token,
				Count:    p.Count,
				Kind:     Update,
				Rank:     rank,
				From:     attrsOf(old),
				To:       to,
				Delay:    time.Duration(rank) * UpdateStagger,
				Duration: Duration,
			})
			continue
		}

		from := Attrs{X: to.X, Y: to.Y, FontSize: EnterFontSize}
		stagger := FirstStagger
		if !plan.First {
			from.X = offX
			stagger = EnterStagger
		}
		plan.Steps = append(plan.Steps, Step{
			Token:    p.Token,
			Count:    p.Count,
			Kind:     Enter,
			Rank:     rank,
			From:     from,
			To:       to,
			Delay:    time.Duration(rank) * stagger,
			Duration: Duration,
		})
	}
	return plan
}

// Render lays out a pass and reconciles it against prev in one call.
func Render(prev RenderedLabelSet, res layout.Result) Plan {
	return Diff(prev, res.Placements, res.Width)
}

func attrsOf(p layout.Placement) Attrs {
	return Attrs{X: p.X, Y: p.Y, FontSize: p.FontSize, Opacity: 1}
}
