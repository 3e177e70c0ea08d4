package surface

import (
	"testing"
	"time"

	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/measure"
	"github.com/matzehuels/wordstream/pkg/stream"
	"github.com/matzehuels/wordstream/pkg/stream/drilldown"
	"github.com/matzehuels/wordstream/pkg/text"
)

func cloud(input string) layout.Result {
	return layout.Place(text.Extract(input, text.DefaultTopN), measure.Heuristic{})
}

func newSurface() *Surface { return New(layout.DefaultWidth, layout.DefaultHeight) }

func TestRenderSettles(t *testing.T) {
	s := newSurface()
	res := cloud("the cat sat on the mat the cat ran")
	if _, err := s.Render(res); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if s.Pending() != 4 {
		t.Errorf("Pending() = %d, want 4", s.Pending())
	}

	s.Tick(30 * time.Millisecond)
	cat, _ := s.Label("cat")
	if cat.Attrs.Opacity <= 0 || cat.Attrs.Opacity >= 1 {
		t.Errorf("cat opacity mid-animation = %v", cat.Attrs.Opacity)
	}

	s.Settle()
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Settle", s.Pending())
	}
	for _, p := range res.Placements {
		l, ok := s.Label(p.Token)
		if !ok {
			t.Fatalf("label %q missing", p.Token)
		}
		want := transition.Attrs{X: p.X, Y: p.Y, FontSize: p.FontSize, Opacity: 1}
		if l.Attrs != want {
			t.Errorf("%q attrs = %+v, want %+v", p.Token, l.Attrs, want)
		}
	}
}

func TestExitRemovesElements(t *testing.T) {
	s := newSurface()
	s.Render(cloud("cat sat"))
	s.Settle()
	s.Render(cloud("the of and"))
	if got := len(s.Labels()); got != 2 {
		t.Fatalf("labels during exit = %d, want 2", got)
	}
	s.Settle()
	if got := len(s.Labels()); got != 0 {
		t.Errorf("labels after exit = %d, want 0", got)
	}
	if !s.Committed().Empty() {
		t.Error("committed set not empty after all-exit pass")
	}
}

func TestRapidPassesReplaceAnimations(t *testing.T) {
	s := newSurface()
	s.Render(cloud("cat sat"))
	s.Settle()

	s.Render(cloud("dog"))
	s.Tick(100 * time.Millisecond)
	plan, _ := s.Render(cloud("cat"))

	if plan.First {
		t.Error("third pass treated as first render")
	}
	if s.Pending() > 3 {
		t.Errorf("Pending() = %d, want at most one animation per token", s.Pending())
	}
	s.Settle()

	cat, ok := s.Label("cat")
	if !ok {
		t.Fatal("cat removed by the superseded exit")
	}
	if cat.Exiting || cat.Attrs.Opacity != 1 {
		t.Errorf("cat = %+v, want visible", cat)
	}
	if _, ok := s.Label("dog"); ok {
		t.Error("dog still on the surface")
	}
	if _, ok := s.Label("sat"); ok {
		t.Error("sat still on the surface")
	}
}

func TestScenarioEDestroyMidAnimation(t *testing.T) {
	s := newSurface()
	s.Render(cloud("alpha beta beta gamma gamma gamma"))
	s.Tick(200 * time.Millisecond)

	chart := stream.Build(nil)
	ctl := drilldown.NewController(chart, s)
	s.ShowTooltip(drilldown.Tooltip{Title: "Claude"})

	if n := s.Destroy(); n == 0 {
		t.Error("Destroy() cancelled no animations, want pending ones")
	}
	ctl.Close()

	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Destroy", s.Pending())
	}
	if _, ok := s.Tooltip(); ok {
		t.Error("tooltip panel left after Destroy")
	}
	if len(s.Labels()) != 0 {
		t.Errorf("%d labels left after Destroy", len(s.Labels()))
	}

	s.Tick(time.Second)
	s.ShowTooltip(drilldown.Tooltip{Title: "late"})
	if _, ok := s.Tooltip(); ok {
		t.Error("destroyed surface accepted a tooltip")
	}
	if _, err := s.Render(cloud("cat")); err == nil {
		t.Error("Render() on destroyed surface succeeded")
	}
}

func TestSurfaceAsTooltipPanel(t *testing.T) {
	s := New(stream.DefaultWidth, stream.DefaultHeight)
	var panel drilldown.Panel = s
	panel.ShowTooltip(drilldown.Tooltip{Title: "Gemini", X: 40, Y: 20})
	if tip, ok := s.Tooltip(); !ok || tip.Title != "Gemini" {
		t.Errorf("Tooltip() = %+v, %v", tip, ok)
	}
	panel.HideTooltip()
	if _, ok := s.Tooltip(); ok {
		t.Error("tooltip visible after HideTooltip")
	}
}
