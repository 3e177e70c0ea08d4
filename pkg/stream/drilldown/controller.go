package drilldown

import (
	"github.com/matzehuels/wordstream/pkg/stream"
)

// Pointer offset of the panel, chosen so the pointer never covers it.
const (
	PanelOffsetX = 20.0
	PanelOffsetY = -20.0
)

// Session is the Active state: the series under the pointer and the last
// pointer position.
type Session struct {
	Series   string  `json:"series"`
	PointerX float64 `json:"pointer_x"`
	PointerY float64 `json:"pointer_y"`
}

// Tooltip is what the panel displays.
type Tooltip struct {
	Title string   `json:"title"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Chart BarChart `json:"chart"`
}

// Panel is the floating element the controller drives.
type Panel interface {
	ShowTooltip(Tooltip)
	HideTooltip()
}

// Controller tracks hover state over one chart.
type Controller struct {
	chart   stream.Chart
	panel   Panel
	session *Session
	content *BarChart
}

// NewController returns an Idle controller for chart.
func NewController(chart stream.Chart, panel Panel) *Controller {
	return &Controller{chart: chart, panel: panel}
}

// Hover handles the pointer entering or moving over the band of name at
// client position (x, y). Unknown or empty series names are ignored. It
// reports whether the controller is Active afterwards.
func (c *Controller) Hover(name string, x, y float64) bool {
	band, ok := c.chart.Band(name)
	if !ok || c.panel == nil {
		return c.session != nil
	}

	if c.content == nil || c.content.Series != name {
		chart := BuildBarChart(c.chart.Records, name, band.Color)
		c.content = &chart
	}
	c.session = &Session{Series: name, PointerX: x, PointerY: y}
	c.panel.ShowTooltip(Tooltip{
		Title: name,
		X:     x + PanelOffsetX,
		Y:     y + PanelOffsetY,
		Chart: *c.content,
	})
	return true
}

// HoverAt resolves the band under chart pixel (px, py) and hovers it with
// the panel anchored at client position (x, y). Leaving every band while
// Active returns to Idle; a miss while Idle is ignored.
func (c *Controller) HoverAt(px, py, x, y float64) bool {
	name, ok := c.chart.BandAt(px, py)
	if !ok {
		if c.session != nil {
			c.Leave()
		}
		return false
	}
	return c.Hover(name, x, y)
}

// Leave hides the panel and clears its content.
func (c *Controller) Leave() {
	if c.session == nil {
		return
	}
	c.session = nil
	c.content = nil
	if c.panel != nil {
		c.panel.HideTooltip()
	}
}

// Close leaves and detaches the panel. Later events are ignored.
func (c *Controller) Close() {
	c.Leave()
	c.panel = nil
}

// Session returns the Active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Active reports whether a tooltip is showing.
func (c *Controller) Active() bool { return c.session != nil }
