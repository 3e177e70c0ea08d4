package stream

import (
	"math"
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/wordstream/pkg/scale"
	"github.com/matzehuels/wordstream/pkg/series"
)

// Default canvas of the reference chart.
const (
	DefaultWidth     = 600.0
	DefaultHeight    = 500.0
	DefaultTickCount = 6
	Headroom         = 0.2
)

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargin is the reference chart margin.
var DefaultMargin = Margin{Top: 40, Right: 20, Bottom: 40, Left: 50}

// BandPoint is one sample of a band. Low and High are in data units, X, Y0
// and Y1 in pixels (Y0 is the bottom edge).
type BandPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
	Low   float64   `json:"low"`
	High  float64   `json:"high"`
	X     float64   `json:"x"`
	Y0    float64   `json:"y0"`
	Y1    float64   `json:"y1"`
}

// Band is the stacked area of one series.
type Band struct {
	Series string      `json:"series"`
	Color  string      `json:"color"`
	Points []BandPoint `json:"points"`
	Path   string      `json:"path"`
}

// Tick is a labeled x axis tick.
type Tick struct {
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// LegendEntry pairs a series with its color.
type LegendEntry struct {
	Series string `json:"series"`
	Color  string `json:"color"`
}

// Chart is a laid-out streamgraph.
type Chart struct {
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Margin  Margin          `json:"margin"`
	YDomain [2]float64      `json:"y_domain"`
	Bands   []Band          `json:"bands"`
	Ticks   []Tick          `json:"ticks"`
	Legend  []LegendEntry   `json:"legend"`
	Records []series.Record `json:"-"`
	Colors  map[string]string `json:"colors"`
}

// Empty reports whether the chart has no bands.
func (c Chart) Empty() bool { return len(c.Bands) == 0 }

// Band returns the band of name.
func (c Chart) Band(name string) (Band, bool) {
	for _, b := range c.Bands {
		if b.Series == name {
			return b, true
		}
	}
	return Band{}, false
}

// AxisY returns the pixel y of the x axis line.
func (c Chart) AxisY() float64 { return c.Height - c.Margin.Bottom }

type config struct {
	width, height float64
	margin        Margin
	series        []string
	colors        map[string]string
	ticks         int
}

// Option configures [Build].
type Option func(*config)

// WithSize sets the canvas size.
func WithSize(width, height float64) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithMargin sets the plot margin.
func WithMargin(m Margin) Option {
	return func(c *config) { c.margin = m }
}

// WithSeries sets the series and their stacking order, bottom first.
func WithSeries(names ...string) Option {
	return func(c *config) { c.series = names }
}

// WithColors overrides series colors. Series without a color get one
// generated from their position.
func WithColors(colors map[string]string) Option {
	return func(c *config) { c.colors = colors }
}

// WithTickCount sets the approximate number of x axis ticks.
func WithTickCount(n int) Option {
	return func(c *config) { c.ticks = n }
}

// Build lays out records as a streamgraph.
func Build(records []series.Record, opts ...Option) Chart {
	cfg := config{
		width:  DefaultWidth,
		height: DefaultHeight,
		margin: DefaultMargin,
		series: series.DefaultSeries,
		colors: series.DefaultColors,
		ticks:  DefaultTickCount,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	chart := Chart{
		Width:   cfg.width,
		Height:  cfg.height,
		Margin:  cfg.margin,
		Records: records,
		Colors:  Palette(cfg.series, cfg.colors),
	}
	if len(records) == 0 || len(cfg.series) == 0 {
		return chart
	}

	values := make([][]float64, len(cfg.series))
	for i, name := range cfg.series {
		values[i] = make([]float64, len(records))
		for j, r := range records {
			values[i][j] = r.Value(name)
		}
	}
	stacked := Stack(values, Wiggle(values))

	var maxTotal float64
	for _, r := range records {
		maxTotal = math.Max(maxTotal, r.Total(cfg.series))
	}
	if maxTotal <= 0 {
		maxTotal = 1
	}
	chart.YDomain = [2]float64{-Headroom * maxTotal, maxTotal}

	t0, t1 := timeExtent(records)
	x := scale.NewTime(t0, t1, cfg.margin.Left, cfg.width-cfg.margin.Right)
	y := scale.NewLinear(chart.YDomain[0], chart.YDomain[1], cfg.height-cfg.margin.Bottom, cfg.margin.Top)

	for i, name := range cfg.series {
		band := Band{Series: name, Color: chart.Colors[name], Points: make([]BandPoint, len(records))}
		for j, r := range records {
			lo, hi := stacked[i][j][0], stacked[i][j][1]
			band.Points[j] = BandPoint{
				Time:  r.Time,
				Value: values[i][j],
				Low:   lo,
				High:  hi,
				X:     x.At(r.Time),
				Y0:    y.At(lo),
				Y1:    y.At(hi),
			}
		}
		top, bottom := band.Edges()
		band.Path = AreaPath(top, bottom)
		chart.Bands = append(chart.Bands, band)
	}

	for _, tk := range x.Ticks(cfg.ticks) {
		chart.Ticks = append(chart.Ticks, Tick{X: x.At(tk.Time), Label: tk.Label})
	}
	for i := len(cfg.series) - 1; i >= 0; i-- {
		name := cfg.series[i]
		chart.Legend = append(chart.Legend, LegendEntry{Series: name, Color: chart.Colors[name]})
	}
	return chart
}

func timeExtent(records []series.Record) (time.Time, time.Time) {
	lo, hi := records[0].Time, records[0].Time
	for _, r := range records[1:] {
		if r.Time.Before(lo) {
			lo = r.Time
		}
		if r.Time.After(hi) {
			hi = r.Time
		}
	}
	return lo, hi
}

// Palette resolves a color for every name. Explicit colors win; the rest
// are spread evenly around the HCL hue circle.
func Palette(names []string, colors map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for i, name := range names {
		if c, ok := colors[name]; ok {
			out[name] = c
			continue
		}
		hue := 360 * float64(i) / float64(max(1, len(names)))
		out[name] = colorful.Hcl(hue, 0.55, 0.6).Clamped().Hex()
	}
	return out
}

// BandAt returns the series whose band contains the pixel position (px,
// py). Positions outside the time range or between no band edges report
// false. Band edges are interpolated linearly between samples.
func (c Chart) BandAt(px, py float64) (string, bool) {
	if c.Empty() {
		return "", false
	}
	pts := c.Bands[0].Points
	if len(pts) == 1 {
		if px != pts[0].X {
			return "", false
		}
		return bandAtSample(c.Bands, 0, 0, py)
	}
	j := slices.IndexFunc(pts[1:], func(p BandPoint) bool { return p.X >= px })
	if px < pts[0].X || j < 0 {
		return "", false
	}
	span := pts[j+1].X - pts[j].X
	t := 0.0
	if span > 0 {
		t = (px - pts[j].X) / span
	}
	return bandAtSample(c.Bands, j, t, py)
}

func bandAtSample(bands []Band, j int, t, py float64) (string, bool) {
	for _, b := range bands {
		p0 := b.Points[j]
		p1 := p0
		if j+1 < len(b.Points) {
			p1 = b.Points[j+1]
		}
		y0 := p0.Y0 + (p1.Y0-p0.Y0)*t
		y1 := p0.Y1 + (p1.Y1-p0.Y1)*t
		// Pixel y grows downward, so the top edge has the smaller y.
		if y1 < y0 && py >= y1 && py <= y0 {
			return b.Series, true
		}
	}
	return "", false
}
