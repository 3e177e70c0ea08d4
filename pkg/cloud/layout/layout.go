package layout

import (
	"math"

	"github.com/matzehuels/wordstream/pkg/measure"
	"github.com/matzehuels/wordstream/pkg/text"
)

// Default canvas and spacing values.
const (
	DefaultWidth    = 1000.0
	DefaultHeight   = 300.0
	DefaultMargin   = 40.0
	DefaultPadding  = 20.0
	DefaultMinScale = 0.55
)

// Font size ranges in pixels. Tied counts use the narrower range.
const (
	MinFontSize     = 20.0
	MaxFontSize     = 80.0
	TiedMinFontSize = 36.0
	TiedMaxFontSize = 48.0
)

// Placement is the computed position of one label. X is the left edge of
// the text and Y its vertical center.
type Placement struct {
	Token    string  `json:"token"`
	Count    int     `json:"count"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
	Width    float64 `json:"width"`
}

// Right returns the x coordinate of the label's right edge.
func (p Placement) Right() float64 { return p.X + p.Width }

// Result holds the placements of one layout pass.
type Result struct {
	Placements   []Placement `json:"placements"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	ContentWidth float64     `json:"content_width"`
	Overflow     bool        `json:"overflow"`
	Scale        float64     `json:"scale"`
	Clamped      bool        `json:"clamped,omitempty"`
}

// Config controls the canvas and spacing of a layout pass.
type Config struct {
	Width    float64
	Height   float64
	Margin   float64
	Padding  float64
	MinScale float64
}

// Option configures a layout pass.
type Option func(*Config)

// WithSize sets the canvas size.
func WithSize(width, height float64) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMargin sets the left and right margin.
func WithMargin(margin float64) Option {
	return func(c *Config) { c.Margin = margin }
}

// WithPadding sets the gap between neighboring labels.
func WithPadding(padding float64) Option {
	return func(c *Config) { c.Padding = padding }
}

// WithMinScale sets the compression floor of the overflow branch.
func WithMinScale(s float64) Option {
	return func(c *Config) { c.MinScale = s }
}

// DefaultConfig returns the 1000x300 canvas configuration.
func DefaultConfig() Config {
	return Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Margin:   DefaultMargin,
		Padding:  DefaultPadding,
		MinScale: DefaultMinScale,
	}
}

// Usable returns the width available between the margins.
func (c Config) Usable() float64 { return c.Width - 2*c.Margin }

// FontScale returns the count-to-font-size mapping for terms. Counts map
// linearly from [min, max] onto [MinFontSize, MaxFontSize]. When every
// count is equal the domain is degenerate and all terms get the midpoint
// of the tied range.
func FontScale(terms []text.Term) func(count int) float64 {
	if len(terms) == 0 {
		return func(int) float64 { return MinFontSize }
	}
	lo, hi := terms[0].Count, terms[0].Count
	for _, t := range terms[1:] {
		lo = min(lo, t.Count)
		hi = max(hi, t.Count)
	}
	if lo == hi {
		mid := (TiedMinFontSize + TiedMaxFontSize) / 2
		return func(int) float64 { return mid }
	}
	span := float64(hi - lo)
	return func(count int) float64 {
		return MinFontSize + float64(count-lo)/span*(MaxFontSize-MinFontSize)
	}
}

// Place lays out terms in the given order. Terms are expected to be
// ranked and truncated already; Place does not sort. An empty input
// yields a Result with no placements.
func Place(terms []text.Term, m measure.Measurer, opts ...Option) Result {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	res := Result{Width: cfg.Width, Height: cfg.Height, Scale: 1}
	if len(terms) == 0 {
		return res
	}

	sizeOf := FontScale(terms)
	sizes := make([]float64, len(terms))
	widths := make([]float64, len(terms))
	for i, t := range terms {
		sizes[i] = sizeOf(t.Count)
		widths[i] = m.Measure(t.Token, sizes[i])
	}

	lefts := offsets(widths, cfg.Padding)
	last := len(terms) - 1
	res.ContentWidth = lefts[last] + widths[last]

	usable := cfg.Usable()
	y := cfg.Height / 2

	if res.ContentWidth <= usable {
		gap := (usable - res.ContentWidth) / float64(max(1, last))
		res.Placements = make([]Placement, len(terms))
		for i, t := range terms {
			res.Placements[i] = Placement{
				Token:    t.Token,
				Count:    t.Count,
				X:        cfg.Margin + lefts[i] + float64(i)*gap,
				Y:        y,
				FontSize: sizes[i],
				Width:    widths[i],
			}
		}
		return res
	}

	res.Overflow = true
	res.Scale = math.Max(cfg.MinScale, usable/res.ContentWidth)
	res.Placements, res.Clamped = compress(terms, sizes, widths, lefts, cfg, res.Scale, y)
	return res
}

func offsets(widths []float64, padding float64) []float64 {
	lefts := make([]float64, len(widths))
	for i := 1; i < len(widths); i++ {
		lefts[i] = lefts[i-1] + widths[i-1] + padding
	}
	return lefts
}

// compress applies the overflow policy. Offsets shrink by scale while font
// sizes and widths keep their mapped values, and the row is shifted left so
// no label ends past the right margin. If that pushes the first label past
// the left canvas edge, the offsets are compressed further until the row
// starts at zero; the second return value reports that case.
func compress(terms []text.Term, sizes, widths, lefts []float64, cfg Config, scale, y float64) ([]Placement, bool) {
	limit := cfg.Width - cfg.Margin

	xs := make([]float64, len(terms))
	right := math.Inf(-1)
	for i := range terms {
		xs[i] = cfg.Margin + lefts[i]*scale
		right = math.Max(right, xs[i]+widths[i])
	}
	if excess := right - limit; excess > 0 {
		for i := range xs {
			xs[i] -= excess
		}
	}

	clamped := xs[0] < 0
	if clamped {
		s := math.Inf(1)
		for i := 1; i < len(xs); i++ {
			if lefts[i] > 0 {
				s = math.Min(s, (limit-widths[i])/lefts[i])
			}
		}
		if math.IsInf(s, 1) {
			// A single label wider than the canvas.
			s = 0
		}
		s = math.Max(0, s)
		for i := range xs {
			xs[i] = lefts[i] * s
		}
	}

	ps := make([]Placement, len(terms))
	for i, t := range terms {
		ps[i] = Placement{Token: t.Token, Count: t.Count, X: xs[i], Y: y, FontSize: sizes[i], Width: widths[i]}
	}
	return ps, clamped
}
