// Package pipeline runs the wordstream visualizations end to end.
//
// Both the CLI and the HTTP server go through a [Runner] so they share
// defaults, validation, caching and logging.
//
// A cloud pass runs three stages:
//
//  1. Extract: rank the top-N words of the input text
//  2. Layout: place them in one row and diff against the previous pass
//  3. Render: produce SVG, PNG, PDF and JSON artifacts
//
// A stream run builds the wiggle streamgraph from time-indexed records and
// renders it in the same formats.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Cloud(ctx, pipeline.CloudOptions{
//	    Text:     "the cat sat on the mat the cat ran",
//	    Previous: sess.Labels,
//	    Formats:  []string{"svg"},
//	})
//	sess.Commit(res.Plan.Next, ttl)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordstream/pkg/cache"
	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/series"
	"github.com/matzehuels/wordstream/pkg/stream"
	"github.com/matzehuels/wordstream/pkg/text"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// CloudOptions configures one word-cloud pass. The JSON form is the body
// of POST /api/cloud.
type CloudOptions struct {
	Text     string  `json:"text" jsonschema:"description=Input text of this pass"`
	TopN     int     `json:"top_n,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Margin   float64 `json:"margin,omitempty"`
	Padding  float64 `json:"padding,omitempty"`
	MinScale float64 `json:"min_scale,omitempty"`

	Formats     []string `json:"formats,omitempty" jsonschema:"enum=svg,enum=png,enum=pdf,enum=json"`
	Static      bool     `json:"static,omitempty" jsonschema:"description=Render the final frame without SMIL animation"`
	NoEmbedFont bool     `json:"no_embed_font,omitempty" jsonschema:"description=Omit the embedded font from SVG output"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Previous is the committed label set of the last pass on the same
	// surface. The zero value means this is the first render.
	Previous transition.RenderedLabelSet `json:"-"`
	// Session tags the JSON and SVG output with a viewer id.
	Session string      `json:"-"`
	Logger  *log.Logger `json:"-"`
}

// SetDefaults fills zero fields with the package defaults.
func (o *CloudOptions) SetDefaults() {
	def := layout.DefaultConfig()
	if o.TopN == 0 {
		o.TopN = text.DefaultTopN
	}
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.Margin == 0 {
		o.Margin = def.Margin
	}
	if o.Padding == 0 {
		o.Padding = def.Padding
	}
	if o.MinScale == 0 {
		o.MinScale = def.MinScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the options.
func (o *CloudOptions) Validate() error {
	o.SetDefaults()
	if err := errors.ValidateTopN(o.TopN); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.Margin < 0 || o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "margin and padding must not be negative")
	}
	if 2*o.Margin >= o.Width {
		return errors.New(errors.ErrCodeInvalidDimensions, "margin %v leaves no room in width %v", o.Margin, o.Width)
	}
	if o.MinScale <= 0 || o.MinScale > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "min_scale must be in (0, 1], got %v", o.MinScale)
	}
	return ValidateFormats(o.Formats)
}

func (o *CloudOptions) layoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithSize(o.Width, o.Height),
		layout.WithMargin(o.Margin),
		layout.WithPadding(o.Padding),
		layout.WithMinScale(o.MinScale),
	}
}

func (o *CloudOptions) keyOpts() cache.CloudKeyOpts {
	return cache.CloudKeyOpts{
		TopN:     o.TopN,
		Width:    o.Width,
		Height:   o.Height,
		Margin:   o.Margin,
		Padding:  o.Padding,
		MinScale: o.MinScale,
	}
}

// StreamOptions configures a streamgraph render. The JSON form is the body
// of POST /api/stream.
type StreamOptions struct {
	Records []series.Record   `json:"records"`
	Series  []string          `json:"series,omitempty"`
	Colors  map[string]string `json:"colors,omitempty"`
	Width   float64           `json:"width,omitempty"`
	Height  float64           `json:"height,omitempty"`

	Formats     []string `json:"formats,omitempty" jsonschema:"enum=svg,enum=png,enum=pdf,enum=json"`
	Interactive bool     `json:"interactive,omitempty" jsonschema:"description=Embed drill-down tooltips in the SVG"`
	NoLegend    bool     `json:"no_legend,omitempty"`
	NoEmbedFont bool     `json:"no_embed_font,omitempty" jsonschema:"description=Omit the embedded font from SVG output"`
	Refresh     bool     `json:"refresh,omitempty"`

	Session string      `json:"-"`
	Logger  *log.Logger `json:"-"`
}

// SetDefaults fills zero fields with the package defaults.
func (o *StreamOptions) SetDefaults() {
	if len(o.Series) == 0 {
		o.Series = append([]string(nil), series.DefaultSeries...)
	}
	if o.Width == 0 {
		o.Width = stream.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = stream.DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the options.
func (o *StreamOptions) Validate() error {
	o.SetDefaults()
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateSeriesNames(o.Series); err != nil {
		return err
	}
	for name, c := range o.Colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "color for series %q", name)
		}
	}
	for i, r := range o.Records {
		if r.Time.IsZero() {
			return errors.New(errors.ErrCodeInvalidInput, "record %d has no time", i)
		}
		for name, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidInput, "record %d: non-finite value for %q", i, name)
			}
			if v < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "record %d: negative value %v for %q", i, v, name)
			}
		}
	}
	return ValidateFormats(o.Formats)
}

func (o *StreamOptions) chartOptions() []stream.Option {
	opts := []stream.Option{
		stream.WithSize(o.Width, o.Height),
		stream.WithSeries(o.Series...),
	}
	if len(o.Colors) > 0 {
		opts = append(opts, stream.WithColors(o.Colors))
	}
	return opts
}

func (o *StreamOptions) keyOpts() cache.StreamKeyOpts {
	colors := make([]string, len(o.Series))
	for i, s := range o.Series {
		colors[i] = o.Colors[s]
	}
	return cache.StreamKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Series: o.Series,
		Colors: colors,
	}
}

// CloudResult is the outcome of one cloud pass.
type CloudResult struct {
	Terms     []text.Term
	Layout    layout.Result
	Plan      transition.Plan
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// StreamResult is the outcome of a stream render.
type StreamResult struct {
	Chart     stream.Chart
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds stage timings.
type Stats struct {
	Items      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
