package sink

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/measure"
	"github.com/matzehuels/wordstream/pkg/stream"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background color.Color
	face       *measure.Face
	noLegend   bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground sets the background color as a hex string. Invalid
// colors are ignored.
func WithPNGBackground(hex string) PNGOption {
	return func(r *pngRenderer) {
		if c, err := colorful.Hex(hex); err == nil {
			r.background = c
		}
	}
}

// WithFace draws text with f instead of the shared Go Regular face.
func WithFace(f *measure.Face) PNGOption {
	return func(r *pngRenderer) { r.face = f }
}

// WithPNGLegend toggles the streamgraph legend (on by default).
func WithPNGLegend(show bool) PNGOption {
	return func(r *pngRenderer) { r.noLegend = !show }
}

func newPNGRenderer(opts ...PNGOption) (pngRenderer, error) {
	r := pngRenderer{scale: 2.0, background: color.White}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return r, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}
	if r.face == nil {
		f, err := measure.Default()
		if err != nil {
			return r, errors.Wrap(errors.ErrCodeInternal, err, "load font")
		}
		r.face = f
	}
	return r, nil
}

func (r pngRenderer) context(width, height float64) *gg.Context {
	dc := gg.NewContext(int(width*r.scale+0.5), int(height*r.scale+0.5))
	dc.SetColor(r.background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	return dc
}

func (r pngRenderer) setFont(dc *gg.Context, size float64) error {
	face, err := r.face.NewFace(size)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "font face %vpx", size)
	}
	dc.SetFontFace(face)
	return nil
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func hexColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}

// RenderCloudPNG rasterizes the final frame of a label layout.
func RenderCloudPNG(res layout.Result, opts ...PNGOption) ([]byte, error) {
	r, err := newPNGRenderer(opts...)
	if err != nil {
		return nil, err
	}
	dc := r.context(res.Width, res.Height)
	dc.SetColor(hexColor(LabelColor))
	for _, p := range res.Placements {
		if err := r.setFont(dc, p.FontSize); err != nil {
			return nil, err
		}
		dc.DrawStringAnchored(p.Token, p.X, p.Y, 0, 0.5)
	}
	return encode(dc)
}

// RenderStreamPNG rasterizes a streamgraph with its axis and legend.
func RenderStreamPNG(chart stream.Chart, opts ...PNGOption) ([]byte, error) {
	r, err := newPNGRenderer(opts...)
	if err != nil {
		return nil, err
	}
	showLegend := !r.noLegend && len(chart.Legend) > 0
	width := chart.Width
	if showLegend {
		width += legendGap + legendWidth
	}
	dc := r.context(width, chart.Height)

	for _, b := range chart.Bands {
		if len(b.Points) < 2 {
			continue
		}
		top, bottom := b.Edges()
		tracePath(dc, top, false)
		tracePath(dc, stream.Reverse(bottom), true)
		dc.ClosePath()
		dc.SetColor(hexColor(b.Color))
		dc.FillPreserve()
		dc.SetColor(hexColor(StrokeColor))
		dc.SetLineWidth(0.5)
		dc.Stroke()
	}

	if !chart.Empty() {
		if err := r.drawTimeAxis(dc, chart); err != nil {
			return nil, err
		}
	}
	if showLegend {
		if err := r.drawLegend(dc, chart.Width+legendGap, chart.Margin.Top, chart.Legend); err != nil {
			return nil, err
		}
	}
	return encode(dc)
}

func tracePath(dc *gg.Context, pts []stream.Point, join bool) {
	if join {
		dc.LineTo(pts[0].X, pts[0].Y)
	} else {
		dc.MoveTo(pts[0].X, pts[0].Y)
	}
	for _, c := range stream.CatmullRom(pts) {
		dc.CubicTo(c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.P.X, c.P.Y)
	}
}

func (r pngRenderer) drawTimeAxis(dc *gg.Context, chart stream.Chart) error {
	y := chart.AxisY()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(chart.Margin.Left, y, chart.Width-chart.Margin.Right, y)
	dc.Stroke()
	if err := r.setFont(dc, axisFont); err != nil {
		return err
	}
	for _, t := range chart.Ticks {
		dc.DrawLine(t.X, y, t.X, y+axisTick)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, t.X, y+axisTick+3, 0.5, 1)
	}
	return nil
}

func (r pngRenderer) drawLegend(dc *gg.Context, x, y float64, entries []stream.LegendEntry) error {
	if err := r.setFont(dc, legendFont); err != nil {
		return err
	}
	for i, e := range entries {
		ry := y + float64(i)*legendRowStep
		dc.DrawRoundedRectangle(x, ry, legendSwatch, legendSwatch, 4)
		dc.SetColor(hexColor(e.Color))
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(e.Series, x+legendSwatch+10, ry+legendSwatch/2, 0, 0.5)
	}
	return nil
}
