package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/wordstream/pkg/fonts"
)

// Defaults shared by the SVG writers.
const (
	LabelColor      = "#333"
	StrokeColor     = "#222"
	DefaultInstance = "wordstream"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	noFont     bool
	static     bool
	tooltips   bool
	noLegend   bool
	background string
	instance   string
}

// WithoutEmbeddedFont omits the @font-face data URI. By default the
// measuring font is embedded so the output renders exactly as measured;
// without it viewers fall back to any installed face of the same family.
func WithoutEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.noFont = true } }

// WithStatic draws only the final frame of a cloud, without animation.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.static = true } }

// WithTooltips adds the hover drill-down panels to a streamgraph.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithoutLegend omits the streamgraph legend.
func WithoutLegend() SVGOption { return func(r *svgRenderer) { r.noLegend = true } }

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithInstanceID namespaces element ids so several charts can share a page.
func WithInstanceID(id string) SVGOption {
	return func(r *svgRenderer) { r.instance = id }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{instance: DefaultInstance}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r svgRenderer) open(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		EscapeXML(r.instance), f1(width), f1(height), width, height)
	if !r.noFont {
		fmt.Fprintf(buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
			fonts.FontFamily, fonts.GoRegularBase64())
	}
	if r.background != "" {
		fmt.Fprintf(buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// f1 formats a coordinate with at most two decimals.
func f1(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
