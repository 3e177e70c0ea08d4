package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/wordstream/pkg/stream"
)

// Legend geometry, to the right of the plot.
const (
	legendGap     = 24.0
	legendWidth   = 140.0
	legendSwatch  = 20.0
	legendRowStep = 32.0
	legendFont    = 16.0
	axisFont      = 10.0
	axisTick      = 6.0
)

// RenderStreamSVG draws chart. The canvas is widened for the legend unless
// [WithoutLegend] is set or the chart is empty.
func RenderStreamSVG(chart stream.Chart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	showLegend := !r.noLegend && len(chart.Legend) > 0

	width := chart.Width
	if showLegend {
		width += legendGap + legendWidth
	}

	var buf bytes.Buffer
	r.open(&buf, width, chart.Height)

	buf.WriteString(`  <g class="bands">` + "\n")
	for i, b := range chart.Bands {
		fmt.Fprintf(&buf, `    <path class="stream" data-index="%d" data-series="%s" d="%s" fill="%s" stroke="%s" stroke-width="0.5"/>`+"\n",
			i, EscapeXML(b.Series), b.Path, EscapeXML(b.Color), StrokeColor)
	}
	buf.WriteString("  </g>\n")

	if !chart.Empty() {
		renderTimeAxis(&buf, chart)
	}
	if showLegend {
		renderLegend(&buf, chart.Width+legendGap, chart.Margin.Top, chart.Legend)
	}
	if r.tooltips && !chart.Empty() {
		renderTooltips(&buf, chart, r.instance)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderTimeAxis(buf *bytes.Buffer, chart stream.Chart) {
	left, right := chart.Margin.Left, chart.Width-chart.Margin.Right
	fmt.Fprintf(buf, `  <g class="axis x" transform="translate(0,%s)" font-size="%s" text-anchor="middle">`+"\n",
		f1(chart.AxisY()), f1(axisFont))
	fmt.Fprintf(buf, `    <path d="M%s,%sV0H%sV%s" fill="none" stroke="currentColor"/>`+"\n",
		f1(left), f1(axisTick), f1(right), f1(axisTick))
	for _, t := range chart.Ticks {
		fmt.Fprintf(buf, `    <g class="tick" transform="translate(%s,0)"><line y2="%s" stroke="currentColor"/><text y="%s" dy="0.71em" fill="currentColor">%s</text></g>`+"\n",
			f1(t.X), f1(axisTick), f1(axisTick+3), EscapeXML(t.Label))
	}
	buf.WriteString("  </g>\n")
}

func renderLegend(buf *bytes.Buffer, x, y float64, entries []stream.LegendEntry) {
	fmt.Fprintf(buf, `  <g class="legend" transform="translate(%s,%s)">`+"\n", f1(x), f1(y))
	for i, e := range entries {
		ry := float64(i) * legendRowStep
		fmt.Fprintf(buf, `    <rect x="0" y="%s" width="%s" height="%s" rx="4" fill="%s"/>`+"\n",
			f1(ry), f1(legendSwatch), f1(legendSwatch), EscapeXML(e.Color))
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s" dominant-baseline="middle">%s</text>`+"\n",
			f1(legendSwatch+10), f1(ry+legendSwatch/2), f1(legendFont), EscapeXML(e.Series))
	}
	buf.WriteString("  </g>\n")
}
