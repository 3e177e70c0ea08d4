package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/wordstream/pkg/stream"
	"github.com/matzehuels/wordstream/pkg/stream/drilldown"
)

// Tooltip panel box model.
const (
	panelPadding = 12.0
	panelTitle   = 16.0
	panelGap     = 8.0
)

const tooltipCSS = `
    .stream { cursor: crosshair; }
    .tooltip { pointer-events: none; }`

// tooltipJS positions the panel of the hovered band at the pointer offset
// and hides it on leave. Formatted with the root element id and the
// panel offsets.
const tooltipJS = `
    (function () {
      const svg = document.getElementById(%q);
      if (!svg) return;
      const panels = svg.querySelectorAll('.tooltip');
      const hideAll = () => panels.forEach(p => p.setAttribute('visibility', 'hidden'));
      svg.querySelectorAll('.stream').forEach(band => {
        const panel = svg.querySelector('.tooltip[data-index="' + band.dataset.index + '"]');
        if (!panel) return;
        band.addEventListener('mousemove', ev => {
          const pt = svg.createSVGPoint();
          pt.x = ev.clientX; pt.y = ev.clientY;
          const p = pt.matrixTransform(svg.getScreenCTM().inverse());
          hideAll();
          panel.setAttribute('transform', 'translate(' + (p.x + %v).toFixed(1) + ',' + (p.y + %v).toFixed(1) + ')');
          panel.setAttribute('visibility', 'visible');
        });
        band.addEventListener('mouseleave', hideAll);
      });
    })();`

func renderTooltips(buf *bytes.Buffer, chart stream.Chart, instance string) {
	buf.WriteString(`  <g class="tooltips">` + "\n")
	for i, b := range chart.Bands {
		bc := drilldown.BuildBarChart(chart.Records, b.Series, b.Color)
		renderTooltipPanel(buf, i, bc)
	}
	buf.WriteString("  </g>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", tooltipCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
		fmt.Sprintf(tooltipJS, instance, drilldown.PanelOffsetX, drilldown.PanelOffsetY))
}

// TooltipSize returns the outer size of a drill-down panel.
func TooltipSize() (float64, float64) {
	return drilldown.ChartWidth + 2*panelPadding,
		2*panelPadding + panelTitle + panelGap + drilldown.ChartHeight
}

func renderTooltipPanel(buf *bytes.Buffer, index int, bc drilldown.BarChart) {
	w, h := TooltipSize()
	fmt.Fprintf(buf, `    <g class="tooltip" data-index="%d" data-series="%s" visibility="hidden">`+"\n",
		index, EscapeXML(bc.Series))
	fmt.Fprintf(buf, `      <rect width="%s" height="%s" fill="#fff" stroke="#ccc"/>`+"\n", f1(w), f1(h))
	fmt.Fprintf(buf, `      <text x="%s" y="%s" font-weight="bold" font-size="14" dominant-baseline="middle">%s</text>`+"\n",
		f1(panelPadding), f1(panelPadding+panelTitle/2), EscapeXML(bc.Series))
	fmt.Fprintf(buf, `      <g class="bar-chart" transform="translate(%s,%s)">`+"\n",
		f1(panelPadding), f1(panelPadding+panelTitle+panelGap))
	writeBarChart(buf, bc)
	buf.WriteString("      </g>\n    </g>\n")
}

// writeBarChart draws bc in its own coordinate system.
func writeBarChart(buf *bytes.Buffer, bc drilldown.BarChart) {
	base := bc.Baseline()
	left, right := bc.Margin.Left, bc.Width-bc.Margin.Right

	fmt.Fprintf(buf, `        <g class="axis x" transform="translate(0,%s)" font-size="%s" text-anchor="middle">`, f1(base), f1(axisFont))
	fmt.Fprintf(buf, `<path d="M%s,%sV0H%sV%s" fill="none" stroke="currentColor"/>`, f1(left), f1(axisTick), f1(right), f1(axisTick))
	for _, t := range bc.XTicks {
		fmt.Fprintf(buf, `<g transform="translate(%s,0)"><line y2="%s" stroke="currentColor"/><text y="%s" dy="0.71em">%s</text></g>`,
			f1(t.Pos), f1(axisTick), f1(axisTick+3), EscapeXML(t.Label))
	}
	buf.WriteString("</g>\n")

	fmt.Fprintf(buf, `        <g class="axis y" transform="translate(%s,0)" font-size="%s" text-anchor="end">`, f1(left), f1(axisFont))
	fmt.Fprintf(buf, `<path d="M%s,%sH0V%sH%s" fill="none" stroke="currentColor"/>`,
		f1(-axisTick), f1(base), f1(bc.Margin.Top), f1(-axisTick))
	for _, t := range bc.YTicks {
		fmt.Fprintf(buf, `<g transform="translate(0,%s)"><line x2="%s" stroke="currentColor"/><text x="%s" dy="0.32em">%s</text></g>`,
			f1(t.Pos), f1(-axisTick), f1(-axisTick-3), EscapeXML(t.Label))
	}
	buf.WriteString("</g>\n")

	for _, b := range bc.Bars {
		fmt.Fprintf(buf, `        <rect class="bar" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			f1(b.X), f1(b.Y), f1(b.Width), f1(b.Height), EscapeXML(bc.Color))
	}
}
