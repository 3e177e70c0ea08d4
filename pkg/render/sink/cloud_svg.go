package sink

import (
	"bytes"
	"fmt"
	"time"

	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/fonts"
)

// keySplines approximates cubic in-out easing for SMIL.
const keySplines = "0.645 0.045 0.355 1"

// RenderCloudSVG draws res, animating plan unless [WithStatic] is set.
func RenderCloudSVG(res layout.Result, plan transition.Plan, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	r.open(&buf, res.Width, res.Height)
	buf.WriteString(`  <g class="labels">` + "\n")

	if r.static || len(plan.Steps) == 0 {
		for _, p := range res.Placements {
			writeLabel(&buf, p.Token, transition.Attrs{X: p.X, Y: p.Y, FontSize: p.FontSize, Opacity: 1}, nil)
		}
	} else {
		for _, s := range plan.Steps {
			writeLabel(&buf, s.Token, s.From, &s)
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func writeLabel(buf *bytes.Buffer, token string, a transition.Attrs, step *transition.Step) {
	class := "label"
	if step != nil {
		class += " " + step.Kind.String()
	}
	fmt.Fprintf(buf, `    <text class="%s" x="%s" y="%s" font-size="%s" opacity="%s" fill="%s" font-family="%s" text-anchor="start" dominant-baseline="middle">`,
		class, f1(a.X), f1(a.Y), f1(a.FontSize), f1(a.Opacity), LabelColor, EscapeXML(fonts.FallbackFontFamily))
	buf.WriteString(EscapeXML(token))
	if step != nil {
		writeAnimate(buf, "x", step.From.X, step.To.X, step)
		writeAnimate(buf, "y", step.From.Y, step.To.Y, step)
		writeAnimate(buf, "font-size", step.From.FontSize, step.To.FontSize, step)
		writeAnimate(buf, "opacity", step.From.Opacity, step.To.Opacity, step)
	}
	buf.WriteString("</text>\n")
}

func writeAnimate(buf *bytes.Buffer, attr string, from, to float64, s *transition.Step) {
	if from == to {
		return
	}
	fmt.Fprintf(buf, `<animate attributeName="%s" from="%s" to="%s" begin="%s" dur="%s" fill="freeze" calcMode="spline" keyTimes="0;1" keySplines="%s"/>`,
		attr, f1(from), f1(to), ms(s.Delay), ms(s.Duration), keySplines)
}

func ms(d time.Duration) string { return fmt.Sprintf("%dms", d.Milliseconds()) }
