package stream

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Cubic is a cubic Bézier segment from the previous end point to P.
type Cubic struct {
	C1, C2, P Point
}

const curveEpsilon = 1e-12

// alpha 0.5 gives the centripetal Catmull-Rom spline, which never forms
// cusps or self-intersections within a segment.
const alpha = 0.5

// CatmullRom returns the Bézier segments of a Catmull-Rom spline through
// pts, starting at pts[0]. The end tangents are clamped: the first and
// last segments use their own end points as outer control points. Two
// points give a single straight segment; fewer give none.
func CatmullRom(pts []Point) []Cubic {
	if len(pts) < 2 {
		return nil
	}
	if len(pts) == 2 {
		return []Cubic{{C1: pts[0], C2: pts[1], P: pts[1]}}
	}
	out := make([]Cubic, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		p1, p2 := pts[i], pts[i+1]
		c1, c2 := p1, p2
		l12a, l12_2a := dist(p1, p2)

		if i > 0 {
			p0 := pts[i-1]
			l01a, l01_2a := dist(p0, p1)
			if l01a > curveEpsilon {
				a := 2*l01_2a + 3*l01a*l12a + l12_2a
				n := 3 * l01a * (l01a + l12a)
				c1 = Point{
					X: (p1.X*a - p0.X*l12_2a + p2.X*l01_2a) / n,
					Y: (p1.Y*a - p0.Y*l12_2a + p2.Y*l01_2a) / n,
				}
			}
		}
		if i+2 < len(pts) {
			p3 := pts[i+2]
			l23a, l23_2a := dist(p2, p3)
			if l23a > curveEpsilon {
				b := 2*l23_2a + 3*l23a*l12a + l12_2a
				m := 3 * l23a * (l23a + l12a)
				c2 = Point{
					X: (p2.X*b + p1.X*l23_2a - p3.X*l12_2a) / m,
					Y: (p2.Y*b + p1.Y*l23_2a - p3.Y*l12_2a) / m,
				}
			}
		}
		out = append(out, Cubic{C1: c1, C2: c2, P: p2})
	}
	return out
}

// LinePath returns the SVG path data of a Catmull-Rom curve through pts.
func LinePath(pts []Point) string {
	var b strings.Builder
	curveTo(&b, pts, false)
	return b.String()
}

// AreaPath returns the closed SVG path of the region between top and
// bottom, which must have the same length. The top edge is drawn left to
// right and the bottom edge right to left, both as Catmull-Rom curves.
func AreaPath(top, bottom []Point) string {
	if len(top) == 0 {
		return ""
	}
	var b strings.Builder
	curveTo(&b, top, false)
	curveTo(&b, Reverse(bottom), true)
	b.WriteString("Z")
	return b.String()
}

// Reverse returns pts in reverse order.
func Reverse(pts []Point) []Point {
	rev := make([]Point, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	return rev
}

// curveTo appends a Catmull-Rom curve through pts. When join is set the
// curve starts with a line from the current point instead of a move.
func curveTo(b *strings.Builder, pts []Point, join bool) {
	if len(pts) == 0 {
		return
	}
	cmd := "M"
	if join {
		cmd = "L"
	}
	fmt.Fprintf(b, "%s%s,%s", cmd, num(pts[0].X), num(pts[0].Y))
	if len(pts) == 2 {
		fmt.Fprintf(b, "L%s,%s", num(pts[1].X), num(pts[1].Y))
		return
	}
	for _, c := range CatmullRom(pts) {
		fmt.Fprintf(b, "C%s,%s,%s,%s,%s,%s",
			num(c.C1.X), num(c.C1.Y), num(c.C2.X), num(c.C2.Y), num(c.P.X), num(c.P.Y))
	}
}

// dist returns |ab|^alpha and |ab|^(2*alpha).
func dist(a, b Point) (float64, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	d2a := math.Pow(dx*dx+dy*dy, alpha)
	return math.Sqrt(d2a), d2a
}

// num formats a coordinate with at most three decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Edges returns the pixel top and bottom edges of the band.
func (b Band) Edges() (top, bottom []Point) {
	top = make([]Point, len(b.Points))
	bottom = make([]Point, len(b.Points))
	for i, p := range b.Points {
		top[i] = Point{X: p.X, Y: p.Y1}
		bottom[i] = Point{X: p.X, Y: p.Y0}
	}
	return top, bottom
}
