package stream

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/wordstream/pkg/series"
)

const tol = 1e-9

func month(m int) time.Time { return time.Date(2024, time.Month(m), 1, 0, 0, 0, 0, time.UTC) }

func records() []series.Record {
	rows := [][]float64{
		{10, 5, 8, 12, 4},
		{30, 20, 10, 25, 15},
		{45, 18, 12, 30, 22},
		{40, 26, 9, 41, 30},
		{52, 31, 7, 38, 35},
		{60, 35, 5, 44, 41},
	}
	out := make([]series.Record, len(rows))
	for i, row := range rows {
		vals := make(map[string]float64, len(row))
		for k, name := range series.DefaultSeries {
			vals[name] = row[k]
		}
		out[i] = series.Record{Time: month(i + 1), Values: vals}
	}
	return out
}

func TestWiggle(t *testing.T) {
	tests := []struct {
		name   string
		values [][]float64
		want   []float64
	}{
		{"empty", nil, nil},
		{"constant", [][]float64{{2, 2, 2}}, []float64{0, 0, 0}},
		{"growing top", [][]float64{{1, 1}, {1, 3}}, []float64{0, -0.75}},
		{"all zero", [][]float64{{0, 0}, {0, 0}}, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wiggle(tt.values)
			if len(got) != len(tt.want) {
				t.Fatalf("Wiggle() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > tol {
					t.Errorf("Wiggle()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildBandConservation(t *testing.T) {
	recs := records()
	chart := Build(recs)

	if len(chart.Bands) != len(series.DefaultSeries) {
		t.Fatalf("got %d bands, want %d", len(chart.Bands), len(series.DefaultSeries))
	}
	for _, b := range chart.Bands {
		for j, p := range b.Points {
			want := recs[j].Value(b.Series)
			if got := p.High - p.Low; math.Abs(got-want) > tol {
				t.Errorf("%s[%d]: thickness %v, want %v", b.Series, j, got, want)
			}
		}
	}
}

func TestBuildBandsDoNotOverlap(t *testing.T) {
	chart := Build(records())
	for i := 1; i < len(chart.Bands); i++ {
		below, above := chart.Bands[i-1], chart.Bands[i]
		for j := range above.Points {
			if math.Abs(above.Points[j].Low-below.Points[j].High) > tol {
				t.Errorf("record %d: %s starts at %v, %s ends at %v",
					j, above.Series, above.Points[j].Low, below.Series, below.Points[j].High)
			}
		}
	}
}

func TestBuildGeometry(t *testing.T) {
	recs := records()
	chart := Build(recs)

	var maxTotal float64
	for _, r := range recs {
		maxTotal = math.Max(maxTotal, r.Total(series.DefaultSeries))
	}
	if chart.YDomain != [2]float64{-0.2 * maxTotal, maxTotal} {
		t.Errorf("YDomain = %v, want [%v %v]", chart.YDomain, -0.2*maxTotal, maxTotal)
	}

	pts := chart.Bands[0].Points
	if pts[0].X != DefaultMargin.Left {
		t.Errorf("first x = %v, want %v", pts[0].X, DefaultMargin.Left)
	}
	if last := pts[len(pts)-1].X; math.Abs(last-(DefaultWidth-DefaultMargin.Right)) > tol {
		t.Errorf("last x = %v, want %v", last, DefaultWidth-DefaultMargin.Right)
	}
	for _, b := range chart.Bands {
		if b.Color != series.DefaultColors[b.Series] {
			t.Errorf("%s color = %s, want %s", b.Series, b.Color, series.DefaultColors[b.Series])
		}
		if !strings.HasPrefix(b.Path, "M") || !strings.HasSuffix(b.Path, "Z") {
			t.Errorf("%s path = %q", b.Series, b.Path)
		}
	}
	if len(chart.Ticks) == 0 || len(chart.Ticks) > DefaultTickCount+1 {
		t.Errorf("got %d ticks", len(chart.Ticks))
	}
	if chart.AxisY() != DefaultHeight-DefaultMargin.Bottom {
		t.Errorf("AxisY() = %v", chart.AxisY())
	}
}

func TestBuildLegendReversed(t *testing.T) {
	chart := Build(records())
	n := len(series.DefaultSeries)
	if len(chart.Legend) != n {
		t.Fatalf("got %d legend entries, want %d", len(chart.Legend), n)
	}
	for i, e := range chart.Legend {
		if want := series.DefaultSeries[n-1-i]; e.Series != want {
			t.Errorf("legend[%d] = %s, want %s", i, e.Series, want)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	chart := Build(nil)
	if !chart.Empty() || len(chart.Ticks) != 0 || len(chart.Legend) != 0 {
		t.Errorf("Build(nil) = %+v, want no bands, ticks or legend", chart)
	}
}

func TestBuildSingleRecord(t *testing.T) {
	chart := Build(records()[:1])
	if len(chart.Bands) != len(series.DefaultSeries) {
		t.Fatalf("got %d bands", len(chart.Bands))
	}
	for _, b := range chart.Bands {
		p := b.Points[0]
		for _, v := range []float64{p.X, p.Y0, p.Y1} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s: non-finite coordinate in %+v", b.Series, p)
			}
		}
		if p.X != DefaultMargin.Left {
			t.Errorf("%s: x = %v, want %v", b.Series, p.X, DefaultMargin.Left)
		}
		if strings.Contains(b.Path, "NaN") {
			t.Errorf("%s: path %q contains NaN", b.Series, b.Path)
		}
	}
}

func TestBuildAllZero(t *testing.T) {
	recs := []series.Record{
		{Time: month(1), Values: map[string]float64{}},
		{Time: month(2), Values: map[string]float64{}},
	}
	chart := Build(recs)
	if chart.YDomain[1] != 1 {
		t.Errorf("YDomain = %v, want max 1", chart.YDomain)
	}
}

func TestBuildCustomSeries(t *testing.T) {
	recs := []series.Record{
		{Time: month(1), Values: map[string]float64{"a": 1, "b": 2}},
		{Time: month(2), Values: map[string]float64{"a": 3, "b": 1}},
	}
	chart := Build(recs, WithSeries("a", "b"), WithColors(map[string]string{"a": "#000000"}), WithSize(300, 200))
	if chart.Colors["a"] != "#000000" {
		t.Errorf("color a = %s", chart.Colors["a"])
	}
	if c := chart.Colors["b"]; len(c) != 7 || c[0] != '#' {
		t.Errorf("generated color b = %q", c)
	}
	if chart.Width != 300 || chart.Height != 200 {
		t.Errorf("size = %vx%v", chart.Width, chart.Height)
	}
}

func TestBandAt(t *testing.T) {
	chart := Build(records())
	for _, b := range chart.Bands {
		p := b.Points[2]
		mid := (p.Y0 + p.Y1) / 2
		got, ok := chart.BandAt(p.X, mid)
		if !ok || got != b.Series {
			t.Errorf("BandAt(%v, %v) = %q, %v, want %q", p.X, mid, got, ok, b.Series)
		}
	}
	if _, ok := chart.BandAt(0, 0); ok {
		t.Error("BandAt(0, 0) hit a band, want miss")
	}
	if _, ok := chart.BandAt(DefaultWidth/2, 1); ok {
		t.Error("BandAt above the stream hit a band, want miss")
	}
}

func TestAreaPath(t *testing.T) {
	top := []Point{{0, 0}, {10, 5}, {20, 0}, {30, 5}}
	bottom := []Point{{0, 10}, {10, 15}, {20, 10}, {30, 15}}
	path := AreaPath(top, bottom)

	if !strings.HasPrefix(path, "M0,0") {
		t.Errorf("path starts %q, want M0,0", path[:min(8, len(path))])
	}
	if !strings.Contains(path, "L30,15") {
		t.Errorf("path %q does not join the bottom edge at its right end", path)
	}
	if got := strings.Count(path, "C"); got != 6 {
		t.Errorf("got %d curve segments, want 6", got)
	}
	if !strings.HasSuffix(path, "Z") {
		t.Errorf("path %q not closed", path)
	}
}

func TestLinePath(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want string
	}{
		{"empty", nil, ""},
		{"single", []Point{{1, 2}}, "M1,2"},
		{"two points", []Point{{0, 0}, {10.5, 4}}, "M0,0L10.5,4"},
		{"collinear", []Point{{0, 0}, {10, 0}, {20, 0}}, "M0,0C0,0,6.667,0,10,0C13.333,0,20,0,20,0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinePath(tt.pts); got != tt.want {
				t.Errorf("LinePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatmullRomInterpolates(t *testing.T) {
	pts := []Point{{0, 0}, {10, 8}, {25, 3}, {40, 12}}
	segs := CatmullRom(pts)
	if len(segs) != len(pts)-1 {
		t.Fatalf("got %d segments, want %d", len(segs), len(pts)-1)
	}
	for i, s := range segs {
		if s.P != pts[i+1] {
			t.Errorf("segment %d ends at %v, want %v", i, s.P, pts[i+1])
		}
	}
	if segs[0].C1 != pts[0] {
		t.Errorf("first control point = %v, want clamped to %v", segs[0].C1, pts[0])
	}
	if last := segs[len(segs)-1]; last.C2 != pts[len(pts)-1] {
		t.Errorf("last control point = %v, want clamped to %v", last.C2, pts[len(pts)-1])
	}
	if CatmullRom(pts[:1]) != nil {
		t.Error("CatmullRom(single point) != nil")
	}
}
