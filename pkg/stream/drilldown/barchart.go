package drilldown

import (
	"strconv"

	"github.com/matzehuels/wordstream/pkg/scale"
	"github.com/matzehuels/wordstream/pkg/series"
	"github.com/matzehuels/wordstream/pkg/stream"
)

// Embedded chart geometry.
const (
	ChartWidth  = 300.0
	ChartHeight = 160.0
	BarPadding  = 0.15
	YTickCount  = 5
)

// ChartMargin is the margin inside the embedded chart.
var ChartMargin = stream.Margin{Top: 30, Right: 20, Bottom: 40, Left: 40}

// Bar is one record's bar. X and Y are the top-left corner in chart
// pixels.
type Bar struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AxisTick is a labeled tick; Pos is x for the band axis and y for the
// value axis.
type AxisTick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// BarChart is the per-series chart shown inside the tooltip.
type BarChart struct {
	Series string        `json:"series"`
	Color  string        `json:"color"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Margin stream.Margin `json:"margin"`
	Max    float64       `json:"max"`
	Bars   []Bar         `json:"bars"`
	XTicks []AxisTick    `json:"x_ticks"`
	YTicks []AxisTick    `json:"y_ticks"`
}

// Baseline returns the pixel y of the value axis origin.
func (c BarChart) Baseline() float64 { return c.Height - c.Margin.Bottom }

// BuildBarChart charts the raw values of name across records.
func BuildBarChart(records []series.Record, name, color string) BarChart {
	c := BarChart{
		Series: name,
		Color:  color,
		Width:  ChartWidth,
		Height: ChartHeight,
		Margin: ChartMargin,
	}
	for _, r := range records {
		c.Max = max(c.Max, r.Value(name))
	}

	x := scale.NewBand(len(records), c.Margin.Left, c.Width-c.Margin.Right, BarPadding)
	y := scale.NewLinear(0, c.Max, c.Baseline(), c.Margin.Top)
	labels := MonthLabels(records)

	c.Bars = make([]Bar, len(records))
	for i, r := range records {
		v := r.Value(name)
		top := y.At(v)
		c.Bars[i] = Bar{
			Label:  labels[i],
			Value:  v,
			X:      x.At(i),
			Y:      top,
			Width:  x.Bandwidth(),
			Height: c.Baseline() - top,
		}
		c.XTicks = append(c.XTicks, AxisTick{Pos: x.At(i) + x.Bandwidth()/2, Label: labels[i]})
	}
	for _, v := range y.Ticks(YTickCount) {
		c.YTicks = append(c.YTicks, AxisTick{Pos: y.At(v), Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return c
}

// MonthLabels returns abbreviated month names for records. When records
// span more than one calendar year the two-digit year is appended so that
// labels stay distinct.
func MonthLabels(records []series.Record) []string {
	layout := "Jan"
	if len(records) > 0 {
		first := records[0].Time.Year()
		for _, r := range records[1:] {
			if r.Time.Year() != first {
				layout = "Jan 06"
				break
			}
		}
	}
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Time.Format(layout)
	}
	return out
}
