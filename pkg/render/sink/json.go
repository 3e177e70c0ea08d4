package sink

import (
	"encoding/json"

	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/stream"
	"github.com/matzehuels/wordstream/pkg/stream/drilldown"
)

// JSONOption configures JSON rendering.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	session   string
	drilldown bool
}

// WithJSONSession records the session the document belongs to.
func WithJSONSession(id string) JSONOption { return func(r *jsonRenderer) { r.session = id } }

// WithJSONDrilldown includes the per-series tooltip bar charts.
func WithJSONDrilldown() JSONOption { return func(r *jsonRenderer) { r.drilldown = true } }

// CloudDocument is the JSON form of a cloud pass.
type CloudDocument struct {
	Session      string             `json:"session,omitempty"`
	Width        float64            `json:"width"`
	Height       float64            `json:"height"`
	ContentWidth float64            `json:"content_width"`
	Overflow     bool               `json:"overflow"`
	Scale        float64            `json:"scale"`
	Clamped      bool               `json:"clamped,omitempty"`
	Placements   []layout.Placement `json:"placements"`
	First        bool               `json:"first"`
	Steps        []StepDocument     `json:"steps"`
}

// StepDocument is one transition step with timings in milliseconds.
type StepDocument struct {
	Token      string           `json:"token"`
	Kind       string           `json:"kind"`
	Rank       int              `json:"rank"`
	From       transition.Attrs `json:"from"`
	To         transition.Attrs `json:"to"`
	DelayMS    int64            `json:"delay_ms"`
	DurationMS int64            `json:"duration_ms"`
}

// StreamDocument is the JSON form of a streamgraph.
type StreamDocument struct {
	Session   string               `json:"session,omitempty"`
	Chart     stream.Chart         `json:"chart"`
	Drilldown []drilldown.BarChart `json:"drilldown,omitempty"`
}

// NewCloudDocument converts a layout pass and its plan.
func NewCloudDocument(res layout.Result, plan transition.Plan) CloudDocument {
	doc := CloudDocument{
		Width:        res.Width,
		Height:       res.Height,
		ContentWidth: res.ContentWidth,
		Overflow:     res.Overflow,
		Scale:        res.Scale,
		Clamped:      res.Clamped,
		Placements:   res.Placements,
		First:        plan.First,
		Steps:        make([]StepDocument, len(plan.Steps)),
	}
	if doc.Placements == nil {
		doc.Placements = []layout.Placement{}
	}
	for i, s := range plan.Steps {
		doc.Steps[i] = StepDocument{
			Token:      s.Token,
			Kind:       s.Kind.String(),
			Rank:       s.Rank,
			From:       s.From,
			To:         s.To,
			DelayMS:    s.Delay.Milliseconds(),
			DurationMS: s.Duration.Milliseconds(),
		}
	}
	return doc
}

// RenderCloudJSON exports a cloud pass as a pretty-printed JSON document.
func RenderCloudJSON(res layout.Result, plan transition.Plan, opts ...JSONOption) ([]byte, error) {
	r := newJSONRenderer(opts...)
	doc := NewCloudDocument(res, plan)
	doc.Session = r.session
	return json.MarshalIndent(doc, "", "  ")
}

// RenderStreamJSON exports a streamgraph as a pretty-printed JSON document.
func RenderStreamJSON(chart stream.Chart, opts ...JSONOption) ([]byte, error) {
	r := newJSONRenderer(opts...)
	doc := StreamDocument{Session: r.session, Chart: chart}
	if r.drilldown {
		for _, b := range chart.Bands {
			doc.Drilldown = append(doc.Drilldown, drilldown.BuildBarChart(chart.Records, b.Series, b.Color))
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func newJSONRenderer(opts ...JSONOption) jsonRenderer {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
