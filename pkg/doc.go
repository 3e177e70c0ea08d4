// Package pkg provides the libraries behind wordstream.
//
// # Overview
//
// Wordstream has two visualizations. The word cloud shows the most
// frequent words of a text in a single row; each new pass animates from the
// previous one, keyed by token. The streamgraph stacks time series around a
// wiggle baseline and opens a bar-chart tooltip when a band is hovered.
//
// # Data Flow
//
//	text ─→ [text] ─→ [cloud/layout] ─→ [cloud/transition] ─→ [render/sink]
//	                        ↑                   ↑
//	                    [measure]      previous RenderedLabelSet ([session])
//
//	CSV/XLSX ─→ [series] ─→ [stream] ─→ [stream/drilldown] ─→ [render/sink]
//	                           ↑
//	                        [scale]
//
// [pipeline] runs both flows with caching ([cache]) and hooks
// ([observability], implemented by [metrics]). [anim] and [surface] replay a
// transition plan frame by frame for Go hosts; SVG output plays it as SMIL.
//
// # Quick Start
//
//	terms := text.Extract(input, 10)
//	res := layout.Place(terms, measure.Heuristic{})
//	plan := transition.Render(prev, res)
//	svg := sink.RenderCloudSVG(res, plan)
//
// [text]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/text
// [measure]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/measure
// [cloud/layout]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/cloud/layout
// [cloud/transition]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/cloud/transition
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/render/sink
// [session]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/session
// [series]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/series
// [stream]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/stream
// [stream/drilldown]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/stream/drilldown
// [scale]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/scale
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/metrics
// [anim]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/anim
// [surface]: https://pkg.go.dev/github.com/matzehuels/wordstream/pkg/surface
package pkg
