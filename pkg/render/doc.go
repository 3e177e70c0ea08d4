// Package render converts rendered SVG documents into other formats.
//
// # Overview
//
// The chart-specific output lives in the [sink] subpackage, which writes
// SVG, PNG and JSON directly. This package covers the formats that need an
// external tool: [ToPDF] shells out to rsvg-convert from librsvg.
//
//	svg := sink.RenderStreamSVG(chart, sink.WithTooltips())
//	pdf, err := render.ToPDF(ctx, svg)
//
// [Available] reports whether rsvg-convert is on PATH; callers use it to
// fail fast before doing any layout work.
//
// [sink]: github.com/matzehuels/wordstream/pkg/render/sink
package render
