package pipeline

import (
	"context"

	"github.com/matzehuels/wordstream/pkg/cache"
	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/measure"
	"github.com/matzehuels/wordstream/pkg/render"
	"github.com/matzehuels/wordstream/pkg/render/sink"
	"github.com/matzehuels/wordstream/pkg/stream"
)

// cloudArtifactHash identifies the rendered output of a pass. The plan is
// part of it because the same layout animates differently after different
// previous passes.
func cloudArtifactHash(res *CloudResult, opts *CloudOptions) string {
	return cache.HashJSON(struct {
		Layout  layout.Result
		Plan    transition.Plan
		Static  bool
		NoFont  bool
		Session string
	}{res.Layout, res.Plan, opts.Static, opts.NoEmbedFont, opts.Session})
}

func (r *Runner) renderCloud(ctx context.Context, res layout.Result, plan transition.Plan, opts *CloudOptions, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderCloudSVG(res, plan, cloudSVGOptions(opts, opts.Static)...), nil
	case FormatPNG:
		return sink.RenderCloudPNG(res, r.pngOptions()...)
	case FormatPDF:
		// PDF has no timeline; convert the settled frame.
		svg := sink.RenderCloudSVG(res, plan, cloudSVGOptions(opts, true)...)
		return render.ToPDF(ctx, svg)
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Session != "" {
			jsonOpts = append(jsonOpts, sink.WithJSONSession(opts.Session))
		}
		return sink.RenderCloudJSON(res, plan, jsonOpts...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported cloud format: %s", format)
}

func cloudSVGOptions(opts *CloudOptions, static bool) []sink.SVGOption {
	var out []sink.SVGOption
	if static {
		out = append(out, sink.WithStatic())
	}
	if opts.NoEmbedFont {
		out = append(out, sink.WithoutEmbeddedFont())
	}
	if opts.Session != "" {
		out = append(out, sink.WithInstanceID(opts.Session))
	}
	return out
}

func (r *Runner) renderStream(ctx context.Context, chart stream.Chart, opts *StreamOptions, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderStreamSVG(chart, streamSVGOptions(opts, opts.Interactive)...), nil
	case FormatPNG:
		pngOpts := append(r.pngOptions(), sink.WithPNGLegend(!opts.NoLegend))
		return sink.RenderStreamPNG(chart, pngOpts...)
	case FormatPDF:
		svg := sink.RenderStreamSVG(chart, streamSVGOptions(opts, false)...)
		return render.ToPDF(ctx, svg)
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Session != "" {
			jsonOpts = append(jsonOpts, sink.WithJSONSession(opts.Session))
		}
		if opts.Interactive {
			jsonOpts = append(jsonOpts, sink.WithJSONDrilldown())
		}
		return sink.RenderStreamJSON(chart, jsonOpts...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported stream format: %s", format)
}

func streamSVGOptions(opts *StreamOptions, tooltips bool) []sink.SVGOption {
	var out []sink.SVGOption
	if tooltips {
		out = append(out, sink.WithTooltips())
	}
	if opts.NoLegend {
		out = append(out, sink.WithoutLegend())
	}
	if opts.NoEmbedFont {
		out = append(out, sink.WithoutEmbeddedFont())
	}
	if opts.Session != "" {
		out = append(out, sink.WithInstanceID(opts.Session))
	}
	return out
}

// pngOptions draws with the runner's font when it measures with one, so
// raster glyphs match the layout widths.
func (r *Runner) pngOptions() []sink.PNGOption {
	if f, ok := r.Measurer.(*measure.Face); ok {
		return []sink.PNGOption{sink.WithFace(f)}
	}
	return nil
}
