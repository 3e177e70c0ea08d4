package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordstream/pkg/config"
	"github.com/matzehuels/wordstream/pkg/pipeline"
	"github.com/matzehuels/wordstream/pkg/series"
)

// streamOpts holds the flags of the stream command.
type streamOpts struct {
	output      string
	formats     string
	series      []string // stacking order; default from the file header
	colors      []string // name=#hex pairs
	width       float64
	height      float64
	interactive bool
	noLegend    bool
	noFont      bool
	noCache     bool
	refresh     bool
}

// streamCommand creates the stream command.
func (c *CLI) streamCommand() *cobra.Command {
	var opts streamOpts

	cmd := &cobra.Command{
		Use:   "stream [file]",
		Short: "Render a wiggle streamgraph from CSV or XLSX records",
		Long: `Render time-indexed series as a streamgraph with a wiggle baseline.

The input is a CSV or XLSX file whose first column is a date and whose
remaining columns are numeric series. With --interactive the SVG carries a
drill-down tooltip per series showing its monthly values as a bar chart.`,
		Example: `  wordstream stream usage.csv
  wordstream stream usage.xlsx --interactive -o usage.svg
  wordstream stream usage.csv --series GPT-4,Claude --color Claude=#d97757`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runStream(ctx, cmd, cfg, args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVar(&opts.formats, "format", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringSliceVar(&opts.series, "series", nil, "series to stack, bottom first (default: file columns)")
	f.StringArrayVar(&opts.colors, "color", nil, "series color as name=#rrggbb (repeatable)")
	f.Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	f.Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "embed drill-down tooltips")
	f.BoolVar(&opts.noLegend, "no-legend", false, "omit the legend")
	f.BoolVar(&opts.noFont, "no-embed-font", false, "do not embed the font in SVG output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

func (c *CLI) runStream(ctx context.Context, cmd *cobra.Command, cfg *config.Config, input string, opts *streamOpts) error {
	logger := loggerFromContext(ctx)
	out := printer{w: cmd.OutOrStdout()}

	ds, err := series.Load(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded records", "file", input, "records", ds.Len(), "series", ds.Series)

	colors, err := parseColors(cfg.Stream.Colors, opts.colors)
	if err != nil {
		return err
	}
	names := opts.series
	if len(names) == 0 {
		names = ds.Series
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	req := pipeline.StreamOptions{
		Records:     ds.Records,
		Series:      names,
		Colors:      colors,
		Width:       pick(opts.width, cfg.Stream.Width),
		Height:      pick(opts.height, cfg.Stream.Height),
		Formats:     parseFormats(opts.formats),
		Interactive: opts.interactive,
		NoLegend:    opts.noLegend,
		NoEmbedFont: opts.noFont,
		Refresh:     opts.refresh,
		Logger:      logger,
	}

	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering streamgraph...")
	if len(req.Formats) > 1 {
		spin.Start()
	}
	prog := newProgress(logger)
	res, err := runner.Stream(ctx, req)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Stacked %d series over %d records", len(req.Series), res.Stats.Items))

	paths := outputPaths(opts.output, input, "streamgraph", req.Formats)
	written, err := writeArtifacts(cmd.OutOrStdout(), res.Artifacts, req.Formats, paths)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		return nil
	}
	out.success("Rendered streamgraph")
	for _, p := range written {
		out.file(p)
	}
	out.stats(res.Stats.Items, "records", 0, 0, res.CacheInfo.RenderHit)
	return nil
}

// parseColors merges configured colors with name=#hex flag values. Flag
// values win. Hex validation happens in the pipeline.
func parseColors(base map[string]string, flags []string) (map[string]string, error) {
	if len(base) == 0 && len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(base)+len(flags))
	for k, v := range base {
		out[k] = v
	}
	for _, kv := range flags {
		name, hex, ok := strings.Cut(kv, "=")
		if !ok || name == "" || hex == "" {
			return nil, fmt.Errorf("invalid --color %q (want name=#rrggbb)", kv)
		}
		out[name] = hex
	}
	return out, nil
}
