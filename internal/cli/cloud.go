package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordstream/pkg/config"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/pipeline"
	"github.com/matzehuels/wordstream/pkg/session"
)

// cloudOpts holds the flags of the cloud command.
type cloudOpts struct {
	file       string // read text from this file ("-" for stdin)
	output     string // output file or base path
	formats    string // comma-separated output formats
	session    string // named session carrying the previous pass
	sessionDir string // session directory override
	reset      bool   // drop the session before this pass
	topN       int
	width      float64
	height     float64
	static     bool
	noFont     bool
	noCache    bool
	refresh    bool
}

// cloudCommand creates the cloud command.
func (c *CLI) cloudCommand() *cobra.Command {
	var opts cloudOpts

	cmd := &cobra.Command{
		Use:   "cloud [text...]",
		Short: "Lay out the most frequent words of a text",
		Long: `Lay out the top-N words of a text in a single row, sized by frequency.

Text comes from the arguments, --file, or standard input. With --session the
previous pass of the same name is loaded so the SVG animates entering,
moving and leaving words instead of starting from scratch.`,
		Example: `  wordstream cloud "the cat sat on the mat"
  wordstream cloud -f speech.txt --session talk -o talk.svg
  cat notes.txt | wordstream cloud --format svg,png,json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			input, err := readText(cmd.InOrStdin(), args, opts.file)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runCloud(ctx, cmd, cfg, input, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "read text from file (- for stdin)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVar(&opts.formats, "format", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringVarP(&opts.session, "session", "s", "", "named session; animates from its previous pass")
	f.StringVar(&opts.sessionDir, "session-dir", "", "session directory (default user config dir)")
	f.BoolVar(&opts.reset, "reset", false, "start the session over")
	f.IntVarP(&opts.topN, "top-n", "n", 0, "number of words to show (default from config)")
	f.Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	f.Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	f.BoolVar(&opts.static, "static", false, "render the final frame without animation")
	f.BoolVar(&opts.noFont, "no-embed-font", false, "do not embed the font in SVG output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

func (c *CLI) runCloud(ctx context.Context, cmd *cobra.Command, cfg *config.Config, input string, opts *cloudOpts) error {
	logger := loggerFromContext(ctx)
	out := printer{w: cmd.OutOrStdout()}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	req := pipeline.CloudOptions{
		Text:        input,
		TopN:        pick(opts.topN, cfg.Cloud.TopN),
		Width:       pick(opts.width, cfg.Cloud.Width),
		Height:      pick(opts.height, cfg.Cloud.Height),
		Margin:      cfg.Cloud.Margin,
		Padding:     cfg.Cloud.Padding,
		MinScale:    cfg.Cloud.MinScale,
		Formats:     parseFormats(opts.formats),
		Static:      opts.static,
		NoEmbedFont: opts.noFont,
		Refresh:     opts.refresh,
		Logger:      logger,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var (
		store session.Store
		sess  *session.Session
	)
	if opts.session != "" {
		fs, err := session.NewFileStore(opts.sessionDir)
		if err != nil {
			return err
		}
		store = fs
		defer store.Close()
		if sess, err = loadSession(ctx, store, opts.session, opts.reset, cfg); err != nil {
			return err
		}
		req.Previous = sess.Labels
		req.Session = sess.ID
		logger.Debug("session loaded", "name", sess.ID, "passes", sess.Passes, "labels", sess.Labels.Len())
	}

	prog := newProgress(logger)
	res, err := runner.Cloud(ctx, req)
	if err != nil {
		return err
	}
	enters, _, exits := res.Plan.Counts()
	prog.done(fmt.Sprintf("Laid out %d labels", len(res.Layout.Placements)))

	if store != nil {
		sess.Commit(res.Plan.Next, cfg.SessionTTL)
		if err := store.Set(ctx, sess); err != nil {
			return err
		}
	}

	paths := outputPaths(opts.output, opts.file, "wordcloud", req.Formats)
	written, err := writeArtifacts(cmd.OutOrStdout(), res.Artifacts, req.Formats, paths)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		return nil
	}
	out.success("Rendered word cloud")
	for _, p := range written {
		out.file(p)
	}
	out.stats(len(res.Layout.Placements), "labels", enters, exits, res.CacheInfo.LayoutHit)
	if res.Layout.Clamped {
		out.warning("row compressed past minimum scale to stay on canvas")
	}
	if sess != nil {
		out.detail("session %s, pass %d", sess.ID, sess.Passes)
	}
	return nil
}

// loadSession returns the named session, creating it when missing or when
// reset is set.
func loadSession(ctx context.Context, store session.Store, name string, reset bool, cfg *config.Config) (*session.Session, error) {
	if err := session.ValidateName(name); err != nil {
		return nil, err
	}
	if reset {
		if err := store.Delete(ctx, name); err != nil {
			return nil, err
		}
	}
	sess, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = session.Named(name, cfg.SessionTTL)
	}
	return sess, nil
}

// readText returns the input of a cloud pass. Arguments win over --file;
// with neither, standard input is read.
func readText(stdin io.Reader, args []string, file string) (string, error) {
	if len(args) > 0 {
		if file != "" {
			return "", errors.New(errors.ErrCodeInvalidInput, "pass text as arguments or --file, not both")
		}
		return strings.Join(args, " "), nil
	}
	var (
		data []byte
		err  error
	)
	switch file {
	case "", stdoutPath:
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(file)
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", file)
		}
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read input")
	}
	return string(data), nil
}

// pick returns v unless it is zero.
func pick[T int | float64](v, fallback T) T {
	if v != 0 {
		return v
	}
	return fallback
}
