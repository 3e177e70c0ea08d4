package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordstream/pkg/cache"
	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/measure"
	"github.com/matzehuels/wordstream/pkg/observability"
	"github.com/matzehuels/wordstream/pkg/series"
	"github.com/matzehuels/wordstream/pkg/stream"
	"github.com/matzehuels/wordstream/pkg/text"
)

// Runner executes cloud passes and stream renders with caching.
//
// A Runner holds no per-viewer state; the caller passes the previous label
// set in and commits [transition.Plan.Next] afterwards. One Runner may serve
// many goroutines.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Measurer measure.Measurer
	Logger   *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses [log.Default]. Text is
// measured with Go Regular, or the width heuristic when the font cannot be
// parsed.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	var m measure.Measurer = measure.Heuristic{}
	if f, err := measure.Default(); err == nil {
		m = f
	} else {
		logger.Warn("falling back to heuristic text measurement", "err", err)
	}
	return &Runner{Cache: c, Keyer: keyer, Measurer: m, Logger: logger}
}

// Cloud runs one word-cloud pass: extract the top terms, lay them out,
// diff against opts.Previous and render the requested formats.
func (r *Runner) Cloud(ctx context.Context, opts CloudOptions) (*CloudResult, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	res := &CloudResult{}

	start := time.Now()
	res.Terms = text.Extract(opts.Text, opts.TopN)
	hooks.OnLayoutStart(ctx, "cloud", len(res.Terms))

	key := r.Keyer.CloudKey(cache.Hash([]byte(opts.Text)), opts.keyOpts())
	if !opts.Refresh && r.load(ctx, "cloud", key, &res.Layout) {
		res.CacheInfo.LayoutHit = true
	} else {
		res.Layout = layout.Place(res.Terms, r.Measurer, opts.layoutOptions()...)
		r.store(ctx, "cloud", key, res.Layout, cache.LayoutTTL)
	}
	res.Plan = transition.Render(opts.Previous, res.Layout)
	res.Stats.Items = len(res.Layout.Placements)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, "cloud", res.Stats.LayoutTime, nil)

	enter, update, exit := res.Plan.Counts()
	hooks.OnTransition(ctx, enter, update, exit)
	opts.Logger.Info("computed cloud layout",
		"labels", res.Stats.Items,
		"enter", enter, "update", update, "exit", exit,
		"overflow", res.Layout.Overflow,
		"duration", res.Stats.LayoutTime)
	if res.Layout.Clamped {
		opts.Logger.Warn("row compressed past minimum scale to stay on canvas", "scale", res.Layout.Scale)
	}

	start = time.Now()
	hooks.OnRenderStart(ctx, "cloud", opts.Formats)
	artifacts, hit, err := r.renderCached(ctx, cloudArtifactHash(res, &opts), opts.Formats, !opts.Static, opts.Refresh,
		func(format string) ([]byte, error) { return r.renderCloud(ctx, res.Layout, res.Plan, &opts, format) })
	res.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, "cloud", opts.Formats, res.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered cloud", "formats", opts.Formats, "cached", hit, "duration", res.Stats.RenderTime)
	return res, nil
}

// Stream builds the streamgraph of opts.Records and renders it.
func (r *Runner) Stream(ctx context.Context, opts StreamOptions) (*StreamResult, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	res := &StreamResult{}

	ds := series.Dataset{Series: opts.Series, Records: append([]series.Record(nil), opts.Records...)}
	ds.SortByTime()

	start := time.Now()
	hooks.OnLayoutStart(ctx, "stream", ds.Len())
	key := r.Keyer.StreamKey(cache.HashJSON(ds.Records), opts.keyOpts())
	if !opts.Refresh && r.load(ctx, "stream", key, &res.Chart) {
		res.Chart.Records = ds.Records
		res.CacheInfo.LayoutHit = true
	} else {
		res.Chart = stream.Build(ds.Records, opts.chartOptions()...)
		r.store(ctx, "stream", key, res.Chart, cache.LayoutTTL)
	}
	res.Stats.Items = ds.Len()
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, "stream", res.Stats.LayoutTime, nil)
	opts.Logger.Info("computed streamgraph",
		"records", ds.Len(),
		"series", len(opts.Series),
		"duration", res.Stats.LayoutTime)

	start = time.Now()
	hooks.OnRenderStart(ctx, "stream", opts.Formats)
	hash := cache.HashJSON(struct {
		Key         string
		Interactive bool
		NoLegend    bool
		NoFont      bool
		Session     string
	}{key, opts.Interactive, opts.NoLegend, opts.NoEmbedFont, opts.Session})
	artifacts, hit, err := r.renderCached(ctx, hash, opts.Formats, opts.Interactive, opts.Refresh,
		func(format string) ([]byte, error) { return r.renderStream(ctx, res.Chart, &opts, format) })
	res.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, "stream", opts.Formats, res.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered streamgraph", "formats", opts.Formats, "cached", hit, "duration", res.Stats.RenderTime)
	return res, nil
}

// renderCached returns every format from the cache, or renders all of them
// when any is missing.
func (r *Runner) renderCached(ctx context.Context, hash string, formats []string, interactive, refresh bool,
	render func(format string) ([]byte, error)) (map[string][]byte, bool, error) {
	keys := make(map[string]string, len(formats))
	for _, f := range formats {
		keys[f] = r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{Format: f, Interactive: interactive})
	}

	artifacts := make(map[string][]byte, len(formats))
	if !refresh {
		for _, f := range formats {
			data, ok := r.loadBytes(ctx, "artifact", keys[f])
			if !ok {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(formats) {
			return artifacts, true, nil
		}
	}

	for _, f := range formats {
		data, err := render(f)
		if err != nil {
			return nil, false, err
		}
		artifacts[f] = data
		r.storeBytes(ctx, "artifact", keys[f], data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

func (r *Runner) load(ctx context.Context, keyType, key string, v any) bool {
	data, ok := r.loadBytes(ctx, keyType, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "type", keyType, "err", err)
		return false
	}
	return true
}

func (r *Runner) loadBytes(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.storeBytes(ctx, keyType, key, data, ttl)
}

// storeBytes never fails the run; a broken cache only costs speed.
func (r *Runner) storeBytes(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(l **log.Logger) {
	if *l == nil {
		*l = r.Logger
	}
}
