// Package config loads wordstream settings.
//
// Values are layered, later sources winning:
//  1. [Default]
//  2. a YAML file, given explicitly or through WORDSTREAM_CONFIG
//  3. environment variables with the WORDSTREAM_ prefix
//
// Nested keys use a double underscore in the environment, so
// WORDSTREAM_CLOUD__TOP_N=8 sets cloud.top_n. List values are
// comma-separated: WORDSTREAM_STREAM__SERIES=a,b,c.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/wordstream/pkg/cloud/layout"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/series"
	"github.com/matzehuels/wordstream/pkg/stream"
	"github.com/matzehuels/wordstream/pkg/text"
)

const (
	EnvPrefix = "WORDSTREAM_"
	EnvConfig = "WORDSTREAM_CONFIG"
)

// Config is the full process configuration.
type Config struct {
	LogLevel   string        `koanf:"log_level" json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Addr       string        `koanf:"addr" json:"addr" jsonschema:"description=HTTP listen address"`
	CacheDir   string        `koanf:"cache_dir" json:"cache_dir,omitempty" jsonschema:"description=File cache directory; empty uses the user cache dir"`
	NoCache    bool          `koanf:"no_cache" json:"no_cache,omitempty"`
	RedisAddr  string        `koanf:"redis_addr" json:"redis_addr,omitempty" jsonschema:"description=Redis address for shared cache and sessions"`
	SessionTTL time.Duration `koanf:"session_ttl" json:"session_ttl" jsonschema:"type=string,description=Idle lifetime of a cloud session such as 24h"`
	Cloud      CloudConfig   `koanf:"cloud" json:"cloud"`
	Stream     StreamConfig  `koanf:"stream" json:"stream"`
}

// CloudConfig holds word-cloud layout settings.
type CloudConfig struct {
	Width    float64 `koanf:"width" json:"width"`
	Height   float64 `koanf:"height" json:"height"`
	TopN     int     `koanf:"top_n" json:"top_n" jsonschema:"minimum=1"`
	Margin   float64 `koanf:"margin" json:"margin"`
	Padding  float64 `koanf:"padding" json:"padding"`
	MinScale float64 `koanf:"min_scale" json:"min_scale" jsonschema:"exclusiveMinimum=0,maximum=1"`
}

// StreamConfig holds streamgraph settings.
type StreamConfig struct {
	Width  float64           `koanf:"width" json:"width"`
	Height float64           `koanf:"height" json:"height"`
	Series []string          `koanf:"series" json:"series"`
	Colors map[string]string `koanf:"colors" json:"colors,omitempty" jsonschema:"description=Series name to hex color"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Addr:       ":8080",
		SessionTTL: 24 * time.Hour,
		Cloud: CloudConfig{
			Width:    layout.DefaultWidth,
			Height:   layout.DefaultHeight,
			TopN:     text.DefaultTopN,
			Margin:   layout.DefaultMargin,
			Padding:  layout.DefaultPadding,
			MinScale: layout.DefaultMinScale,
		},
		Stream: StreamConfig{
			Width:  stream.DefaultWidth,
			Height: stream.DefaultHeight,
			Series: append([]string(nil), series.DefaultSeries...),
		},
	}
}

// Load layers path (or $WORDSTREAM_CONFIG when path is empty) and the
// environment over [Default], then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read environment")
	}

	// decoding into a non-nil slice keeps stale trailing elements
	cfg := Default()
	cfg.Stream.Series = nil
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if len(cfg.Stream.Series) == 0 {
		cfg.Stream.Series = append([]string(nil), series.DefaultSeries...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that feeds a layout or chart.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown log level %q", c.LogLevel)
	}
	if c.SessionTTL <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "session_ttl must be positive")
	}
	if err := c.Cloud.Validate(); err != nil {
		return err
	}
	return c.Stream.Validate()
}

func (c CloudConfig) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidateTopN(c.TopN); err != nil {
		return err
	}
	if c.Margin < 0 || 2*c.Margin >= c.Width {
		return errors.New(errors.ErrCodeInvalidDimensions, "margin %v leaves no room in width %v", c.Margin, c.Width)
	}
	if c.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "padding must not be negative")
	}
	if c.MinScale <= 0 || c.MinScale > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "min_scale must be in (0, 1], got %v", c.MinScale)
	}
	return nil
}

// LayoutOptions converts the settings into layout options.
func (c CloudConfig) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithSize(c.Width, c.Height),
		layout.WithMargin(c.Margin),
		layout.WithPadding(c.Padding),
		layout.WithMinScale(c.MinScale),
	}
}

func (c StreamConfig) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidateSeriesNames(c.Series); err != nil {
		return err
	}
	for name, hex := range c.Colors {
		if err := errors.ValidateHexColor(hex); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "color for series %q", name)
		}
	}
	return nil
}

// ChartOptions converts the settings into chart options.
func (c StreamConfig) ChartOptions() []stream.Option {
	opts := []stream.Option{
		stream.WithSize(c.Width, c.Height),
		stream.WithSeries(c.Series...),
	}
	if len(c.Colors) > 0 {
		opts = append(opts, stream.WithColors(c.Colors))
	}
	return opts
}
