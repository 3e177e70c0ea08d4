// Package cache stores rendered artifacts and intermediate results keyed by
// content hash.
//
// Three backends implement [Cache]:
//   - [NullCache] disables caching
//   - [FileCache] keeps entries on disk for the CLI
//   - [RedisCache] shares entries between server instances
//
// [MemoryCache] is an in-process map used by tests and single-instance
// servers. Keys are produced by a [Keyer] so every backend sees the same
// namespace layout.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	// LayoutTTL applies to cloud layouts and stream charts.
	LayoutTTL = 24 * time.Hour

	// ArtifactTTL applies to rendered SVG, PNG, PDF and JSON bytes.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// CloudKeyOpts lists the layout parameters that change a cloud result.
type CloudKeyOpts struct {
	TopN     int     `json:"top_n"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Margin   float64 `json:"margin"`
	Padding  float64 `json:"padding"`
	MinScale float64 `json:"min_scale"`
}

// StreamKeyOpts lists the chart parameters that change a stream result.
type StreamKeyOpts struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Series []string `json:"series"`
	Colors []string `json:"colors"`
}

// ArtifactKeyOpts identifies one rendered output of a cached result.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Interactive bool   `json:"interactive,omitempty"`
	Scale       int    `json:"scale,omitempty"`
}

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// CloudKey identifies a cloud layout for the hashed input text.
	CloudKey(textHash string, opts CloudKeyOpts) string

	// StreamKey identifies a stream chart for the hashed input records.
	StreamKey(dataHash string, opts StreamKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout or chart.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the input hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) CloudKey(textHash string, opts CloudKeyOpts) string {
	return hashKey("cloud", textHash, opts)
}

func (DefaultKeyer) StreamKey(dataHash string, opts StreamKeyOpts) string {
	return hashKey("stream", dataHash, opts)
}

func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
