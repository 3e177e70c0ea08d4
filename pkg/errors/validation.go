package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// Limits applied to user-supplied canvas and ranking parameters.
const (
	MaxCanvasSize   = 10000.0
	MaxTopN         = 50
	MaxSeriesName   = 64
	MaxSeriesCount  = 32
	MaxSessionIDLen = 64
)

// ValidateDimensions checks that a canvas size is finite, positive and
// within MaxCanvasSize in both directions.
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidDimensions, "%s must be a finite number", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeInvalidDimensions, "%s must be positive, got %v", d.name, d.v)
		}
		if d.v > MaxCanvasSize {
			return New(ErrCodeInvalidDimensions, "%s too large (max %v)", d.name, MaxCanvasSize)
		}
	}
	return nil
}

// ValidateTopN checks the number of labels requested for a word cloud.
func ValidateTopN(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "top-n must be positive, got %d", n)
	}
	if n > MaxTopN {
		return New(ErrCodeInvalidInput, "top-n too large (max %d)", MaxTopN)
	}
	return nil
}

// ValidateSeriesName validates a stream series name. Names end up in SVG
// attributes and CSS selectors, so control characters and quotes are
// rejected.
func ValidateSeriesName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidSeries, "series name cannot be empty")
	}
	if len(name) > MaxSeriesName {
		return New(ErrCodeInvalidSeries, "series name too long (max %d characters)", MaxSeriesName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSeries, "series name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, `"'<>&`) {
		return New(ErrCodeInvalidSeries, "series name contains invalid characters: %q", name)
	}
	return nil
}

// ValidateSeriesNames validates a list of series names and rejects
// duplicates.
func ValidateSeriesNames(names []string) error {
	if len(names) == 0 {
		return New(ErrCodeInvalidSeries, "at least one series is required")
	}
	if len(names) > MaxSeriesCount {
		return New(ErrCodeInvalidSeries, "too many series (max %d)", MaxSeriesCount)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if err := ValidateSeriesName(n); err != nil {
			return err
		}
		if _, dup := seen[n]; dup {
			return New(ErrCodeInvalidSeries, "duplicate series name: %q", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// ValidateHexColor checks that s is a #rgb or #rrggbb color.
func ValidateHexColor(s string) error {
	if _, err := colorful.Hex(s); err != nil {
		return Wrap(ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return nil
}

// ValidateSessionID checks that id is a UUID as issued by the session
// package. Friendly CLI session names are not routed through here.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSession, "session id cannot be empty")
	}
	if len(id) > MaxSessionIDLen {
		return New(ErrCodeInvalidSession, "session id too long")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidSession, err, "malformed session id")
	}
	return nil
}
