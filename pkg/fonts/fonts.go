// Package fonts provides the font used for both text measurement and SVG
// output.
//
// Label widths are computed from the Go Regular outlines, so the SVG embeds
// the same face as an @font-face data URI. Browsers without the embedded
// font fall back to sans-serif and may render slightly wider or narrower
// labels than were measured.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
)

// GoRegularTTF returns the TTF font data.
func GoRegularTTF() []byte {
	return goregular.TTF
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// GoRegularBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func GoRegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// FontFamily is the CSS font-family name declared for the embedded face.
const FontFamily = "Go Regular"

// FallbackFontFamily provides fallback fonts for systems without the embedded font.
const FallbackFontFamily = `'Go Regular', sans-serif`
