// Package measure provides the text-width oracle used by the label layout.
//
// The layout engine asks a [Measurer] for the pixel advance of a token at a
// font size. [Face] measures with real glyph advances from an OpenType font
// (Go Regular by default, the same face embedded in SVG output), while
// [Heuristic] estimates from rune count and is useful in tests.
package measure

import (
	"math"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer returns the rendered width in pixels of text at fontSize pixels.
type Measurer interface {
	Measure(text string, fontSize float64) float64
}

// Func adapts a plain function to the Measurer interface.
type Func func(text string, fontSize float64) float64

// Measure calls f.
func (f Func) Measure(text string, fontSize float64) float64 { return f(text, fontSize) }

// Face measures text with an OpenType font. Faces are created lazily per
// font size and cached; Face is safe for concurrent use.
type Face struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// New parses TTF/OTF data into a Face.
func New(data []byte) (*Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Face{font: f, faces: make(map[float64]font.Face)}, nil
}

// NewGoRegular returns a Face for the embedded Go Regular font.
func NewGoRegular() (*Face, error) {
	return New(goregular.TTF)
}

var (
	defaultFace     *Face
	defaultFaceErr  error
	defaultFaceOnce sync.Once
)

// Default returns a shared Go Regular Face.
func Default() (*Face, error) {
	defaultFaceOnce.Do(func() {
		defaultFace, defaultFaceErr = NewGoRegular()
	})
	return defaultFace, defaultFaceErr
}

// Face returns the font.Face for size pixels. DPI is fixed at 72 so one
// point equals one pixel, matching CSS px in the SVG output.
func (f *Face) Face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := f.NewFace(size)
	if err != nil {
		return nil, err
	}
	f.faces[size] = face
	return face, nil
}

// NewFace returns an uncached font.Face for size pixels. The caller owns
// it; font.Face values are not safe for concurrent use, so drawing code
// takes its own instead of sharing the measuring cache.
func (f *Face) NewFace(size float64) (font.Face, error) {
	return opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Measure returns the advance width of text at fontSize. Sizes that cannot
// produce a face fall back to the heuristic estimate.
func (f *Face) Measure(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	face, err := f.Face(fontSize)
	if err != nil {
		return Heuristic{}.Measure(text, fontSize)
	}
	f.mu.Lock()
	adv := font.MeasureString(face, text)
	f.mu.Unlock()
	return float64(adv) / 64
}

// Close releases all cached faces.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first error
	for size, face := range f.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
		delete(f.faces, size)
	}
	return first
}

const defaultCharWidth = 0.55

// Heuristic estimates width as runes × fontSize × CharWidth.
// A zero CharWidth uses 0.55, a typical sans-serif average.
type Heuristic struct {
	CharWidth float64
}

// Measure implements Measurer.
func (h Heuristic) Measure(text string, fontSize float64) float64 {
	cw := h.CharWidth
	if cw <= 0 {
		cw = defaultCharWidth
	}
	return math.Max(0, float64(utf8.RuneCountInString(text))*fontSize*cw)
}
