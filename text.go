package overlay

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TextMeasurer computes the bounding size of a text label. Entities never
// lay out text themselves; they store what the measurer returns.
type TextMeasurer interface {
	MeasureText(s string, fontSize float64, family string) (width, height float64, err error)
}

// TextLabel is the text content of a measurement entity in text-entry mode.
type TextLabel struct {
	Text       string
	FontSize   float64
	FontFamily string // empty selects the measurer's default family
	Align      TextAlign
	LineHeight float64 // override; 0 = font metrics

	// Bounding size as reported by the text-layout collaborator.
	Width, Height float64
}

// TTFMeasurer measures text with Ebitengine's text/v2 shaping. The zero
// value has no fonts and is ready for RegisterFont.
type TTFMeasurer struct {
	sources  map[string]*text.GoTextFaceSource
	fallback string
}

// NewTTFMeasurer creates a measurer with no fonts registered.
func NewTTFMeasurer() *TTFMeasurer {
	return &TTFMeasurer{sources: make(map[string]*text.GoTextFaceSource)}
}

// RegisterFont parses TrueType/OpenType data and makes it available under
// family. The first registered family becomes the default.
func (m *TTFMeasurer) RegisterFont(family string, ttfData []byte) error {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return fmt.Errorf("overlay: failed to parse font %q: %w", family, err)
	}
	if m.sources == nil {
		m.sources = make(map[string]*text.GoTextFaceSource)
	}
	m.sources[family] = source
	if m.fallback == "" {
		m.fallback = family
	}
	return nil
}

// MeasureText returns the width and height of s rendered at fontSize.
// Unknown families fall back to the default family.
func (m *TTFMeasurer) MeasureText(s string, fontSize float64, family string) (width, height float64, err error) {
	if fontSize <= 0 || !finite(fontSize) {
		return 0, 0, fmt.Errorf("overlay: font size %v: %w", fontSize, ErrInvalidFontSize)
	}
	source, ok := m.sources[family]
	if !ok {
		source, ok = m.sources[m.fallback]
	}
	if !ok {
		return 0, 0, fmt.Errorf("overlay: font %q: %w", family, ErrUnknownFont)
	}
	face := &text.GoTextFace{Source: source, Size: fontSize}
	metrics := face.Metrics()
	lh := metrics.HAscent + metrics.HDescent + metrics.HLineGap
	width, height = text.Measure(s, face, lh)
	return width, height, nil
}
