// Package text is the text measurement gateway used by layout: font
// descriptions, the Measurer interface and its implementations, and the
// string transforms applied while building the box tree.
package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// Font identifies a face at a size. Size is in device units (px).
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// FontOf returns the font a resolved style draws and measures with.
func FontOf(st *css.ResolvedStyle) Font {
	return Font{
		Family: st.FontFamily(),
		Size:   st.FontSize(),
		Bold:   st.FontWeight() == css.FontWeightBold,
		Italic: st.FontStyle() != css.FontStyleNormal,
	}
}

// Metrics are the vertical metrics of a font in px.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Height is Ascent+Descent.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Measurer is the text measurement gateway. Implementations must return
// identical results for identical inputs; any caching is theirs.
type Measurer interface {
	MeasureWhitespace(f Font) float64
	MeasureRun(f Font, s string) float64
	Metrics(f Font) Metrics
}

type runKey struct {
	font Font
	text string
}

// FaceMeasurer measures with TrueType faces from a FaceSet. It caches
// advances by (font, text) and is not safe for concurrent use; give each
// render request its own.
type FaceMeasurer struct {
	set   *FaceSet
	faces map[Font]font.Face
	runs  map[runKey]float64
}

func NewFaceMeasurer(set *FaceSet) *FaceMeasurer {
	return &FaceMeasurer{
		set:   set,
		faces: make(map[Font]font.Face),
		runs:  make(map[runKey]float64),
	}
}

func (m *FaceMeasurer) face(f Font) font.Face {
	face, ok := m.faces[f]
	if !ok {
		face = m.set.NewFace(f)
		m.faces[f] = face
	}
	return face
}

func (m *FaceMeasurer) MeasureRun(f Font, s string) float64 {
	if s == "" {
		return 0
	}
	key := runKey{f, s}
	if w, ok := m.runs[key]; ok {
		return w
	}
	w := fixedToFloat(font.MeasureString(m.face(f), s))
	m.runs[key] = w
	return w
}

func (m *FaceMeasurer) MeasureWhitespace(f Font) float64 {
	return m.MeasureRun(f, " ")
}

func (m *FaceMeasurer) Metrics(f Font) Metrics {
	fm := m.face(f).Metrics()
	return Metrics{Ascent: fixedToFloat(fm.Ascent), Descent: fixedToFloat(fm.Descent)}
}

// AhemMeasurer mimics the Ahem test font: every glyph, including the space,
// is a square one em wide, with ascent 0.8em and descent 0.2em. Geometry in
// tests becomes exact and independent of installed fonts.
type AhemMeasurer struct{}

func (AhemMeasurer) MeasureWhitespace(f Font) float64 { return f.Size }

func (AhemMeasurer) MeasureRun(f Font, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size
}

func (AhemMeasurer) Metrics(f Font) Metrics {
	return Metrics{Ascent: 0.8 * f.Size, Descent: 0.2 * f.Size}
}

// IsMonospace reports whether a font-family list asks for a monospace face
// before any other generic family.
func IsMonospace(family string) bool {
	for _, name := range strings.Split(family, ",") {
		name = strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
		switch name {
		case "monospace", "courier", "courier new", "consolas", "menlo", "go mono":
			return true
		case "serif", "sans-serif", "cursive", "fantasy", "system-ui":
			return false
		}
	}
	return false
}
