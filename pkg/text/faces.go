package text

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// FontConfig holds TTF data for the styles a document can ask for. Empty
// entries fall back to the regular face of the same kind.
type FontConfig struct {
	Regular        []byte
	Bold           []byte
	Italic         []byte
	BoldItalic     []byte
	Monospace      []byte
	MonoBold       []byte
	MonoItalic     []byte
	MonoBoldItalic []byte
}

// DefaultFontConfig returns the Go font family bundled with x/image.
func DefaultFontConfig() FontConfig {
	return FontConfig{
		Regular:        goregular.TTF,
		Bold:           gobold.TTF,
		Italic:         goitalic.TTF,
		BoldItalic:     gobolditalic.TTF,
		Monospace:      gomono.TTF,
		MonoBold:       gomonobold.TTF,
		MonoItalic:     gomonoitalic.TTF,
		MonoBoldItalic: gomonobolditalic.TTF,
	}
}

// WithRegularFile replaces the proportional regular face with a TTF file.
func (fc FontConfig) WithRegularFile(path string) (FontConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read font %s: %w", path, err)
	}
	fc.Regular = data
	return fc, nil
}

// Style selects one of the eight faces of a FaceSet.
type Style struct {
	Mono, Bold, Italic bool
}

// StyleOf maps a Font to its face style.
func StyleOf(f Font) Style {
	return Style{Mono: IsMonospace(f.Family), Bold: f.Bold, Italic: f.Italic}
}

// Name is a stable identifier for the face, used by backends that register
// fonts by name.
func (s Style) Name() string {
	name := "sans"
	if s.Mono {
		name = "mono"
	}
	switch {
	case s.Bold && s.Italic:
		return name + "-bolditalic"
	case s.Bold:
		return name + "-bold"
	case s.Italic:
		return name + "-italic"
	}
	return name
}

// FaceSet holds parsed fonts. Parsed fonts are immutable and may be shared;
// the faces created from them may not.
type FaceSet struct {
	fonts map[Style]*truetype.Font
	data  map[Style][]byte
}

// NewFaceSet parses every configured face.
func NewFaceSet(fc FontConfig) (*FaceSet, error) {
	set := &FaceSet{fonts: make(map[Style]*truetype.Font), data: make(map[Style][]byte)}
	entries := []struct {
		style Style
		data  []byte
	}{
		{Style{}, fc.Regular},
		{Style{Bold: true}, fc.Bold},
		{Style{Italic: true}, fc.Italic},
		{Style{Bold: true, Italic: true}, fc.BoldItalic},
		{Style{Mono: true}, fc.Monospace},
		{Style{Mono: true, Bold: true}, fc.MonoBold},
		{Style{Mono: true, Italic: true}, fc.MonoItalic},
		{Style{Mono: true, Bold: true, Italic: true}, fc.MonoBoldItalic},
	}
	for _, e := range entries {
		if len(e.data) == 0 {
			continue
		}
		ttf, err := truetype.Parse(e.data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", e.style.Name(), err)
		}
		set.fonts[e.style] = ttf
		set.data[e.style] = e.data
	}
	if set.fonts[Style{}] == nil {
		return nil, fmt.Errorf("font config has no regular face")
	}
	return set, nil
}

// resolve returns the closest configured style for s.
func (fs *FaceSet) resolve(s Style) Style {
	candidates := []Style{
		s,
		{Mono: s.Mono, Bold: s.Bold},
		{Mono: s.Mono, Italic: s.Italic},
		{Mono: s.Mono},
		{Bold: s.Bold, Italic: s.Italic},
		{Bold: s.Bold},
		{},
	}
	for _, c := range candidates {
		if fs.fonts[c] != nil {
			return c
		}
	}
	return Style{}
}

// NewFace creates a face for f. At 72 DPI one point equals one device unit.
func (fs *FaceSet) NewFace(f Font) font.Face {
	ttf := fs.fonts[fs.resolve(StyleOf(f))]
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// TTF returns the face name and raw font data used for f.
func (fs *FaceSet) TTF(f Font) (string, []byte) {
	s := fs.resolve(StyleOf(f))
	return s.Name(), fs.data[s]
}

// Styles lists the configured styles ordered by name.
func (fs *FaceSet) Styles() []Style {
	out := make([]Style, 0, len(fs.fonts))
	for s := range fs.fonts {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Style) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
