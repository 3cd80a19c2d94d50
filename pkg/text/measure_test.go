package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

func TestAhemMeasurer(t *testing.T) {
	var m AhemMeasurer
	f := Font{Size: 10}

	assert.Equal(t, 50.0, m.MeasureRun(f, "hello"))
	assert.Equal(t, 30.0, m.MeasureRun(f, "héé"), "counts runes, not bytes")
	assert.Equal(t, 10.0, m.MeasureWhitespace(f))
	assert.Equal(t, Metrics{Ascent: 8, Descent: 2}, m.Metrics(f))
	assert.Equal(t, 10.0, m.Metrics(f).Height())
}

func TestFaceMeasurerIsDeterministic(t *testing.T) {
	set, err := NewFaceSet(DefaultFontConfig())
	require.NoError(t, err)
	m := NewFaceMeasurer(set)
	f := Font{Family: "sans-serif", Size: 16}

	w1 := m.MeasureRun(f, "Hello, world")
	w2 := NewFaceMeasurer(set).MeasureRun(f, "Hello, world")
	assert.Greater(t, w1, 0.0)
	assert.Equal(t, w1, w2)
	assert.Equal(t, w1, m.MeasureRun(f, "Hello, world"), "cached value matches")

	big := m.MeasureRun(Font{Family: "sans-serif", Size: 32}, "Hello, world")
	assert.InDelta(t, 2*w1, big, 1.0)

	assert.Greater(t, m.MeasureWhitespace(f), 0.0)
	assert.Equal(t, 0.0, m.MeasureRun(f, ""))

	metrics := m.Metrics(f)
	assert.Greater(t, metrics.Ascent, metrics.Descent)
	assert.Greater(t, metrics.Descent, 0.0)
}

func TestFaceMeasurerMonospace(t *testing.T) {
	set, err := NewFaceSet(DefaultFontConfig())
	require.NoError(t, err)
	m := NewFaceMeasurer(set)
	mono := Font{Family: "monospace", Size: 12}

	assert.InDelta(t, m.MeasureRun(mono, "iiii"), m.MeasureRun(mono, "WWWW"), 1e-9)
}

func TestFaceSetFallsBackToRegular(t *testing.T) {
	cfg := DefaultFontConfig()
	set, err := NewFaceSet(FontConfig{Regular: cfg.Regular, Bold: cfg.Bold})
	require.NoError(t, err)

	name, data := set.TTF(Font{Family: "monospace", Bold: true, Italic: true})
	assert.Equal(t, "sans-bold", name)
	assert.Equal(t, cfg.Bold, data)

	_, err = NewFaceSet(FontConfig{})
	assert.Error(t, err)

	_, err = NewFaceSet(FontConfig{Regular: []byte("not a font")})
	assert.Error(t, err)
}

func TestIsMonospace(t *testing.T) {
	assert.True(t, IsMonospace("monospace"))
	assert.True(t, IsMonospace(`"Courier New", monospace`))
	assert.False(t, IsMonospace("Arial, sans-serif"))
	assert.False(t, IsMonospace("serif, monospace"))
}

func TestTransform(t *testing.T) {
	assert.Equal(t, "HELLO WORLD", Transform("hello world", css.TextTransformUppercase, language.English))
	assert.Equal(t, "hello", Transform("HeLLo", css.TextTransformLowercase, language.English))
	assert.Equal(t, "Hello WOrld-Wide", Transform("hello wOrld-wide", css.TextTransformCapitalize, language.English))
	assert.Equal(t, "as is", Transform("as is", css.TextTransformNone, language.English))
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		ws      css.WhiteSpace
		leading bool
		want    string
	}{
		{"runs collapse", "a  \t b\n\nc", css.WhiteSpaceNormal, false, "a b c"},
		{"edges keep one space", "  a  ", css.WhiteSpaceNormal, false, " a "},
		{"leading space dropped after space", "  a", css.WhiteSpaceNormal, true, "a"},
		{"nowrap collapses", "a   b", css.WhiteSpaceNowrap, false, "a b"},
		{"pre keeps everything", "a  \n b", css.WhiteSpacePre, false, "a  \n b"},
		{"pre-line keeps newlines", "a  \n   b", css.WhiteSpacePreLine, false, "a\nb"},
		{"whitespace only", " \n ", css.WhiteSpaceNormal, false, " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collapse(tt.in, tt.ws, tt.leading))
		})
	}
}
