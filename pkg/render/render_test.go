package render

import (
	"bytes"
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/paint"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

var (
	white = css.Color{R: 255, G: 255, B: 255, A: 255}
	red   = css.Color{R: 255, A: 255}
)

func newTestSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	faces, err := text.NewFaceSet(text.DefaultFontConfig())
	require.NoError(t, err)
	s := NewSurface(w, h, faces)
	s.Clear(white)
	return s
}

func rgba(s *Surface, x, y int) color.RGBA {
	return color.RGBAModel.Convert(s.Image().At(x, y)).(color.RGBA)
}

func TestFillRect(t *testing.T) {
	s := newTestSurface(t, 20, 20)
	s.FillRect(layout.Rect{X: 5, Y: 5, Width: 10, Height: 10}, red)

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(s, 10, 10))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(s, 2, 2))
}

func TestFillRoundedPathLeavesCornersOpen(t *testing.T) {
	s := newTestSurface(t, 40, 40)
	s.FillPath(paint.RoundedRect(layout.Rect{Width: 40, Height: 40}, [4]float64{15, 15, 15, 15}), red)

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(s, 20, 20))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(s, 20, 1), "straight top edge")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(s, 0, 0), "rounded corner")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(s, 39, 39))
}

func TestReplayDrawsText(t *testing.T) {
	s := newTestSurface(t, 60, 30)
	cmds := []paint.Command{{
		Kind:     paint.KindText,
		Text:     "Hello",
		Font:     text.Font{Family: "sans-serif", Size: 20},
		Rect:     layout.Rect{X: 2, Y: 2, Width: 50, Height: 24},
		Baseline: 20,
		Color:    css.Black,
	}}
	paint.Replay(s, slices.Values(cmds))

	var dark int
	b := s.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := rgba(s, x, y); c.R < 128 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 20)
}

func TestDrawImageWithoutLoaderDrawsPlaceholder(t *testing.T) {
	s := newTestSurface(t, 20, 20)
	s.DrawImage("missing.png", "", layout.Rect{X: 0, Y: 0, Width: 20, Height: 20})

	// (10, 2) is more than 4px from both diagonals.
	c := rgba(s, 10, 2)
	assert.InDelta(t, 230, int(c.R), 2, "light grey box")
	assert.Equal(t, c.R, c.B)

	cross := rgba(s, 2, 2)
	assert.Less(t, int(cross.R), 200, "diagonal stroke")
}

func TestEncodePNG(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
