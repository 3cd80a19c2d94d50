package pdf

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/paint"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

func TestPageSizeContentArea(t *testing.T) {
	s := PageSize{Width: 595, Height: 842, Margin: 36}
	assert.Equal(t, 523.0, s.ContentWidth())
	assert.Equal(t, 770.0, s.ContentHeight())
}

func TestDocumentWritesPages(t *testing.T) {
	faces, err := text.NewFaceSet(text.DefaultFontConfig())
	require.NoError(t, err)
	doc := New(PageSize{Width: 200, Height: 100, Margin: 10}, faces, WithTitle("test"))

	cmds := []paint.Command{
		{Kind: paint.KindBackground, Rect: layout.Rect{Width: 50, Height: 20}, Color: css.Color{R: 255, A: 255}},
		{Kind: paint.KindBackground, Path: paint.RoundedRect(layout.Rect{Width: 40, Height: 40}, [4]float64{5, 5, 5, 5}), Color: css.Color{B: 255, A: 128}},
		{Kind: paint.KindText, Text: "héllo", Font: text.Font{Family: "serif", Size: 12}, Baseline: 30, Color: css.Black},
		{Kind: paint.KindLine, From: paint.Point{Y: 32}, To: paint.Point{X: 30, Y: 32}, Width: 1, Color: css.Black},
		{Kind: paint.KindImage, Src: "missing.png", Rect: layout.Rect{Y: 40, Width: 10, Height: 10}},
	}
	doc.AddPage()
	paint.Replay(doc, slices.Values(cmds))
	doc.AddPage()
	paint.Replay(doc, slices.Values(cmds[:1]))

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.Equal(t, 2, doc.PageCount())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
