package resource

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mau4gdp/HTML-Renderer/pkg/config"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRenderer(t *testing.T, edit func(*config.Config)) *Renderer {
	t.Helper()
	cfg := config.Default()
	cfg.Viewport.Width, cfg.Viewport.Height = 200, 100
	cfg.Page = config.PageConfig{Width: 200, Height: 120, Margin: 10}
	if edit != nil {
		edit(cfg)
	}
	require.NoError(t, cfg.Validate())
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func TestLayoutUsesConfiguredFont(t *testing.T) {
	r := newRenderer(t, func(c *config.Config) { c.Fonts.Size = 20 })
	doc, err := r.Layout(context.Background(), `<p id="p">x</p>`, 200, 100)
	require.NoError(t, err)

	var p *layout.Box
	for i := range doc.Tree.Len() {
		if b := doc.Tree.Box(layout.BoxID(i)); b.Node != nil && b.Node.ID() == "p" {
			p = b
		}
	}
	require.NotNil(t, p)
	assert.Equal(t, 20.0, p.Style.FontSize())
	assert.Equal(t, 200.0, doc.Tree.Box(doc.Root).Rect.Width)
	assert.NotEmpty(t, doc.Paint())
}

func TestLayoutHonorsCancellation(t *testing.T) {
	r := newRenderer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Layout(ctx, `<p>x</p>`, 200, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderPNGGrowsToDocument(t *testing.T) {
	r := newRenderer(t, nil)
	var buf bytes.Buffer
	require.NoError(t, r.RenderPNG(context.Background(), `<body style="margin: 0"><div style="height: 300px; background-color: red"></div></body>`, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	r2, g2, b2, _ := img.At(100, 150).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r2, g2, b2})
}

func TestRenderImageIntoTarget(t *testing.T) {
	r := newRenderer(t, nil)
	target := image.NewRGBA(image.Rect(0, 0, 50, 50))
	require.NoError(t, r.RenderImage(context.Background(), `<body style="margin: 0"><div style="height: 10px; background-color: blue"></div></body>`, target))

	assert.Equal(t, uint8(255), target.RGBAAt(5, 5).B)
	assert.Equal(t, uint8(255), target.RGBAAt(5, 30).R, "white background below")
}

func TestRenderPDFPaginates(t *testing.T) {
	r := newRenderer(t, nil)
	src := `<body style="margin: 0">` + strings.Repeat(`<div style="height: 50px"></div>`, 5) + `</body>`

	var buf bytes.Buffer
	require.NoError(t, r.RenderPDF(context.Background(), src, &buf))
	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 3, bytes.Count(out, []byte("<</Type /Page\n")), "250px over 100px pages")
}
