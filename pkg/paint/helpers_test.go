package paint

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

const baseCSS = `<style>html { font-size: 10px; line-height: 1 } body { margin: 0 }</style>`

var (
	red   = css.Color{R: 255, A: 255}
	green = css.Color{G: 128, A: 255}
	blue  = css.Color{B: 255, A: 255}
)

func layoutHTML(t *testing.T, src string, width float64) (*layout.Tree, layout.BoxID) {
	t.Helper()
	doc, err := html.ParseString(baseCSS + src)
	require.NoError(t, err)
	sheets := []*css.Stylesheet{css.UserAgentStylesheet()}
	for _, s := range doc.Stylesheets {
		sheets = append(sheets, css.ParseStylesheet([]byte(s), nil))
	}
	r := css.NewResolver(nil)
	tree, root := layout.NewBuilder(func(n *html.Node, parent *css.ResolvedStyle) *css.ResolvedStyle {
		return r.ResolveNode(n, parent, sheets)
	}).Build(doc.DocumentElement())
	layout.NewEngine(tree, text.AhemMeasurer{}).Layout(root, width, 0)
	return tree, root
}

func paintHTML(t *testing.T, src string, width float64) (*layout.Tree, layout.BoxID, []Command) {
	t.Helper()
	tree, root := layoutHTML(t, src, width)
	return tree, root, slices.Collect(BuildPaintList(tree, root))
}

func byID(t *testing.T, tree *layout.Tree, root layout.BoxID, id string) layout.BoxID {
	t.Helper()
	for i := range tree.Len() {
		if n := tree.Box(layout.BoxID(i)).Node; n != nil && n.ID() == id {
			return layout.BoxID(i)
		}
	}
	require.FailNow(t, "no box", "#%s", id)
	return layout.NoBox
}

func kindsOf(cmds []Command) []Kind {
	out := make([]Kind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

// recorder is a Surface that logs every call.
type recorder struct {
	calls []call
}

type call struct {
	Op     string
	Rect   layout.Rect
	Path   *Path
	Stroke Stroke
	Text   string
	Font   text.Font
	At     Point
	Color  css.Color
	Src    string
}

func (r *recorder) FillRect(rect layout.Rect, c css.Color) {
	r.calls = append(r.calls, call{Op: "fill-rect", Rect: rect, Color: c})
}

func (r *recorder) FillPath(p *Path, c css.Color) {
	r.calls = append(r.calls, call{Op: "fill-path", Path: p, Color: c})
}

func (r *recorder) StrokePath(p *Path, s Stroke) {
	r.calls = append(r.calls, call{Op: "stroke-path", Path: p, Stroke: s})
}

func (r *recorder) DrawText(s string, f text.Font, x, y float64, c css.Color) {
	r.calls = append(r.calls, call{Op: "text", Text: s, Font: f, At: Point{x, y}, Color: c})
}

func (r *recorder) DrawImage(src, alt string, rect layout.Rect) {
	r.calls = append(r.calls, call{Op: "image", Src: src, Text: alt, Rect: rect})
}
