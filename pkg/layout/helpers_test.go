package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// baseCSS gives every test exact Ahem geometry: 10px glyphs on 10px lines.
const baseCSS = `<style>html { font-size: 10px; line-height: 1 } body { margin: 0 }</style>`

func buildHTML(t *testing.T, src string) (*Tree, BoxID) {
	t.Helper()
	doc, err := html.ParseString(baseCSS + src)
	require.NoError(t, err)
	sheets := []*css.Stylesheet{css.UserAgentStylesheet()}
	for _, s := range doc.Stylesheets {
		sheets = append(sheets, css.ParseStylesheet([]byte(s), nil))
	}
	r := css.NewResolver(nil)
	b := NewBuilder(func(n *html.Node, parent *css.ResolvedStyle) *css.ResolvedStyle {
		return r.ResolveNode(n, parent, sheets)
	})
	return b.Build(doc.DocumentElement())
}

func layoutHTML(t *testing.T, src string, width float64, opts ...Option) (*Engine, BoxID) {
	t.Helper()
	tree, root := buildHTML(t, src)
	e := NewEngine(tree, text.AhemMeasurer{}, opts...)
	e.Layout(root, width, 0)
	return e, root
}

// byID finds the box generated by the element with the given id attribute.
func byID(t *testing.T, tree *Tree, root BoxID, id string) BoxID {
	t.Helper()
	var found BoxID = NoBox
	var walk func(BoxID)
	walk = func(b BoxID) {
		if n := tree.Box(b).Node; n != nil && n.ID() == id {
			found = b
			return
		}
		for _, c := range tree.Box(b).Children {
			if found == NoBox {
				walk(c)
			}
		}
	}
	walk(root)
	require.NotEqual(t, NoBox, found, "no box for #%s", id)
	return found
}

// lineTexts returns the text of every line of a block container.
func lineTexts(tree *Tree, id BoxID) []string {
	var out []string
	for _, l := range tree.Box(id).Lines {
		var s string
		for _, f := range l.Fragments {
			s += f.Text
		}
		out = append(out, s)
	}
	return out
}
