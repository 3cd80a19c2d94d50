package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
)

func kinds(tree *Tree, ids []BoxID) []Kind {
	out := make([]Kind, len(ids))
	for i, id := range ids {
		out[i] = tree.Box(id).Kind
	}
	return out
}

func TestBuildWrapsInlineRunsBesideBlocks(t *testing.T) {
	tree, root := buildHTML(t, `<div id="d">text<p>para</p>more <b>bold</b></div>`)
	d := tree.Box(byID(t, tree, root, "d"))

	require.Len(t, d.Children, 3)
	assert.Equal(t, []Kind{KindAnonymous, KindBlock, KindAnonymous}, kinds(tree, d.Children))
	first := tree.Box(d.Children[0])
	assert.True(t, first.Anonymous)
	assert.Equal(t, []Item{{Kind: ItemText, Text: "text"}}, first.Content)

	last := tree.Box(d.Children[2])
	require.Len(t, last.Children, 1)
	assert.Equal(t, "b", tree.Box(last.Children[0]).TagName())
	assert.Equal(t, d.Children[2], tree.Box(last.Children[0]).Parent)
}

func TestBuildDropsWhitespaceOnlyRunsBetweenBlocks(t *testing.T) {
	tree, root := buildHTML(t, "<div id=\"d\">\n  <p>a</p>\n  <p>b</p>\n</div>")
	d := tree.Box(byID(t, tree, root, "d"))

	assert.Equal(t, []Kind{KindBlock, KindBlock}, kinds(tree, d.Children))
}

func TestBuildRepairsStrayTableCell(t *testing.T) {
	tree, root := buildHTML(t, `<div id="d"><div id="c" style="display: table-cell">x</div></div>`)
	d := tree.Box(byID(t, tree, root, "d"))

	require.Len(t, d.Children, 1)
	table := tree.Box(d.Children[0])
	assert.Equal(t, KindTable, table.Kind)
	assert.True(t, table.Anonymous)
	require.Len(t, table.Children, 1)
	row := tree.Box(table.Children[0])
	assert.Equal(t, KindTableRow, row.Kind)
	require.Len(t, row.Children, 1)
	assert.Equal(t, byID(t, tree, root, "c"), row.Children[0])
}

func TestBuildFlattensRowGroups(t *testing.T) {
	tree, root := buildHTML(t, `<table id="t"><thead><tr><td>h</td></tr></thead><tbody><tr><td>a</td><td>b</td></tr></tbody></table>`)
	table := tree.Box(byID(t, tree, root, "t"))

	assert.Equal(t, []Kind{KindTableRow, KindTableRow}, kinds(tree, table.Children))
	assert.Len(t, tree.Box(table.Children[1]).Children, 2)
}

func TestBuildWrapsLooseRowContentInCell(t *testing.T) {
	tree, root := buildHTML(t, `<div id="r" style="display: table-row"><span>loose</span></div>`)
	row := tree.Box(byID(t, tree, root, "r"))

	require.Len(t, row.Children, 1)
	cell := tree.Box(row.Children[0])
	assert.Equal(t, KindTableCell, cell.Kind)
	assert.True(t, cell.Anonymous)
	assert.Equal(t, KindTable, tree.Box(row.Parent).Kind)
}

func TestBuildInlineHoldingBlockBecomesBlock(t *testing.T) {
	tree, root := buildHTML(t, `<div><span id="s">a<div>b</div></span></div>`)
	s := tree.Box(byID(t, tree, root, "s"))

	assert.Equal(t, KindBlock, s.Kind)
	assert.Equal(t, []Kind{KindAnonymous, KindBlock}, kinds(tree, s.Children))
}

func TestBuildCollapsesWhitespaceAcrossElements(t *testing.T) {
	tree, root := buildHTML(t, `<p id="p">  one   <b> two</b>  three </p>`)
	p := tree.Box(byID(t, tree, root, "p"))

	require.Len(t, p.Content, 3)
	assert.Equal(t, "one ", p.Content[0].Text)
	b := tree.Box(p.Content[1].Box)
	assert.Equal(t, "two", b.Content[0].Text)
	assert.Equal(t, " three ", p.Content[2].Text)
}

func TestBuildPreservesPreformattedText(t *testing.T) {
	tree, root := buildHTML(t, "<pre id=\"p\">a  b\nc</pre>")
	p := tree.Box(byID(t, tree, root, "p"))

	assert.Equal(t, "a  b\nc", p.Content[0].Text)
}

func TestBuildSkipsDisplayNone(t *testing.T) {
	tree, root := buildHTML(t, `<div id="d"><p style="display: none">gone</p><p>kept</p></div>`)
	d := tree.Box(byID(t, tree, root, "d"))

	require.Len(t, d.Children, 1)
	assert.Equal(t, "kept", tree.Box(d.Children[0]).Content[0].Text)
}

func TestBuildBlockifiesFloatsAndSetsSpans(t *testing.T) {
	tree, root := buildHTML(t, `<span id="f" style="float: left">f</span><table><tr><td id="c" colspan="2" rowspan="x">c</td></tr></table><img id="i" src="a.png" alt="A">`)

	f := tree.Box(byID(t, tree, root, "f"))
	assert.Equal(t, KindBlock, f.Kind)
	assert.True(t, f.IsFloat())

	c := tree.Box(byID(t, tree, root, "c"))
	assert.Equal(t, 2, c.colspan)
	assert.Equal(t, 1, c.rowspan)

	img := tree.Box(byID(t, tree, root, "i"))
	require.NotNil(t, img.Image)
	assert.Equal(t, Replaced{Src: "a.png", Alt: "A"}, *img.Image)
	assert.True(t, img.IsAtomicInline())
}

func TestBuildAppliesTextTransform(t *testing.T) {
	doc, err := html.ParseString(`<p style="text-transform: uppercase">istanbul</p>`)
	require.NoError(t, err)
	sheets := []*css.Stylesheet{css.UserAgentStylesheet()}
	r := css.NewResolver(nil)
	b := NewBuilder(func(n *html.Node, parent *css.ResolvedStyle) *css.ResolvedStyle {
		return r.ResolveNode(n, parent, sheets)
	}, WithLanguage(language.Turkish))
	tree, root := b.Build(doc.DocumentElement())

	var texts []string
	for i := range tree.Len() {
		for _, it := range tree.Box(BoxID(i)).Content {
			if it.Kind == ItemText {
				texts = append(texts, it.Text)
			}
		}
	}
	assert.Contains(t, texts, "İSTANBUL")
	assert.Equal(t, KindBlock, tree.Box(root).Kind)
}

func TestTreeBoxPanicsOnInvalidID(t *testing.T) {
	tree, _ := buildHTML(t, `<p>x</p>`)

	assert.Panics(t, func() { tree.Box(NoBox) })
	assert.Panics(t, func() { tree.Box(BoxID(tree.Len())) })
}
