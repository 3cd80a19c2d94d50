package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mau4gdp/HTML-Renderer/pkg/html"
)

func TestResolveInheritsColorFromParent(t *testing.T) {
	r := NewResolver(nil)
	parent := r.Resolve(ParseDeclarations("color: red"), nil, nil)
	child := r.Resolve(DeclarationSet{}, parent, nil)

	assert.Equal(t, Color{255, 0, 0, 255}, child.Color())
}

func TestResolveDoesNotInheritNonInheritedProperties(t *testing.T) {
	r := NewResolver(nil)
	parent := r.Resolve(ParseDeclarations("background-color: red; margin: 5px"), nil, nil)
	child := r.Resolve(DeclarationSet{}, parent, nil)

	assert.True(t, child.BackgroundColor().IsTransparent())
	assert.Equal(t, Px(0), child.Margin().Top)
}

func TestResolveInitialValues(t *testing.T) {
	s := NewResolver(nil).Resolve(DeclarationSet{}, nil, nil)

	assert.Equal(t, DisplayInline, s.Display())
	assert.Equal(t, PositionStatic, s.Position())
	assert.Equal(t, FloatNone, s.Float())
	assert.True(t, s.Width().IsAuto())
	assert.Equal(t, 16.0, s.FontSize())
	assert.Equal(t, Black, s.Color())
	assert.Equal(t, BoxEdge{}, s.BorderWidth(), "border style none gives zero width")
	assert.True(t, s.LineHeight().Normal)
	assert.True(t, s.ZIndex().Auto)
}

func TestResolveRuleOrder(t *testing.T) {
	r := NewResolver(nil)
	rules := []DeclarationSet{
		ParseDeclarations("color: red; width: 10px"),
		ParseDeclarations("color: blue"),
	}
	s := r.Resolve(DeclarationSet{}, nil, rules)
	assert.Equal(t, Color{0, 0, 255, 255}, s.Color(), "later rule wins")
	assert.Equal(t, Px(10), s.Width())

	s = r.Resolve(ParseDeclarations("color: green"), nil, rules)
	assert.Equal(t, Color{0, 128, 0, 255}, s.Color(), "inline beats rules")
}

func TestResolveImportant(t *testing.T) {
	r := NewResolver(nil)
	rules := []DeclarationSet{
		ParseDeclarations("color: red !important"),
		ParseDeclarations("color: blue"),
	}
	s := r.Resolve(ParseDeclarations("color: green"), nil, rules)
	assert.Equal(t, Color{255, 0, 0, 255}, s.Color())

	s = r.Resolve(ParseDeclarations("color: green !important"), nil, rules)
	assert.Equal(t, Color{0, 128, 0, 255}, s.Color())
}

func TestResolveSkipsUnparseableValues(t *testing.T) {
	r := NewResolver(nil)
	parent := r.Resolve(ParseDeclarations("color: red"), nil, nil)
	rules := []DeclarationSet{ParseDeclarations("width: 20px; color: blue")}

	s := r.Resolve(ParseDeclarations("width: banana; color: nope; display: sideways"), parent, rules)
	assert.Equal(t, Px(20), s.Width(), "earlier valid declaration stands")
	assert.Equal(t, Color{0, 0, 255, 255}, s.Color())
	assert.Equal(t, DisplayInline, s.Display())

	s = r.Resolve(ParseDeclarations("color: nope"), parent, nil)
	assert.Equal(t, Color{255, 0, 0, 255}, s.Color(), "falls back to inherited value")
}

func TestResolveInheritAndInitialKeywords(t *testing.T) {
	r := NewResolver(nil)
	parent := r.Resolve(ParseDeclarations("width: 40px; color: red"), nil, nil)

	s := r.Resolve(ParseDeclarations("width: inherit; color: initial"), parent, nil)
	assert.Equal(t, Px(40), s.Width())
	assert.Equal(t, Black, s.Color())
}

func TestResolveFontSizeAgainstParent(t *testing.T) {
	r := NewResolver(nil)
	parent := r.Resolve(ParseDeclarations("font-size: 20px"), nil, nil)

	tests := []struct {
		decl string
		want float64
	}{
		{"font-size: 1.5em", 30},
		{"font-size: 50%", 10},
		{"font-size: larger", 24},
		{"font-size: x-large", 24},
		{"font-size: 12pt", 16},
		{"", 20},
	}
	for _, tt := range tests {
		s := r.Resolve(ParseDeclarations(tt.decl), parent, nil)
		assert.InDelta(t, tt.want, s.FontSize(), 1e-9, tt.decl)
	}
}

func TestResolveLineHeightAndBorderWidthUseOwnFontSize(t *testing.T) {
	r := NewResolver(nil)
	s := r.Resolve(ParseDeclarations("font-size: 10px; line-height: 2em; border: 0.5em solid"), nil, nil)

	lh := s.LineHeight()
	require.True(t, lh.IsPx)
	assert.Equal(t, 20.0, lh.Resolve(s.FontSize()))
	assert.Equal(t, BoxEdge{5, 5, 5, 5}, s.BorderWidth())

	s = r.Resolve(ParseDeclarations("font-size: 10px; line-height: 1.5"), nil, nil)
	assert.Equal(t, 15.0, s.LineHeight().Resolve(s.FontSize()))
}

func TestBorderColorFollowsColor(t *testing.T) {
	r := NewResolver(nil)
	s := r.Resolve(ParseDeclarations("color: blue; border: 1px solid"), nil, nil)
	assert.Equal(t, Color{0, 0, 255, 255}, s.BorderColor(SideLeft))

	s = r.Resolve(ParseDeclarations("color: blue; border: 1px solid red"), nil, nil)
	assert.Equal(t, Color{255, 0, 0, 255}, s.BorderColor(SideTop))
}

func TestResolveKeepsRelativeLengthsSymbolic(t *testing.T) {
	s := NewResolver(nil).Resolve(ParseDeclarations("width: 50%; margin-left: 2em"), nil, nil)
	assert.Equal(t, Percent(50), s.Width())
	assert.Equal(t, Em(2), s.Margin().Left)
}

func TestResolveNodeUsesSheetsAndHints(t *testing.T) {
	doc, err := html.ParseString(`<html><body><table width="300" bgcolor="yellow"><tr><td style="color: red">x</td></tr></table></body></html>`)
	require.NoError(t, err)
	sheets := []*Stylesheet{
		UserAgentStylesheet(),
		ParseStylesheet([]byte(`table { width: 200px } td { color: blue; padding: 3px }`), nil),
	}
	r := NewResolver(nil)

	var table, td *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.TagName {
		case "table":
			table = n
		case "td":
			td = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc.Root)
	require.NotNil(t, table)
	require.NotNil(t, td)

	ts := r.ResolveNode(table, nil, sheets)
	assert.Equal(t, DisplayTable, ts.Display())
	assert.Equal(t, Px(200), ts.Width(), "author rule beats presentational hint")
	assert.Equal(t, Color{255, 255, 0, 255}, ts.BackgroundColor())

	cs := r.ResolveNode(td, ts, sheets)
	assert.Equal(t, DisplayTableCell, cs.Display())
	assert.Equal(t, Color{255, 0, 0, 255}, cs.Color())
	assert.Equal(t, Px(3), cs.Padding().Left)
}

func TestAnonymousStyleInheritsOnlyInheritedProperties(t *testing.T) {
	r := NewResolver(nil)
	parent := r.Resolve(ParseDeclarations("color: red; width: 10px; font-size: 20px; display: block"), nil, nil)
	anon := AnonymousStyle(parent, DisplayBlock)

	assert.Equal(t, DisplayBlock, anon.Display())
	assert.Equal(t, Color{255, 0, 0, 255}, anon.Color())
	assert.Equal(t, 20.0, anon.FontSize())
	assert.True(t, anon.Width().IsAuto())
}
