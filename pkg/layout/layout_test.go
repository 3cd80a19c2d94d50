package layout

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

func TestSiblingMarginsCollapseToMax(t *testing.T) {
	e, root := layoutHTML(t, `<div id="a" style="margin-bottom: 20px; height: 10px"></div><div id="b" style="margin-top: 30px; height: 10px"></div>`, 200)
	tree := e.Tree()

	a := tree.Box(byID(t, tree, root, "a"))
	b := tree.Box(byID(t, tree, root, "b"))
	assert.Equal(t, 0.0, a.Rect.Y)
	assert.Equal(t, 40.0, b.Rect.Y, "gap is max(20, 30)")
}

func TestNegativeMarginsCollapse(t *testing.T) {
	e, root := layoutHTML(t, `<div id="a" style="margin-bottom: 20px; height: 10px"></div><div id="b" style="margin-top: -5px; height: 10px"></div>`, 200)
	tree := e.Tree()

	assert.Equal(t, 25.0, tree.Box(byID(t, tree, root, "b")).Rect.Y)
}

func TestParentAndFirstChildMarginsCollapse(t *testing.T) {
	e, root := layoutHTML(t, `<div id="p" style="margin-top: 10px"><div id="c" style="margin-top: 20px; height: 5px"></div></div>`, 200)
	tree := e.Tree()

	p := tree.Box(byID(t, tree, root, "p"))
	c := tree.Box(byID(t, tree, root, "c"))
	assert.Equal(t, 20.0, c.Rect.Y)
	assert.Equal(t, 20.0, p.Rect.Y)
	assert.Equal(t, 5.0, p.Rect.Height)
}

func TestBorderSeparatesParentAndChildMargins(t *testing.T) {
	e, root := layoutHTML(t, `<div id="p" style="margin-top: 10px; border-top: 1px solid black"><div id="c" style="margin-top: 20px; height: 5px"></div></div>`, 200)
	tree := e.Tree()

	assert.Equal(t, 11.0, tree.Box(byID(t, tree, root, "p")).Rect.Y)
	assert.Equal(t, 31.0, tree.Box(byID(t, tree, root, "c")).Rect.Y)
}

func TestEmptyBlockCollapsesThrough(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 10px; margin-bottom: 10px"></div><div style="margin: 15px 0"></div><div id="c" style="height: 10px; margin-top: 5px"></div>`, 200)
	tree := e.Tree()

	assert.Equal(t, 25.0, tree.Box(byID(t, tree, root, "c")).Rect.Y)
}

func TestBlockWidthFillsContainingBlock(t *testing.T) {
	e, root := layoutHTML(t, `<div id="d" style="margin: 0 10px; padding: 5px; border: 2px solid black"></div><div id="w" style="width: 50%; margin: 0 auto"></div>`, 200)
	tree := e.Tree()

	d := tree.Box(byID(t, tree, root, "d"))
	assert.Equal(t, 200.0-20-10-4, d.Rect.Width)
	assert.Equal(t, 17.0, d.Rect.X)

	w := tree.Box(byID(t, tree, root, "w"))
	assert.Equal(t, 100.0, w.Rect.Width)
	assert.Equal(t, 50.0, w.Rect.X, "auto margins center")
}

func TestMinMaxWidthClamp(t *testing.T) {
	e, root := layoutHTML(t, `<div id="a" style="max-width: 80px"></div><div id="b" style="width: 10px; min-width: 30px"></div>`, 200)
	tree := e.Tree()

	assert.Equal(t, 80.0, tree.Box(byID(t, tree, root, "a")).Rect.Width)
	assert.Equal(t, 30.0, tree.Box(byID(t, tree, root, "b")).Rect.Width)
}

func TestLayoutIsIdempotent(t *testing.T) {
	src := `<div style="float: left; width: 30px; height: 25px"></div>
<p style="margin: 5px">Some words that wrap <b>around</b> a float <img style="width: 12px; height: 12px"></p>
<table><tr><td>a</td><td rowspan="2">b b b</td></tr><tr><td>c</td></tr></table>
<div style="position: relative; top: 3px"><span style="position: absolute; left: 2px">abs</span></div>`
	tree, root := buildHTML(t, src)
	e := NewEngine(tree, text.AhemMeasurer{})

	snapshot := func() []Box {
		out := make([]Box, tree.Len())
		for i := range tree.Len() {
			b := *tree.Box(BoxID(i))
			b.Fragments = slices.Clone(b.Fragments)
			b.Lines = slices.Clone(b.Lines)
			for j := range b.Lines {
				b.Lines[j].Fragments = slices.Clone(b.Lines[j].Fragments)
			}
			out[i] = b
		}
		return out
	}
	e.Layout(root, 150, 0)
	first := snapshot()
	e.Layout(root, 150, 0)
	second := snapshot()
	assert.Equal(t, first, second)
	e.Layout(root, 150, 0)
	assert.Equal(t, second, snapshot(), "no state drifts across passes")

	for i := range tree.Len() {
		b := tree.Box(BoxID(i))
		if !b.IsAbsolute() {
			assert.Zero(t, b.static, "static position of in-flow box %d", i)
		}
	}
}

func TestFloatExcludesLineContent(t *testing.T) {
	e, root := layoutHTML(t, `<div id="d" style="width: 100px"><div style="float: left; width: 30px; height: 25px"></div>aa bb cc dd ee ff gg</div>`, 200)
	tree := e.Tree()
	d := tree.Box(byID(t, tree, root, "d"))

	require.NotEmpty(t, d.Lines)
	assert.Equal(t, []string{"aa bb", "cc dd", "ee ff", "gg"}, lineTexts(tree, byID(t, tree, root, "d")))
	for _, l := range d.Lines {
		if l.Rect.Y >= 25 {
			assert.Equal(t, 0.0, l.Fragments[0].Rect.X)
			continue
		}
		for _, f := range l.Fragments {
			assert.GreaterOrEqual(t, f.Rect.X, 30.0, "line at y=%v", l.Rect.Y)
		}
	}
}

func TestRightFloatAndClear(t *testing.T) {
	e, root := layoutHTML(t, `<div style="width: 100px"><div id="f" style="float: right; width: 30px; height: 25px"></div><div id="c" style="clear: right; height: 5px"></div></div>`, 200)
	tree := e.Tree()

	f := tree.Box(byID(t, tree, root, "f"))
	assert.Equal(t, 70.0, f.Rect.X)
	assert.Equal(t, 0.0, f.Rect.Y)
	assert.Equal(t, 25.0, tree.Box(byID(t, tree, root, "c")).Rect.Y)
}

func TestFloatsStackSideBySide(t *testing.T) {
	e, root := layoutHTML(t, `<div style="width: 100px"><div id="a" style="float: left; width: 60px; height: 10px"></div><div id="b" style="float: left; width: 30px; height: 10px"></div><div id="c" style="float: left; width: 30px; height: 10px"></div></div>`, 200)
	tree := e.Tree()

	b := tree.Box(byID(t, tree, root, "b"))
	c := tree.Box(byID(t, tree, root, "c"))
	assert.Equal(t, 60.0, b.Rect.X)
	assert.Equal(t, 0.0, b.Rect.Y)
	assert.Equal(t, 0.0, c.Rect.X, "no room left: below the first row")
	assert.Equal(t, 10.0, c.Rect.Y)
}

func TestLineBreakingAtWhitespace(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="width: 50px; margin: 0">aaa bb cccccc d</p>`, 200)
	tree := e.Tree()
	p := byID(t, tree, root, "p")

	assert.Equal(t, []string{"aaa", "bb", "cccccc", "d"}, lineTexts(tree, p))
	lines := tree.Box(p).Lines
	assert.Equal(t, 60.0, lines[2].Fragments[0].Rect.Width, "a word wider than the line stands alone")
	for i, l := range lines {
		assert.Equal(t, float64(i*10), l.Rect.Y)
		assert.Equal(t, float64(i*10)+8, l.Baseline)
	}
	assert.Equal(t, 40.0, tree.Box(p).Rect.Height)
}

func TestWordBreakBreakAll(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="width: 50px; margin: 0; word-break: break-all">aaaaaaaa</p>`, 200)
	tree := e.Tree()

	assert.Equal(t, []string{"aaaaa", "aaa"}, lineTexts(tree, byID(t, tree, root, "p")))
}

func TestBreakAllKeepsInvalidUTF8Intact(t *testing.T) {
	doc, err := html.ParseString(baseCSS + `<div id="d" style="width: 30px; white-space: pre-wrap; word-break: break-all">abcdef</div>`)
	require.NoError(t, err)
	var div *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.ID() == "d" {
			div = n
		}
		for _, c := range n.Children {
			find(c)
		}
	}
	find(doc.Root)
	require.NotNil(t, div)
	require.Len(t, div.Children, 1)
	div.Children[0].Text = "abcdef\xff"

	sheets := []*css.Stylesheet{css.UserAgentStylesheet()}
	for _, src := range doc.Stylesheets {
		sheets = append(sheets, css.ParseStylesheet([]byte(src), nil))
	}
	r := css.NewResolver(nil)
	tree, root := NewBuilder(func(n *html.Node, parent *css.ResolvedStyle) *css.ResolvedStyle {
		return r.ResolveNode(n, parent, sheets)
	}).Build(doc.DocumentElement())
	e := NewEngine(tree, text.AhemMeasurer{})

	require.NotPanics(t, func() { e.Layout(root, 200, 0) })
	lines := lineTexts(tree, byID(t, tree, root, "d"))
	assert.Equal(t, "abcdef\xff", strings.Join(lines, ""))
	for _, l := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), 3, "line %q", l)
	}
}

func TestTextAlignJustify(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="width: 100px; margin: 0; text-align: justify">aa bb cc dd ee ff</p>`, 200)
	tree := e.Tree()
	lines := tree.Box(byID(t, tree, root, "p")).Lines

	require.Len(t, lines, 2)
	var xs []float64
	for _, f := range lines[0].Fragments {
		xs = append(xs, f.Rect.X)
	}
	assert.Equal(t, []float64{0, 40, 80}, xs)
	require.Len(t, lines[1].Fragments, 1, "last line is not justified")
	assert.Equal(t, "dd ee ff", lines[1].Fragments[0].Text)
}

func TestTextAlignCenterAndIndent(t *testing.T) {
	e, root := layoutHTML(t, `<p id="c" style="width: 100px; margin: 0; text-align: center">aa</p><p id="i" style="width: 100px; margin: 0; text-indent: 15px">aa aa</p>`, 200)
	tree := e.Tree()

	assert.Equal(t, 40.0, tree.Box(byID(t, tree, root, "c")).Lines[0].Fragments[0].Rect.X)
	assert.Equal(t, 15.0, tree.Box(byID(t, tree, root, "i")).Lines[0].Fragments[0].Rect.X)
}

func TestForcedBreaksAndPreservedNewlines(t *testing.T) {
	e, root := layoutHTML(t, "<p id=\"b\" style=\"margin: 0\">one<br>two</p><pre id=\"p\" style=\"margin: 0\">x\ny</pre>", 200)
	tree := e.Tree()

	assert.Equal(t, []string{"one", "two"}, lineTexts(tree, byID(t, tree, root, "b")))
	assert.Equal(t, []string{"x", "y"}, lineTexts(tree, byID(t, tree, root, "p")))
}

func TestInlineBoxFragments(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="width: 60px; margin: 0">aa <span id="s" style="padding: 0 2px">bb cc</span></p>`, 200)
	tree := e.Tree()
	s := tree.Box(byID(t, tree, root, "s"))

	require.Len(t, s.Fragments, 2)
	assert.Equal(t, Rect{X: 30, Y: 0, Width: 22, Height: 10}, s.Fragments[0])
	assert.Equal(t, Rect{X: 0, Y: 10, Width: 22, Height: 10}, s.Fragments[1])
}

func TestInlineBlockSitsOnBaseline(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="margin: 0">a<span id="ib" style="display: inline-block; width: 20px; height: 30px"></span>b</p>`, 200)
	tree := e.Tree()
	ib := tree.Box(byID(t, tree, root, "ib"))
	line := tree.Box(byID(t, tree, root, "p")).Lines[0]

	assert.Equal(t, 10.0, ib.Rect.X)
	assert.Equal(t, line.Baseline, ib.MarginBox().Bottom(), "an empty inline-block sits on the baseline with its bottom edge")
	assert.Equal(t, 32.0, line.Rect.Height)
}

func TestImageOverflowsNarrowParent(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="margin: 10px"><img id="i" style="width: 300px; height: 50px"></p>`, 200)
	tree := e.Tree()

	assert.Equal(t, 200.0, tree.Box(root).Rect.Width)
	p := byID(t, tree, root, "p")
	assert.Equal(t, 180.0, tree.Box(p).Rect.Width)
	assert.Equal(t, 300.0, tree.Box(byID(t, tree, root, "i")).BorderBox().Width)
	assert.True(t, tree.Overflows(p))
	assert.True(t, tree.Overflows(root))
}

type fixedSizer struct{ w, h float64 }

func (s fixedSizer) Size(string) (float64, float64, bool) { return s.w, s.h, true }

func TestImageKeepsAspectRatio(t *testing.T) {
	e, root := layoutHTML(t, `<p style="margin: 0"><img id="a" src="x.png"><img id="b" src="x.png" style="width: 20px"></p>`, 200, WithImageSizer(fixedSizer{w: 40, h: 10}))
	tree := e.Tree()

	a := tree.Box(byID(t, tree, root, "a"))
	b := tree.Box(byID(t, tree, root, "b"))
	assert.Equal(t, Size{40, 10}, Size{a.Rect.Width, a.Rect.Height})
	assert.Equal(t, Size{20, 5}, Size{b.Rect.Width, b.Rect.Height})
}

func TestAbsolutePositioning(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 7px"></div><div id="c" style="position: relative; width: 100px; height: 100px; margin-left: 20px"><div id="a" style="position: absolute; left: 10px; top: 5px; width: 30px; height: 30px"></div><div id="b" style="position: absolute; right: 10px; bottom: 10px; width: 30px; height: 30px"></div><div id="s" style="position: absolute">abc</div></div>`, 200)
	tree := e.Tree()

	a := tree.Box(byID(t, tree, root, "a"))
	assert.Equal(t, Rect{X: 30, Y: 12, Width: 30, Height: 30}, a.Rect)
	b := tree.Box(byID(t, tree, root, "b"))
	assert.Equal(t, Rect{X: 80, Y: 67, Width: 30, Height: 30}, b.Rect)

	s := tree.Box(byID(t, tree, root, "s"))
	assert.Equal(t, 20.0, s.Rect.X, "static position")
	assert.Equal(t, 7.0, s.Rect.Y)
	assert.Equal(t, 30.0, s.Rect.Width, "shrink to fit")

	c := tree.Box(byID(t, tree, root, "c"))
	assert.Equal(t, 100.0, c.Rect.Height, "absolute children do not affect flow")
}

func TestAbsoluteCenteringWithAutoMargins(t *testing.T) {
	e, root := layoutHTML(t, `<div style="position: relative; width: 100px; height: 100px"><div id="a" style="position: absolute; left: 0; right: 0; top: 0; bottom: 0; margin: auto; width: 40px; height: 20px"></div></div>`, 200)
	tree := e.Tree()

	assert.Equal(t, Rect{X: 30, Y: 40, Width: 40, Height: 20}, tree.Box(byID(t, tree, root, "a")).Rect)
}

func TestRelativePositioningKeepsFlow(t *testing.T) {
	e, root := layoutHTML(t, `<div id="r" style="position: relative; left: 7px; top: 3px; height: 10px"><p id="in" style="margin: 0">x</p></div><div id="n" style="height: 10px"></div>`, 200)
	tree := e.Tree()

	r := tree.Box(byID(t, tree, root, "r"))
	assert.Equal(t, 7.0, r.Rect.X)
	assert.Equal(t, 3.0, r.Rect.Y)
	in := tree.Box(byID(t, tree, root, "in"))
	assert.Equal(t, 7.0, in.Lines[0].Fragments[0].Rect.X)
	assert.Equal(t, 10.0, tree.Box(byID(t, tree, root, "n")).Rect.Y)
}

func TestRelativeInlineMovesItsText(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="margin: 0">aa <span style="position: relative; left: 5px">bb</span></p>`, 200)
	tree := e.Tree()
	frags := tree.Box(byID(t, tree, root, "p")).Lines[0].Fragments

	require.Len(t, frags, 2)
	assert.Equal(t, 0.0, frags[0].Rect.X)
	assert.Equal(t, 35.0, frags[1].Rect.X)
}

func TestFixedUsesViewport(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 1000px"><div id="f" style="position: fixed; right: 0; bottom: 0; width: 10px; height: 10px"></div></div>`, 200, WithViewport(300, 400))
	tree := e.Tree()

	assert.Equal(t, Rect{X: 290, Y: 390, Width: 10, Height: 10}, tree.Box(byID(t, tree, root, "f")).Rect)
}

func TestEngineLogsFloatPlacement(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	layoutHTML(t, `<div style="float: left; width: 10px; height: 10px"></div>`, 100, WithLogger(zap.New(core)))

	entries := logs.FilterMessage("float placed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "layout", entries[0].LoggerName)
}

func TestDump(t *testing.T) {
	e, root := layoutHTML(t, `<p style="margin: 0">hi</p>`, 100)
	var buf bytes.Buffer
	require.NoError(t, e.Tree().Dump(&buf, root))

	out := buf.String()
	assert.Contains(t, out, "<html> block: pos=(0.0,0.0) size=(100.0x10.0)")
	assert.Contains(t, out, "    <p> block: pos=(0.0,0.0) size=(100.0x10.0)")
	assert.Contains(t, out, `TEXT("hi"): x=0.0 width=20.0`)
}
