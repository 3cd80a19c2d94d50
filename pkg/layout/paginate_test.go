package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateBreaksBeforeBlockThatDoesNotFit(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 10px"></div><div style="height: 10px"></div><div id="c" style="height: 10px"></div>`, 100)

	page, next := e.Paginate(root, 25, nil)
	assert.Equal(t, Page{Index: 0, Top: 0, Bottom: 20}, page)
	require.NotNil(t, next)
	assert.Equal(t, Cursor{Index: 1, Offset: 20, Box: byID(t, e.Tree(), root, "c"), Line: -1}, *next)

	page, next = e.Paginate(root, 25, next)
	assert.Equal(t, Page{Index: 1, Top: 20, Bottom: 30}, page)
	assert.Nil(t, next)
}

func TestPaginateSingleShortPage(t *testing.T) {
	e, root := layoutHTML(t, `<p style="margin: 0">short</p>`, 100)

	pages := e.Pages(root, 100)
	assert.Equal(t, []Page{{Index: 0, Top: 0, Bottom: 10}}, pages)
}

func TestPaginateForcedBreak(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 10px"></div><div style="height: 10px; page-break-before: always"></div><div style="height: 10px; page-break-after: always"></div><div style="height: 10px"></div>`, 100)

	pages := e.Pages(root, 100)
	require.Len(t, pages, 3)
	assert.Equal(t, 10.0, pages[0].Bottom)
	assert.Equal(t, 30.0, pages[1].Bottom, "break after the third block")
	assert.Equal(t, 40.0, pages[2].Bottom)
}

func TestPaginateCutsTallBox(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 60px"></div>`, 100)

	pages := e.Pages(root, 25)
	require.Len(t, pages, 3)
	assert.Equal(t, []float64{25, 50, 60}, []float64{pages[0].Bottom, pages[1].Bottom, pages[2].Bottom})

	_, next := e.Paginate(root, 25, nil)
	require.NotNil(t, next)
	assert.Equal(t, NoBox, next.Box)
}

func TestPaginateBreaksBetweenLines(t *testing.T) {
	e, root := layoutHTML(t, `<p id="p" style="width: 20px; margin: 0">aa bb cc dd</p>`, 100)

	page, next := e.Paginate(root, 25, nil)
	assert.Equal(t, 20.0, page.Bottom)
	require.NotNil(t, next)
	assert.Equal(t, byID(t, e.Tree(), root, "p"), next.Box)
	assert.Equal(t, 2, next.Line)
}

func TestPaginateAvoidInside(t *testing.T) {
	e, root := layoutHTML(t, `<div style="height: 15px"></div><p style="width: 20px; margin: 0; page-break-inside: avoid">aa bb cc</p>`, 100)

	pages := e.Pages(root, 40)
	require.Len(t, pages, 2)
	assert.Equal(t, 15.0, pages[0].Bottom, "the paragraph moves whole to the next page")
	assert.Equal(t, 45.0, pages[1].Bottom)
}

func TestPaginateKeepsTableRowsWhole(t *testing.T) {
	e, root := layoutHTML(t, `<table style="border-collapse: collapse"><tr><td style="padding: 0; width: 20px">aa bb cc</td></tr><tr><td style="padding: 0">x</td></tr></table>`, 100)

	page, next := e.Paginate(root, 20, nil)
	require.NotNil(t, next)
	assert.Equal(t, 20.0, page.Bottom, "no break point inside the first row: cut at the page height")
	assert.Equal(t, NoBox, next.Box)

	page, _ = e.Paginate(root, 35, nil)
	assert.Equal(t, 30.0, page.Bottom, "break before the second row")
}
