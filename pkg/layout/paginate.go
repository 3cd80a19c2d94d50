package layout

import (
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// Page is one vertical slice of a laid-out tree.
type Page struct {
	Index  int
	Top    float64
	Bottom float64
}

// Height returns the used height of the page.
func (p Page) Height() float64 { return p.Bottom - p.Top }

// Cursor marks where the next page starts. Box and Line name the box or
// line box that begins it. Box is NoBox after a page-break-after and when
// the page was cut at its height because nothing fitted.
type Cursor struct {
	Index  int
	Offset float64
	Box    BoxID
	Line   int
}

// breakPoint is a place a page may end.
type breakPoint struct {
	y      float64
	box    BoxID
	line   int
	forced bool
}

// Paginate returns the page starting at cursor (nil for the first page)
// and the cursor of the page after it, or nil when the tree ends on this
// page. The tree must already be laid out; every page shares its width.
// A page ends at the last block or line top that fits, at the first
// forced break, or at pageHeight when no such point exists.
func (e *Engine) Paginate(root BoxID, pageHeight float64, cursor *Cursor) (Page, *Cursor) {
	c := Cursor{Box: NoBox, Line: -1}
	if cursor != nil {
		c = *cursor
	}
	page := Page{Index: c.Index, Top: c.Offset}
	end := e.tree.OverflowRect(root).Bottom()
	end = max(end, e.tree.Box(root).MarginBox().Bottom())
	if pageHeight <= 0 {
		page.Bottom = max(end, page.Top)
		return page, nil
	}
	limit := page.Top + pageHeight

	var points []breakPoint
	e.collectBreaks(root, pageHeight, &points)

	best := breakPoint{y: -1}
	for _, p := range points {
		if p.y <= page.Top+epsilon || p.y > limit+epsilon || p.y >= end-epsilon {
			continue
		}
		if p.forced {
			if !best.forced || p.y < best.y {
				best = p
			}
			continue
		}
		if !best.forced && p.y > best.y {
			best = p
		}
	}
	if !best.forced && end <= limit+epsilon {
		page.Bottom = end
		return page, nil
	}

	next := &Cursor{Index: c.Index + 1, Box: best.box, Line: best.line}
	if best.y < 0 {
		next.Box, next.Line = NoBox, -1
		best.y = limit
	}
	page.Bottom = best.y
	next.Offset = best.y
	e.log.Debug("page split",
		zap.Int("page", page.Index),
		zap.Float64("at", best.y),
		zap.Bool("forced", best.forced),
		zap.Int32("box", int32(next.Box)))
	return page, next
}

// Pages paginates the whole tree.
func (e *Engine) Pages(root BoxID, pageHeight float64) []Page {
	var pages []Page
	var c *Cursor
	for {
		p, next := e.Paginate(root, pageHeight, c)
		pages = append(pages, p)
		if next == nil {
			return pages
		}
		c = next
	}
}

// collectBreaks gathers candidate break points below id: tops of in-flow
// block boxes and rows, tops of line boxes, and forced breaks. Rows and
// boxes with page-break-inside: avoid that fit on a page are not entered.
func (e *Engine) collectBreaks(id BoxID, pageHeight float64, out *[]breakPoint) {
	b := e.tree.Box(id)
	for i, l := range b.Lines {
		if i > 0 {
			*out = append(*out, breakPoint{y: l.Rect.Y, box: id, line: i})
		}
	}
	for _, c := range b.Children {
		cb := e.tree.Box(c)
		if !cb.InFlow() || !cb.IsBlockLevel() {
			continue
		}
		st := cb.Style
		bb := cb.BorderBox()
		*out = append(*out, breakPoint{y: bb.Y, box: c, line: -1, forced: st.PageBreakBefore().Forces()})
		if st.PageBreakAfter().Forces() {
			*out = append(*out, breakPoint{y: cb.MarginBox().Bottom(), box: NoBox, line: -1, forced: true})
		}
		if cb.Kind == KindTableRow || cb.Kind == KindTableCell {
			continue
		}
		if st.PageBreakInside() == css.PageBreakAvoid && bb.Height <= pageHeight {
			continue
		}
		e.collectBreaks(c, pageHeight, out)
	}
}
