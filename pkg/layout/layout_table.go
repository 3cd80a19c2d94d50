package layout

import (
	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// TableCell is a cell placed in the table grid.
type TableCell struct {
	Box     BoxID
	Row     int
	Col     int
	ColSpan int
	RowSpan int
}

// tableGrid is the row/column structure of a table box.
type tableGrid struct {
	rows  []BoxID
	cells []TableCell
	cols  int
}

// buildGrid assigns every cell its row and first free column, honoring
// rowspans of the rows above. A colspan of 0 spans every column.
func (e *Engine) buildGrid(table BoxID) *tableGrid {
	g := &tableGrid{rows: e.tree.Box(table).Children}
	occupied := map[[2]int]bool{}
	var wide []int
	for r, row := range g.rows {
		col := 0
		for _, c := range e.tree.Box(row).Children {
			cb := e.tree.Box(c)
			for occupied[[2]int{r, col}] {
				col++
			}
			span := cb.colspan
			if span == 0 {
				wide = append(wide, len(g.cells))
				span = 1
			}
			rowspan := min(max(cb.rowspan, 1), len(g.rows)-r)
			for dr := range rowspan {
				for dc := range span {
					occupied[[2]int{r + dr, col + dc}] = true
				}
			}
			g.cells = append(g.cells, TableCell{Box: c, Row: r, Col: col, ColSpan: span, RowSpan: rowspan})
			col += span
			g.cols = max(g.cols, col)
		}
	}
	for _, i := range wide {
		g.cells[i].ColSpan = max(g.cols-g.cells[i].Col, 1)
	}
	return g
}

// spacing returns the horizontal and vertical border spacing of a table.
func tableSpacing(st *css.ResolvedStyle) (float64, float64) {
	if st.BorderCollapse() {
		return 0, 0
	}
	bs := st.BorderSpacing()
	fs := st.FontSize()
	return bs.Horizontal.Resolve(0, fs), bs.Vertical.Resolve(0, fs)
}

// columnBounds returns the minimum and preferred width of every column,
// including cell borders and padding. Spanning cells spread what the
// columns they cover lack evenly over them.
func (e *Engine) columnBounds(g *tableGrid, hs float64) ([]float64, []float64) {
	mins := make([]float64, g.cols)
	prefs := make([]float64, g.cols)
	measure := func(c TableCell) (float64, float64) {
		mn, mx := e.outerIntrinsic(c.Box)
		st := e.tree.Box(c.Box).Style
		if w := st.Width(); !w.IsAuto() && w.Unit != css.UnitPercent {
			mx = max(mn, mx)
		}
		return mn, mx
	}
	for _, c := range g.cells {
		if c.ColSpan != 1 {
			continue
		}
		mn, mx := measure(c)
		mins[c.Col] = max(mins[c.Col], mn)
		prefs[c.Col] = max(prefs[c.Col], mx)
	}
	for _, c := range g.cells {
		if c.ColSpan == 1 {
			continue
		}
		mn, mx := measure(c)
		inner := hs * float64(c.ColSpan-1)
		var curMin, curPref float64
		for i := c.Col; i < c.Col+c.ColSpan; i++ {
			curMin += mins[i]
			curPref += prefs[i]
		}
		if d := mn - inner - curMin; d > 0 {
			for i := c.Col; i < c.Col+c.ColSpan; i++ {
				mins[i] += d / float64(c.ColSpan)
			}
		}
		if d := mx - inner - curPref; d > 0 {
			for i := c.Col; i < c.Col+c.ColSpan; i++ {
				prefs[i] += d / float64(c.ColSpan)
			}
		}
	}
	for i := range prefs {
		prefs[i] = max(prefs[i], mins[i])
	}
	return mins, prefs
}

// distributeColumns sizes the columns to fill avail. Extra space goes to
// the columns in proportion to their preferred widths; when space is short
// the preferred widths are scaled down, never below a column's minimum.
// Only when the minimums alone do not fit does the sum exceed avail.
func distributeColumns(mins, prefs []float64, avail float64) []float64 {
	n := len(mins)
	widths := make([]float64, n)
	if n == 0 {
		return widths
	}
	var sumMin, sumPref float64
	for i := range n {
		sumMin += mins[i]
		sumPref += prefs[i]
	}
	if sumMin >= avail {
		copy(widths, mins)
		return widths
	}
	if sumPref <= avail {
		extra := avail - sumPref
		for i := range n {
			share := 1 / float64(n)
			if sumPref > 0 {
				share = prefs[i] / sumPref
			}
			widths[i] = prefs[i] + extra*share
		}
		return widths
	}

	fixed := make([]bool, n)
	for {
		remaining, weight, free := avail, 0.0, 0
		for i := range n {
			if fixed[i] {
				remaining -= mins[i]
			} else {
				weight += prefs[i]
				free++
			}
		}
		changed := false
		for i := range n {
			if fixed[i] {
				widths[i] = mins[i]
				continue
			}
			w := remaining / float64(free)
			if weight > 0 {
				w = remaining * prefs[i] / weight
			}
			if w < mins[i] {
				fixed[i] = true
				changed = true
			}
			widths[i] = w
		}
		if !changed {
			return widths
		}
	}
}

// tableWidth returns the content width of a table given the space left by
// its margins, borders and padding.
func (e *Engine) tableWidth(id BoxID, avail float64) float64 {
	b := e.tree.Box(id)
	st := b.Style
	g := e.buildGrid(id)
	hs, _ := tableSpacing(st)
	mins, prefs := e.columnBounds(g, hs)
	gaps := hs * float64(g.cols+1)
	if g.cols == 0 {
		gaps = 0
	}
	var sumMin, sumPref float64
	for i := range mins {
		sumMin += mins[i]
		sumPref += prefs[i]
	}
	if w := st.Width(); !w.IsAuto() {
		return max(w.Resolve(max(avail, 0), st.FontSize()), sumMin+gaps)
	}
	if sumPref+gaps <= avail {
		return sumPref + gaps
	}
	return max(avail, sumMin+gaps)
}

func (e *Engine) tableIntrinsic(id BoxID) (float64, float64) {
	g := e.buildGrid(id)
	hs, _ := tableSpacing(e.tree.Box(id).Style)
	mins, prefs := e.columnBounds(g, hs)
	gaps := 0.0
	if g.cols > 0 {
		gaps = hs * float64(g.cols+1)
	}
	var minW, maxW float64
	for i := range mins {
		minW += mins[i]
		maxW += prefs[i]
	}
	return minW + gaps, maxW + gaps
}

// layoutTable places rows and cells inside a table whose content box X and
// width are set, and advances f past them.
func (e *Engine) layoutTable(id BoxID, f *flow) {
	b := e.tree.Box(id)
	st := b.Style
	g := e.buildGrid(id)
	hs, vs := tableSpacing(st)
	mins, prefs := e.columnBounds(g, hs)
	avail := b.Rect.Width
	if g.cols > 0 {
		avail -= hs * float64(g.cols+1)
	}
	widths := distributeColumns(mins, prefs, avail)
	colX := make([]float64, g.cols+1)
	colX[0] = b.Rect.X + hs
	for i, w := range widths {
		colX[i+1] = colX[i] + w + hs
	}

	top := f.commit()
	rowH := make([]float64, len(g.rows))
	for r, row := range g.rows {
		if h, ok := specifiedHeight(e.tree.Box(row).Style, -1); ok {
			rowH[r] = h
		}
	}

	// Phase 1: lay out every cell at the table top.
	for _, c := range g.cells {
		cell := e.tree.Box(c.Box)
		w := colX[c.Col+c.ColSpan] - hs - colX[c.Col]
		e.resolveEdges(cell, b.Rect.Width)
		cw := max(w-cell.Border.Horizontal()-cell.Padding.Horizontal(), 0)
		e.layoutIndependent(c.Box, colX[c.Col]+cell.Border.Left+cell.Padding.Left, top+cell.Border.Top+cell.Padding.Top, cw, -1)
		if c.RowSpan == 1 {
			rowH[c.Row] = max(rowH[c.Row], cell.BorderBox().Height)
		}
	}
	// Phase 2: spanning cells stretch the last row they cover.
	for _, c := range g.cells {
		if c.RowSpan == 1 {
			continue
		}
		span := vs * float64(c.RowSpan-1)
		for r := c.Row; r < c.Row+c.RowSpan; r++ {
			span += rowH[r]
		}
		if d := e.tree.Box(c.Box).BorderBox().Height - span; d > 0 {
			rowH[c.Row+c.RowSpan-1] += d
		}
	}

	// Phase 3: final positions.
	rowY := make([]float64, len(g.rows)+1)
	rowY[0] = top + vs
	for r, row := range g.rows {
		rb := e.tree.Box(row)
		rb.Lines, rb.Fragments = nil, nil
		rb.Margin, rb.Border, rb.Padding = css.BoxEdge{}, css.BoxEdge{}, css.BoxEdge{}
		rb.Rect = Rect{X: colX[0], Y: rowY[r], Width: colX[g.cols] - hs - colX[0], Height: rowH[r]}
		rowY[r+1] = rowY[r] + rowH[r] + vs
	}
	if len(g.rows) == 0 {
		rowY[0] = top
	}
	for _, c := range g.cells {
		cell := e.tree.Box(c.Box)
		e.translate(c.Box, 0, rowY[c.Row]-top)
		height := rowY[c.Row+c.RowSpan] - vs - rowY[c.Row]
		inner := height - cell.Border.Vertical() - cell.Padding.Vertical()
		var dy float64
		switch cell.Style.VerticalAlign() {
		case css.VerticalAlignMiddle:
			dy = (inner - cell.Rect.Height) / 2
		case css.VerticalAlignBottom:
			dy = inner - cell.Rect.Height
		}
		if dy > 0 {
			e.translateContent(c.Box, dy)
		}
		cell.Rect.Height = max(inner, cell.Rect.Height)
	}

	f.cursor = rowY[len(g.rows)]
}

// translateContent moves everything inside a box but not the box itself.
func (e *Engine) translateContent(id BoxID, dy float64) {
	b := e.tree.Box(id)
	e.translateLines(b, 0, dy)
	for _, c := range b.Children {
		e.translate(c, 0, dy)
	}
}
