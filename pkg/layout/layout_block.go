package layout

import (
	"math"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// layoutBlock lays out the in-flow block-level box id inside a containing
// block whose content box starts at x and is cw wide. f is the parent's flow;
// it is advanced past the box and left holding the box's bottom margin.
func (e *Engine) layoutBlock(id BoxID, x, cw, cbh float64, f *flow, bc *blockContext) {
	b := e.tree.Box(id)
	b.Lines, b.Fragments = nil, nil
	b.static.X, b.static.Y = 0, 0
	st := b.Style
	e.resolveEdges(b, cw)
	bfc := e.establishesBFC(id)

	// Phase 1: horizontal geometry (CSS 2.1 §10.3.3).
	left, avail := x, cw
	if bfc && id != e.root && !bc.space.IsEmpty() {
		// A new formatting context must not overlap the floats beside it.
		l, r := bc.space.AvailableInlineSize(f.position()+b.Margin.Top, 0, x, x+cw)
		left, avail = l, max(r-l, 0)
	}
	e.blockWidth(id, avail)
	b.Rect.X = left + b.Margin.Left + b.Border.Left + b.Padding.Left

	// Phase 2: vertical placement with clearance.
	f.strut = f.strut.with(b.Margin.Top)
	cleared := false
	if c := st.Clear(); c != css.ClearNone {
		if clearY := bc.space.ClearY(c); f.position() < clearY {
			f.commit()
			f.cursor = clearY
			cleared = true
		}
	}
	collapseTop := !cleared && !bfc && b.Border.Top == 0 && b.Padding.Top == 0

	var inner flow
	if collapseTop {
		inner = flow{cursor: f.cursor, strut: f.strut, outer: f}
	} else {
		top := f.commit()
		inner = flow{cursor: top + b.Border.Top + b.Padding.Top, committed: true}
		inner.top = inner.cursor
	}

	childBC := bc
	if bfc {
		childBC = newBlockContext()
	}
	h, hasHeight := specifiedHeight(st, cbh)
	if b.Image != nil {
		_, h = e.replacedSize(b, cw, cbh)
		hasHeight = true
	}
	childCBH := -1.0
	if hasHeight {
		childCBH = h
	}

	// Phase 3: content.
	if b.Image == nil {
		e.layoutContents(id, &inner, childBC, childCBH)
	}

	collapseBottom := !bfc && !hasHeight && b.Border.Bottom == 0 && b.Padding.Bottom == 0 &&
		clampHeight(st, 0, cbh) == 0
	if !inner.committed {
		if collapseTop && collapseBottom {
			// Collapse through: the box is empty and its margins join
			// those around it.
			b.Rect.Y = inner.position()
			b.Rect.Height = 0
			f.strut = inner.strut.with(b.Margin.Bottom)
			return
		}
		inner.commit()
	}
	contentTop := inner.top

	var out marginStrut
	contentH := inner.cursor - contentTop
	if collapseBottom {
		out = inner.strut
	} else {
		contentH = inner.position() - contentTop
	}
	if bfc {
		if fb := childBC.space.Bottom(); !math.IsInf(fb, -1) {
			contentH = max(contentH, fb-contentTop)
		}
	}
	if hasHeight {
		contentH = h
	}
	contentH = clampHeight(st, contentH, cbh)

	b.Rect.Y = contentTop
	b.Rect.Height = contentH
	f.cursor = contentTop + contentH + b.Padding.Bottom + b.Border.Bottom
	f.strut = out.with(b.Margin.Bottom)
}

// blockWidth sets the content width and horizontal margins of an in-flow
// block-level box.
func (e *Engine) blockWidth(id BoxID, cw float64) {
	b := e.tree.Box(id)
	st := b.Style
	m := st.Margin()
	bp := b.Border.Horizontal() + b.Padding.Horizontal()

	var w float64
	specified := !st.Width().IsAuto()
	switch {
	case b.Image != nil:
		w, _ = e.replacedSize(b, cw, -1)
		specified = true
	case b.Kind == KindTable:
		w = e.tableWidth(id, cw-b.Margin.Horizontal()-bp)
		specified = true
	case specified:
		w = st.Width().Resolve(cw, st.FontSize())
	default:
		w = cw - b.Margin.Horizontal() - bp
	}
	clamped := clampWidth(st, w, cw)
	if clamped != w {
		specified = true
	}
	w = clamped
	b.Rect.Width = w
	if !specified {
		return
	}

	// Over-constrained or auto margins absorb the rest.
	rest := cw - w - bp
	switch {
	case m.Left.IsAuto() && m.Right.IsAuto():
		if rest > 0 {
			b.Margin.Left, b.Margin.Right = rest/2, rest/2
		} else {
			b.Margin.Left, b.Margin.Right = 0, rest
		}
	case m.Left.IsAuto():
		b.Margin.Left = rest - b.Margin.Right
	default:
		b.Margin.Right = rest - b.Margin.Left
	}
}

// layoutContents lays out the children of a block container whose content
// box X and width are already set.
func (e *Engine) layoutContents(id BoxID, f *flow, bc *blockContext, cbh float64) {
	b := e.tree.Box(id)
	switch {
	case b.Kind == KindTable:
		e.layoutTable(id, f)
	case e.hasInlineContent(id):
		e.layoutInline(id, f, bc)
	default:
		e.layoutBlockChildren(id, f, bc, cbh)
	}
}

func (e *Engine) hasInlineContent(id BoxID) bool {
	for _, it := range e.tree.Box(id).Content {
		switch it.Kind {
		case ItemText, ItemBreak:
			return true
		case ItemBox:
			if c := e.tree.Box(it.Box); c.InFlow() && !c.IsBlockLevel() {
				return true
			}
		}
	}
	return false
}

func (e *Engine) layoutBlockChildren(id BoxID, f *flow, bc *blockContext, cbh float64) {
	b := e.tree.Box(id)
	x, cw := b.Rect.X, b.Rect.Width
	for _, c := range b.Children {
		child := e.tree.Box(c)
		switch {
		case child.IsAbsolute():
			e.deferAbsolute(c, x, f.position())
		case child.IsFloat():
			e.layoutFloat(c, f.position(), x, cw, cbh, bc)
		default:
			e.layoutBlock(c, x, cw, cbh, f, bc)
		}
	}
}

// layoutIndependent lays out id as the root of a new block formatting
// context with its content box at (x, y) and the given content width.
// Edges must already be resolved.
func (e *Engine) layoutIndependent(id BoxID, x, y, width, cbh float64) {
	b := e.tree.Box(id)
	b.Lines, b.Fragments = nil, nil
	b.Rect = Rect{X: x, Y: y, Width: width}
	st := b.Style

	if b.Image != nil {
		_, b.Rect.Height = e.replacedSize(b, width, cbh)
		return
	}
	h, hasHeight := specifiedHeight(st, cbh)
	childCBH := -1.0
	if hasHeight {
		childCBH = h
	}
	bc := newBlockContext()
	f := &flow{cursor: y, committed: true, top: y}
	e.layoutContents(id, f, bc, childCBH)

	contentH := f.position() - y
	if fb := bc.space.Bottom(); !math.IsInf(fb, -1) {
		contentH = max(contentH, fb-y)
	}
	if hasHeight {
		contentH = h
	}
	b.Rect.Height = clampHeight(st, contentH, cbh)
}

// deferAbsolute records the static position of an absolutely positioned
// box; it is laid out after normal flow.
func (e *Engine) deferAbsolute(id BoxID, x, y float64) {
	e.clearLines(id)
	b := e.tree.Box(id)
	b.static.X, b.static.Y = x, y
	e.pending = append(e.pending, id)
}

// clearLines drops the line boxes and fragments left in the subtree of id
// by an earlier pass, so that translating it before its own layout moves
// nothing stale.
func (e *Engine) clearLines(id BoxID) {
	b := e.tree.Box(id)
	b.Lines, b.Fragments = nil, nil
	for _, c := range b.Children {
		e.clearLines(c)
	}
}
