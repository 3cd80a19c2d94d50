package layout

import (
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// layoutPositioned runs after normal flow: relative offsets are applied,
// then every absolutely positioned box is laid out against its containing
// block. Boxes deferred while laying out an absolute box are appended to
// pending and handled in the same loop.
func (e *Engine) layoutPositioned(root BoxID) {
	e.applyRelative(root)
	for i := 0; i < len(e.pending); i++ {
		id := e.pending[i]
		e.layoutAbsolute(id)
		e.applyRelative(id)
	}
}

// applyRelative shifts relatively positioned boxes in the subtree of id,
// parents first. Absolute descendants are skipped; they are placed later
// from their own containing block.
func (e *Engine) applyRelative(id BoxID) {
	b := e.tree.Box(id)
	if b.Style.Position() == css.PositionRelative {
		dx, dy := e.relativeOffset(id)
		if dx != 0 || dy != 0 {
			e.translate(id, dx, dy)
			if b.Kind == KindInline {
				e.shiftLineFragments(id, dx, dy)
			}
		}
	}
	for _, c := range b.Children {
		if !e.tree.Box(c).IsAbsolute() {
			e.applyRelative(c)
		}
	}
}

// relativeOffset resolves left/right/top/bottom of a relatively positioned
// box. Left wins over right and top over bottom.
func (e *Engine) relativeOffset(id BoxID) (float64, float64) {
	b := e.tree.Box(id)
	var cw, ch float64
	if b.Parent != NoBox {
		p := e.tree.Box(b.Parent)
		cw, ch = p.Rect.Width, p.Rect.Height
	}
	fs := b.Style.FontSize()
	off := b.Style.Offsets()
	var dx, dy float64
	switch {
	case !off.Left.IsAuto():
		dx = off.Left.Resolve(cw, fs)
	case !off.Right.IsAuto():
		dx = -off.Right.Resolve(cw, fs)
	}
	switch {
	case !off.Top.IsAuto():
		dy = off.Top.Resolve(ch, fs)
	case !off.Bottom.IsAuto():
		dy = -off.Bottom.Resolve(ch, fs)
	}
	return dx, dy
}

// shiftLineFragments moves the line fragments produced by the inline box
// id and its descendants. They live in the line boxes of the enclosing
// block container.
func (e *Engine) shiftLineFragments(id BoxID, dx, dy float64) {
	container := e.tree.Box(id).Parent
	for container != NoBox && e.tree.Box(container).Kind == KindInline {
		container = e.tree.Box(container).Parent
	}
	if container == NoBox {
		return
	}
	lines := e.tree.Box(container).Lines
	for i := range lines {
		for j := range lines[i].Fragments {
			f := &lines[i].Fragments[j]
			if e.within(f.Box, id) {
				f.Rect.X += dx
				f.Rect.Y += dy
				f.Baseline += dy
			}
		}
	}
}

// within reports whether id is anc or one of its descendants.
func (e *Engine) within(id, anc BoxID) bool {
	for id != NoBox {
		if id == anc {
			return true
		}
		id = e.tree.Box(id).Parent
	}
	return false
}

// containingBlock returns the padding box an absolutely positioned box is
// placed against: the nearest positioned ancestor's, or the initial
// containing block. Fixed boxes use the viewport.
func (e *Engine) containingBlock(id BoxID) Rect {
	b := e.tree.Box(id)
	if b.Style.Position() == css.PositionFixed {
		if e.viewport.Width > 0 || e.viewport.Height > 0 {
			return Rect{Width: e.viewport.Width, Height: e.viewport.Height}
		}
		return e.icb
	}
	for p := b.Parent; p != NoBox; p = e.tree.Box(p).Parent {
		pb := e.tree.Box(p)
		if !pb.Style.IsPositioned() {
			continue
		}
		if pb.Kind == KindInline && len(pb.Fragments) > 0 {
			// Bounding box of the first and last fragments.
			r := pb.Fragments[0]
			r = r.Union(pb.Fragments[len(pb.Fragments)-1])
			return Rect{
				X:      r.X + pb.Border.Left,
				Y:      r.Y + pb.Border.Top,
				Width:  max(r.Width-pb.Border.Horizontal(), 0),
				Height: max(r.Height-pb.Border.Vertical(), 0),
			}
		}
		return pb.PaddingBox()
	}
	return e.icb
}

// layoutAbsolute sizes and places an absolutely or fixed positioned box
// (CSS 2.1 §10.3.7 and §10.6.4). Sides left auto fall back to the static
// position recorded during normal flow.
func (e *Engine) layoutAbsolute(id BoxID) {
	b := e.tree.Box(id)
	st := b.Style
	fs := st.FontSize()
	cb := e.containingBlock(id)
	e.resolveEdges(b, cb.Width)

	off := st.Offsets()
	m := st.Margin()
	hasLeft, hasRight := !off.Left.IsAuto(), !off.Right.IsAuto()
	hasTop, hasBottom := !off.Top.IsAuto(), !off.Bottom.IsAuto()
	left, right := off.Left.Resolve(cb.Width, fs), off.Right.Resolve(cb.Width, fs)
	top, bottom := off.Top.Resolve(cb.Height, fs), off.Bottom.Resolve(cb.Height, fs)
	bpH := b.Border.Horizontal() + b.Padding.Horizontal()
	bpV := b.Border.Vertical() + b.Padding.Vertical()

	// Width.
	avail := cb.Width - left - right - b.Margin.Horizontal() - bpH
	var w float64
	specified := true
	switch {
	case b.Image != nil:
		w, _ = e.replacedSize(b, cb.Width, cb.Height)
	case b.Kind == KindTable:
		w = e.tableWidth(id, avail)
	case !st.Width().IsAuto():
		w = st.Width().Resolve(cb.Width, fs)
	case hasLeft && hasRight:
		w = avail
	default:
		specified = false
		w = e.shrinkToFit(id, avail)
	}
	w = clampWidth(st, w, cb.Width)

	// Horizontal position.
	var x float64
	switch {
	case hasLeft && hasRight && specified && m.Left.IsAuto() && m.Right.IsAuto():
		rest := cb.Width - left - right - w - bpH
		if rest >= 0 {
			b.Margin.Left, b.Margin.Right = rest/2, rest/2
		} else {
			b.Margin.Left, b.Margin.Right = 0, 0
		}
		x = cb.X + left + b.Margin.Left
	case hasLeft:
		x = cb.X + left + b.Margin.Left
	case hasRight:
		x = cb.Right() - right - b.Margin.Right - bpH - w
	default:
		x = b.static.X + b.Margin.Left
	}

	cbh := -1.0
	if cb.Height > 0 {
		cbh = cb.Height
	}
	e.layoutIndependent(id, x+b.Border.Left+b.Padding.Left, 0, w, cbh)
	h := b.Rect.Height
	if _, ok := specifiedHeight(st, cbh); !ok && b.Image == nil && hasTop && hasBottom {
		h = clampHeight(st, cb.Height-top-bottom-b.Margin.Vertical()-bpV, cbh)
		b.Rect.Height = h
	}

	// Vertical position.
	var y float64
	switch {
	case hasTop && hasBottom && m.Top.IsAuto() && m.Bottom.IsAuto():
		rest := cb.Height - top - bottom - h - bpV
		if rest >= 0 {
			b.Margin.Top, b.Margin.Bottom = rest/2, rest/2
		} else {
			b.Margin.Top, b.Margin.Bottom = 0, 0
		}
		y = cb.Y + top + b.Margin.Top
	case hasTop:
		y = cb.Y + top + b.Margin.Top
	case hasBottom:
		y = cb.Bottom() - bottom - b.Margin.Bottom - bpV - h
	default:
		y = b.static.Y + b.Margin.Top
	}
	e.translate(id, 0, y+b.Border.Top+b.Padding.Top-b.Rect.Y)

	e.log.Debug("absolute box placed",
		zap.Int32("box", int32(id)),
		zap.Float64("x", b.Rect.X),
		zap.Float64("y", b.Rect.Y))
}
