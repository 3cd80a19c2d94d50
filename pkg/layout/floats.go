package layout

import (
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// layoutFloat sizes a float and places it in the formatting context.
func (e *Engine) layoutFloat(id BoxID, y, x, cw, cbh float64, bc *blockContext) {
	e.sizeFloat(id, cw, cbh)
	e.placeFloat(id, y, x, cw, bc)
}

// sizeFloat resolves the width of a float and lays out its content at the
// origin. It returns the margin box.
func (e *Engine) sizeFloat(id BoxID, cw, cbh float64) Rect {
	b := e.tree.Box(id)
	st := b.Style
	e.resolveEdges(b, cw)
	bp := b.Border.Horizontal() + b.Padding.Horizontal()

	var w float64
	switch {
	case b.Image != nil:
		w, _ = e.replacedSize(b, cw, cbh)
	case b.Kind == KindTable:
		w = e.tableWidth(id, cw-b.Margin.Horizontal()-bp)
	case !st.Width().IsAuto():
		w = clampWidth(st, st.Width().Resolve(cw, st.FontSize()), cw)
	default:
		w = clampWidth(st, e.shrinkToFit(id, cw-b.Margin.Horizontal()-bp), cw)
	}
	e.layoutIndependent(id, 0, 0, w, cbh)
	return b.MarginBox()
}

// placeFloat moves a sized float as high as possible, but not above y or
// an earlier float, to its side of the span [x, x+cw], dropping below other
// floats while it does not fit.
func (e *Engine) placeFloat(id BoxID, y, x, cw float64, bc *blockContext) {
	b := e.tree.Box(id)
	mb := b.MarginBox()
	fy := max(y, bc.space.LastTop())
	if c := b.Style.Clear(); c != css.ClearNone {
		fy = max(fy, bc.space.ClearY(c))
	}
	var left, right float64
	for {
		left, right = bc.space.AvailableInlineSize(fy, mb.Height, x, x+cw)
		if right-left >= mb.Width || (left == x && right == x+cw) {
			break
		}
		next := bc.space.NextBottom(fy)
		if next <= fy {
			break
		}
		fy = next
	}
	fx := left
	if b.Float == css.FloatRight {
		fx = right - mb.Width
	}
	e.translate(id, fx-mb.X, fy-mb.Y)

	placed := b.MarginBox()
	bc.space = bc.space.Add(Exclusion{Rect: placed, Side: b.Float})
	e.log.Debug("float placed",
		zap.String("tag", b.TagName()),
		zap.String("side", string(b.Float)),
		zap.Float64("x", placed.X), zap.Float64("y", placed.Y),
		zap.Float64("width", placed.Width), zap.Float64("height", placed.Height))
}
