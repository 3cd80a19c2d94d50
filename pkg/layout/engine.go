package layout

import (
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// ImageSizer reports the intrinsic size of an image source.
type ImageSizer interface {
	Size(src string) (width, height float64, ok bool)
}

// Engine computes box geometry. An engine owns its tree for the duration
// of a call and must not be used concurrently.
type Engine struct {
	tree     *Tree
	measurer text.Measurer
	images   ImageSizer
	log      *zap.Logger
	viewport Size

	root      BoxID
	icb       Rect
	pending   []BoxID
	intrinsic map[BoxID][2]float64
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithImageSizer supplies intrinsic sizes for <img> boxes. Without one,
// images without explicit dimensions are laid out as 0×0.
func WithImageSizer(s ImageSizer) Option {
	return func(e *Engine) { e.images = s }
}

// WithViewport sets the box fixed-position elements are anchored to. It
// defaults to the containing width and available height of Layout.
func WithViewport(width, height float64) Option {
	return func(e *Engine) { e.viewport = Size{Width: width, Height: height} }
}

func NewEngine(tree *Tree, m text.Measurer, opts ...Option) *Engine {
	e := &Engine{tree: tree, measurer: m, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("layout")
	return e
}

func (e *Engine) Tree() *Tree { return e.tree }

// Layout computes the geometry of id and all its descendants. The box's
// margin edge is placed at the origin of a containing block containingWidth
// wide; availableHeight is the containing block height (≤0 for none).
func (e *Engine) Layout(id BoxID, containingWidth, availableHeight float64) {
	e.root = id
	e.pending = e.pending[:0]
	e.intrinsic = make(map[BoxID][2]float64)
	e.icb = Rect{Width: containingWidth, Height: max(availableHeight, 0)}

	cbh := -1.0
	if availableHeight > 0 {
		cbh = availableHeight
	}
	b := e.tree.Box(id)
	if b.IsAtomicInline() || b.Kind == KindInline {
		e.resolveEdges(b, containingWidth)
		w := e.shrinkToFit(id, containingWidth-b.Margin.Horizontal()-b.Border.Horizontal()-b.Padding.Horizontal())
		e.layoutIndependent(id, b.Margin.Left+b.Border.Left+b.Padding.Left, b.Margin.Top+b.Border.Top+b.Padding.Top, w, cbh)
	} else {
		f := &flow{}
		e.layoutBlock(id, 0, containingWidth, cbh, f, newBlockContext())
	}
	if e.icb.Height == 0 {
		e.icb.Height = b.MarginBox().Bottom()
	}
	e.layoutPositioned(id)
	e.log.Debug("layout done",
		zap.Int("boxes", e.tree.Len()),
		zap.Float64("width", containingWidth),
		zap.Float64("height", b.MarginBox().Height))
}

// resolveEdges fills the used margins, borders and padding of b against a
// containing block width. Auto margins resolve to zero here.
func (e *Engine) resolveEdges(b *Box, cw float64) {
	fs := b.Style.FontSize()
	b.Margin = b.Style.Margin().Resolve(cw, fs)
	b.Border = b.Style.BorderWidth()
	b.Padding = b.Style.Padding().Resolve(cw, fs)
	if b.Kind == KindTableRow {
		b.Margin, b.Border, b.Padding = css.BoxEdge{}, css.BoxEdge{}, css.BoxEdge{}
	}
	if b.Kind == KindTableCell {
		b.Margin = css.BoxEdge{}
	}
}

// establishesBFC reports whether id starts a new block formatting context.
func (e *Engine) establishesBFC(id BoxID) bool {
	b := e.tree.Box(id)
	switch {
	case id == e.root, b.IsFloat(), b.IsAbsolute():
		return true
	case b.Kind == KindInlineBlock, b.Kind == KindTable, b.Kind == KindTableCell:
		return true
	}
	return b.Style.Overflow() != css.OverflowVisible
}

// clampWidth applies min-width and max-width to a content width.
func clampWidth(st *css.ResolvedStyle, w, cw float64) float64 {
	fs := st.FontSize()
	if mx := st.MaxWidth(); !mx.IsAuto() {
		w = min(w, mx.Resolve(cw, fs))
	}
	if mn := st.MinWidth(); !mn.IsAuto() {
		w = max(w, mn.Resolve(cw, fs))
	}
	return max(w, 0)
}

// clampHeight applies min-height and max-height; percentages need a
// definite containing block height.
func clampHeight(st *css.ResolvedStyle, h, cbh float64) float64 {
	fs := st.FontSize()
	if mx := st.MaxHeight(); !mx.IsAuto() && (mx.Unit != css.UnitPercent || cbh >= 0) {
		h = min(h, mx.Resolve(cbh, fs))
	}
	if mn := st.MinHeight(); !mn.IsAuto() && (mn.Unit != css.UnitPercent || cbh >= 0) {
		h = max(h, mn.Resolve(cbh, fs))
	}
	return max(h, 0)
}

// specifiedHeight returns the used value of `height`, or false when it is
// auto or a percentage of an indefinite height.
func specifiedHeight(st *css.ResolvedStyle, cbh float64) (float64, bool) {
	h := st.Height()
	if h.IsAuto() || (h.Unit == css.UnitPercent && cbh < 0) {
		return 0, false
	}
	return max(h.Resolve(cbh, st.FontSize()), 0), true
}

// replacedSize returns the used content size of an image box: specified
// dimensions win, a single one keeps the aspect ratio of the picture.
func (e *Engine) replacedSize(b *Box, cw, cbh float64) (float64, float64) {
	var iw, ih float64
	if e.images != nil && b.Image.Src != "" {
		if w, h, ok := e.images.Size(b.Image.Src); ok {
			iw, ih = w, h
		}
	}
	st := b.Style
	fs := st.FontSize()
	wl := st.Width()
	w, hasW := 0.0, !wl.IsAuto() && (wl.Unit != css.UnitPercent || cw >= 0)
	if hasW {
		w = wl.Resolve(cw, fs)
	}
	h, hasH := specifiedHeight(st, cbh)

	switch {
	case hasW && hasH:
	case hasW:
		h = ih
		if iw > 0 {
			h = w * ih / iw
		}
	case hasH:
		w = iw
		if ih > 0 {
			w = h * iw / ih
		}
	default:
		w, h = iw, ih
	}
	return clampWidth(st, w, cw), clampHeight(st, h, cbh)
}

// translate moves id and everything laid out inside it. The static
// position moves only for absolutely positioned boxes, the only ones that
// read it.
func (e *Engine) translate(id BoxID, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b := e.tree.Box(id)
	b.Rect.X += dx
	b.Rect.Y += dy
	if b.IsAbsolute() {
		b.static.X += dx
		b.static.Y += dy
	}
	for i := range b.Fragments {
		b.Fragments[i].X += dx
		b.Fragments[i].Y += dy
	}
	e.translateLines(b, dx, dy)
	for _, c := range b.Children {
		e.translate(c, dx, dy)
	}
}

func (e *Engine) translateLines(b *Box, dx, dy float64) {
	for i := range b.Lines {
		l := &b.Lines[i]
		l.Rect.X += dx
		l.Rect.Y += dy
		l.Baseline += dy
		for j := range l.Fragments {
			l.Fragments[j].Rect.X += dx
			l.Fragments[j].Rect.Y += dy
			l.Fragments[j].Baseline += dy
		}
	}
}

// OverflowRect returns the union of the border boxes of id and all its
// descendants, including line fragments.
func (t *Tree) OverflowRect(id BoxID) Rect {
	b := t.Box(id)
	r := b.BorderBox()
	for _, l := range b.Lines {
		for _, f := range l.Fragments {
			r = r.Union(f.Rect)
		}
	}
	for _, c := range b.Children {
		r = r.Union(t.OverflowRect(c))
	}
	return r
}

// Overflows reports whether any descendant extends past the border box of
// id.
func (t *Tree) Overflows(id BoxID) bool {
	bb := t.Box(id).BorderBox()
	o := t.OverflowRect(id)
	const eps = 1e-9
	return o.X < bb.X-eps || o.Y < bb.Y-eps || o.Right() > bb.Right()+eps || o.Bottom() > bb.Bottom()+eps
}
