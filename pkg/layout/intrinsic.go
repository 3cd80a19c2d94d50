package layout

import (
	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// intrinsicWidths returns the min-content and max-content widths of the
// content box of id. Results are cached for one layout pass.
func (e *Engine) intrinsicWidths(id BoxID) (float64, float64) {
	if v, ok := e.intrinsic[id]; ok {
		return v[0], v[1]
	}
	minW, maxW := e.computeIntrinsic(id)
	maxW = max(maxW, minW)
	if e.intrinsic != nil {
		e.intrinsic[id] = [2]float64{minW, maxW}
	}
	return minW, maxW
}

func (e *Engine) computeIntrinsic(id BoxID) (float64, float64) {
	b := e.tree.Box(id)
	st := b.Style
	if b.Image != nil {
		w, _ := e.replacedSize(b, 0, -1)
		return w, w
	}
	if w := st.Width(); !w.IsAuto() && w.Unit != css.UnitPercent {
		v := clampWidth(st, w.Resolve(0, st.FontSize()), 0)
		return v, v
	}

	var minW, maxW float64
	switch {
	case b.Kind == KindTable:
		minW, maxW = e.tableIntrinsic(id)
	case e.hasInlineContent(id):
		minW, maxW = e.inlineIntrinsic(id)
	default:
		for _, c := range b.Children {
			cb := e.tree.Box(c)
			if cb.IsAbsolute() {
				continue
			}
			mn, mx := e.outerIntrinsic(c)
			minW, maxW = max(minW, mn), max(maxW, mx)
		}
	}
	return clampWidth(st, minW, 0), clampWidth(st, maxW, 0)
}

// outerIntrinsic adds the fixed horizontal margins, borders and padding of
// id to its intrinsic widths. Percentages count as zero.
func (e *Engine) outerIntrinsic(id BoxID) (float64, float64) {
	b := e.tree.Box(id)
	st := b.Style
	fs := st.FontSize()
	var mbp float64
	fixed := func(l css.Length) float64 {
		if l.Unit == css.UnitPercent {
			return 0
		}
		return l.Resolve(0, fs)
	}
	m, p := st.Margin(), st.Padding()
	if b.Kind != KindTableRow {
		mbp = st.BorderWidth().Horizontal() + fixed(p.Left) + fixed(p.Right)
		if b.Kind != KindTableCell {
			mbp += fixed(m.Left) + fixed(m.Right)
		}
	}
	minW, maxW := e.intrinsicWidths(id)
	return minW + mbp, maxW + mbp
}

// shrinkToFit returns min(max(min-content, available), max-content).
func (e *Engine) shrinkToFit(id BoxID, available float64) float64 {
	minW, maxW := e.intrinsicWidths(id)
	return min(max(minW, available), maxW)
}

// inlineIntrinsic measures inline content: the widest unbreakable run and
// the widest line between forced breaks.
func (e *Engine) inlineIntrinsic(id BoxID) (float64, float64) {
	var minW, maxW, chunk, line float64
	endChunk := func() {
		minW = max(minW, chunk)
		chunk = 0
	}
	endLine := func() {
		endChunk()
		maxW = max(maxW, line)
		line = 0
	}
	for _, it := range e.collectInlineItems(id, nil, 0) {
		b := e.tree.Box(it.box)
		switch it.kind {
		case inlineText:
			st := b.Style
			f := text.FontOf(st)
			ws := st.WhiteSpace()
			breakAll := st.WordBreak() == css.WordBreakBreakAll
			sw := e.spaceWidth(st)
			for _, seg := range splitSegments(it.text, ws) {
				switch seg.kind {
				case segNewline:
					endLine()
				case segSpace:
					w := float64(seg.spaces) * sw
					line += w
					if ws.Wraps() {
						endChunk()
					} else {
						chunk += w
					}
				default:
					w := e.measurer.MeasureRun(f, seg.text)
					line += w
					if breakAll {
						endChunk()
						minW = max(minW, e.widestRune(f, seg.text))
					} else {
						chunk += w
					}
				}
			}
		case inlineOpen:
			w := b.Margin.Left + b.Border.Left + b.Padding.Left
			line += w
			chunk += w
		case inlineClose:
			w := b.Padding.Right + b.Border.Right + b.Margin.Right
			line += w
			chunk += w
		case inlineAtomic, inlineFloat:
			mn, mx := e.outerIntrinsic(it.box)
			endChunk()
			minW = max(minW, mn)
			line += mx
		case inlineBreak:
			endLine()
		}
	}
	endLine()
	return minW, maxW
}
