package layout

import (
	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

const epsilon = 1e-6

type inlineItemKind uint8

const (
	inlineText inlineItemKind = iota
	inlineOpen
	inlineClose
	inlineAtomic
	inlineFloat
	inlineAbsolute
	inlineBreak
)

// inlineItem is one entry of the flattened inline content of a block
// container. For text, box is the box whose style applies.
type inlineItem struct {
	kind inlineItemKind
	box  BoxID
	text string
}

// collectInlineItems flattens the inline content of id in document order,
// resolving the horizontal edges of inline boxes against cw.
func (e *Engine) collectInlineItems(id BoxID, items []inlineItem, cw float64) []inlineItem {
	for _, it := range e.tree.Box(id).Content {
		switch it.Kind {
		case ItemText:
			items = append(items, inlineItem{kind: inlineText, box: id, text: it.Text})
		case ItemBreak:
			items = append(items, inlineItem{kind: inlineBreak, box: id})
		case ItemBox:
			c := e.tree.Box(it.Box)
			switch {
			case c.IsAbsolute():
				items = append(items, inlineItem{kind: inlineAbsolute, box: it.Box})
			case c.IsFloat():
				items = append(items, inlineItem{kind: inlineFloat, box: it.Box})
			case c.Kind == KindInline && c.Image == nil:
				c.Lines, c.Fragments = nil, nil
				c.Rect = Rect{}
				c.static.X, c.static.Y = 0, 0
				e.resolveEdges(c, cw)
				items = append(items, inlineItem{kind: inlineOpen, box: it.Box})
				items = e.collectInlineItems(it.Box, items, cw)
				items = append(items, inlineItem{kind: inlineClose, box: it.Box})
			default:
				items = append(items, inlineItem{kind: inlineAtomic, box: it.Box})
			}
		}
	}
	return items
}

type pieceKind uint8

const (
	pieceWord pieceKind = iota
	pieceSpace
	pieceOpen
	pieceClose
	pieceAtomic
	pieceFloat
	pieceAbsolute
	pieceBreak
)

// piece is an unbreakable unit of inline content with its advance.
type piece struct {
	kind     pieceKind
	box      BoxID
	text     string
	width    float64
	canBreak bool
	done     bool
}

func (p *piece) isContent() bool {
	switch p.kind {
	case pieceWord, pieceAtomic:
		return true
	case pieceOpen, pieceClose:
		return p.width > 0
	}
	return false
}

// pieces measures the inline items. Atomic inlines are laid out here, at
// the origin, to learn their size.
func (e *Engine) pieces(items []inlineItem, cw float64) []piece {
	var out []piece
	for _, it := range items {
		b := e.tree.Box(it.box)
		switch it.kind {
		case inlineText:
			st := b.Style
			f := text.FontOf(st)
			ws := st.WhiteSpace()
			sw := e.spaceWidth(st)
			for _, seg := range splitSegments(it.text, ws) {
				switch seg.kind {
				case segNewline:
					out = append(out, piece{kind: pieceBreak, box: it.box})
				case segSpace:
					out = append(out, piece{kind: pieceSpace, box: it.box, text: seg.text,
						width: float64(seg.spaces) * sw, canBreak: ws.Wraps()})
				default:
					out = append(out, piece{kind: pieceWord, box: it.box, text: seg.text,
						width: e.measurer.MeasureRun(f, seg.text)})
				}
			}
		case inlineOpen:
			out = append(out, piece{kind: pieceOpen, box: it.box, width: b.Margin.Left + b.Border.Left + b.Padding.Left})
		case inlineClose:
			out = append(out, piece{kind: pieceClose, box: it.box, width: b.Padding.Right + b.Border.Right + b.Margin.Right})
		case inlineAtomic:
			out = append(out, piece{kind: pieceAtomic, box: it.box, width: e.layoutAtomic(it.box, cw).Width})
		case inlineFloat:
			out = append(out, piece{kind: pieceFloat, box: it.box})
		case inlineAbsolute:
			out = append(out, piece{kind: pieceAbsolute, box: it.box})
		case inlineBreak:
			out = append(out, piece{kind: pieceBreak, box: it.box})
		}
	}
	return out
}

// layoutAtomic lays out an inline-block or inline image with its margin
// box at the origin and returns that margin box.
func (e *Engine) layoutAtomic(id BoxID, cw float64) Rect {
	b := e.tree.Box(id)
	e.resolveEdges(b, cw)
	st := b.Style
	mbp := b.Margin.Horizontal() + b.Border.Horizontal() + b.Padding.Horizontal()
	var w float64
	switch {
	case b.Image != nil:
		w, _ = e.replacedSize(b, cw, -1)
	case !st.Width().IsAuto():
		w = clampWidth(st, st.Width().Resolve(cw, st.FontSize()), cw)
	default:
		w = clampWidth(st, e.shrinkToFit(id, cw-mbp), cw)
	}
	e.layoutIndependent(id, b.Margin.Left+b.Border.Left+b.Padding.Left, b.Margin.Top+b.Border.Top+b.Padding.Top, w, -1)
	return b.MarginBox()
}

// lineBuilder breaks the pieces of one inline formatting context into line
// boxes.
type lineBuilder struct {
	e      *Engine
	id     BoxID
	f      *flow
	bc     *blockContext
	pieces []piece

	left, right float64
	y           float64
	first       bool
	indent      float64
	align       css.TextAlign
	strut       extent

	// edges of the line being filled
	lineLeft, lineRight float64
	// inline boxes left open at the end of the previous line
	open     []BoxID
	deferred []BoxID
	lines    []LineBox
}

// extent is a vertical span measured from the baseline.
type extent struct {
	above, below float64
}

// layoutInline lays out inline content of the block container id into line
// boxes and advances f past them.
func (e *Engine) layoutInline(id BoxID, f *flow, bc *blockContext) {
	b := e.tree.Box(id)
	st := b.Style
	cw := b.Rect.Width
	lb := &lineBuilder{
		e:      e,
		id:     id,
		f:      f,
		bc:     bc,
		pieces: e.pieces(e.collectInlineItems(id, nil, cw), cw),
		left:   b.Rect.X,
		right:  b.Rect.X + cw,
		y:      f.position(),
		first:  true,
		indent: st.TextIndent().Resolve(cw, st.FontSize()),
		align:  st.TextAlign(),
		strut:  e.strut(st),
	}
	lb.run()
	b.Lines = lb.lines
	if len(lb.lines) > 0 {
		f.cursor = lb.y
	}
}

// strut returns the half-leading extent of a style's font.
func (e *Engine) strut(st *css.ResolvedStyle) extent {
	m := e.measurer.Metrics(text.FontOf(st))
	half := (st.LineHeight().Resolve(st.FontSize()) - m.Height()) / 2
	return extent{above: m.Ascent + half, below: m.Descent + half}
}

func (lb *lineBuilder) startLine() {
	h := lb.strut.above + lb.strut.below
	lb.lineLeft, lb.lineRight = lb.bc.space.AvailableInlineSize(lb.y, h, lb.left, lb.right)
	if lb.first {
		lb.lineLeft += lb.indent
	}
}

func (lb *lineBuilder) narrowed() bool {
	return lb.lineLeft > lb.left+epsilon || lb.lineRight < lb.right-epsilon
}

func (lb *lineBuilder) hasContent(line []int) bool {
	for _, i := range line {
		if lb.pieces[i].isContent() {
			return true
		}
	}
	return false
}

func (lb *lineBuilder) run() {
	var line []int
	width := 0.0
	reset := func() {
		line, width = nil, 0
		lb.startLine()
	}
	lb.startLine()

	for i := 0; i < len(lb.pieces); {
		p := &lb.pieces[i]
		avail := lb.lineRight - lb.lineLeft
		switch p.kind {
		case pieceFloat:
			if !p.done {
				p.done = true
				lb.float(p.box, width, !lb.hasContent(line))
			}
			i++
			continue
		case pieceAbsolute:
			if !p.done {
				p.done = true
				lb.e.deferAbsolute(p.box, lb.lineLeft+width, lb.y)
			}
			i++
			continue
		case pieceBreak:
			lb.closeLine(line, true, false)
			reset()
			i++
			continue
		case pieceSpace:
			if !lb.hasContent(line) && lb.collapses(p) {
				i++
				continue
			}
			fallthrough
		case pieceOpen, pieceClose:
			line = append(line, i)
			width += p.width
			i++
			continue
		}

		// Words and atomic inlines.
		if width+p.width <= avail+epsilon {
			line = append(line, i)
			width += p.width
			i++
			continue
		}
		if keep, resume, ok := lb.breakPoint(line, i); ok {
			lb.closeLine(line[:keep], false, false)
			reset()
			i = resume
			continue
		}
		if lb.narrowed() && !lb.hasContent(line) {
			if next := lb.bc.space.NextBottom(lb.y); next > lb.y {
				// Too narrow beside the floats: move below them.
				if len(line) > 0 {
					i = line[0]
				}
				lb.y = next
				reset()
				continue
			}
		}
		if p.kind == pieceWord && lb.breakAll(p) {
			st := lb.e.tree.Box(p.box).Style
			head := lb.e.fitPrefix(text.FontOf(st), p.text, avail-width, !lb.hasContent(line))
			switch head {
			case "":
				lb.closeLine(line, false, false)
				reset()
			case p.text:
				line = append(line, i)
				width += p.width
				i++
			default:
				lb.splitWord(i, head)
			}
			continue
		}
		// Nothing to break at: the piece overflows the line.
		line = append(line, i)
		width += p.width
		i++
	}
	if len(line) > 0 {
		lb.closeLine(line, false, true)
	}
	lb.placeDeferred()
}

func (lb *lineBuilder) collapses(p *piece) bool {
	return lb.e.tree.Box(p.box).Style.WhiteSpace().CollapsesSpaces()
}

func (lb *lineBuilder) breakAll(p *piece) bool {
	return lb.e.tree.Box(p.box).Style.WordBreak() == css.WordBreakBreakAll
}

// splitWord replaces the word at i with head and the remainder.
func (lb *lineBuilder) splitWord(i int, head string) {
	p := lb.pieces[i]
	f := text.FontOf(lb.e.tree.Box(p.box).Style)
	tail := p
	tail.text = p.text[len(head):]
	tail.width = lb.e.measurer.MeasureRun(f, tail.text)
	p.text = head
	p.width = lb.e.measurer.MeasureRun(f, head)
	lb.pieces[i] = p
	lb.pieces = append(lb.pieces[:i+1], append([]piece{tail}, lb.pieces[i+1:]...)...)
}

// breakPoint finds the last wrap opportunity in line before piece next.
// It returns how many entries of line stay and where to resume.
func (lb *lineBuilder) breakPoint(line []int, next int) (keep, resume int, ok bool) {
	if lb.pieces[next].kind == pieceAtomic && lb.hasContent(line) {
		return len(line), next, true
	}
	for k := len(line) - 1; k > 0; k-- {
		p := &lb.pieces[line[k]]
		switch {
		case p.kind == pieceSpace && p.canBreak && lb.hasContent(line[:k]):
			return k, line[k] + 1, true
		case p.kind == pieceAtomic && lb.hasContent(line[:k]):
			return k, line[k], true
		}
	}
	return 0, 0, false
}

// float places a float met in the inline content: on the current line when
// it fits beside what is already there, otherwise below it.
func (lb *lineBuilder) float(id BoxID, used float64, empty bool) {
	e := lb.e
	mb := e.sizeFloat(id, lb.right-lb.left, -1)
	if !empty && used+mb.Width > lb.lineRight-lb.lineLeft+epsilon {
		lb.deferred = append(lb.deferred, id)
		return
	}
	e.placeFloat(id, lb.y, lb.left, lb.right-lb.left, lb.bc)
	lb.startLine()
}

func (lb *lineBuilder) placeDeferred() {
	for _, id := range lb.deferred {
		lb.e.placeFloat(id, lb.y, lb.left, lb.right-lb.left, lb.bc)
	}
	lb.deferred = lb.deferred[:0]
}

// closeLine turns the pieces of a finished line into a line box.
func (lb *lineBuilder) closeLine(line []int, forced, last bool) {
	// Trailing spaces hang past the line end.
	for len(line) > 0 {
		p := &lb.pieces[line[len(line)-1]]
		if p.kind != pieceSpace || !(lb.collapses(p) || p.canBreak) {
			break
		}
		line = line[:len(line)-1]
	}
	if !lb.hasContent(line) && !forced {
		lb.trackOpen(line)
		return
	}
	if !lb.f.committed {
		lb.f.commit()
	}

	e := lb.e
	metrics := lb.measure(line)
	ext := lb.strut
	var tall []int
	for _, i := range line {
		m := metrics[i]
		va := lb.pieces[i].valign(e)
		if lb.pieces[i].kind == pieceAtomic && (va == css.VerticalAlignTop || va == css.VerticalAlignBottom) {
			tall = append(tall, i)
			continue
		}
		ext.above = max(ext.above, m.above)
		ext.below = max(ext.below, m.below)
	}
	for _, i := range tall {
		if h := metrics[i].above + metrics[i].below; h > ext.above+ext.below {
			if lb.pieces[i].valign(e) == css.VerticalAlignTop {
				ext.below = h - ext.above
			} else {
				ext.above = h - ext.below
			}
		}
	}
	height := ext.above + ext.below
	baseline := lb.y + ext.above

	// Horizontal alignment.
	var used float64
	gaps := 0
	for k, i := range line {
		p := &lb.pieces[i]
		used += p.width
		if p.kind == pieceSpace && p.canBreak && k > 0 {
			gaps++
		}
	}
	slack := lb.lineRight - lb.lineLeft - used
	var offset, extra float64
	if slack > 0 {
		switch lb.align {
		case css.TextAlignRight:
			offset = slack
		case css.TextAlignCenter:
			offset = slack / 2
		case css.TextAlignJustify:
			if !last && !forced && gaps > 0 {
				extra = slack / float64(gaps)
			}
		}
	}
	justify := extra > 0

	lineBox := LineBox{
		Rect:     Rect{X: lb.lineLeft, Y: lb.y, Width: lb.lineRight - lb.lineLeft, Height: height},
		Baseline: baseline,
	}
	x := lb.lineLeft + offset
	starts := make(map[BoxID]float64, len(lb.open))
	for _, id := range lb.open {
		starts[id] = x
	}

	var run *Fragment
	flush := func() {
		if run != nil {
			lineBox.Fragments = append(lineBox.Fragments, *run)
			run = nil
		}
	}
	for k, i := range line {
		p := &lb.pieces[i]
		switch p.kind {
		case pieceOpen:
			flush()
			b := e.tree.Box(p.box)
			starts[p.box] = x + b.Margin.Left
			lb.open = append(lb.open, p.box)
			x += p.width
		case pieceClose:
			flush()
			b := e.tree.Box(p.box)
			lb.inlineFragment(p.box, starts[p.box], x+b.Padding.Right+b.Border.Right, baseline, true)
			lb.popOpen(p.box)
			x += p.width
		case pieceWord, pieceSpace:
			w := p.width
			if p.kind == pieceSpace && justify && p.canBreak && k > 0 {
				w += extra
			}
			if p.kind == pieceSpace && justify {
				flush()
				x += w
				continue
			}
			if run == nil || run.Box != p.box {
				flush()
				dy := e.baselineShift(p.box, lb.id)
				m := e.measurer.Metrics(text.FontOf(e.tree.Box(p.box).Style))
				run = &Fragment{
					Kind:     FragmentText,
					Box:      p.box,
					Rect:     Rect{X: x, Y: baseline + dy - m.Ascent, Height: m.Height()},
					Baseline: baseline + dy,
				}
			}
			run.Text += p.text
			run.Rect.Width += w
			x += w
		case pieceAtomic:
			flush()
			b := e.tree.Box(p.box)
			mb := b.MarginBox()
			top := baseline - metrics[i].above
			switch p.valign(e) {
			case css.VerticalAlignTop:
				top = lb.y
			case css.VerticalAlignBottom:
				top = lb.y + height - mb.Height
			}
			e.translate(p.box, x-mb.X, top-mb.Y)
			lineBox.Fragments = append(lineBox.Fragments, Fragment{
				Kind:     FragmentAtomic,
				Box:      p.box,
				Rect:     b.BorderBox(),
				Baseline: baseline + e.baselineShift(b.Parent, lb.id),
			})
			x += p.width
		}
	}
	flush()
	for _, id := range lb.open {
		lb.inlineFragment(id, starts[id], x, baseline, false)
	}

	lb.lines = append(lb.lines, lineBox)
	lb.y += height
	lb.first = false
	lb.placeDeferred()
}

// trackOpen keeps the open box stack in step for a line that produced no
// line box.
func (lb *lineBuilder) trackOpen(line []int) {
	for _, i := range line {
		switch p := lb.pieces[i]; p.kind {
		case pieceOpen:
			lb.open = append(lb.open, p.box)
		case pieceClose:
			lb.popOpen(p.box)
		}
	}
}

func (lb *lineBuilder) popOpen(id BoxID) {
	for k := len(lb.open) - 1; k >= 0; k-- {
		if lb.open[k] == id {
			lb.open = append(lb.open[:k], lb.open[k+1:]...)
			return
		}
	}
}

// inlineFragment records the border box of an inline box on one line. The
// left edge belongs to the first fragment, the right edge to the one where
// the box closes.
func (lb *lineBuilder) inlineFragment(id BoxID, x0, x1, baseline float64, closed bool) {
	e := lb.e
	b := e.tree.Box(id)
	m := e.measurer.Metrics(text.FontOf(b.Style))
	top := baseline + e.baselineShift(id, lb.id) - m.Ascent

	cx0, cx1 := x0, x1
	if len(b.Fragments) == 0 {
		cx0 += b.Border.Left + b.Padding.Left
	}
	if closed {
		cx1 -= b.Padding.Right + b.Border.Right
	}
	content := Rect{X: cx0, Y: top, Width: max(cx1-cx0, 0), Height: m.Height()}
	b.Fragments = append(b.Fragments, Rect{
		X:      x0,
		Y:      top - b.Padding.Top - b.Border.Top,
		Width:  max(x1-x0, 0),
		Height: content.Height + b.Padding.Vertical() + b.Border.Vertical(),
	})
	if len(b.Fragments) == 1 {
		b.Rect = content
	} else {
		b.Rect = b.Rect.Union(content)
	}
}

// measure returns the extent of every piece of a line around the baseline.
func (lb *lineBuilder) measure(line []int) map[int]extent {
	e := lb.e
	out := make(map[int]extent, len(line))
	for _, i := range line {
		p := &lb.pieces[i]
		switch p.kind {
		case pieceWord, pieceSpace, pieceOpen:
			ex := e.strut(e.tree.Box(p.box).Style)
			dy := e.baselineShift(p.box, lb.id)
			out[i] = extent{above: ex.above - dy, below: ex.below + dy}
		case pieceAtomic:
			out[i] = e.atomicExtent(p.box, lb.id)
		}
	}
	return out
}

func (p *piece) valign(e *Engine) css.VerticalAlign {
	return e.tree.Box(p.box).Style.VerticalAlign()
}

// atomicExtent places an atomic inline relative to the baseline of its
// line according to vertical-align.
func (e *Engine) atomicExtent(id, container BoxID) extent {
	b := e.tree.Box(id)
	h := b.MarginBox().Height
	parent := e.tree.Box(b.Parent).Style
	fs := parent.FontSize()
	dy := e.baselineShift(b.Parent, container)
	base := e.atomicBaseline(id)

	var ex extent
	switch b.Style.VerticalAlign() {
	case css.VerticalAlignMiddle:
		xh := fs / 2
		ex = extent{above: h/2 + xh/2, below: h/2 - xh/2}
	case css.VerticalAlignTextTop:
		m := e.measurer.Metrics(text.FontOf(parent))
		ex = extent{above: m.Ascent, below: h - m.Ascent}
	case css.VerticalAlignTextBottom:
		m := e.measurer.Metrics(text.FontOf(parent))
		ex = extent{above: h - m.Descent, below: m.Descent}
	case css.VerticalAlignTop, css.VerticalAlignBottom:
		return extent{above: base, below: h - base}
	default:
		shift := valignShift(b.Style.VerticalAlign(), fs)
		ex = extent{above: base - shift, below: h - base + shift}
	}
	return extent{above: ex.above - dy, below: ex.below + dy}
}

// atomicBaseline returns the distance from the top margin edge of an
// atomic inline to its baseline: the last line box inside it, or the
// bottom margin edge.
func (e *Engine) atomicBaseline(id BoxID) float64 {
	b := e.tree.Box(id)
	mb := b.MarginBox()
	if b.Image == nil && b.Style.Overflow() == css.OverflowVisible {
		if y, ok := e.lastBaseline(id); ok {
			return y - mb.Y
		}
	}
	return mb.Height
}

func (e *Engine) lastBaseline(id BoxID) (float64, bool) {
	b := e.tree.Box(id)
	if n := len(b.Lines); n > 0 {
		return b.Lines[n-1].Baseline, true
	}
	for k := len(b.Children) - 1; k >= 0; k-- {
		c := e.tree.Box(b.Children[k])
		if !c.InFlow() || !c.IsBlockLevel() {
			continue
		}
		if y, ok := e.lastBaseline(b.Children[k]); ok {
			return y, true
		}
	}
	return 0, false
}

// baselineShift returns how far the baseline of inline box id sits below
// the baseline of the line in container, from sub and super alignment of
// id and its inline ancestors.
func (e *Engine) baselineShift(id, container BoxID) float64 {
	var dy float64
	for id != container && id != NoBox {
		b := e.tree.Box(id)
		if b.Kind != KindInline || b.Parent == NoBox {
			break
		}
		dy -= valignShift(b.Style.VerticalAlign(), e.tree.Box(b.Parent).Style.FontSize())
		id = b.Parent
	}
	return dy
}

// valignShift returns how far vertical-align raises a baseline.
func valignShift(va css.VerticalAlign, parentFontSize float64) float64 {
	switch va {
	case css.VerticalAlignSuper:
		return parentFontSize / 3
	case css.VerticalAlignSub:
		return -parentFontSize / 5
	}
	return 0
}
