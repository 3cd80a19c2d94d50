package paint

import (
	"cmp"
	"iter"
	"slices"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// BuildPaintList returns the commands that draw the laid-out subtree at root
// back to front. Each box paints its background and border, then negative
// z-index positioned children, block children, floats, inline children and
// its own text, and last its positioned children with z-index auto or >= 0
// in stable z order. Text styled by a positioned inline box paints in that
// box's layer, after its background. The sequence is computed while it is consumed; stopping
// early leaves the tree untouched and ranging again restarts it.
func BuildPaintList(tree *layout.Tree, root layout.BoxID) iter.Seq[Command] {
	return func(yield func(Command) bool) {
		p := painter{tree: tree, yield: yield}
		p.paint(root)
	}
}

type painter struct {
	tree  *layout.Tree
	yield func(Command) bool
}

type stacked struct {
	id layout.BoxID
	z  int
}

// paint emits id and its subtree; it returns false once the consumer stops.
func (p *painter) paint(id layout.BoxID) bool {
	b := p.tree.Box(id)
	if b.Style.Visibility() == css.VisibilityVisible && !p.hiddenEmptyCell(b) {
		if !p.decorate(id, b) {
			return false
		}
		if b.Image != nil && !b.Rect.IsEmpty() {
			if !p.yield(Command{Kind: KindImage, Box: id, Rect: b.Rect, Src: b.Image.Src, Alt: b.Image.Alt}) {
				return false
			}
		}
	}

	var blocks, floats, inlines []layout.BoxID
	var layers []stacked
	for _, c := range b.Children {
		cb := p.tree.Box(c)
		switch {
		case positioned(cb):
			layers = append(layers, stacked{id: c, z: cb.Style.ZIndex().Level})
		case cb.IsFloat():
			floats = append(floats, c)
		case cb.IsBlockLevel():
			blocks = append(blocks, c)
		default:
			inlines = append(inlines, c)
		}
	}
	slices.SortStableFunc(layers, func(a, b stacked) int { return cmp.Compare(a.z, b.z) })
	split, _ := slices.BinarySearchFunc(layers, 0, func(s stacked, z int) int { return cmp.Compare(s.z, z) })

	for _, s := range layers[:split] {
		if !p.paint(s.id) {
			return false
		}
	}
	for _, group := range [][]layout.BoxID{blocks, floats, inlines} {
		for _, c := range group {
			if !p.paint(c) {
				return false
			}
		}
	}
	if b.Kind == layout.KindInline && positioned(b) {
		if !p.lines(p.lineOwner(b), id) {
			return false
		}
	} else if !p.lines(b, layout.NoBox) {
		return false
	}
	for _, s := range layers[split:] {
		if !p.paint(s.id) {
			return false
		}
	}
	return true
}

// positioned reports a box that paints in its own layer. The z-index of a
// box with z-index auto counts as 0.
func positioned(b *layout.Box) bool {
	switch b.Position {
	case css.PositionRelative, css.PositionAbsolute, css.PositionFixed:
		return true
	}
	return false
}

// hiddenEmptyCell reports a table cell without content whose empty-cells
// value is hide.
func (p *painter) hiddenEmptyCell(b *layout.Box) bool {
	if b.Kind != layout.KindTableCell || !b.Style.HideEmptyCells() {
		return false
	}
	if len(b.Children) > 0 {
		return false
	}
	for _, l := range b.Lines {
		if len(l.Fragments) > 0 {
			return false
		}
	}
	return true
}

// decorate emits the background and border of b. Inline boxes are painted
// once per line fragment.
func (p *painter) decorate(id layout.BoxID, b *layout.Box) bool {
	if b.Kind == layout.KindInline && b.Image == nil {
		last := len(b.Fragments) - 1
		for i, frag := range b.Fragments {
			edges := b.Border
			if i > 0 {
				edges.Left = 0
			}
			if i < last {
				edges.Right = 0
			}
			if !p.boxDecoration(id, b, frag, edges) {
				return false
			}
		}
		return true
	}
	return p.boxDecoration(id, b, b.BorderBox(), b.Border)
}

func (p *painter) boxDecoration(id layout.BoxID, b *layout.Box, border layout.Rect, edges css.BoxEdge) bool {
	st := b.Style
	pad := inset(border, edges)
	radii := cornerRadii(st, border)
	rounded := radii != [4]float64{}

	if bg := st.BackgroundColor(); !bg.IsTransparent() && !pad.IsEmpty() {
		c := Command{Kind: KindBackground, Box: id, Rect: pad, Color: bg}
		if rounded {
			c.Path = RoundedRect(pad, radii)
		}
		if !p.yield(c) {
			return false
		}
	}

	if rounded {
		w := edges.Top
		color := st.BorderColor(css.SideTop)
		style := st.BorderStyle(css.SideTop)
		if w <= 0 || !style.Visible() || color.IsTransparent() {
			return true
		}
		outline := inset(border, css.BoxEdge{Top: w / 2, Right: w / 2, Bottom: w / 2, Left: w / 2})
		return p.yield(Command{
			Kind:  KindPath,
			Box:   id,
			Rect:  border,
			Color: color,
			Path:  RoundedRect(outline, radii),
			Style: style,
			Width: w,
		})
	}

	for _, side := range []css.Side{css.SideTop, css.SideRight, css.SideBottom, css.SideLeft} {
		w := edgeWidth(edges, side)
		color := st.BorderColor(side)
		style := st.BorderStyle(side)
		if w <= 0 || !style.Visible() || color.IsTransparent() {
			continue
		}
		if !p.yield(borderSide(id, border, pad, side, w, style, color)) {
			return false
		}
	}
	return true
}

// borderSide builds the command for one side: a trapezoid mitered at the
// corners between the outer and inner edges.
func borderSide(id layout.BoxID, outer, inner layout.Rect, side css.Side, w float64, style css.BorderStyle, color css.Color) Command {
	ol, ot, or, ob := Point{outer.X, outer.Y}, Point{outer.Right(), outer.Y}, Point{outer.Right(), outer.Bottom()}, Point{outer.X, outer.Bottom()}
	il, it, ir, ib := Point{inner.X, inner.Y}, Point{inner.Right(), inner.Y}, Point{inner.Right(), inner.Bottom()}, Point{inner.X, inner.Bottom()}
	c := Command{Kind: KindBorder, Box: id, Side: side, Style: style, Width: w, Color: color}
	switch side {
	case css.SideTop:
		c.Quad = [4]Point{ol, ot, it, il}
		c.Rect = layout.Rect{X: outer.X, Y: outer.Y, Width: outer.Width, Height: w}
	case css.SideRight:
		c.Quad = [4]Point{ot, or, ir, it}
		c.Rect = layout.Rect{X: outer.Right() - w, Y: outer.Y, Width: w, Height: outer.Height}
	case css.SideBottom:
		c.Quad = [4]Point{ob, or, ir, ib}
		c.Rect = layout.Rect{X: outer.X, Y: outer.Bottom() - w, Width: outer.Width, Height: w}
	case css.SideLeft:
		c.Quad = [4]Point{ol, ob, ib, il}
		c.Rect = layout.Rect{X: outer.X, Y: outer.Y, Width: w, Height: outer.Height}
	}
	return c
}

// lineOwner returns the block container whose line boxes hold the text of
// the inline box b.
func (p *painter) lineOwner(b *layout.Box) *layout.Box {
	for b.Parent != layout.NoBox {
		b = p.tree.Box(b.Parent)
		if b.Kind != layout.KindInline {
			return b
		}
	}
	return b
}

// layerOf returns the nearest positioned inline box that styles id,
// stopping below the container holding the lines, or NoBox.
func (p *painter) layerOf(id layout.BoxID, container *layout.Box) layout.BoxID {
	for id != layout.NoBox {
		b := p.tree.Box(id)
		if b == container || b.Kind != layout.KindInline {
			return layout.NoBox
		}
		if positioned(b) {
			return id
		}
		id = b.Parent
	}
	return layout.NoBox
}

// lines emits the text runs of container's line boxes that belong to layer,
// each followed by its decoration lines. Text of a positioned inline box
// belongs to that box's layer; everything else belongs to NoBox. Atomic
// fragments paint with their own box.
func (p *painter) lines(container *layout.Box, layer layout.BoxID) bool {
	for _, l := range container.Lines {
		for _, f := range l.Fragments {
			if f.Kind != layout.FragmentText || f.Text == "" {
				continue
			}
			if p.layerOf(f.Box, container) != layer {
				continue
			}
			st := p.tree.Box(f.Box).Style
			if st.Visibility() != css.VisibilityVisible {
				continue
			}
			font := text.FontOf(st)
			color := st.Color()
			run := Command{
				Kind:     KindText,
				Box:      f.Box,
				Rect:     f.Rect,
				Color:    color,
				Text:     f.Text,
				Font:     font,
				Baseline: f.Baseline,
			}
			if !p.yield(run) {
				return false
			}
			for _, d := range decorations(f, st.TextDecoration(), font.Size, color) {
				if !p.yield(d) {
					return false
				}
			}
		}
	}
	return true
}

// decorations returns the underline, overline and line-through of a text
// fragment, in that order. Lines are font-size/12 thick and at least 1px.
func decorations(f layout.Fragment, d css.TextDecoration, size float64, color css.Color) []Command {
	if !d.Any() {
		return nil
	}
	thickness := max(size/12, 1)
	line := func(y float64) Command {
		return Command{
			Kind:  KindLine,
			Box:   f.Box,
			Color: color,
			Width: thickness,
			From:  Point{f.Rect.X, y},
			To:    Point{f.Rect.Right(), y},
		}
	}
	var out []Command
	if d.Underline {
		out = append(out, line(f.Baseline+size*0.1))
	}
	if d.Overline {
		out = append(out, line(f.Rect.Y))
	}
	if d.LineThrough {
		out = append(out, line(f.Rect.Y+f.Rect.Height/2))
	}
	return out
}

func cornerRadii(st *css.ResolvedStyle, border layout.Rect) [4]float64 {
	var out [4]float64
	for c := css.CornerNW; c <= css.CornerSW; c++ {
		out[c] = max(st.CornerRadius(c).Resolve(border.Width, st.FontSize()), 0)
	}
	return out
}

func edgeWidth(e css.BoxEdge, side css.Side) float64 {
	switch side {
	case css.SideTop:
		return e.Top
	case css.SideRight:
		return e.Right
	case css.SideBottom:
		return e.Bottom
	}
	return e.Left
}

func inset(r layout.Rect, e css.BoxEdge) layout.Rect {
	return layout.Rect{
		X:      r.X + e.Left,
		Y:      r.Y + e.Top,
		Width:  max(r.Width-e.Left-e.Right, 0),
		Height: max(r.Height-e.Top-e.Bottom, 0),
	}
}
