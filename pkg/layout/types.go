// Package layout builds the box tree for a styled document and computes the
// geometry of every box: block flow with collapsing margins, inline flow with
// line breaking, floats, tables, positioned boxes and pagination.
//
// Boxes live in an arena (Tree) and refer to each other by BoxID. All
// coordinates are absolute px with the layout root's margin edge at the
// origin; nothing is rounded here.
package layout

import (
	"fmt"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsEmpty reports a rectangle without area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the smallest rectangle containing r and o. An empty
// operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if o.Width <= 0 && o.Height <= 0 {
		return r
	}
	if r.Width <= 0 && r.Height <= 0 {
		return o
	}
	x, y := min(r.X, o.X), min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: max(r.Right(), o.Right()) - x, Height: max(r.Bottom(), o.Bottom()) - y}
}

// Expand grows r outward by e.
func (r Rect) Expand(e css.BoxEdge) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Horizontal(),
		Height: r.Height + e.Vertical(),
	}
}

// Size represents width and height.
type Size struct {
	Width, Height float64
}

// BoxID is a handle into a Tree.
type BoxID int32

// NoBox is the parent of the root.
const NoBox BoxID = -1

// Kind is the layout role of a box.
type Kind uint8

const (
	KindBlock Kind = iota
	KindInline
	KindInlineBlock
	KindTable
	KindTableRow
	KindTableCell
	// KindAnonymous is an anonymous block container wrapping inline content
	// next to block siblings. Anonymous tables, rows and cells keep their
	// table kind and set Box.Anonymous.
	KindAnonymous
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindInlineBlock:
		return "inline-block"
	case KindTable:
		return "table"
	case KindTableRow:
		return "table-row"
	case KindTableCell:
		return "table-cell"
	case KindAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ItemKind tags the entries of Box.Content.
type ItemKind uint8

const (
	ItemText ItemKind = iota
	ItemBox
	ItemBreak
)

// Item is one entry of a box's content in document order: a child box, a
// text fragment styled by the owning box, or a forced line break.
type Item struct {
	Kind ItemKind
	Text string
	Box  BoxID
}

// Replaced describes the picture of an <img> box.
type Replaced struct {
	Src string
	Alt string
}

// Box is a rectangular layout unit derived from an element or an anonymous
// wrapper.
type Box struct {
	Kind      Kind
	Anonymous bool
	Node      *html.Node
	Style     *css.ResolvedStyle
	Parent    BoxID
	Children  []BoxID
	Content   []Item
	Image     *Replaced

	Float    css.FloatType
	Position css.PositionType

	// Geometry, filled by Engine.Layout. Rect is the content box.
	Rect    Rect
	Margin  css.BoxEdge
	Border  css.BoxEdge
	Padding css.BoxEdge

	// Lines holds the line boxes of a block container with inline content.
	Lines []LineBox
	// Fragments holds the border box of an inline box on each line it
	// spans, in line order.
	Fragments []Rect

	colspan, rowspan int
	// static is the margin-box origin an absolutely positioned box would
	// have had in normal flow.
	static struct{ X, Y float64 }
}

// PaddingBox returns the content box grown by the padding.
func (b *Box) PaddingBox() Rect { return b.Rect.Expand(b.Padding) }

// BorderBox returns the padding box grown by the border.
func (b *Box) BorderBox() Rect { return b.PaddingBox().Expand(b.Border) }

// MarginBox returns the border box grown by the margins.
func (b *Box) MarginBox() Rect { return b.BorderBox().Expand(b.Margin) }

// IsFloat reports a floated box.
func (b *Box) IsFloat() bool { return b.Float == css.FloatLeft || b.Float == css.FloatRight }

// IsAbsolute reports an absolutely or fixed positioned box.
func (b *Box) IsAbsolute() bool {
	return b.Position == css.PositionAbsolute || b.Position == css.PositionFixed
}

// InFlow reports a box that is neither floated nor absolutely positioned.
func (b *Box) InFlow() bool { return !b.IsFloat() && !b.IsAbsolute() }

// IsBlockLevel reports whether the box takes part in block flow.
func (b *Box) IsBlockLevel() bool {
	switch b.Kind {
	case KindBlock, KindTable, KindTableRow, KindTableCell, KindAnonymous:
		return true
	}
	return false
}

// IsAtomicInline reports an inline-level box laid out as a single unit.
func (b *Box) IsAtomicInline() bool {
	return b.Kind == KindInlineBlock || (b.Kind == KindInline && b.Image != nil)
}

// TagName returns the element name, or "" for anonymous boxes.
func (b *Box) TagName() string {
	if b.Node == nil {
		return ""
	}
	return b.Node.TagName
}

// FragmentKind tags the contents of a line box.
type FragmentKind uint8

const (
	FragmentText FragmentKind = iota
	FragmentAtomic
)

// Fragment is a positioned piece of a line: a run of text styled by Box, or
// an atomic inline-level box.
type Fragment struct {
	Kind     FragmentKind
	Box      BoxID
	Text     string
	Rect     Rect
	Baseline float64
}

// LineBox is one line of an inline formatting context. Rect spans the
// space available to the line; Baseline is absolute.
type LineBox struct {
	Rect      Rect
	Baseline  float64
	Fragments []Fragment
}

// Tree is the arena that owns every box.
type Tree struct {
	boxes []*Box
}

func NewTree() *Tree { return &Tree{} }

// Len returns the number of boxes.
func (t *Tree) Len() int { return len(t.boxes) }

// Box returns the box for id. It panics on a handle that does not belong to
// the tree.
func (t *Tree) Box(id BoxID) *Box {
	if id < 0 || int(id) >= len(t.boxes) {
		panic(fmt.Sprintf("layout: invalid box id %d (tree has %d boxes)", id, len(t.boxes)))
	}
	return t.boxes[id]
}

func (t *Tree) newBox(b *Box) BoxID {
	b.Parent = NoBox
	t.boxes = append(t.boxes, b)
	return BoxID(len(t.boxes) - 1)
}

// AppendChild adds child at the end of parent's content.
func (t *Tree) AppendChild(parent, child BoxID) {
	p := t.Box(parent)
	p.Content = append(p.Content, Item{Kind: ItemBox, Box: child})
	p.Children = append(p.Children, child)
	t.Box(child).Parent = parent
}

func (t *Tree) appendText(id BoxID, s string) {
	b := t.Box(id)
	if n := len(b.Content); n > 0 && b.Content[n-1].Kind == ItemText {
		b.Content[n-1].Text += s
		return
	}
	b.Content = append(b.Content, Item{Kind: ItemText, Text: s})
}

func (t *Tree) appendBreak(id BoxID) {
	b := t.Box(id)
	b.Content = append(b.Content, Item{Kind: ItemBreak})
}

// setContent replaces the content of id and rebuilds its child list.
func (t *Tree) setContent(id BoxID, items []Item) {
	b := t.Box(id)
	b.Content = items
	b.Children = b.Children[:0]
	for _, it := range items {
		if it.Kind == ItemBox {
			b.Children = append(b.Children, it.Box)
			t.boxes[it.Box].Parent = id
		}
	}
}
