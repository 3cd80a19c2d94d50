package layout

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// ResolveFunc computes the style of an element given its parent's style.
type ResolveFunc func(node *html.Node, parent *css.ResolvedStyle) *css.ResolvedStyle

// Builder turns a document tree into a box tree.
type Builder struct {
	resolve ResolveFunc
	log     *zap.Logger
	lang    language.Tag

	tree *Tree
	// lastSpace tracks whether the previous collapsible text ended in a
	// space, so whitespace collapses across element boundaries.
	lastSpace bool
}

type BuilderOption func(*Builder)

// WithBuilderLogger sets the logger for anonymous box insertion events.
func WithBuilderLogger(log *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithLanguage sets the language used by text-transform.
func WithLanguage(tag language.Tag) BuilderOption {
	return func(b *Builder) { b.lang = tag }
}

func NewBuilder(resolve ResolveFunc, opts ...BuilderOption) *Builder {
	b := &Builder{resolve: resolve, log: zap.NewNop(), lang: language.Und}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.Named("boxes")
	return b
}

// Build creates the box tree for root and returns it with the root box.
// The root box is always a block container; a display:none root yields an
// empty one.
func (b *Builder) Build(root *html.Node) (*Tree, BoxID) {
	b.tree = NewTree()
	b.lastSpace = true

	style := b.resolve(root, nil)
	rootID := b.tree.newBox(&Box{
		Kind:     KindBlock,
		Node:     root,
		Style:    style,
		Float:    css.FloatNone,
		Position: css.PositionStatic,
	})
	if style.Display() != css.DisplayNone {
		b.buildChildren(root, rootID, style)
	}
	b.normalize(rootID)

	tree := b.tree
	b.tree = nil
	return tree, rootID
}

func (b *Builder) buildChildren(n *html.Node, parent BoxID, style *css.ResolvedStyle) {
	for _, c := range n.Children {
		switch c.Type {
		case html.TextNode:
			b.addText(parent, c.Text, style)
		case html.ElementNode:
			b.addElement(parent, c, style)
		}
	}
}

func (b *Builder) addText(parent BoxID, raw string, style *css.ResolvedStyle) {
	ws := style.WhiteSpace()
	s := text.Collapse(raw, ws, b.lastSpace)
	if s == "" {
		return
	}
	s = text.Transform(s, style.TextTransform(), b.lang)
	b.tree.appendText(parent, s)
	b.lastSpace = ws.CollapsesSpaces() && strings.HasSuffix(s, " ")
}

func (b *Builder) addElement(parent BoxID, n *html.Node, parentStyle *css.ResolvedStyle) {
	style := b.resolve(n, parentStyle)
	display := style.Display()
	switch display {
	case css.DisplayNone:
		return
	case css.DisplayRowGroup, css.DisplayHeaderGroup, css.DisplayFooterGroup:
		// Row groups are flattened: their rows belong to the table.
		b.buildChildren(n, parent, style)
		return
	}
	if n.TagName == "br" {
		b.tree.appendBreak(parent)
		b.lastSpace = true
		return
	}

	box := &Box{
		Node:     n,
		Style:    style,
		Float:    style.Float(),
		Position: style.Position(),
		Kind:     kindOf(display),
		colspan:  1,
		rowspan:  1,
	}
	if n.TagName == "img" {
		src, _ := n.GetAttribute("src")
		alt, _ := n.GetAttribute("alt")
		box.Image = &Replaced{Src: src, Alt: alt}
	}
	if box.IsFloat() || box.IsAbsolute() {
		box.Kind = blockify(box.Kind)
	}
	switch display {
	case css.DisplayTableCell:
		box.colspan = spanAttr(n, "colspan")
		box.rowspan = spanAttr(n, "rowspan")
	case css.DisplayCaption:
		box.colspan = 0
	}

	id := b.tree.newBox(box)
	b.tree.AppendChild(parent, id)
	if box.IsBlockLevel() {
		b.lastSpace = true
	}
	if box.Image == nil {
		b.buildChildren(n, id, style)
	}
	b.normalize(id)
	if box.IsBlockLevel() {
		b.lastSpace = true
	}
}

func kindOf(d css.DisplayType) Kind {
	switch d {
	case css.DisplayInline:
		return KindInline
	case css.DisplayInlineBlock:
		return KindInlineBlock
	case css.DisplayTable:
		return KindTable
	case css.DisplayTableRow:
		return KindTableRow
	case css.DisplayTableCell, css.DisplayCaption:
		return KindTableCell
	}
	return KindBlock
}

// blockify maps the display of a floated or absolutely positioned box to
// its block-level equivalent (CSS 2.1 §9.7).
func blockify(k Kind) Kind {
	if k == KindTable {
		return k
	}
	return KindBlock
}

func spanAttr(n *html.Node, name string) int {
	v, ok := n.GetAttribute(name)
	if !ok {
		return 1
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || i < 1 {
		return 1
	}
	return min(i, 1000)
}

// normalize repairs the content of a finished box so that every block
// container holds either only block-level boxes or only inline content, and
// tables nest as table > row > cell.
func (b *Builder) normalize(id BoxID) {
	box := b.tree.Box(id)
	switch box.Kind {
	case KindTable:
		b.fixTable(id)
		return
	case KindTableRow:
		b.fixRow(id)
		return
	case KindInline:
		if box.Image != nil || !b.hasBlockChild(id) {
			return
		}
		// A block inside an inline turns the inline into a block container.
		box.Kind = KindBlock
		b.log.Debug("inline box holds blocks, treating it as block", zap.String("tag", box.TagName()))
	}
	b.fixContainer(id)
}

func (b *Builder) hasBlockChild(id BoxID) bool {
	for _, c := range b.tree.Box(id).Children {
		if cb := b.tree.Box(c); cb.IsBlockLevel() && cb.InFlow() {
			return true
		}
	}
	return false
}

func (b *Builder) isTablePart(it Item) bool {
	if it.Kind != ItemBox {
		return false
	}
	k := b.tree.Box(it.Box).Kind
	return k == KindTableRow || k == KindTableCell
}

// isSpace reports text that collapses away between boxes.
func (b *Builder) isSpace(owner BoxID, it Item) bool {
	return it.Kind == ItemText &&
		strings.TrimSpace(it.Text) == "" &&
		b.tree.Box(owner).Style.WhiteSpace().CollapsesSpaces()
}

func (b *Builder) fixContainer(id BoxID) {
	box := b.tree.Box(id)

	// Stray rows and cells get an anonymous table.
	if hasAny(box.Content, b.isTablePart) {
		var out, run []Item
		flush := func() {
			if len(run) == 0 {
				return
			}
			t := b.anonymous(id, KindTable, css.DisplayTable)
			b.tree.setContent(t, run)
			b.fixTable(t)
			out = append(out, Item{Kind: ItemBox, Box: t})
			run = nil
		}
		for _, it := range box.Content {
			switch {
			case b.isTablePart(it):
				run = append(run, it)
			case len(run) > 0 && b.isSpace(id, it):
			default:
				flush()
				out = append(out, it)
			}
		}
		flush()
		b.tree.setContent(id, out)
	}

	if !b.hasBlockChild(id) {
		return
	}
	// Mixed content: inline runs are wrapped in anonymous blocks.
	var out, run []Item
	flush := func() {
		if !b.runHasInlineContent(id, run) {
			for _, it := range run {
				if it.Kind == ItemBox {
					out = append(out, it)
				}
			}
			run = nil
			return
		}
		a := b.anonymous(id, KindAnonymous, css.DisplayBlock)
		b.tree.setContent(a, run)
		b.log.Debug("anonymous block inserted", zap.String("parent", b.tree.Box(id).TagName()), zap.Int("items", len(run)))
		out = append(out, Item{Kind: ItemBox, Box: a})
		run = nil
	}
	for _, it := range b.tree.Box(id).Content {
		if it.Kind == ItemBox {
			if cb := b.tree.Box(it.Box); cb.IsBlockLevel() && cb.InFlow() {
				flush()
				out = append(out, it)
				continue
			}
		}
		run = append(run, it)
	}
	flush()
	b.tree.setContent(id, out)
}

// runHasInlineContent reports whether a run holds anything besides
// collapsible whitespace and out-of-flow boxes.
func (b *Builder) runHasInlineContent(owner BoxID, run []Item) bool {
	for _, it := range run {
		switch it.Kind {
		case ItemBreak:
			return true
		case ItemText:
			if !b.isSpace(owner, it) {
				return true
			}
		case ItemBox:
			if b.tree.Box(it.Box).InFlow() {
				return true
			}
		}
	}
	return false
}

func (b *Builder) fixTable(id BoxID) {
	var out, run []Item
	flush := func() {
		if len(run) == 0 {
			return
		}
		r := b.anonymous(id, KindTableRow, css.DisplayTableRow)
		b.tree.setContent(r, run)
		b.fixRow(r)
		out = append(out, Item{Kind: ItemBox, Box: r})
		run = nil
	}
	for _, it := range b.tree.Box(id).Content {
		switch {
		case it.Kind == ItemBox && b.tree.Box(it.Box).Kind == KindTableRow:
			flush()
			out = append(out, it)
		case b.isSpace(id, it):
		default:
			run = append(run, it)
		}
	}
	flush()
	b.tree.setContent(id, out)
}

func (b *Builder) fixRow(id BoxID) {
	var out, run []Item
	flush := func() {
		if len(run) == 0 {
			return
		}
		c := b.anonymous(id, KindTableCell, css.DisplayTableCell)
		b.tree.setContent(c, run)
		b.fixContainer(c)
		out = append(out, Item{Kind: ItemBox, Box: c})
		run = nil
	}
	for _, it := range b.tree.Box(id).Content {
		switch {
		case it.Kind == ItemBox && b.tree.Box(it.Box).Kind == KindTableCell:
			flush()
			out = append(out, it)
		case len(run) == 0 && b.isSpace(id, it):
		default:
			run = append(run, it)
		}
	}
	flush()
	b.tree.setContent(id, out)
}

func (b *Builder) anonymous(parent BoxID, kind Kind, display css.DisplayType) BoxID {
	id := b.tree.newBox(&Box{
		Kind:      kind,
		Anonymous: true,
		Style:     css.AnonymousStyle(b.tree.Box(parent).Style, display),
		Float:     css.FloatNone,
		Position:  css.PositionStatic,
		colspan:   1,
		rowspan:   1,
	})
	b.tree.Box(id).Parent = parent
	return id
}

func hasAny(items []Item, pred func(Item) bool) bool {
	for _, it := range items {
		if pred(it) {
			return true
		}
	}
	return false
}
