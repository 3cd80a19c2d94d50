// Package paint turns a laid-out box tree into an ordered list of drawing
// commands and replays such lists onto drawing surfaces.
package paint

import (
	"fmt"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// Kind tags a Command.
type Kind uint8

const (
	// KindBackground fills Rect, or Path when set.
	KindBackground Kind = iota
	// KindBorder draws one side of a border: Quad is its mitered outline and
	// Rect the straight strip along the side.
	KindBorder
	// KindText draws Text with its baseline at Baseline, starting at Rect.X.
	KindText
	// KindImage draws Src scaled into Rect.
	KindImage
	// KindPath strokes Path, used for rounded borders.
	KindPath
	// KindLine strokes the segment From-To, used for text decorations.
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindBackground:
		return "background-fill"
	case KindBorder:
		return "border-stroke"
	case KindText:
		return "text-run"
	case KindImage:
		return "image"
	case KindPath:
		return "path"
	case KindLine:
		return "line"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Command is one drawing step. Which fields are meaningful depends on Kind.
type Command struct {
	Kind  Kind
	Box   layout.BoxID
	Rect  layout.Rect
	Color css.Color

	Path *Path

	Side  css.Side
	Style css.BorderStyle
	Width float64
	Quad  [4]Point

	Text     string
	Font     text.Font
	Baseline float64

	Src string
	Alt string

	From, To Point
}

// Bounds returns the area the command may touch.
func (c Command) Bounds() layout.Rect {
	switch c.Kind {
	case KindPath:
		return c.Path.Bounds().Expand(css.BoxEdge{Top: c.Width / 2, Right: c.Width / 2, Bottom: c.Width / 2, Left: c.Width / 2})
	case KindLine:
		h := c.Width / 2
		x0, x1 := min(c.From.X, c.To.X), max(c.From.X, c.To.X)
		y0, y1 := min(c.From.Y, c.To.Y), max(c.From.Y, c.To.Y)
		return layout.Rect{X: x0 - h, Y: y0 - h, Width: x1 - x0 + 2*h, Height: y1 - y0 + 2*h}
	case KindBackground:
		if c.Path != nil {
			return c.Path.Bounds()
		}
	}
	return c.Rect
}

// Translate returns a copy of c moved by (dx, dy).
func (c Command) Translate(dx, dy float64) Command {
	if c.Kind != KindLine {
		c.Rect.X += dx
		c.Rect.Y += dy
	}
	switch c.Kind {
	case KindText:
		c.Baseline += dy
	case KindLine:
		c.From = Point{c.From.X + dx, c.From.Y + dy}
		c.To = Point{c.To.X + dx, c.To.Y + dy}
	case KindBorder:
		for i := range c.Quad {
			c.Quad[i] = Point{c.Quad[i].X + dx, c.Quad[i].Y + dy}
		}
	}
	if c.Path != nil {
		c.Path = c.Path.Translate(dx, dy)
	}
	return c
}
