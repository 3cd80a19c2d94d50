package paint

import (
	"fmt"
	"iter"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// Stroke describes how a path outline is drawn. An empty Dash is solid.
type Stroke struct {
	Width float64
	Dash  []float64
	Color css.Color
}

// Surface is a drawing backend. Coordinates are device px with y growing
// downwards.
type Surface interface {
	FillRect(r layout.Rect, c css.Color)
	FillPath(p *Path, c css.Color)
	StrokePath(p *Path, s Stroke)
	// DrawText draws s with its left end on the baseline point (x, y).
	DrawText(s string, f text.Font, x, y float64, c css.Color)
	DrawImage(src, alt string, r layout.Rect)
}

// Replay draws cmds on s in order. A command of unknown kind panics.
func Replay(s Surface, cmds iter.Seq[Command]) {
	for c := range cmds {
		switch c.Kind {
		case KindBackground:
			if c.Path != nil {
				s.FillPath(c.Path, c.Color)
			} else {
				s.FillRect(c.Rect, c.Color)
			}
		case KindBorder:
			replayBorder(s, c)
		case KindText:
			s.DrawText(c.Text, c.Font, c.Rect.X, c.Baseline, c.Color)
		case KindImage:
			s.DrawImage(c.Src, c.Alt, c.Rect)
		case KindPath:
			s.StrokePath(c.Path, Stroke{Width: c.Width, Dash: dashes(c.Style, c.Width), Color: c.Color})
		case KindLine:
			line := &Path{}
			line.Start(c.From.X, c.From.Y)
			line.LineTo(c.To.X, c.To.Y)
			s.StrokePath(line, Stroke{Width: c.Width, Color: c.Color})
		default:
			panic(fmt.Sprintf("paint: unknown command kind %v", c.Kind))
		}
	}
}

// replayBorder draws one border side. Solid-like styles fill the mitered
// trapezoid; dashed and dotted stroke the strip's center line; double fills
// the outer and inner thirds of the strip.
func replayBorder(s Surface, c Command) {
	switch c.Style {
	case css.BorderStyleDashed, css.BorderStyleDotted:
		r := c.Rect
		line := &Path{}
		if c.Side == css.SideTop || c.Side == css.SideBottom {
			line.Start(r.X, r.Y+r.Height/2)
			line.LineTo(r.Right(), r.Y+r.Height/2)
		} else {
			line.Start(r.X+r.Width/2, r.Y)
			line.LineTo(r.X+r.Width/2, r.Bottom())
		}
		s.StrokePath(line, Stroke{Width: c.Width, Dash: dashes(c.Style, c.Width), Color: c.Color})
	case css.BorderStyleDouble:
		r := c.Rect
		third := c.Width / 3
		if c.Side == css.SideTop || c.Side == css.SideBottom {
			s.FillRect(layout.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: third}, c.Color)
			s.FillRect(layout.Rect{X: r.X, Y: r.Bottom() - third, Width: r.Width, Height: third}, c.Color)
		} else {
			s.FillRect(layout.Rect{X: r.X, Y: r.Y, Width: third, Height: r.Height}, c.Color)
			s.FillRect(layout.Rect{X: r.Right() - third, Y: r.Y, Width: third, Height: r.Height}, c.Color)
		}
	default:
		s.FillPath(Polygon(c.Quad[:]...), c.Color)
	}
}

func dashes(style css.BorderStyle, w float64) []float64 {
	switch style {
	case css.BorderStyleDashed:
		return []float64{3 * w, 2 * w}
	case css.BorderStyleDotted:
		return []float64{w, w}
	}
	return nil
}

// PageCommands returns the commands of cmds that reach into page, moved so
// that the page top is at y = 0.
func PageCommands(cmds iter.Seq[Command], page layout.Page) iter.Seq[Command] {
	return func(yield func(Command) bool) {
		for c := range cmds {
			b := c.Bounds()
			if b.Bottom() <= page.Top || b.Y >= page.Bottom {
				continue
			}
			if !yield(c.Translate(0, -page.Top)) {
				return
			}
		}
	}
}
