package paint

import (
	"fmt"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
)

// Point is a device-space position.
type Point struct{ X, Y float64 }

// Corner names the corner a quarter arc rounds.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// StartAngle returns the angle in degrees at which the arc of c begins.
// Angles grow clockwise from the positive x axis in y-down device space and
// every arc sweeps 90 degrees. An unknown corner is a caller bug and panics.
func (c Corner) StartAngle() float64 {
	switch c {
	case TopLeft:
		return 180
	case TopRight:
		return 270
	case BottomLeft:
		return 90
	case BottomRight:
		return 0
	}
	panic(fmt.Sprintf("paint: unknown corner %d", c))
}

// SegmentOp tags a path segment.
type SegmentOp uint8

const (
	OpMove SegmentOp = iota
	OpLine
	OpArc
	OpClose
)

// Segment is one step of a Path. To is the end point. Arcs also carry the
// circle center, radius and corner.
type Segment struct {
	Op     SegmentOp
	To     Point
	Center Point
	Radius float64
	Corner Corner
}

// Path is an outline made of straight lines and quarter arcs.
type Path struct {
	Segments []Segment
}

// Start begins a new subpath at (x, y).
func (p *Path) Start(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpMove, To: Point{x, y}})
}

func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, To: Point{x, y}})
}

// ArcTo adds a quarter arc of the given radius from the current point to
// (x, y), rounding corner.
func (p *Path) ArcTo(x, y, radius float64, corner Corner) {
	last := p.Current()
	left := min(x, last.X)
	if corner == TopRight || corner == BottomRight {
		left -= radius
	}
	top := min(y, last.Y)
	if corner == BottomLeft || corner == BottomRight {
		top -= radius
	}
	corner.StartAngle() // panics on an unknown corner
	p.Segments = append(p.Segments, Segment{
		Op:     OpArc,
		To:     Point{x, y},
		Center: Point{left + radius, top + radius},
		Radius: radius,
		Corner: corner,
	})
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose, To: p.start()})
}

// Current returns the end point of the last segment.
func (p *Path) Current() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].To
}

func (p *Path) start() Point {
	for i := len(p.Segments) - 1; i >= 0; i-- {
		if p.Segments[i].Op == OpMove {
			return p.Segments[i].To
		}
	}
	return Point{}
}

// Bounds returns the rectangle covering every segment end point and arc.
func (p *Path) Bounds() layout.Rect {
	if len(p.Segments) == 0 {
		return layout.Rect{}
	}
	minX, minY := p.Segments[0].To.X, p.Segments[0].To.Y
	maxX, maxY := minX, minY
	grow := func(x, y float64) {
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	for _, s := range p.Segments {
		grow(s.To.X, s.To.Y)
	}
	return layout.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Translate returns a copy of p moved by (dx, dy).
func (p *Path) Translate(dx, dy float64) *Path {
	out := &Path{Segments: make([]Segment, len(p.Segments))}
	for i, s := range p.Segments {
		s.To.X += dx
		s.To.Y += dy
		s.Center.X += dx
		s.Center.Y += dy
		out.Segments[i] = s
	}
	return out
}

// Polygon returns the closed path through pts.
func Polygon(pts ...Point) *Path {
	p := &Path{}
	for i, pt := range pts {
		if i == 0 {
			p.Start(pt.X, pt.Y)
			continue
		}
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()
	return p
}

// RoundedRect returns the outline of r with the corner radii given in
// css.RadiusCorner order. Radii are scaled down together when adjacent
// corners would overlap.
func RoundedRect(r layout.Rect, radii [4]float64) *Path {
	f := 1.0
	for _, pair := range [][2]css.RadiusCorner{
		{css.CornerNW, css.CornerNE}, {css.CornerSW, css.CornerSE},
	} {
		if s := radii[pair[0]] + radii[pair[1]]; s > r.Width && s > 0 {
			f = min(f, r.Width/s)
		}
	}
	for _, pair := range [][2]css.RadiusCorner{
		{css.CornerNW, css.CornerSW}, {css.CornerNE, css.CornerSE},
	} {
		if s := radii[pair[0]] + radii[pair[1]]; s > r.Height && s > 0 {
			f = min(f, r.Height/s)
		}
	}
	nw, ne := radii[css.CornerNW]*f, radii[css.CornerNE]*f
	se, sw := radii[css.CornerSE]*f, radii[css.CornerSW]*f

	p := &Path{}
	p.Start(r.X+nw, r.Y)
	p.LineTo(r.Right()-ne, r.Y)
	if ne > 0 {
		p.ArcTo(r.Right(), r.Y+ne, ne, TopRight)
	}
	p.LineTo(r.Right(), r.Bottom()-se)
	if se > 0 {
		p.ArcTo(r.Right()-se, r.Bottom(), se, BottomRight)
	}
	p.LineTo(r.X+sw, r.Bottom())
	if sw > 0 {
		p.ArcTo(r.X, r.Bottom()-sw, sw, BottomLeft)
	}
	p.LineTo(r.X, r.Y+nw)
	if nw > 0 {
		p.ArcTo(r.X+nw, r.Y, nw, TopLeft)
	}
	p.Close()
	return p
}
