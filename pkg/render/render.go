// Package render draws paint commands onto a raster image with gg.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/images"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/paint"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

var errNoImages = errors.New("no image loader")

// Surface is a paint.Surface backed by a gg context.
type Surface struct {
	context *gg.Context
	faces   *text.FaceSet
	images  *images.Loader
	log     *zap.Logger

	cache map[text.Font]font.Face
}

var _ paint.Surface = (*Surface)(nil)

// Option configures a Surface.
type Option func(*Surface)

// WithImages lets the surface draw <img> pictures. Without a loader every
// image is drawn as a placeholder.
func WithImages(l *images.Loader) Option {
	return func(s *Surface) { s.images = l }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Surface) {
		if log != nil {
			s.log = log.Named("render")
		}
	}
}

// NewSurface creates a width×height surface that draws text with faces.
func NewSurface(width, height int, faces *text.FaceSet, opts ...Option) *Surface {
	return newSurface(gg.NewContext(width, height), faces, opts)
}

// NewSurfaceForImage draws into an existing image.
func NewSurfaceForImage(target *image.RGBA, faces *text.FaceSet, opts ...Option) *Surface {
	return newSurface(gg.NewContextForRGBA(target), faces, opts)
}

func newSurface(dc *gg.Context, faces *text.FaceSet, opts []Option) *Surface {
	s := &Surface{
		context: dc,
		faces:   faces,
		log:     zap.NewNop(),
		cache:   make(map[text.Font]font.Face),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clear fills the whole surface with c.
func (s *Surface) Clear(c css.Color) {
	s.context.SetColor(c.NRGBA())
	s.context.Clear()
}

func (s *Surface) FillRect(r layout.Rect, c css.Color) {
	if r.IsEmpty() || c.IsTransparent() {
		return
	}
	s.context.SetColor(c.NRGBA())
	s.context.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	s.context.Fill()
}

func (s *Surface) FillPath(p *paint.Path, c css.Color) {
	if c.IsTransparent() {
		return
	}
	s.trace(p)
	s.context.SetColor(c.NRGBA())
	s.context.Fill()
}

func (s *Surface) StrokePath(p *paint.Path, st paint.Stroke) {
	if st.Width <= 0 || st.Color.IsTransparent() {
		return
	}
	s.trace(p)
	s.context.SetColor(st.Color.NRGBA())
	s.context.SetLineWidth(st.Width)
	s.context.SetDash(st.Dash...)
	s.context.Stroke()
	s.context.SetDash()
}

// trace replays p as the current gg path. Arcs start at their corner's
// start angle and sweep a quarter turn clockwise.
func (s *Surface) trace(p *paint.Path) {
	dc := s.context
	dc.ClearPath()
	for _, seg := range p.Segments {
		switch seg.Op {
		case paint.OpMove:
			dc.MoveTo(seg.To.X, seg.To.Y)
		case paint.OpLine:
			dc.LineTo(seg.To.X, seg.To.Y)
		case paint.OpArc:
			a := gg.Radians(seg.Corner.StartAngle())
			dc.DrawArc(seg.Center.X, seg.Center.Y, seg.Radius, a, a+math.Pi/2)
		case paint.OpClose:
			dc.ClosePath()
		default:
			panic(fmt.Sprintf("render: unknown path op %d", seg.Op))
		}
	}
}

func (s *Surface) DrawText(str string, f text.Font, x, y float64, c css.Color) {
	if str == "" || c.IsTransparent() {
		return
	}
	s.context.SetFontFace(s.face(f))
	s.context.SetColor(c.NRGBA())
	s.context.DrawString(str, x, y)
}

func (s *Surface) face(f text.Font) font.Face {
	face, ok := s.cache[f]
	if !ok {
		face = s.faces.NewFace(f)
		s.cache[f] = face
	}
	return face
}

// DrawImage scales the picture into r. Pictures that cannot be loaded are
// drawn as a crossed grey box.
func (s *Surface) DrawImage(src, alt string, r layout.Rect) {
	if r.IsEmpty() {
		return
	}
	var img *images.Image
	err := errNoImages
	if s.images != nil {
		img, err = s.images.Load(src)
	}
	if err != nil {
		s.log.Debug("image placeholder", zap.String("alt", alt), zap.Error(err))
		s.placeholder(r)
		return
	}
	w := int(math.Round(r.Width))
	h := int(math.Round(r.Height))
	s.context.DrawImage(img.Scaled(w, h), int(math.Round(r.X)), int(math.Round(r.Y)))
}

func (s *Surface) placeholder(r layout.Rect) {
	dc := s.context
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	dc.DrawLine(r.X, r.Y, r.Right(), r.Bottom())
	dc.DrawLine(r.Right(), r.Y, r.X, r.Bottom())
	dc.Stroke()
}

// Image returns the drawn picture.
func (s *Surface) Image() image.Image { return s.context.Image() }

func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.context.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (s *Surface) SavePNG(path string) error {
	if err := s.context.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}
