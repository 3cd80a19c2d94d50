// Package pdf draws paint commands into a paginated PDF document with fpdf.
// One CSS px is one PDF point.
package pdf

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"math"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/images"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/paint"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// PageSize is the paper size and the blank margin on every side, in points.
type PageSize struct {
	Width  float64
	Height float64
	Margin float64
}

// ContentWidth is the width available to layout.
func (p PageSize) ContentWidth() float64 { return p.Width - 2*p.Margin }

// ContentHeight is the page height handed to pagination.
func (p PageSize) ContentHeight() float64 { return p.Height - 2*p.Margin }

// Document is a paint.Surface writing to the current PDF page. Commands
// are in page coordinates: (0, 0) is the top left corner of the content
// area inside the margins.
type Document struct {
	pdf    *fpdf.Fpdf
	size   PageSize
	faces  *text.FaceSet
	images *images.Loader
	log    *zap.Logger

	fonts    map[string]bool
	pictures map[string]bool
	clipped  bool
	alpha    float64
}

var _ paint.Surface = (*Document)(nil)

// Option configures a Document.
type Option func(*Document)

func WithImages(l *images.Loader) Option {
	return func(d *Document) { d.images = l }
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Document) {
		if log != nil {
			d.log = log.Named("pdf")
		}
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) Option {
	return func(d *Document) { d.pdf.SetTitle(title, true) }
}

// New creates an empty document. Text is embedded from faces, the same
// TrueType data used to measure it.
func New(size PageSize, faces *text.FaceSet, opts ...Option) *Document {
	p := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("htmlrender", true)
	p.SetCreationDate(time.Unix(0, 0).UTC())
	p.SetModificationDate(time.Unix(0, 0).UTC())
	d := &Document{
		pdf:      p,
		size:     size,
		faces:    faces,
		log:      zap.NewNop(),
		fonts:    make(map[string]bool),
		pictures: make(map[string]bool),
		alpha:    1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddPage starts a new page; following commands draw on it, clipped to the
// content area.
func (d *Document) AddPage() {
	if d.clipped {
		d.pdf.ClipEnd()
	}
	d.pdf.AddPage()
	d.pdf.ClipRect(d.size.Margin, d.size.Margin, d.size.ContentWidth(), d.size.ContentHeight(), false)
	d.clipped = true
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int { return d.pdf.PageCount() }

// Output finishes the document and writes it to w.
func (d *Document) Output(w io.Writer) error {
	if d.clipped {
		d.pdf.ClipEnd()
		d.clipped = false
	}
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (d *Document) x(v float64) float64 { return v + d.size.Margin }
func (d *Document) y(v float64) float64 { return v + d.size.Margin }

func (d *Document) setAlpha(c css.Color) {
	a := float64(c.A) / 255
	if a != d.alpha {
		d.pdf.SetAlpha(a, "Normal")
		d.alpha = a
	}
}

func (d *Document) setFill(c css.Color) {
	d.setAlpha(c)
	d.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (d *Document) setDraw(c css.Color) {
	d.setAlpha(c)
	d.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func (d *Document) FillRect(r layout.Rect, c css.Color) {
	if r.IsEmpty() || c.IsTransparent() {
		return
	}
	d.setFill(c)
	d.pdf.Rect(d.x(r.X), d.y(r.Y), r.Width, r.Height, "F")
}

func (d *Document) FillPath(p *paint.Path, c css.Color) {
	if c.IsTransparent() {
		return
	}
	d.setFill(c)
	d.trace(p)
	d.pdf.DrawPath("F")
}

func (d *Document) StrokePath(p *paint.Path, s paint.Stroke) {
	if s.Width <= 0 || s.Color.IsTransparent() {
		return
	}
	d.setDraw(s.Color)
	d.pdf.SetLineWidth(s.Width)
	d.pdf.SetDashPattern(s.Dash, 0)
	d.trace(p)
	d.pdf.DrawPath("D")
	d.pdf.SetDashPattern([]float64{}, 0)
}

// trace replays p as the current PDF path. fpdf measures angles
// counter-clockwise, so each quarter arc runs from -start to -start-90.
func (d *Document) trace(p *paint.Path) {
	for _, seg := range p.Segments {
		switch seg.Op {
		case paint.OpMove:
			d.pdf.MoveTo(d.x(seg.To.X), d.y(seg.To.Y))
		case paint.OpLine:
			d.pdf.LineTo(d.x(seg.To.X), d.y(seg.To.Y))
		case paint.OpArc:
			start := -seg.Corner.StartAngle()
			d.pdf.ArcTo(d.x(seg.Center.X), d.y(seg.Center.Y), seg.Radius, seg.Radius, 0, start, start-90)
		case paint.OpClose:
			d.pdf.ClosePath()
		default:
			panic(fmt.Sprintf("pdf: unknown path op %d", seg.Op))
		}
	}
}

func (d *Document) DrawText(s string, f text.Font, x, y float64, c css.Color) {
	if s == "" || c.IsTransparent() {
		return
	}
	name := d.font(f)
	d.pdf.SetFont(name, "", f.Size)
	d.setAlpha(c)
	d.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	d.pdf.Text(d.x(x), d.y(y), s)
}

// font registers the face for f on first use and returns its family name.
func (d *Document) font(f text.Font) string {
	name, data := d.faces.TTF(f)
	if !d.fonts[name] {
		d.pdf.AddUTF8FontFromBytes(name, "", data)
		d.fonts[name] = true
	}
	return name
}

// DrawImage embeds the picture at twice the box resolution. Pictures that
// cannot be loaded leave a grey box.
func (d *Document) DrawImage(src, alt string, r layout.Rect) {
	if r.IsEmpty() {
		return
	}
	name := fmt.Sprintf("%s@%.0fx%.0f", src, r.Width, r.Height)
	if !d.pictures[name] {
		if err := d.register(name, src, r); err != nil {
			d.log.Debug("image placeholder", zap.String("alt", alt), zap.Error(err))
			d.FillRect(r, css.Color{R: 230, G: 230, B: 230, A: 255})
			return
		}
		d.pictures[name] = true
	}
	d.setAlpha(css.Black)
	d.pdf.ImageOptions(name, d.x(r.X), d.y(r.Y), r.Width, r.Height, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func (d *Document) register(name, src string, r layout.Rect) error {
	if d.images == nil {
		return fmt.Errorf("no image loader for %q", src)
	}
	img, err := d.images.Load(src)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	scaled := img.Scaled(int(math.Ceil(2*r.Width)), int(math.Ceil(2*r.Height)))
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("encode %s: %w", src, err)
	}
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	return d.pdf.Error()
}
