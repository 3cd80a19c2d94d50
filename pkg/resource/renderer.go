// Package resource runs the whole pipeline: parse, cascade, box tree,
// layout, paint and a drawing surface.
package resource

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/mau4gdp/HTML-Renderer/pkg/config"
	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/html"
	"github.com/mau4gdp/HTML-Renderer/pkg/images"
	"github.com/mau4gdp/HTML-Renderer/pkg/layout"
	"github.com/mau4gdp/HTML-Renderer/pkg/paint"
	"github.com/mau4gdp/HTML-Renderer/pkg/pdf"
	"github.com/mau4gdp/HTML-Renderer/pkg/render"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

// Renderer renders HTML documents to PNG and PDF. It is safe for
// concurrent use: every call builds its own box tree and measurer.
type Renderer struct {
	cfg    *config.Config
	faces  *text.FaceSet
	images *images.Loader
	log    *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithImages sets the loader used for <img> sources.
func WithImages(l *images.Loader) Option {
	return func(r *Renderer) { r.images = l }
}

// New creates a renderer for cfg; a nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) (*Renderer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Renderer{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.images == nil {
		r.images = images.NewLoader("", r.log)
	}

	fc := text.DefaultFontConfig()
	if cfg.Fonts.Regular != "" {
		var err error
		if fc, err = fc.WithRegularFile(cfg.Fonts.Regular); err != nil {
			return nil, err
		}
	}
	faces, err := text.NewFaceSet(fc)
	if err != nil {
		return nil, fmt.Errorf("prepare fonts: %w", err)
	}
	r.faces = faces
	return r, nil
}

// Document is a laid-out page tree.
type Document struct {
	Engine *layout.Engine
	Tree   *layout.Tree
	Root   layout.BoxID
}

// Paint returns the paint list of the whole document.
func (d *Document) Paint() []paint.Command {
	return slices.Collect(paint.BuildPaintList(d.Tree, d.Root))
}

// Height returns the bottom of everything the document draws.
func (d *Document) Height() float64 {
	return max(d.Tree.OverflowRect(d.Root).Bottom(), d.Tree.Box(d.Root).MarginBox().Bottom())
}

// Layout parses src and lays it out in a viewport of the given size.
func (r *Renderer) Layout(ctx context.Context, src string, width, height float64) (*Document, error) {
	doc, err := html.ParseString(src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheets := []*css.Stylesheet{css.UserAgentStylesheet(), r.defaultsSheet()}
	for _, s := range doc.Stylesheets {
		sheets = append(sheets, css.ParseStylesheet([]byte(s), r.log))
	}
	resolver := css.NewResolver(r.log)
	root := doc.DocumentElement()
	builder := layout.NewBuilder(func(n *html.Node, parent *css.ResolvedStyle) *css.ResolvedStyle {
		return resolver.ResolveNode(n, parent, sheets)
	}, layout.WithBuilderLogger(r.log), layout.WithLanguage(documentLanguage(root)))
	tree, id := builder.Build(root)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine := layout.NewEngine(tree, text.NewFaceMeasurer(r.faces),
		layout.WithLogger(r.log),
		layout.WithImageSizer(r.images),
		layout.WithViewport(width, height))
	engine.Layout(id, width, height)
	r.log.Debug("document laid out", zap.Int("boxes", tree.Len()), zap.Float64("width", width))
	return &Document{Engine: engine, Tree: tree, Root: id}, nil
}

// defaultsSheet turns the configured font into user agent rules.
func (r *Renderer) defaultsSheet() *css.Stylesheet {
	src := fmt.Sprintf("html { font-family: %s; font-size: %gpx }", r.cfg.Fonts.Family, r.cfg.Fonts.Size)
	sheet := css.ParseStylesheet([]byte(src), r.log)
	sheet.Origin = css.OriginUserAgent
	return sheet
}

func documentLanguage(root *html.Node) language.Tag {
	lang, ok := root.GetAttribute("lang")
	if !ok {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}

// RenderImage lays src out at the width of target and draws it there.
func (r *Renderer) RenderImage(ctx context.Context, src string, target *image.RGBA) error {
	b := target.Bounds()
	doc, err := r.Layout(ctx, src, float64(b.Dx()), float64(b.Dy()))
	if err != nil {
		return err
	}
	s := render.NewSurfaceForImage(target, r.faces, render.WithImages(r.images), render.WithLogger(r.log))
	s.Clear(r.cfg.Background())
	paint.Replay(s, paint.BuildPaintList(doc.Tree, doc.Root))
	return ctx.Err()
}

// RenderPNG draws src at the configured viewport width. The image is as
// tall as the document, and at least the viewport height.
func (r *Renderer) RenderPNG(ctx context.Context, src string, w io.Writer) error {
	vw, vh := float64(r.cfg.Viewport.Width), float64(r.cfg.Viewport.Height)
	doc, err := r.Layout(ctx, src, vw, vh)
	if err != nil {
		return err
	}
	height := int(math.Ceil(max(doc.Height(), vh)))
	s := render.NewSurface(r.cfg.Viewport.Width, height, r.faces, render.WithImages(r.images), render.WithLogger(r.log))
	s.Clear(r.cfg.Background())
	paint.Replay(s, paint.BuildPaintList(doc.Tree, doc.Root))
	if err := ctx.Err(); err != nil {
		return err
	}
	r.log.Info("png rendered", zap.Int("width", r.cfg.Viewport.Width), zap.Int("height", height))
	return s.EncodePNG(w)
}

// RenderPDF lays src out at the page content width and writes one PDF page
// per pagination slice.
func (r *Renderer) RenderPDF(ctx context.Context, src string, w io.Writer) error {
	size := pdf.PageSize{Width: r.cfg.Page.Width, Height: r.cfg.Page.Height, Margin: r.cfg.Page.Margin}
	doc, err := r.Layout(ctx, src, size.ContentWidth(), size.ContentHeight())
	if err != nil {
		return err
	}
	cmds := doc.Paint()
	out := pdf.New(size, r.faces, pdf.WithImages(r.images), pdf.WithLogger(r.log))
	bg := r.cfg.Background()

	var cursor *layout.Cursor
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, next := doc.Engine.Paginate(doc.Root, size.ContentHeight(), cursor)
		out.AddPage()
		out.FillRect(layout.Rect{Width: size.ContentWidth(), Height: size.ContentHeight()}, bg)
		paint.Replay(out, paint.PageCommands(slices.Values(cmds), page))
		if next == nil {
			break
		}
		cursor = next
	}
	r.log.Info("pdf rendered", zap.Int("pages", out.PageCount()))
	return out.Output(w)
}
