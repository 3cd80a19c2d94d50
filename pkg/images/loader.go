// Package images loads the pictures referenced by <img> elements from local
// files and data URIs and prepares them for drawing.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
)

// ErrRemote is returned for sources that would need a network fetch.
var ErrRemote = errors.New("remote image sources are not supported")

const (
	defaultSVGSize = 150
	maxRasterDim   = 4096
)

// Image is a decoded picture with its intrinsic size in px.
type Image struct {
	Src    string
	Width  float64
	Height float64

	raster image.Image
	svg    []byte
}

// Loader resolves image sources relative to a base directory and caches
// the decoded result per source. It is safe for concurrent use.
type Loader struct {
	baseDir string
	log     *zap.Logger

	mu    sync.Mutex
	cache map[string]*Image
	fails map[string]error
}

// NewLoader creates a loader; relative paths are taken from baseDir.
func NewLoader(baseDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		baseDir: baseDir,
		log:     log.Named("images"),
		cache:   make(map[string]*Image),
		fails:   make(map[string]error),
	}
}

// Load returns the decoded image for src.
func (l *Loader) Load(src string) (*Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache[src]; ok {
		return img, nil
	}
	if err, ok := l.fails[src]; ok {
		return nil, err
	}

	img, err := l.load(src)
	if err != nil {
		l.log.Debug("image not loaded", zap.String("src", truncate(src)), zap.Error(err))
		l.fails[src] = err
		return nil, err
	}
	l.cache[src] = img
	return img, nil
}

// Size reports the intrinsic size of src; ok is false when it cannot be
// loaded.
func (l *Loader) Size(src string) (width, height float64, ok bool) {
	img, err := l.Load(src)
	if err != nil {
		return 0, 0, false
	}
	return img.Width, img.Height, true
}

func (l *Loader) load(src string) (*Image, error) {
	var data []byte
	var err error
	switch {
	case IsDataURI(src):
		data, err = decodeDataURI(src)
	case isRemote(src):
		return nil, ErrRemote
	default:
		data, err = l.readFile(src)
	}
	if err != nil {
		return nil, err
	}
	return Decode(src, data)
}

func (l *Loader) readFile(src string) ([]byte, error) {
	path := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// Decode sniffs the format of data and decodes it. SVG documents are kept
// as vectors and rasterized at the size they are drawn.
func Decode(src string, data []byte) (*Image, error) {
	if isSVG(data) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		w, h := icon.ViewBox.W, icon.ViewBox.H
		if w <= 0 || h <= 0 {
			w, h = defaultSVGSize, defaultSVGSize
		}
		return &Image{Src: src, Width: w, Height: h, svg: data}, nil
	}

	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("unsupported image type %q", kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	return &Image{Src: src, Width: float64(b.Dx()), Height: float64(b.Dy()), raster: img}, nil
}

// Scaled returns the picture at w×h device pixels.
func (im *Image) Scaled(w, h int) image.Image {
	w, h = max(w, 1), max(h, 1)
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}
	if im.svg != nil {
		return rasterizeSVG(im.svg, w, h)
	}
	b := im.raster.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return im.raster
	}
	return imaging.Resize(im.raster, w, h, imaging.Lanczos)
}

func rasterizeSVG(data []byte, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return dst
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst
}

func isSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}

func isRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "ftp"
}

// IsDataURI reports whether src is a data: URI.
func IsDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}

// LoadImageFromDataURI decodes a base64 or percent-encoded data URI image.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	data, err := decodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, err := Decode("", data)
	if err != nil {
		return nil, err
	}
	return img.Scaled(int(math.Ceil(img.Width)), int(math.Ceil(img.Height))), nil
}

func decodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return nil, fmt.Errorf("decode data URI: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return []byte(s), nil
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
