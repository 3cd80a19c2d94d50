// Package visualtest compares rendered images. It backs reftests: two
// documents that must render alike are drawn and compared pixel by pixel.
package visualtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Result holds the outcome of a comparison.
type Result struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	// MaxDifference is the largest channel difference seen, 0-255.
	MaxDifference int
	// Diff marks differing pixels red over a grey copy of the actual image.
	// It is nil unless Options.Diff is set.
	Diff *image.NRGBA
}

// Options tunes a comparison.
type Options struct {
	// Tolerance is the largest per-channel difference treated as equal.
	Tolerance int
	// FuzzyRadius lets a pixel match any expected pixel this close.
	FuzzyRadius int
	// MaxDifferentPercent accepts images whose differing pixels stay at or
	// below this share of the total.
	MaxDifferentPercent float64
	Diff                bool
}

// DefaultOptions absorbs small antialiasing differences.
func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Compare compares actual against expected. Images of different bounds
// never match and yield an error.
func Compare(actual, expected image.Image, opts Options) (Result, error) {
	ab, eb := actual.Bounds(), expected.Bounds()
	if ab.Size() != eb.Size() {
		return Result{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", ab.Size(), eb.Size())
	}
	a := imaging.Clone(actual)
	e := imaging.Clone(expected)
	bounds := a.Bounds()

	res := Result{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	if opts.Diff {
		res.Diff = imaging.Grayscale(a)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			d := channelDiff(a.NRGBAAt(x, y), e.NRGBAAt(x, y))
			res.MaxDifference = max(res.MaxDifference, d)
			if d <= opts.Tolerance {
				continue
			}
			if opts.FuzzyRadius > 0 && fuzzyMatch(a, e, x, y, opts.FuzzyRadius, opts.Tolerance) {
				continue
			}
			res.Match = false
			res.DifferentPixels++
			if res.Diff != nil {
				res.Diff.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			}
		}
	}

	if !res.Match && opts.MaxDifferentPercent > 0 && res.TotalPixels > 0 {
		pct := float64(res.DifferentPixels) / float64(res.TotalPixels) * 100
		res.Match = pct <= opts.MaxDifferentPercent
	}
	return res, nil
}

// SaveDiff writes the diff image to path; the format follows the extension.
func (r Result) SaveDiff(path string) error {
	if r.Diff == nil {
		return errors.New("no diff image recorded")
	}
	return imaging.Save(r.Diff, path)
}

// fuzzyMatch reports whether the actual pixel at (x, y) is within tolerance
// of any expected pixel inside radius.
func fuzzyMatch(actual, expected *image.NRGBA, x, y, radius, tolerance int) bool {
	p := actual.NRGBAAt(x, y)
	r := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1).Intersect(expected.Bounds())
	for ny := r.Min.Y; ny < r.Max.Y; ny++ {
		for nx := r.Min.X; nx < r.Max.X; nx++ {
			if channelDiff(p, expected.NRGBAAt(nx, ny)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func channelDiff(a, b color.NRGBA) int {
	return max(absDiff(a.R, b.R), absDiff(a.G, b.G), absDiff(a.B, b.B), absDiff(a.A, b.A))
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
