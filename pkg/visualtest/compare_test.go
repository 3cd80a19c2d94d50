package visualtest

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestCompareIdentical(t *testing.T) {
	img := filled(10, 10, color.NRGBA{R: 255, A: 255})

	res, err := Compare(img, img, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Zero(t, res.DifferentPixels)
	assert.Equal(t, 100, res.TotalPixels)
}

func TestCompareDifferent(t *testing.T) {
	red := filled(10, 10, color.NRGBA{R: 255, A: 255})
	blue := filled(10, 10, color.NRGBA{B: 255, A: 255})

	opts := DefaultOptions()
	opts.Diff = true
	res, err := Compare(red, blue, opts)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, 100, res.DifferentPixels)
	assert.Equal(t, 255, res.MaxDifference)
	require.NotNil(t, res.Diff)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, res.Diff.NRGBAAt(3, 3))

	path := filepath.Join(t.TempDir(), "diff.png")
	require.NoError(t, res.SaveDiff(path))
	back, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(10, 10), back.Bounds().Size())
}

func TestCompareTolerance(t *testing.T) {
	a := filled(10, 10, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	b := filled(10, 10, color.NRGBA{R: 102, G: 102, B: 102, A: 255})

	res, err := Compare(a, b, Options{Tolerance: 2})
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, 2, res.MaxDifference)

	res, err = Compare(a, b, Options{})
	require.NoError(t, err)
	assert.False(t, res.Match)
}

func TestCompareFuzzyRadius(t *testing.T) {
	a := filled(10, 10, color.White)
	b := filled(10, 10, color.White)
	a.SetNRGBA(4, 4, color.NRGBA{A: 255})
	b.SetNRGBA(5, 4, color.NRGBA{A: 255})

	res, err := Compare(a, b, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DifferentPixels)

	res, err = Compare(a, b, Options{FuzzyRadius: 1})
	require.NoError(t, err)
	assert.True(t, res.Match, "a one pixel shift is absorbed")
}

func TestCompareMaxDifferentPercent(t *testing.T) {
	a := filled(10, 10, color.White)
	b := filled(10, 10, color.White)
	b.SetNRGBA(0, 0, color.NRGBA{A: 255})

	res, err := Compare(a, b, Options{MaxDifferentPercent: 1})
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, 1, res.DifferentPixels)

	res, err = Compare(a, b, Options{MaxDifferentPercent: 0.5})
	require.NoError(t, err)
	assert.False(t, res.Match)
}

func TestCompareDifferentDimensions(t *testing.T) {
	_, err := Compare(filled(10, 10, color.White), filled(20, 20, color.White), DefaultOptions())
	assert.Error(t, err)
}

func TestSaveDiffWithoutDiff(t *testing.T) {
	assert.Error(t, Result{}.SaveDiff(filepath.Join(t.TempDir(), "x.png")))
}
