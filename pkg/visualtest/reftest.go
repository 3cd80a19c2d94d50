package visualtest

import (
	"context"
	"image"

	"github.com/mau4gdp/HTML-Renderer/pkg/resource"
)

// Render draws src into a width x height image.
func Render(ctx context.Context, r *resource.Renderer, src string, width, height int) (*image.RGBA, error) {
	target := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := r.RenderImage(ctx, src, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Reftest renders test and ref at the same size and compares them.
func Reftest(ctx context.Context, r *resource.Renderer, test, ref string, width, height int, opts Options) (Result, error) {
	got, err := Render(ctx, r, test, width, height)
	if err != nil {
		return Result{}, err
	}
	want, err := Render(ctx, r, ref, width, height)
	if err != nil {
		return Result{}, err
	}
	return Compare(got, want, opts)
}
