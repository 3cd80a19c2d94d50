package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/config"
	"github.com/mau4gdp/HTML-Renderer/pkg/images"
	"github.com/mau4gdp/HTML-Renderer/pkg/logging"
	"github.com/mau4gdp/HTML-Renderer/pkg/resource"
)

const viewWidth = 1024

func main() {
	cfg := config.Default()
	log, err := logging.New(cfg.Logging.Level, "htmlview")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	a := app.New()
	w := a.NewWindow("htmlview")
	w.Resize(fyne.NewSize(viewWidth, 768))

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, viewWidth, 700)))
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel("Enter the path of an HTML file and press Enter")

	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder("page.html")
	pathEntry.OnSubmitted = func(path string) {
		status.SetText("Rendering " + path + "...")
		go func() {
			img, err := renderFile(context.Background(), cfg, log, path)
			fyne.Do(func() {
				if err != nil {
					log.Warn("Render failed", zap.String("file", path), zap.Error(err))
					status.SetText("Error: " + err.Error())
					return
				}
				canvasImg.Image = img
				canvasImg.Refresh()
				status.SetText(path)
				w.SetTitle("htmlview: " + filepath.Base(path))
			})
		}()
	}

	topBar := container.NewBorder(nil, nil, nil, nil, pathEntry)
	content := container.NewBorder(topBar, status, nil, nil, container.NewScroll(canvasImg))
	w.SetContent(content)

	// the entry is the only focusable widget
	w.Canvas().Focus(pathEntry)

	if len(os.Args) > 1 {
		pathEntry.SetText(os.Args[1])
		pathEntry.OnSubmitted(os.Args[1])
	}
	w.ShowAndRun()
}

// renderFile lays the document out once to learn its height, then draws it
// into an image that tall.
func renderFile(ctx context.Context, cfg *config.Config, log *zap.Logger, path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := resource.New(cfg,
		resource.WithLogger(log),
		resource.WithImages(images.NewLoader(filepath.Dir(path), log)))
	if err != nil {
		return nil, err
	}
	src := string(data)
	doc, err := r.Layout(ctx, src, viewWidth, float64(cfg.Viewport.Height))
	if err != nil {
		return nil, err
	}
	height := int(math.Ceil(max(doc.Height(), float64(cfg.Viewport.Height))))
	target := image.NewRGBA(image.Rect(0, 0, viewWidth, height))
	if err := r.RenderImage(ctx, src, target); err != nil {
		return nil, err
	}
	return target, nil
}
