package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/config"
	"github.com/mau4gdp/HTML-Renderer/pkg/images"
	"github.com/mau4gdp/HTML-Renderer/pkg/resource"
)

var errNoSource = errors.New("no SOURCE file given")

// source reads the input HTML and prepares a renderer whose images resolve
// relative to the input file.
func source(cmd *cli.Command, e *env, cfg *config.Config) (string, *resource.Renderer, error) {
	in := cmd.Args().Get(0)
	if in == "" {
		return "", nil, errNoSource
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return "", nil, fmt.Errorf("unable to read source: %w", err)
	}
	r, err := resource.New(cfg,
		resource.WithLogger(e.Log),
		resource.WithImages(images.NewLoader(filepath.Dir(in), e.Log)))
	if err != nil {
		return "", nil, err
	}
	return string(data), r, nil
}

// destination names the output: out when given, else in with ext.
func destination(in, out, ext string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

// writeFile creates name and hands it to write, folding the close error in.
func writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			err = multierr.Append(err, os.Remove(name))
		}
	}()
	return write(f)
}

func renderPNG(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	cfg := *e.Cfg
	if w := cmd.Int("width"); w > 0 {
		cfg.Viewport.Width = w
	}
	if h := cmd.Int("height"); h > 0 {
		cfg.Viewport.Height = h
	}
	src, r, err := source(cmd, e, &cfg)
	if err != nil {
		return err
	}
	out := destination(cmd.Args().Get(0), cmd.Args().Get(1), ".png")
	e.Log.Info("Rendering", zap.String("source", cmd.Args().Get(0)), zap.String("destination", out))
	return writeFile(out, func(w io.Writer) error { return r.RenderPNG(ctx, src, w) })
}

func renderPDF(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	src, r, err := source(cmd, e, e.Cfg)
	if err != nil {
		return err
	}
	out := destination(cmd.Args().Get(0), cmd.Args().Get(1), ".pdf")
	e.Log.Info("Rendering", zap.String("source", cmd.Args().Get(0)), zap.String("destination", out))
	return writeFile(out, func(w io.Writer) error { return r.RenderPDF(ctx, src, w) })
}

func dumpBoxes(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	cfg := *e.Cfg
	if w := cmd.Int("width"); w > 0 {
		cfg.Viewport.Width = w
	}
	src, r, err := source(cmd, e, &cfg)
	if err != nil {
		return err
	}
	doc, err := r.Layout(ctx, src, float64(cfg.Viewport.Width), float64(cfg.Viewport.Height))
	if err != nil {
		return err
	}
	return doc.Tree.Dump(os.Stdout, doc.Root)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		e.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data  []byte
		state string
	)
	if cmd.Bool("default") {
		state = "default"
		data = config.DefaultYAML()
	} else {
		state = "actual"
		if data, err = config.Dump(e.Cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	fname := cmd.Args().Get(0)
	if fname == "" {
		e.Log.Debug("Outputting configuration", zap.String("state", state), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
		return err
	}
	e.Log.Info("Outputting configuration", zap.String("state", state), zap.String("file", fname))
	return writeFile(fname, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("unable to write configuration: %w", err)
		}
		return nil
	})
}
