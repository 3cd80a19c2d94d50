package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mau4gdp/HTML-Renderer/pkg/config"
	"github.com/mau4gdp/HTML-Renderer/pkg/logging"
)

const appName = "htmlrender"

func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	e := envFromContext(ctx)

	configFile := cmd.String("config")
	if e.Cfg, err = config.Load(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	level := e.Cfg.Logging.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if e.Log, err = logging.New(level, appName); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if configFile == "" {
		e.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	e.Log.Debug("Program ended", zap.Duration("elapsed", e.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	// stderr is not syncable on every platform
	_ = e.Log.Sync()
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	e := envFromContext(ctx)
	if e.Log.Core().Enabled(zapcore.ErrorLevel) {
		e.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "renders HTML documents with CSS to PNG or PDF",
		Version:         "dev (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "override the configured log `LEVEL` (debug, info, warn, error, none)"},
		},
		Commands: []*cli.Command{
			{
				Name:         "png",
				Usage:        "Renders an HTML file to a PNG image",
				OnUsageError: usageErrorHandler,
				Action:       renderPNG,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "viewport width in `PIXELS`, overrides configuration"},
					&cli.IntFlag{Name: "height", Usage: "minimum image height in `PIXELS`, overrides configuration"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
			},
			{
				Name:         "pdf",
				Usage:        "Renders an HTML file to a paginated PDF document",
				OnUsageError: usageErrorHandler,
				Action:       renderPDF,
				ArgsUsage:    "SOURCE [DESTINATION]",
			},
			{
				Name:         "boxes",
				Usage:        "Lays out an HTML file and prints the box tree",
				OnUsageError: usageErrorHandler,
				Action:       dumpBoxes,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "viewport width in `PIXELS`, overrides configuration"},
				},
				ArgsUsage: "SOURCE",
			},
			{
				Name:  "config",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
