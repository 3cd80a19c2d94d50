// Package config loads the renderer configuration from YAML, layered over
// embedded defaults.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

//go:embed default.yaml
var defaultConfig []byte

type (
	ViewportConfig struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	}

	PageConfig struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
		Margin float64 `yaml:"margin"`
	}

	FontsConfig struct {
		Family  string  `yaml:"family"`
		Size    float64 `yaml:"size"`
		Regular string  `yaml:"regular,omitempty"`
	}

	OutputConfig struct {
		Background string `yaml:"background"`
	}

	LoggingConfig struct {
		Level string `yaml:"level"`
	}

	Config struct {
		Version  int            `yaml:"version"`
		Viewport ViewportConfig `yaml:"viewport"`
		Page     PageConfig     `yaml:"page"`
		Fonts    FontsConfig    `yaml:"fonts"`
		Output   OutputConfig   `yaml:"output"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

// LogLevels lists the accepted logging.level values.
var LogLevels = []string{"debug", "info", "warn", "error", "none"}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields defined above are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the file at path over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg, err = unmarshalConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem in cfg at once.
func (cfg *Config) Validate() error {
	var err error
	if cfg.Version != 1 {
		err = multierr.Append(err, fmt.Errorf("version: unsupported value %d", cfg.Version))
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("viewport: size must be positive, got %dx%d", cfg.Viewport.Width, cfg.Viewport.Height))
	}
	if cfg.Page.Width <= 0 || cfg.Page.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("page: size must be positive, got %gx%g", cfg.Page.Width, cfg.Page.Height))
	}
	if cfg.Page.Margin < 0 || 2*cfg.Page.Margin >= min(cfg.Page.Width, cfg.Page.Height) {
		err = multierr.Append(err, fmt.Errorf("page: margin %g leaves no content area", cfg.Page.Margin))
	}
	if cfg.Fonts.Family == "" {
		err = multierr.Append(err, errors.New("fonts: family is required"))
	}
	if cfg.Fonts.Size <= 0 {
		err = multierr.Append(err, fmt.Errorf("fonts: size must be positive, got %g", cfg.Fonts.Size))
	}
	if _, ok := css.ParseColor(cfg.Output.Background); !ok {
		err = multierr.Append(err, fmt.Errorf("output: unknown background color %q", cfg.Output.Background))
	}
	if !slices.Contains(LogLevels, cfg.Logging.Level) {
		err = multierr.Append(err, fmt.Errorf("logging: unknown level %q", cfg.Logging.Level))
	}
	return err
}

// Background returns the parsed page background color.
func (cfg *Config) Background() css.Color {
	c, ok := css.ParseColor(cfg.Output.Background)
	if !ok {
		return css.Color{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}

// Dump renders cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// DefaultYAML returns the embedded default configuration, comments included.
func DefaultYAML() []byte { return bytes.Clone(defaultConfig) }
