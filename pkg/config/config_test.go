package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800, cfg.Viewport.Width)
	assert.Equal(t, PageConfig{Width: 595, Height: 842, Margin: 36}, cfg.Page)
	assert.Equal(t, "serif", cfg.Fonts.Family)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, css.Color{R: 255, G: 255, B: 255, A: 255}, cfg.Background())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "viewport:\n  width: 1024\nlogging:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Viewport.Width)
	assert.Equal(t, 600, cfg.Viewport.Height, "unset fields keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "viewport:\n  depth: 3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Version = 2
	cfg.Viewport.Width = 0
	cfg.Page.Margin = 400
	cfg.Fonts.Size = -1
	cfg.Output.Background = "not-a-color"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 6)
	assert.Contains(t, err.Error(), `unknown level "loud"`)
}

func TestDumpRoundTrips(t *testing.T) {
	data, err := Dump(Default())
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, *Default(), back)
}

func TestDefaultYAMLKeepsComments(t *testing.T) {
	assert.Contains(t, string(DefaultYAML()), "# debug, info, warn, error or none")
}
