package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestination(t *testing.T) {
	assert.Equal(t, "doc/page.png", destination("doc/page.html", "", ".png"))
	assert.Equal(t, "page.pdf", destination("page", "", ".pdf"))
	assert.Equal(t, "out.png", destination("page.html", "out.png", ".png"))
}

func TestWriteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.txt")

	err := writeFile(name, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	require.NoError(t, err)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFileRemovesOutputOnError(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.txt")
	boom := errors.New("boom")

	err := writeFile(name, func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, name)
}

func TestWriteFileBadDirectory(t *testing.T) {
	err := writeFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}
