package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveAndURL(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(root, "uploads/")
	require.NoError(t, err)

	name := s.NewName("front", "JPG")
	assert.True(t, strings.HasPrefix(name, "front-"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	require.NoError(t, s.Save(name, strings.NewReader("data")))
	b, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
	assert.Equal(t, "/uploads/"+name, s.URL(name))
}

func TestSaveRefusesOverwrite(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	require.NoError(t, s.Save("a.png", strings.NewReader("1")))
	assert.Error(t, s.Save("a.png", strings.NewReader("2")))
}

func TestSaveCleansUpPartialFile(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	err = s.Save("broken.png", io.MultiReader(strings.NewReader("half"), failingReader{}))
	assert.Error(t, err)
	assert.NoFileExists(t, s.Path("broken.png"))
}

func TestPathStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/uploads")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "passwd"), s.Path("../../etc/passwd"))
}

func TestRemoveIgnoresMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	require.NoError(t, s.Save("x.png", strings.NewReader("x")))

	assert.NoError(t, s.Remove("x.png", "missing.png", ""))
	assert.NoFileExists(t, s.Path("x.png"))
}
