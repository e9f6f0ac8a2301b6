package xfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "projects"), ExpandTilde("~/projects"))
	assert.Equal(t, "/var/data", ExpandTilde("/var/data"))
	assert.Equal(t, "relative/path", ExpandTilde("relative/path"))
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating an existing directory is fine.
	assert.NoError(t, EnsureDir(path))
}
