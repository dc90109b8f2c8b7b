package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveExisting(t *testing.T) {
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "catchments.db")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

		require.NoError(t, removeExisting(path))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.NoError(t, removeExisting(filepath.Join(dir, "absent.db")))
	})

	t.Run("non-empty directory", func(t *testing.T) {
		path := filepath.Join(dir, "busy")
		require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0o755))

		assert.Error(t, removeExisting(path))
	})
}
