package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ResolvePath("  ")
		assert.ErrorContains(t, err, "cannot be empty")
	})

	t.Run("rejects control characters", func(t *testing.T) {
		_, err := ResolvePath("catalog\n.yaml")
		assert.ErrorContains(t, err, "control characters")
	})

	t.Run("resolves existing file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(file, []byte("categories: []"), 0o600))

		got, err := ResolvePath(file)
		require.NoError(t, err)

		// /tmp may itself be a symlink
		want, _ := filepath.EvalSymlinks(file)
		assert.Equal(t, want, got)
	})

	t.Run("cleans missing file", func(t *testing.T) {
		dir := t.TempDir()
		got, err := ResolvePath(filepath.Join(dir, "sub", "..", "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "missing.yaml"), got)
	})

	t.Run("follows symlinks", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "policy.yaml")
		link := filepath.Join(dir, "link.yaml")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
		require.NoError(t, os.Symlink(target, link))

		got, err := ResolvePath(link)
		require.NoError(t, err)
		want, _ := filepath.EvalSymlinks(target)
		assert.Equal(t, want, got)
	})
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file within limit", func(t *testing.T) {
		file := filepath.Join(dir, "ok.yaml")
		require.NoError(t, os.WriteFile(file, []byte("weeks: 12"), 0o600))

		data, err := ReadDocument(file, MaxDocumentBytes)
		require.NoError(t, err)
		assert.Equal(t, "weeks: 12", string(data))
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		file := filepath.Join(dir, "big.yaml")
		require.NoError(t, os.WriteFile(file, make([]byte, 64), 0o600))

		_, err := ReadDocument(file, 16)
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})

	t.Run("rejects directory", func(t *testing.T) {
		_, err := ReadDocument(dir, MaxDocumentBytes)
		assert.ErrorContains(t, err, "not a regular file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadDocument(filepath.Join(dir, "missing.yaml"), MaxDocumentBytes)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
