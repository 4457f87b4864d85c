// Package security guards the files habitlog reads from operator-supplied
// paths: catalog imports and the analytics policy.
package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxDocumentBytes bounds catalog and policy documents.
const MaxDocumentBytes = 4 << 20

// ErrDocumentTooLarge is returned when a document exceeds its size limit.
var ErrDocumentTooLarge = errors.New("document exceeds size limit")

// ResolvePath cleans path, makes it absolute, and resolves symlinks. Paths
// containing control characters are rejected.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("file path cannot be empty")
	}
	if strings.ContainsFunc(path, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "", fmt.Errorf("file path contains control characters: %q", path)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("resolve file path: %w", err)
	}
	return resolved, nil
}

// ReadDocument reads a regular file of at most limit bytes after resolving
// its path.
func ReadDocument(path string, limit int64) ([]byte, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is resolved above
	f, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%s: %w (%d > %d bytes)", path, ErrDocumentTooLarge, info.Size(), limit)
	}

	return io.ReadAll(io.LimitReader(f, limit))
}
