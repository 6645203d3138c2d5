// Package testutil provides shared helpers for the test suite: temporary
// project trees and configurable plugins for exercising the dispatch and
// pipeline paths.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree materializes files (project-relative path -> content) under a
// fresh temporary directory and returns its path.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteTreeAt(t, dir, files)
	return dir
}

// WriteTreeAt materializes files under an existing directory.
func WriteTreeAt(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}
