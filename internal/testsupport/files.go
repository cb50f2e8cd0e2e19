package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteText writes content to path, creating parent directories, and returns
// path.
func WriteText(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteFile writes size filler bytes to path. Media stubs only need a file
// of plausible size, so the content is a repeated byte. size <= 0 writes one
// byte.
func WriteFile(t testing.TB, path string, size int64) string {
	t.Helper()
	return WriteText(t, path, string(bytes.Repeat([]byte{'x'}, int(max(size, 1)))))
}
