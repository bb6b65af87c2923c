package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the binary was built by `go run` or `go test`.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStatePath returns where the snapshot lives. With sandbox set, a
// path outside the system temp directory is re-rooted under
// $TMPDIR/assistant-dev, keeping its file name.
func ResolveStatePath(path string, sandbox bool) string {
	if !sandbox {
		return path
	}

	clean := filepath.Clean(path)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if name == "." || name == string(os.PathSeparator) {
		name = "state.json"
	}
	return filepath.Join(os.TempDir(), "assistant-dev", name)
}
