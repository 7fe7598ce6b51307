package util

import "os"

// EnsureDir creates path and its parents. Empty and "." are no-ops.
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

// ScratchDir creates a fresh directory under parent (the system temp dir
// when empty). The returned func removes it with everything inside.
func ScratchDir(parent, pattern string) (string, func() error, error) {
	if parent != "" {
		if err := EnsureDir(parent); err != nil {
			return "", nil, err
		}
	}
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return "", nil, err
	}
	return dir, func() error { return os.RemoveAll(dir) }, nil
}
