// Package fsext provides extended file system functions
package fsext

import (
	"path/filepath"
)

// Abs returns an absolute representation of path.
//
// If the path is not absolute it will be joined with root to turn it into an
// absolute path. The root path is assumed to be a directory, usually the
// working directory reported by the global state.
func Abs(root, path string) string {
	if path == "" {
		return filepath.Clean(root)
	}
	if path[0] != '/' && path[0] != '\\' && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return filepath.Clean(path)
}
