package pipeline

import (
	"path/filepath"
	"strings"
)

// Resolve turns path into an absolute path. Absolute paths are returned
// unchanged, everything else is joined with baseDir. This is a purely
// lexical operation; existence is checked by the caller.
func Resolve(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(baseDir, path)
}

// Simplify rewrites path relative to projectRoot for log messages. Paths
// outside the project are returned as-is.
func Simplify(path, projectRoot string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	if strings.HasPrefix(absPath, projectRoot+string(filepath.Separator)) {
		return absPath[len(projectRoot)+1:]
	}
	return path
}

// ContentKey derives the minifier key for a path: the lowercase file
// extension without the leading dot.
func ContentKey(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
