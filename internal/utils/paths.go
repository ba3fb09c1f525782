package utils

import (
	"path/filepath"
	"strings"
)

// CommonDirectory returns the deepest directory containing every path, or ""
// when the paths share none (for instance a mix of relative and absolute).
func CommonDirectory(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	common := strings.Split(filepath.ToSlash(filepath.Dir(paths[0])), "/")
	for _, p := range paths[1:] {
		parts := strings.Split(filepath.ToSlash(filepath.Dir(p)), "/")
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	if len(common) == 0 {
		return ""
	}
	dir := strings.Join(common, "/")
	if dir == "" {
		// Only the leading separator of absolute paths is shared.
		dir = "/"
	}
	return filepath.FromSlash(dir)
}

// RelativeTo expresses path relative to dir when it lies below it, using
// forward slashes. Other paths are returned with forward slashes only.
func RelativeTo(dir, path string) string {
	if dir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
