package utils

import (
	"path"
	"strings"
)

// JoinPath joins path parts using forward slashes regardless of host OS.
// It strips leading/trailing slashes from each component, then prefixes the result with "/".
// Pattern:
//   - Root path = "/"
//   - Child of root = "/{child}"
//   - Children of that = "/{child}/{grandchild}" etc.
func JoinPath(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		part = strings.Trim(part, "/")
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}

	if len(cleaned) == 0 {
		return "/"
	}

	return "/" + strings.Join(cleaned, "/")
}

// CleanPath builds a remote path from its parts and normalizes it: redundant
// separators and "." segments are removed and ".." is resolved lexically.
// Two logically equal paths always produce the same string.
func CleanPath(parts ...string) string {
	return path.Clean(JoinPath(parts...))
}

// SplitPath returns the parent directory and the last segment of a remote path.
func SplitPath(p string) (dir, name string) {
	p = CleanPath(p)
	if p == "/" {
		return "/", ""
	}
	dir, name = path.Split(p)
	return CleanPath(dir), name
}

// IsWithin reports whether p equals root or lies beneath it.
func IsWithin(p, root string) bool {
	p, root = CleanPath(p), CleanPath(root)
	if root == "/" || p == root {
		return true
	}
	return strings.HasPrefix(p, root+"/")
}
