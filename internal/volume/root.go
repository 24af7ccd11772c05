package volume

import (
	"path/filepath"
	"strings"
)

// DeriveRoot walks depth directory levels up from path and returns the
// result. It reports false, with an empty string, when path is relative,
// depth is not positive, or path has no more than depth components.
func DeriveRoot(path string, depth int) (string, bool) {
	if depth < 1 || !filepath.IsAbs(path) {
		return "", false
	}
	clean := filepath.Clean(path)
	parts := strings.Split(strings.Trim(filepath.ToSlash(clean), "/"), "/")
	if len(parts) <= depth || parts[0] == "" {
		return "", false
	}

	root := clean
	for i := 0; i < depth; i++ {
		root = filepath.Dir(root)
	}
	return root, true
}
