// Package safety restricts which storage paths the bridge reports and keeps
// an audit trail of dispatched method calls.
package safety

import (
	"path/filepath"
	"strings"
)

// Filter controls which storage directories may be reported, using an
// allowlist and a denylist of glob patterns (as understood by
// filepath.Match).
//
// Rules:
//   - A pattern matches a path when it matches the path itself or any of its
//     ancestor directories, so "/storage/ABCD-*" covers everything on that
//     volume.
//   - If both lists are empty (or nil), every path is allowed.
//   - Denylist always takes priority over the allowlist.
//   - If a non-empty allowlist is present, a path must match at least one
//     allowlist pattern to be permitted (after the denylist check).
type Filter struct {
	allowlist []string
	denylist  []string
}

// NewFilter constructs a Filter from the provided allowlist and denylist
// pattern slices. Either or both may be nil or empty.
func NewFilter(allowlist, denylist []string) *Filter {
	return &Filter{
		allowlist: allowlist,
		denylist:  denylist,
	}
}

// IsAllowed reports whether path is permitted by this filter. A nil Filter
// allows everything.
func (f *Filter) IsAllowed(path string) bool {
	if f == nil {
		return true
	}
	path = filepath.Clean(path)

	for _, pattern := range f.denylist {
		if matchPath(pattern, path) {
			return false
		}
	}

	if len(f.allowlist) == 0 {
		return true
	}

	for _, pattern := range f.allowlist {
		if matchPath(pattern, path) {
			return true
		}
	}

	return false
}

// matchPath reports whether pattern matches path or one of its ancestors.
func matchPath(pattern, path string) bool {
	pattern = strings.TrimSuffix(pattern, string(filepath.Separator))
	if pattern == "" {
		return false
	}
	for p := path; ; {
		if matchGlob(pattern, p) {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}

// matchGlob returns true when name matches the given glob pattern.
// filepath.Match errors (malformed patterns) are treated as non-matching.
func matchGlob(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return false
	}
	return matched
}
