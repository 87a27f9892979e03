package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ContainsPathTraversal reports whether path has a ".." component.
//
// The raw path is checked before any normalization, so all of these are caught:
// "..", "../foo", "foo/../bar", "foo/..".
func ContainsPathTraversal(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// IsAbsolutePath reports whether path is absolute in either Unix or Windows form.
func IsAbsolutePath(path string) bool {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return true
	}

	// Windows drive paths on Unix systems (e.g., "C:/...")
	return len(path) >= 2 && path[1] == ':'
}

// ValidateRelativePath checks that path stays inside whatever directory it is joined to:
// non-empty, relative, and free of ".." components.
func ValidateRelativePath(path string) error {
	if path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if IsAbsolutePath(path) {
		return fmt.Errorf("path must be relative: %s", path)
	}
	if ContainsPathTraversal(path) {
		return fmt.Errorf("path must not contain '..': %s", path)
	}
	return nil
}
