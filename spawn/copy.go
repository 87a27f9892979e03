package spawn

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides which template entries are left out of a copy.
// A pattern matches if it matches either the entry's base name or its
// slash-separated path relative to the template root, so ".git" excludes
// every .git directory while "docs/**/*.md" targets a subtree.
type Matcher struct {
	patterns []string
}

// NewMatcher validates the glob patterns and returns a Matcher for them.
func NewMatcher(patterns []string) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &Matcher{patterns: slices.Clone(patterns)}, nil
}

// Match reports whether the entry at rel (relative to the template root) is excluded.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)

	for _, pattern := range m.patterns {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// CopyStats summarizes a finished copy.
type CopyStats struct {
	Files    int
	Dirs     int
	Symlinks int
	Excluded int
}

// CopyTree recursively copies src into dst, which must not exist yet. File modes and
// modification times are preserved, symlinks are recreated rather than followed, and
// entries matched by m are skipped (excluded directories are not descended).
//
// Every failure is wrapped in ErrCopyFailed. Whatever was copied before the failure is
// left in place.
func CopyTree(src, dst string, m *Matcher) (CopyStats, error) {
	var stats CopyStats

	info, err := os.Stat(src)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%w: template is not a directory: %s", ErrCopyFailed, src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	// Mkdir rather than MkdirAll: a concurrent run that created dst first makes this fail.
	if err := os.Mkdir(dst, 0700); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	// Directory modes are applied after the walk so read-only directories can still be filled.
	type dirMode struct {
		path string
		mode fs.FileMode
	}
	dirModes := []dirMode{{dst, info.Mode().Perm()}}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == src {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if m.Match(rel) {
			stats.Excluded++
			slog.Debug("Excluding template entry", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.Mkdir(target, 0700); err != nil {
				return err
			}
			dirModes = append(dirModes, dirMode{target, info.Mode().Perm()})
			stats.Dirs++

		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if err := os.Symlink(link, target); err != nil {
				return err
			}
			stats.Symlinks++

		case d.Type().IsRegular():
			if err := copyFile(path, target, info); err != nil {
				return err
			}
			stats.Files++

		default:
			slog.Debug("Skipping special file", "path", rel, "mode", info.Mode().String())
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	for i := len(dirModes) - 1; i >= 0; i-- {
		if err := os.Chmod(dirModes[i].path, dirModes[i].mode); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrCopyFailed, err)
		}
	}

	return stats, nil
}

// copyFile copies one regular file, keeping its permissions and modification time.
func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	// Umask may have narrowed the mode given to OpenFile.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
