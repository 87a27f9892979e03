package spawn

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultExcludes = []string{".git", "node_modules", ".next"}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{".git", "node_modules", "*.log", "docs/**/*.md"})
	require.NoError(t, err)

	tests := []struct {
		rel  string
		want bool
	}{
		{".git", true},
		{"packages/web/.git", true},
		{"node_modules", true},
		{"app/node_modules", true},
		{"debug.log", true},
		{"logs/server.log", true},
		{"docs/guide/intro.md", true},
		{"README.md", false},
		{".gitignore", false},
		{"components/home/hero.tsx", false},
	}

	for _, tc := range tests {
		t.Run(tc.rel, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Match(tc.rel))
		})
	}
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	_, err := NewMatcher([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestMatcher_Nil(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match("anything"))
}

func TestCopyTree_ExcludesPatterns(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"package.json":                  `{"name":"template"}`,
		".gitignore":                    "node_modules\n",
		"components/home/hero.tsx":      "<h1>SEO Velocity</h1>",
		".git/HEAD":                     "ref: refs/heads/main\n",
		"node_modules/react/index.js":   "module.exports = {}",
		".next/cache/build.json":        "{}",
		"packages/ui/node_modules/x.js": "",
	})
	dst := filepath.Join(t.TempDir(), "SaaS-demo")

	m, err := NewMatcher(defaultExcludes)
	require.NoError(t, err)

	stats, err := CopyTree(src, dst, m)
	require.NoError(t, err)

	assert.Equal(t, []string{
		".gitignore",
		"components",
		"components/home",
		"components/home/hero.tsx",
		"package.json",
		"packages",
		"packages/ui",
	}, listTree(t, dst))
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 4, stats.Dirs)
	assert.Equal(t, 4, stats.Excluded)

	content, err := os.ReadFile(filepath.Join(dst, "components/home/hero.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>SEO Velocity</h1>", string(content))
}

func TestCopyTree_PreservesModesAndSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes and symlinks differ on Windows")
	}

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"scripts/deploy.sh": "#!/bin/sh\necho deploy\n",
		"README.md":         "# Template\n",
	})
	require.NoError(t, os.Chmod(filepath.Join(src, "scripts/deploy.sh"), 0755))
	require.NoError(t, os.Symlink("README.md", filepath.Join(src, "README.link")))
	// A dangling link must be recreated as-is, not followed
	require.NoError(t, os.Symlink("missing-target", filepath.Join(src, "dangling")))

	dst := filepath.Join(t.TempDir(), "out")
	stats, err := CopyTree(src, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Symlinks)

	info, err := os.Stat(filepath.Join(dst, "scripts/deploy.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	link, err := os.Readlink(filepath.Join(dst, "README.link"))
	require.NoError(t, err)
	assert.Equal(t, "README.md", link)

	link, err = os.Readlink(filepath.Join(dst, "dangling"))
	require.NoError(t, err)
	assert.Equal(t, "missing-target", link)
}

func TestCopyTree_CreatesMissingProjectsRoot(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"index.ts": "export {}"})
	dst := filepath.Join(t.TempDir(), "not", "yet", "there", "SaaS-x")

	_, err := CopyTree(src, dst, nil)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dst, "index.ts"))
}

func TestCopyTree_Errors(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		_, err := CopyTree(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out"), nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCopyFailed))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("template is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := CopyTree(file, filepath.Join(t.TempDir(), "out"), nil)
		assert.ErrorIs(t, err, ErrCopyFailed)
	})

	t.Run("target already exists", func(t *testing.T) {
		src := t.TempDir()
		dst := t.TempDir()

		_, err := CopyTree(src, dst, nil)
		assert.ErrorIs(t, err, ErrCopyFailed)
		assert.ErrorIs(t, err, os.ErrExist)
	})

	t.Run("unreadable file leaves partial copy", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission checks do not apply")
		}
		src := t.TempDir()
		writeTree(t, src, map[string]string{"a.txt": "a", "b.txt": "b"})
		require.NoError(t, os.Chmod(filepath.Join(src, "b.txt"), 0000))
		dst := filepath.Join(t.TempDir(), "out")

		_, err := CopyTree(src, dst, nil)
		assert.ErrorIs(t, err, ErrCopyFailed)
		// No cleanup: what was copied before the failure is still there
		assert.FileExists(t, filepath.Join(dst, "a.txt"))
	})
}
