package spawn

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"spawner/config"

	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// listTree returns every file and directory under root as sorted slash paths.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

// newTestConfig returns a resolved config for templateDir with projects created in a
// fresh temp dir and git disabled.
func newTestConfig(t *testing.T, templateDir string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.TemplateDir = templateDir
	cfg.ProjectsRoot = t.TempDir()
	cfg.Git.Skip = true
	require.NoError(t, cfg.Resolve())
	return cfg
}
