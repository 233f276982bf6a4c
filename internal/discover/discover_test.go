package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pythonOnly = Options{Extensions: []string{".py"}, SkipDirs: true, RespectGitignore: true}

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = filepath.ToSlash(e.Path)
	}
	return out
}

func TestDiscoverPythonFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.py", "def helper(): pass")
	writeFile(t, dir, "lib/deep/nested/mod.py", "x = 1")
	// Non-Python file should be ignored
	writeFile(t, dir, "readme.txt", "hello")

	entries, err := Files(dir, pythonOnly)
	require.NoError(t, err)

	// Sorted by path
	assert.Equal(t, []string{"lib/deep/nested/mod.py", "lib/util.py", "main.py"}, paths(entries))
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")

	entries, err := Files(dir, pythonOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(entries))

	all := pythonOnly
	all.SkipDirs = false
	entries, err = Files(dir, all)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestDiscoverExtensionFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "app.rb", "x = 1")

	entries, err := Files(dir, Options{Extensions: []string{".go", ".rb"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.rb", "main.go"}, paths(entries))

	_, err = Files(dir, Options{})
	assert.Error(t, err, "an empty extension filter is a configuration error")
}

func TestDiscoverExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "app/models.py", "pass")
	writeFile(t, dir, "app/tests/test_models.py", "pass")
	writeFile(t, dir, "migrations/0001_initial.py", "pass")

	opts := pythonOnly
	opts.Exclude = []string{"**/tests/**", "migrations/*.py"}
	entries, err := Files(dir, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/models.py"}, paths(entries))

	opts.Exclude = []string{"[unterminated"}
	_, err = Files(dir, opts)
	assert.Error(t, err)
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n")
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "generated/out.py", "pass")

	entries, err := Files(dir, pythonOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(entries))

	opts := pythonOnly
	opts.RespectGitignore = false
	entries, err = Files(dir, opts)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, pythonOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, paths(entries))
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "missing"), pythonOnly)
	assert.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
