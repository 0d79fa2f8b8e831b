package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWriteTarGzRoundtrip archives a small tree and reads it back.
func TestWriteTarGzRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "staging")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "locales"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "chrome"), []byte("binary"), 0o755))
	require.NoError(t, os.Chmod(filepath.Join(src, "chrome"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "locales", "en-US.pak"), []byte("pak"), 0o644))
	require.NoError(t, os.Symlink("chrome", filepath.Join(src, "browser")))

	dst := filepath.Join(dir, "out.tar.gz")
	require.NoError(t, WriteTarGz(dst, src, "Nxtscape"))

	entries, err := List(dst)
	require.NoError(t, err)

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	require.Equal(t, "Nxtscape", entries[0].Name)
	require.True(t, entries[0].IsDir())

	chrome, ok := byName["Nxtscape/chrome"]
	require.True(t, ok)
	require.Equal(t, os.FileMode(0o755), chrome.Mode)
	require.EqualValues(t, 6, chrome.Size)

	require.Contains(t, byName, "Nxtscape/locales")
	require.Contains(t, byName, "Nxtscape/locales/en-US.pak")

	link := byName["Nxtscape/browser"]
	require.Equal(t, byte(tar.TypeSymlink), link.Type)
	require.Equal(t, "chrome", link.Linkname)

	for _, e := range entries {
		require.Regexp(t, `^Nxtscape(/|$)`, e.Name)
	}
}

// TestWriteTarGzRemovesPartialArchive ensures no truncated file is left on failure.
func TestWriteTarGzRemovesPartialArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "staging")
	require.NoError(t, os.MkdirAll(src, 0o755))

	unreadable := filepath.Join(src, "secret")
	require.NoError(t, os.WriteFile(unreadable, []byte("x"), 0o000))

	if f, err := os.Open(unreadable); err == nil {
		_ = f.Close()
		t.Skip("running with privileges that ignore file permissions")
	}

	dst := filepath.Join(dir, "out.tar.gz")
	require.Error(t, WriteTarGz(dst, src, "Nxtscape"))
	require.NoFileExists(t, dst)
}

// TestWriteTarGzValidatesInput rejects bad sources and root names.
func TestWriteTarGzValidatesInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.ErrorIs(t, WriteTarGz(filepath.Join(dir, "a.tar.gz"), dir, ""), errEmptyRoot)
	require.Error(t, WriteTarGz(filepath.Join(dir, "b.tar.gz"), filepath.Join(dir, "missing"), "x"))
	require.NoFileExists(t, filepath.Join(dir, "b.tar.gz"))

	_, err := List(filepath.Join(dir, "missing.tar.gz"))
	require.Error(t, err)
}
