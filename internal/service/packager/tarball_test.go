package packager

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nxtscape/linux-packager/internal/archive"
)

// TestBuildTarball_MissingBinary fails before touching dist or staging.
func TestBuildTarball_MissingBinary(t *testing.T) {
	t.Parallel()

	bc := newTestContext(t)
	p := newTestPackager(new(fakeDpkg))

	artifact, err := p.BuildTarball(context.Background(), bc)
	require.Nil(t, artifact)
	require.ErrorIs(t, err, ErrMissingBinary)
	require.ErrorIs(t, err, fs.ErrNotExist)

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindMissingBinary, kind)

	_, err = os.Stat(bc.DistDir())
	require.ErrorIs(t, err, fs.ErrNotExist)

	requireNoStaging(t, bc)
}

// TestBuildTarball_Layout packages Nxtscape 1.2.3 for x64.
func TestBuildTarball_Layout(t *testing.T) {
	t.Parallel()

	bc := newTestContext(t)
	populateBuild(t, bc)

	p := newTestPackager(new(fakeDpkg))

	artifact, err := p.BuildTarball(context.Background(), bc)
	require.NoError(t, err)
	require.Equal(t, FormatTarball, artifact.Format)
	require.Equal(t, filepath.Join(bc.RootDir, "dist", "Nxtscape_1.2.3_x64_linux.tar.gz"), artifact.Path)
	require.Positive(t, artifact.Size)

	entries, err := archive.List(artifact.Path)
	require.NoError(t, err)

	byName := make(map[string]archive.Entry, len(entries))

	for _, e := range entries {
		require.True(t, e.Name == "Nxtscape" || strings.HasPrefix(e.Name, "Nxtscape/"), e.Name)
		byName[e.Name] = e
	}

	for _, name := range []string{
		"Nxtscape/chrome",
		"Nxtscape/nxtscape",
		"Nxtscape/nxtscape.desktop",
		"Nxtscape/README.txt",
		"Nxtscape/resources.pak",
		"Nxtscape/locales/en-US.pak",
	} {
		require.Contains(t, byName, name)
	}

	require.NotContains(t, byName, "Nxtscape/icudtl.dat")
	require.NotContains(t, byName, "Nxtscape/swiftshader")

	require.Equal(t, fs.FileMode(0o755), byName["Nxtscape/nxtscape"].Mode.Perm())
	require.Equal(t, fs.FileMode(0o755), byName["Nxtscape/chrome"].Mode.Perm())

	requireNoStaging(t, bc)
}

// TestBuildTarball_ReplacesStaleStaging ignores leftovers from an interrupted run.
func TestBuildTarball_ReplacesStaleStaging(t *testing.T) {
	t.Parallel()

	bc := newTestContext(t)
	populateBuild(t, bc)

	stale := filepath.Join(bc.StagingDir("linux_package"), "Nxtscape", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	artifact, err := newTestPackager(new(fakeDpkg)).BuildTarball(context.Background(), bc)
	require.NoError(t, err)

	entries, err := archive.List(artifact.Path)
	require.NoError(t, err)

	for _, e := range entries {
		require.NotEqual(t, "Nxtscape/stale.txt", e.Name)
	}

	requireNoStaging(t, bc)
}

// TestBuildTarball_BinaryAndResourcesOnly has no locales to ship.
func TestBuildTarball_BinaryAndResourcesOnly(t *testing.T) {
	t.Parallel()

	bc := newTestContext(t)
	require.NoError(t, os.MkdirAll(bc.BuildOutputDir(), 0o755))
	require.NoError(t, os.WriteFile(bc.BinaryPath(), []byte("bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bc.BuildOutputDir(), "resources.pak"), []byte("pak"), 0o644))

	artifact, err := newTestPackager(new(fakeDpkg)).BuildTarball(context.Background(), bc)
	require.NoError(t, err)
	require.Equal(t, "Nxtscape_1.2.3_x64_linux.tar.gz", filepath.Base(artifact.Path))

	entries, err := archive.List(artifact.Path)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	require.ElementsMatch(t, []string{
		"Nxtscape",
		"Nxtscape/chrome",
		"Nxtscape/resources.pak",
		"Nxtscape/nxtscape",
		"Nxtscape/nxtscape.desktop",
		"Nxtscape/README.txt",
	}, names)
}

// TestBuildTarball_SymlinkedLocales ships the locale files, not a link out of the archive.
func TestBuildTarball_SymlinkedLocales(t *testing.T) {
	t.Parallel()

	bc := newTestContext(t)
	require.NoError(t, os.MkdirAll(bc.BuildOutputDir(), 0o755))
	require.NoError(t, os.WriteFile(bc.BinaryPath(), []byte("bin"), 0o755))

	shared := filepath.Join(bc.SourceDir, "shared_locales")
	require.NoError(t, os.MkdirAll(shared, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shared, "de.pak"), []byte("de"), 0o644))
	require.NoError(t, os.Symlink("../../shared_locales", filepath.Join(bc.BuildOutputDir(), "locales")))

	artifact, err := newTestPackager(new(fakeDpkg)).BuildTarball(context.Background(), bc)
	require.NoError(t, err)

	entries, err := archive.List(artifact.Path)
	require.NoError(t, err)

	byName := make(map[string]archive.Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	require.Contains(t, byName, "Nxtscape/locales")
	require.True(t, byName["Nxtscape/locales"].IsDir())
	require.Empty(t, byName["Nxtscape/locales"].Linkname)
	require.Contains(t, byName, "Nxtscape/locales/de.pak")
}

// TestBuildTarball_StagingFailure cleans up when copying fails midway.
func TestBuildTarball_StagingFailure(t *testing.T) {
	t.Parallel()

	bc := newTestContext(t)
	populateBuild(t, bc)

	// A directory where a regular file is expected cannot be copied.
	require.NoError(t, os.MkdirAll(filepath.Join(bc.BuildOutputDir(), "icudtl.dat"), 0o755))

	artifact, err := newTestPackager(new(fakeDpkg)).BuildTarball(context.Background(), bc)
	require.Nil(t, artifact)
	require.ErrorIs(t, err, ErrStagingFailure)

	require.NoFileExists(t, filepath.Join(bc.DistDir(), bc.TarballName()))
	requireNoStaging(t, bc)
}
