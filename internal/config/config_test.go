package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Missing source directory.
	require.Error(t, Validate(&Config{Version: "1.2.3"}))

	// Missing version.
	require.Error(t, Validate(&Config{SourceDir: "/src"}))

	// Underscore would break the artifact name template.
	require.Error(t, Validate(&Config{SourceDir: "/src", Version: "1_2"}))

	// Path separators in architecture tags.
	require.Error(t, Validate(&Config{SourceDir: "/src", Version: "1.2.3", Architectures: []string{"x64/../"}}))

	require.Error(t, Validate(&Config{SourceDir: "/src", Version: "1.2.3", ProductName: "a/b"}))
}

// TestValidateProductName rejects names that escape the staging directory or
// break line-based manifest formats.
func TestValidateProductName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{".", "..", "a/b", `a\b`, "Nx\nExec=evil", "Nx\rscape", "Nx\tscape", "Nx\x00"} {
		err := Validate(&Config{SourceDir: "/src", Version: "1.2.3", ProductName: name})
		require.ErrorIs(t, err, errInvalidName, "%q", name)
	}

	for _, name := range []string{"Nxtscape", "Nxtscape Browser", "Nx.scape", "...Nx"} {
		require.NoError(t, Validate(&Config{SourceDir: "/src", Version: "1.2.3", ProductName: name}), name)
	}
}

// TestValidateOutDirs resolves one build output per architecture.
func TestValidateOutDirs(t *testing.T) {
	t.Parallel()

	shared := &Config{
		SourceDir:     "/src",
		Version:       "1.2.3",
		OutDir:        "out/Release",
		Architectures: []string{"x64", "arm64"},
	}
	require.ErrorIs(t, Validate(shared), errSharedOutDir)

	templated := &Config{
		SourceDir:     "/src",
		Version:       "1.2.3",
		OutDir:        "out/Release_{arch}",
		Architectures: []string{"x64", "arm64"},
	}
	require.NoError(t, Validate(templated))
	require.Equal(t, "out/Release_x64", templated.OutDirFor("x64"))
	require.Equal(t, "out/Release_arm64", templated.OutDirFor("arm64"))

	overridden := &Config{
		SourceDir:     "/src",
		Version:       "1.2.3",
		OutDir:        "out/Release",
		OutDirs:       map[string]string{"arm64": "out/Release_arm"},
		Architectures: []string{"x64", "arm64"},
	}
	require.NoError(t, Validate(overridden))
	require.Equal(t, "out/Release", overridden.OutDirFor("x64"))
	require.Equal(t, "out/Release_arm", overridden.OutDirFor("arm64"))

	collides := &Config{
		SourceDir:     "/src",
		Version:       "1.2.3",
		OutDir:        "out/Release",
		OutDirs:       map[string]string{"arm64": "out/Release/"},
		Architectures: []string{"x64", "arm64"},
	}
	require.ErrorIs(t, Validate(collides), errSharedOutDir)
}

// TestValidateDefaults verifies that optional fields receive their defaults.
func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		SourceDir:     "/src",
		Version:       "1.2.3",
		Architectures: []string{"x64", "arm64", "x64"},
	}

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultMultiArchOutDir, cfg.OutDir)
	require.Equal(t, "out/Default_x64", cfg.OutDirFor("x64"))
	require.Equal(t, "out/Default_arm64", cfg.OutDirFor("arm64"))
	require.Equal(t, ".", cfg.RootDir)
	require.Equal(t, DefaultProductName, cfg.ProductName)
	require.Equal(t, "unknown", cfg.BaseVersion)
	require.Equal(t, []string{"x64", "arm64"}, cfg.Architectures)
	require.Equal(t, DefaultMaintainer, cfg.Maintainer)
	require.Equal(t, DefaultHomepage, cfg.Homepage)
	require.Equal(t, DefaultDepends(), cfg.Depends)
	require.Equal(t, DefaultEssentialFiles(), cfg.EssentialFiles)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		SourceDir:     "/work/chromium/src",
		OutDir:        "out/Default_arm64",
		RootDir:       "/work/nxtscape",
		ProductName:   "Nxtscape",
		Version:       "0.9.1",
		BaseVersion:   "137.0.7151.69",
		Architectures: []string{"arm64"},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestReadDoesNotValidate lets the CLI apply flag overrides before validation.
func TestReadDoesNotValidate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("product_name: Nxtscape\n"), 0o600))

	cfg, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, "Nxtscape", cfg.ProductName)

	_, err = Load(path)
	require.Error(t, err)
}

// TestLoadMissingFile reports the underlying not-exist error.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestValidateSingleArchDefault keeps the plain out/Default for one architecture.
func TestValidateSingleArchDefault(t *testing.T) {
	t.Parallel()

	cfg := &Config{SourceDir: "/src", Version: "1.2.3"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultOutDir, cfg.OutDir)
	require.Equal(t, DefaultOutDir, cfg.OutDirFor("x64"))
}
