package packager

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	gzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/nxtscape/linux-packager/internal/config"
	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/domain/release"
	"github.com/nxtscape/linux-packager/internal/service/common"
)

var fixedTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// newTestConfig returns a validated config rooted in fresh temp directories.
func newTestConfig(t *testing.T, archs ...string) *config.Config {
	t.Helper()

	cfg := &config.Config{
		SourceDir:     t.TempDir(),
		RootDir:       t.TempDir(),
		Version:       "1.2.3",
		BaseVersion:   "137.0.7151.69",
		Architectures: archs,
	}
	require.NoError(t, config.Validate(cfg))

	return cfg
}

// newTestContext returns the x64 Nxtscape 1.2.3 context with an empty build tree.
func newTestContext(t *testing.T) build.Context {
	t.Helper()

	return build.NewContexts(newTestConfig(t, build.ArchX64))[0]
}

// populateBuild writes a fake browser build: the binary, resources.pak,
// a locale and one product logo.
func populateBuild(t *testing.T, bc build.Context) {
	t.Helper()

	out := bc.BuildOutputDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "locales"), 0o755))
	require.NoError(t, os.WriteFile(bc.BinaryPath(), []byte("#!/bin/sh\necho browser\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "resources.pak"), bytes.Repeat([]byte("r"), 3000), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "locales", "en-US.pak"), []byte("en"), 0o644))

	require.NoError(t, os.MkdirAll(bc.IconsDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bc.IconsDir(), "product_logo_64.png"), []byte("png"), 0o644))
}

// lookPathOf finds only the listed tools.
func lookPathOf(tools ...string) common.LookPathFunc {
	return func(file string) (string, error) {
		if slices.Contains(tools, file) {
			return "/usr/bin/" + file, nil
		}

		return "", exec.ErrNotFound
	}
}

func testActor() (*release.Actor, error) {
	return &release.Actor{Hostname: "builder", Username: "ci"}, nil
}

func newTestPackager(runner common.Runner, tools ...string) *Packager {
	return New(
		WithLookPath(lookPathOf(tools...)),
		WithRunner(runner),
		WithClock(func() time.Time { return fixedTime }),
		WithActorDetector(testActor),
	)
}

// fakeDpkg stands in for dpkg-deb. On --build it snapshots the staged
// tree and writes an ar archive shaped like a real .deb.
type fakeDpkg struct {
	calls   [][]string
	staged  map[string]fs.FileMode
	control string
	// output overrides the bytes written to the .deb path.
	output []byte
	// packagedControl overrides the control stanza stored in the .deb.
	packagedControl string
	// fail makes the build exit non-zero after writing output.
	fail bool
}

func (f *fakeDpkg) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))

	if name != ToolDpkgDeb || len(args) != 3 || args[0] != "--build" {
		return errors.New("unexpected command")
	}

	src, dst := args[1], args[2]

	f.staged = make(map[string]fs.FileMode)

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}

		f.staged[filepath.ToSlash(rel)] = info.Mode()

		return nil
	})
	if err != nil {
		return err
	}

	control, err := os.ReadFile(filepath.Join(src, "DEBIAN", "control"))
	if err != nil {
		return err
	}

	f.control = string(control)

	packaged := f.control
	if f.packagedControl != "" {
		packaged = f.packagedControl
	}

	output := f.output
	if output == nil {
		output, err = debBytes(packaged)
		if err != nil {
			return err
		}
	}

	if err = os.WriteFile(dst, output, 0o644); err != nil {
		return err
	}

	if f.fail {
		return &common.CommandError{Command: "dpkg-deb --build", Output: "dpkg-deb: error", Err: errors.New("exit status 2")}
	}

	return nil
}

// debBytes assembles debian-binary, control.tar.xz and data.tar.gz the way
// current dpkg-deb lays them out.
func debBytes(control string) ([]byte, error) {
	controlTar, err := tarXz(map[string]string{"./control": control})
	if err != nil {
		return nil, err
	}

	dataTar, err := tarGz(map[string]string{"./usr/bin/placeholder": "x"})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	w := ar.NewWriter(&buf)
	if err = w.WriteGlobalHeader(); err != nil {
		return nil, err
	}

	members := []struct {
		name string
		body []byte
	}{
		{"debian-binary", []byte("2.0\n")},
		{"control.tar.xz", controlTar},
		{"data.tar.gz", dataTar},
	}

	for _, m := range members {
		hdr := &ar.Header{Name: m.name, Size: int64(len(m.body)), Mode: 0o644, ModTime: fixedTime}
		if err = w.WriteHeader(hdr); err != nil {
			return nil, err
		}

		if _, err = w.Write(m.body); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func tarGz(files map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)
	if err := writeTar(gw, files); err != nil {
		return nil, err
	}

	if err := gw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func tarXz(files map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	xw, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if err = writeTar(xw, files); err != nil {
		return nil, err
	}

	if err = xw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeTar(w io.Writer, files map[string]string) error {
	tw := tar.NewWriter(w)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		body := files[name]
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body))}); err != nil {
			return err
		}

		if _, err := tw.Write([]byte(body)); err != nil {
			return err
		}
	}

	return tw.Close()
}

// requireNoStaging asserts that no staging directory survived.
func requireNoStaging(t *testing.T, bc build.Context) {
	t.Helper()

	for _, kind := range []string{build.StagingTarball, build.StagingDeb} {
		_, err := os.Stat(bc.StagingDir(kind))
		require.ErrorIs(t, err, fs.ErrNotExist, kind)
	}
}

// controlField returns the value of a single-line field of a control stanza.
func controlField(control, field string) string {
	for _, line := range strings.Split(control, "\n") {
		if value, ok := strings.CutPrefix(line, field+": "); ok {
			return value
		}
	}

	return ""
}
