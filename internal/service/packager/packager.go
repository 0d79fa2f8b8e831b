package packager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/domain/release"
	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/service/common"
	"github.com/nxtscape/linux-packager/internal/staging"
)

// Format is a package format.
type Format string

const (
	// FormatTarball is the portable gzip tarball.
	FormatTarball Format = "tar.gz"
	// FormatAppImage is the AppImage bundle.
	FormatAppImage Format = "appimage"
	// FormatDeb is the Debian binary package.
	FormatDeb Format = "deb"
)

// resourceDirs are copied recursively next to the binary when present.
var resourceDirs = []string{"locales", "swiftshader"}

// Artifact is a package file written to the dist directory.
type Artifact struct {
	Format Format
	Path   string
	Size   int64
}

// Packager builds packages for build contexts.
type Packager struct {
	tools       *ToolFinder
	runner      common.Runner
	signer      Signer
	now         func() time.Time
	detectActor func() (*release.Actor, error)
}

// Option customizes a Packager.
type Option func(*Packager)

// WithLookPath sets the function used to find packaging tools.
func WithLookPath(lookPath common.LookPathFunc) Option {
	return func(p *Packager) {
		p.tools = NewToolFinder(lookPath)
	}
}

// WithRunner sets the runner used for external tools.
func WithRunner(r common.Runner) Option {
	return func(p *Packager) {
		p.runner = r
	}
}

// WithCertificate configures the signing certificate.
func WithCertificate(path string) Option {
	return func(p *Packager) {
		p.signer = &stubSigner{certificate: path}
	}
}

// WithClock sets the time source of release reports.
func WithClock(now func() time.Time) Option {
	return func(p *Packager) {
		p.now = now
	}
}

// WithActorDetector sets how the release report learns who built it.
func WithActorDetector(detect func() (*release.Actor, error)) Option {
	return func(p *Packager) {
		p.detectActor = detect
	}
}

// New returns a Packager that uses the real search path and os/exec.
func New(opts ...Option) *Packager {
	p := &Packager{
		tools:       NewToolFinder(nil),
		runner:      common.NewExecRunner(),
		signer:      &stubSigner{},
		now:         time.Now,
		detectActor: common.DetectActor,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// checkBinary fails with KindMissingBinary when the browser binary is absent.
func checkBinary(ctx context.Context, bc build.Context, format Format) error {
	binary := bc.BinaryPath()

	info, err := os.Stat(binary)
	if err == nil && !info.IsDir() {
		return nil
	}

	if err == nil {
		err = fmt.Errorf("%s is a directory: %w", binary, fs.ErrNotExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("stat %s: %w", binary, err)
	}

	logger.ErrorKV(ctx, "Chrome binary not found", "path", binary)

	return newError(KindMissingBinary, format, err)
}

// copyAppFiles copies the binary, the essential files and the resource
// directories from the build output into dst.
func copyAppFiles(ctx context.Context, bc build.Context, dst string) error {
	logger.Info(ctx, "Copying application files")

	if err := staging.CopyFile(bc.BinaryPath(), filepath.Join(dst, build.BinaryName)); err != nil {
		return err
	}

	for _, name := range bc.EssentialFiles {
		copied, err := staging.CopyIfExists(filepath.Join(bc.BuildOutputDir(), name), filepath.Join(dst, name))
		if err != nil {
			return err
		}

		if copied {
			logger.InfoKV(ctx, "Copied", "file", name)
		}
	}

	for _, name := range resourceDirs {
		copied, err := staging.CopyTreeIfExists(filepath.Join(bc.BuildOutputDir(), name), filepath.Join(dst, name))
		if err != nil {
			return err
		}

		if copied {
			logger.InfoKV(ctx, "Copied", "directory", name+"/")
		}
	}

	return nil
}

// removeStaging deletes a staging tree; failures are logged, not returned.
func removeStaging(ctx context.Context, path string) {
	if err := staging.Remove(path); err != nil {
		logger.WarnKV(ctx, "Failed to remove staging directory", "path", path, "error", err)
	}
}

// removePartial deletes an artifact left behind by a failed step.
func removePartial(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WarnKV(ctx, "Failed to remove partial artifact", "path", path, "error", err)
	}
}

// artifactAt stats path and describes it as an artifact.
func artifactAt(format Format, path string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	return &Artifact{Format: format, Path: path, Size: info.Size()}, nil
}
