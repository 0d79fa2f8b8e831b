package environment

import (
	"context"
	"fmt"
	"os"

	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/service/common"
)

// packagingTools are installed with apt on Debian-family hosts.
var packagingTools = []string{"dpkg-dev", "fakeroot"}

// Installer installs packaging tools on the host.
type Installer struct {
	runner        common.Runner
	geteuid       func() int
	osReleasePath string
}

// InstallerOption customizes an Installer.
type InstallerOption func(*Installer)

// WithRunner sets the runner used for apt.
func WithRunner(r common.Runner) InstallerOption {
	return func(i *Installer) {
		i.runner = r
	}
}

// WithEUID overrides the effective user id lookup.
func WithEUID(geteuid func() int) InstallerOption {
	return func(i *Installer) {
		i.geteuid = geteuid
	}
}

// WithOSReleasePath overrides the os-release location.
func WithOSReleasePath(path string) InstallerOption {
	return func(i *Installer) {
		i.osReleasePath = path
	}
}

// NewInstaller returns an Installer using apt through os/exec.
func NewInstaller(opts ...InstallerOption) *Installer {
	i := &Installer{
		runner:        common.NewExecRunner(),
		geteuid:       os.Geteuid,
		osReleasePath: DefaultOSReleasePath,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Install installs dpkg-dev and fakeroot when running as root on Debian or Ubuntu.
// Anywhere else it only logs what it would need and returns nil.
func (i *Installer) Install(ctx context.Context) error {
	ctx = logger.WithName(ctx, "dependencies")

	logger.Info(ctx, "Checking system dependencies")

	if i.geteuid() != 0 {
		logger.Warn(ctx, "Not running as root, cannot install system dependencies")
		logger.Info(ctx, "Consider installing manually: dpkg-dev, appimagetool")

		return nil
	}

	info, err := ReadOSRelease(i.osReleasePath)
	if err != nil {
		logger.WarnKV(ctx, "Unable to read distribution info", "error", err)
	}

	if !info.IsDebianFamily() {
		logger.InfoKV(ctx, "Unsupported distribution for auto-install", "distribution", info.Distribution)
		return nil
	}

	if err = i.runner.Run(ctx, "apt", "update"); err != nil {
		logger.WarnKV(ctx, "Failed to install packaging tools", "error", err)
		return fmt.Errorf("apt update: %w", err)
	}

	args := append([]string{"install", "-y"}, packagingTools...)
	if err = i.runner.Run(ctx, "apt", args...); err != nil {
		logger.WarnKV(ctx, "Failed to install packaging tools", "error", err)
		return fmt.Errorf("apt install: %w", err)
	}

	logger.InfoKV(ctx, "Installed packaging tools", "distribution", info.Distribution, "tools", packagingTools)

	return nil
}
