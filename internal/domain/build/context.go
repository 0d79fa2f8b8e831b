package build

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nxtscape/linux-packager/internal/config"
)

const (
	// Platform is the platform suffix of tarball names.
	Platform = "linux"

	// BinaryName is the file name of the browser executable in the build output.
	BinaryName = "chrome"

	// StagingTarball is the staging directory name used by the tarball builder.
	StagingTarball = "linux_package"
	// StagingDeb is the staging directory name used by the deb builder.
	StagingDeb = "deb_package"
)

// Context is an immutable description of one build to package.
// Copy it freely; slices are cloned on construction.
type Context struct {
	// SourceDir is the root of the browser source checkout.
	SourceDir string
	// OutDir is the build output directory relative to SourceDir.
	OutDir string
	// RootDir is the packaging project root.
	RootDir string
	// Architecture is the internal architecture tag (x64, arm64).
	Architecture string
	// Version is the product version.
	Version string
	// BaseVersion is the upstream browser version.
	BaseVersion string
	// ProductName is the user-facing product name.
	ProductName string
	// Maintainer is the Debian maintainer field.
	Maintainer string
	// Homepage is the Debian homepage field.
	Homepage string
	// Depends is the Debian dependency list.
	Depends []string
	// EssentialFiles are optional resources copied next to the binary.
	EssentialFiles []string
}

// NewContexts returns one Context per configured architecture.
// cfg must have been validated.
func NewContexts(cfg *config.Config) []Context {
	contexts := make([]Context, 0, len(cfg.Architectures))

	for _, arch := range cfg.Architectures {
		contexts = append(contexts, Context{
			SourceDir:      cfg.SourceDir,
			OutDir:         cfg.OutDirFor(arch),
			RootDir:        cfg.RootDir,
			Architecture:   arch,
			Version:        cfg.Version,
			BaseVersion:    cfg.BaseVersion,
			ProductName:    cfg.ProductName,
			Maintainer:     cfg.Maintainer,
			Homepage:       cfg.Homepage,
			Depends:        slices.Clone(cfg.Depends),
			EssentialFiles: slices.Clone(cfg.EssentialFiles),
		})
	}

	return contexts
}

// AppBaseName is the product name used for archive roots and artifact names.
func (c Context) AppBaseName() string {
	return c.ProductName
}

// DisplayName is the name shown in desktop menus for the portable tarball.
func (c Context) DisplayName() string {
	return c.ProductName + " Browser"
}

// LauncherName is the lower-cased product name used for the launch script.
func (c Context) LauncherName() string {
	return strings.ToLower(c.ProductName)
}

// PackageName is the Debian package name: lower case, spaces replaced by dashes.
func (c Context) PackageName() string {
	return strings.ReplaceAll(strings.ToLower(c.ProductName), " ", "-")
}

// DebianArch returns the Debian architecture of the build.
func (c Context) DebianArch() string {
	return DebianArch(c.Architecture)
}

// BuildOutputDir is the directory holding the built binary and resources.
func (c Context) BuildOutputDir() string {
	return filepath.Join(c.SourceDir, c.OutDir)
}

// BinaryPath is the path of the built browser executable.
func (c Context) BinaryPath() string {
	return filepath.Join(c.BuildOutputDir(), BinaryName)
}

// DistDir is where artifacts are written.
func (c Context) DistDir() string {
	return filepath.Join(c.RootDir, "dist")
}

// TmpDir is the parent of all staging directories.
func (c Context) TmpDir() string {
	return filepath.Join(c.RootDir, "tmp")
}

// StagingDir returns the staging directory for kind (StagingTarball or StagingDeb).
func (c Context) StagingDir(kind string) string {
	return filepath.Join(c.TmpDir(), kind)
}

// IconsDir holds product_logo_<size>.png files for the Debian package.
func (c Context) IconsDir() string {
	return filepath.Join(c.RootDir, "resources", "icons", "linux")
}

// TarballName returns {product}_{version}_{arch}_linux.tar.gz.
func (c Context) TarballName() string {
	return fmt.Sprintf("%s_%s_%s_%s.tar.gz", c.AppBaseName(), c.Version, c.Architecture, Platform)
}

// DebName returns the Debian standard file name {name}_{version}_{debarch}.deb.
func (c Context) DebName() string {
	return fmt.Sprintf("%s_%s_%s.deb", c.PackageName(), c.Version, c.DebianArch())
}

// ReportName returns the file name of the release report for this build.
func (c Context) ReportName() string {
	return fmt.Sprintf("%s_%s_%s_%s.yaml", c.AppBaseName(), c.Version, c.Architecture, Platform)
}
