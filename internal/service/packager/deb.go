package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/docker/go-units"

	"github.com/nxtscape/linux-packager/internal/deb"
	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/manifest"
	"github.com/nxtscape/linux-packager/internal/staging"
)

const (
	debSection  = "web"
	debPriority = "optional"

	packageDirName = "package"
)

// iconSizes are the hicolor sizes installed by the .deb.
var iconSizes = []int{48, 64, 128, 256}

// BuildDeb writes the Debian package for bc into its dist directory
// using dpkg-deb, then checks the result is a well-formed .deb.
func (p *Packager) BuildDeb(ctx context.Context, bc build.Context) (*Artifact, error) {
	ctx = logger.WithName(ctx, "deb")

	logger.Info(ctx, "Creating DEB package")

	if !p.tools.HasDebTool() {
		logger.Warn(ctx, "dpkg-deb not found, cannot create DEB package")
		return nil, newError(KindToolInvocationFailure, FormatDeb, ErrDebToolMissing)
	}

	if err := checkBinary(ctx, bc, FormatDeb); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(bc.DistDir(), staging.DirMode); err != nil {
		return nil, newError(KindStagingFailure, FormatDeb, fmt.Errorf("create dist directory: %w", err))
	}

	stagingPath := bc.StagingDir(build.StagingDeb)
	defer removeStaging(ctx, stagingPath)

	packageDir, err := stageDeb(ctx, bc, stagingPath)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to stage package contents", "error", err)
		return nil, newError(KindStagingFailure, FormatDeb, err)
	}

	debPath := filepath.Join(bc.DistDir(), bc.DebName())

	logger.InfoKV(ctx, "Building DEB package", "name", bc.DebName())

	if err = p.runner.Run(ctx, ToolDpkgDeb, "--build", packageDir, debPath); err != nil {
		removePartial(ctx, debPath)
		logger.ErrorKV(ctx, "Failed to create DEB package", "error", err)

		return nil, newError(KindToolInvocationFailure, FormatDeb, err)
	}

	if err = verifyDeb(debPath, bc.PackageName()); err != nil {
		removePartial(ctx, debPath)
		logger.ErrorKV(ctx, "Built DEB package failed verification", "error", err)

		return nil, newError(KindToolInvocationFailure, FormatDeb, err)
	}

	artifact, err := artifactAt(FormatDeb, debPath)
	if err != nil {
		removePartial(ctx, debPath)
		return nil, newError(KindStagingFailure, FormatDeb, err)
	}

	logger.InfoKV(ctx, "DEB package created",
		"name", bc.DebName(),
		"size", units.HumanSize(float64(artifact.Size)),
	)

	return artifact, nil
}

// stageDeb lays out the package tree and returns its root.
func stageDeb(ctx context.Context, bc build.Context, stagingPath string) (string, error) {
	dir, err := staging.Create(stagingPath)
	if err != nil {
		return "", err
	}

	pkgName := bc.PackageName()

	debianDir, err := dir.MkdirAll(packageDirName, "DEBIAN")
	if err != nil {
		return "", err
	}

	binDir, err := dir.MkdirAll(packageDirName, "usr", "bin")
	if err != nil {
		return "", err
	}

	appDir, err := dir.MkdirAll(packageDirName, "usr", "share", pkgName)
	if err != nil {
		return "", err
	}

	applicationsDir, err := dir.MkdirAll(packageDirName, "usr", "share", "applications")
	if err != nil {
		return "", err
	}

	if err = copyAppFiles(ctx, bc, appDir); err != nil {
		return "", err
	}

	wrapper, err := manifest.WrapperScript(bc)
	if err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(binDir, pkgName), []byte(wrapper), staging.ExecMode); err != nil {
		return "", err
	}

	desktop, err := manifest.RenderDesktopEntry(manifest.SystemDesktopEntry(bc))
	if err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(applicationsDir, pkgName+".desktop"), []byte(desktop), staging.FileMode); err != nil {
		return "", err
	}

	if err = stageIcons(ctx, bc, dir); err != nil {
		return "", err
	}

	control, err := debControl(bc, appDir)
	if err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(debianDir, deb.FileControl), []byte(control.Render()), staging.FileMode); err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(debianDir, deb.FilePostinst), []byte(manifest.PostInst()), staging.ExecMode); err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(debianDir, deb.FilePostrm), []byte(manifest.PostRm()), staging.ExecMode); err != nil {
		return "", err
	}

	return dir.Join(packageDirName), nil
}

// stageIcons creates every hicolor directory and copies the product logos that exist.
func stageIcons(ctx context.Context, bc build.Context, dir *staging.Dir) error {
	for _, size := range iconSizes {
		sizeName := strconv.Itoa(size)

		iconDir, err := dir.MkdirAll(packageDirName, "usr", "share", "icons", "hicolor", sizeName+"x"+sizeName, "apps")
		if err != nil {
			return err
		}

		src := filepath.Join(bc.IconsDir(), "product_logo_"+sizeName+".png")

		copied, err := staging.CopyIfExists(src, filepath.Join(iconDir, bc.PackageName()+".png"))
		if err != nil {
			return err
		}

		if copied {
			logger.DebugKV(ctx, "Copied icon", "size", sizeName)
		}
	}

	return nil
}

func debControl(bc build.Context, appDir string) (*deb.Control, error) {
	installed, err := staging.TreeSize(appDir)
	if err != nil {
		return nil, fmt.Errorf("measure installed size: %w", err)
	}

	description, err := manifest.DebDescription(bc)
	if err != nil {
		return nil, err
	}

	return &deb.Control{
		Package:       bc.PackageName(),
		Version:       bc.Version,
		Section:       debSection,
		Priority:      debPriority,
		Architecture:  bc.DebianArch(),
		Depends:       bc.Depends,
		Maintainer:    bc.Maintainer,
		Description:   description,
		Homepage:      bc.Homepage,
		InstalledSize: deb.InstalledSizeKiB(installed),
	}, nil
}

// verifyDeb checks the ar layout of the built package and that its control
// stanza names the expected package.
func verifyDeb(path, pkgName string) error {
	info, err := deb.InspectFile(path)
	if err != nil {
		return err
	}

	if got := info.Control[string(deb.FieldPackage)]; got != pkgName {
		return fmt.Errorf("%w: package %q, want %q", errPackageMismatch, got, pkgName)
	}

	return nil
}
