package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/go-units"

	"github.com/nxtscape/linux-packager/internal/archive"
	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/manifest"
	"github.com/nxtscape/linux-packager/internal/staging"
)

const readmeFilename = "README.txt"

// BuildTarball writes the portable tarball for bc into its dist directory.
// The archive holds a single top-level directory named after the product.
func (p *Packager) BuildTarball(ctx context.Context, bc build.Context) (*Artifact, error) {
	ctx = logger.WithName(ctx, "tarball")

	logger.Info(ctx, "Creating tarball package")

	if err := checkBinary(ctx, bc, FormatTarball); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(bc.DistDir(), staging.DirMode); err != nil {
		return nil, newError(KindStagingFailure, FormatTarball, fmt.Errorf("create dist directory: %w", err))
	}

	stagingPath := bc.StagingDir(build.StagingTarball)
	defer removeStaging(ctx, stagingPath)

	appDir, err := stageTarball(ctx, bc, stagingPath)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to stage tarball contents", "error", err)
		return nil, newError(KindStagingFailure, FormatTarball, err)
	}

	tarballPath := filepath.Join(bc.DistDir(), bc.TarballName())

	logger.InfoKV(ctx, "Creating tarball", "name", bc.TarballName())

	if err = archive.WriteTarGz(tarballPath, appDir, bc.AppBaseName()); err != nil {
		logger.ErrorKV(ctx, "Failed to create tarball", "error", err)
		return nil, newError(KindStagingFailure, FormatTarball, err)
	}

	artifact, err := artifactAt(FormatTarball, tarballPath)
	if err != nil {
		removePartial(ctx, tarballPath)
		return nil, newError(KindStagingFailure, FormatTarball, err)
	}

	logger.InfoKV(ctx, "Tarball created",
		"name", bc.TarballName(),
		"size", units.HumanSize(float64(artifact.Size)),
	)

	return artifact, nil
}

// stageTarball lays out the application directory and returns its path.
func stageTarball(ctx context.Context, bc build.Context, stagingPath string) (string, error) {
	dir, err := staging.Create(stagingPath)
	if err != nil {
		return "", err
	}

	appDir, err := dir.MkdirAll(bc.AppBaseName())
	if err != nil {
		return "", err
	}

	if err = copyAppFiles(ctx, bc, appDir); err != nil {
		return "", err
	}

	launch, err := manifest.LaunchScript(bc)
	if err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(appDir, bc.LauncherName()), []byte(launch), staging.ExecMode); err != nil {
		return "", err
	}

	desktop, err := manifest.RenderDesktopEntry(manifest.PortableDesktopEntry(bc))
	if err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(appDir, bc.LauncherName()+".desktop"), []byte(desktop), staging.FileMode); err != nil {
		return "", err
	}

	readme, err := manifest.Readme(bc)
	if err != nil {
		return "", err
	}

	if err = staging.WriteFile(filepath.Join(appDir, readmeFilename), []byte(readme), staging.FileMode); err != nil {
		return "", err
	}

	return appDir, nil
}
