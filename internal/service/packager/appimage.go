package packager

import (
	"context"

	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/logger"
)

// BuildAppImage always fails: AppImage assembly is not supported yet.
// It does not touch the filesystem.
func (p *Packager) BuildAppImage(ctx context.Context, bc build.Context) (*Artifact, error) {
	ctx = logger.WithName(ctx, "appimage")

	logger.Info(ctx, "Creating AppImage package")
	logger.Warn(ctx, "AppImage creation is not yet fully implemented")
	logger.InfoKV(ctx, "Would require appimagetool and an AppDir layout", "app", bc.AppBaseName())

	return nil, newError(KindToolInvocationFailure, FormatAppImage, ErrAppImageUnsupported)
}
