package packager

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/domain/release"
	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/repository/report"
)

// writeReport records the artifacts of one context next to them in the dist directory.
func (p *Packager) writeReport(ctx context.Context, bc build.Context, artifacts []Artifact) error {
	rep := &release.Report{
		Product:      bc.ProductName,
		Version:      bc.Version,
		BaseVersion:  bc.BaseVersion,
		Architecture: bc.Architecture,
		BuiltAt:      p.now().UTC(),
	}

	actor, err := p.detectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to identify the build actor", "error", err)
	} else {
		rep.BuiltBy = actor
	}

	for _, a := range artifacts {
		checksum, err := fileChecksum(a.Path)
		if err != nil {
			return err
		}

		rep.Artifacts = append(rep.Artifacts, release.Artifact{
			Name:     filepath.Base(a.Path),
			Format:   string(a.Format),
			Size:     a.Size,
			Checksum: checksum,
		})
	}

	repo := report.NewFileRepository(filepath.Join(bc.DistDir(), bc.ReportName()))
	if err = repo.Save(ctx, rep); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Release report written", "path", repo.Path())

	return nil
}

// fileChecksum returns the base64-encoded SHA-512 of the file at path.
func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha512.New()
	if _, err = io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("hash artifact: %w", err)
	}

	return base64.StdEncoding.EncodeToString(hash.Sum(nil)), nil
}
