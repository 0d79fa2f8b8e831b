package packager

import (
	"context"

	"github.com/nxtscape/linux-packager/internal/logger"
)

// Signer signs produced artifacts.
type Signer interface {
	Sign(ctx context.Context, artifacts []Artifact) error
}

// stubSigner logs what it would do. Debian, RPM and AppImage each sign
// differently and none is wired yet.
type stubSigner struct {
	certificate string
}

// Sign implements Signer.
func (s *stubSigner) Sign(ctx context.Context, artifacts []Artifact) error {
	ctx = logger.WithName(ctx, "sign")

	logger.InfoKV(ctx, "Signing Linux packages", "count", len(artifacts))

	if s.certificate == "" {
		logger.Warn(ctx, "No certificate specified, skipping package signing")
		return nil
	}

	logger.WarnKV(ctx, "Linux package signing is not yet implemented", "certificate", s.certificate)
	logger.Info(ctx, "Different Linux package managers use different signing mechanisms")

	return nil
}
