package packager

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/multierr"

	"github.com/nxtscape/linux-packager/internal/config"
	"github.com/nxtscape/linux-packager/internal/domain/build"
	"github.com/nxtscape/linux-packager/internal/logger"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// Config holds the build and package settings. It is validated by Run.
	Config *config.Config
}

// StepStatus is the outcome of one packaging step.
type StepStatus string

const (
	// StepSucceeded means the artifact was written.
	StepSucceeded StepStatus = "succeeded"
	// StepFailed means the step ran and failed.
	StepFailed StepStatus = "failed"
	// StepSkipped means the step's tool is not installed.
	StepSkipped StepStatus = "skipped"
)

// Step records what happened to one format.
type Step struct {
	Format Format
	Status StepStatus
	Err    error
}

// Result is the outcome of packaging one build context.
type Result struct {
	Context build.Context
	// Success mirrors the tarball step; the other formats are optional.
	Success   bool
	Steps     []Step
	Artifacts []Artifact
	// Err is the tarball failure, if any.
	Err error
}

// Step returns the outcome recorded for format.
func (r *Result) Step(format Format) (Step, bool) {
	for _, s := range r.Steps {
		if s.Format == format {
			return s, true
		}
	}

	return Step{}, false
}

func (r *Result) record(format Format, artifact *Artifact, err error) {
	step := Step{Format: format, Status: StepSucceeded, Err: err}
	if err != nil {
		step.Status = StepFailed
	} else {
		r.Artifacts = append(r.Artifacts, *artifact)
	}

	r.Steps = append(r.Steps, step)
}

func (r *Result) skip(format Format) {
	r.Steps = append(r.Steps, Step{Format: format, Status: StepSkipped})
}

// Run packages every architecture in opts.Config.
func Run(ctx context.Context, opts *Options, packagerOpts ...Option) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "linux-packager")

	var cfg *config.Config
	if opts != nil {
		cfg = opts.Config
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	contexts := build.NewContexts(cfg)

	p := New(append([]Option{WithCertificate(cfg.Certificate)}, packagerOpts...)...)

	marker, err := acquireRunMarker(ctx, contexts[0].TmpDir())
	if err != nil {
		return fmt.Errorf("acquire run marker: %w", err)
	}
	defer marker.release(ctx)

	results, err := p.PackageAll(ctx, contexts)

	var artifacts []Artifact
	for _, res := range results {
		artifacts = append(artifacts, res.Artifacts...)
	}

	if len(artifacts) > 0 {
		if signErr := p.signer.Sign(ctx, artifacts); signErr != nil {
			logger.WarnKV(ctx, "Failed to sign packages", "error", signErr)
		}
	}

	if err != nil {
		return fmt.Errorf("packaging failed: %w", err)
	}

	logger.InfoKV(ctx, "Packaging completed successfully", "artifacts", len(artifacts))

	return nil
}

// PackageAll packages each context on its own and joins the tarball failures.
func (p *Packager) PackageAll(ctx context.Context, contexts []build.Context) ([]*Result, error) {
	if len(contexts) > 1 {
		logger.Warn(ctx, "Universal Linux binaries are not supported, packaging each architecture separately")
	}

	var (
		results = make([]*Result, 0, len(contexts))
		errs    error
	)

	for _, bc := range contexts {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}

		res := p.Package(ctx, bc)
		results = append(results, res)

		if !res.Success {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", bc.Architecture, res.Err))
		}
	}

	return results, errs
}

// Package builds the tarball, then the AppImage and .deb when their tools
// are installed. Only the tarball decides Success; a failed tarball does not
// stop the optional steps.
func (p *Packager) Package(ctx context.Context, bc build.Context) *Result {
	ctx = logger.WithKV(ctx, "arch", bc.Architecture)

	logger.InfoKV(ctx, "Creating Linux packages", "product", bc.ProductName, "version", bc.Version)

	if runtime.GOOS != build.Platform {
		logger.Warn(ctx, "Linux packaging should be run on Linux for best results")
	}

	res := &Result{Context: bc}

	tarball, err := p.BuildTarball(ctx, bc)
	res.record(FormatTarball, tarball, err)

	if err != nil {
		logger.ErrorKV(ctx, "Failed to create tarball", "error", err)
		res.Err = err
	} else {
		res.Success = true
	}

	if p.tools.HasAppImageTool() {
		artifact, appErr := p.BuildAppImage(ctx, bc)
		res.record(FormatAppImage, artifact, appErr)

		if appErr != nil {
			logger.WarnKV(ctx, "Failed to create AppImage (optional)", "error", appErr)
		}
	} else {
		logger.Info(ctx, "AppImage tools not available, skipping AppImage creation")
		res.skip(FormatAppImage)
	}

	if p.tools.HasDebTool() {
		artifact, debErr := p.BuildDeb(ctx, bc)
		res.record(FormatDeb, artifact, debErr)

		if debErr != nil {
			logger.WarnKV(ctx, "Failed to create DEB package (optional)", "error", debErr)
		}
	} else {
		logger.Info(ctx, "dpkg-deb not available, skipping DEB creation")
		res.skip(FormatDeb)
	}

	if len(res.Artifacts) > 0 {
		if err = p.writeReport(ctx, bc, res.Artifacts); err != nil {
			logger.WarnKV(ctx, "Failed to write release report", "error", err)
		}
	}

	logger.InfoKV(ctx, "Linux packaging finished", "artifacts", len(res.Artifacts))

	return res
}
