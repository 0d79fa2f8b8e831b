package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nxtscape/linux-packager/internal/config"
	"github.com/nxtscape/linux-packager/internal/service/packager"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// architectures overrides the configured architecture list.
	architectures []string
	// certificate overrides the configured signing certificate.
	certificate string

	packageCmd = &cobra.Command{
		Use:   "package",
		Short: "Build the tarball, AppImage and Debian packages.",
		Long: `Packages the browser build for every configured architecture.

The tarball is required; a missing binary or staging error fails the run.
The AppImage and .deb steps only run when appimagetool and dpkg-deb are installed,
and their failures are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := config.Read(configPath)
			if err != nil {
				return err
			}

			if len(architectures) > 0 {
				cfg.Architectures = architectures
			}

			if certificate != "" {
				cfg.Certificate = certificate
			}

			return packager.Run(ctx, &packager.Options{Config: cfg})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	packageCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	packageCmd.Flags().
		StringArrayVar(&architectures, "arch", nil, "architecture to package (x64, arm64); repeatable")
	packageCmd.Flags().StringVar(&certificate, "certificate", "", "path to the signing certificate")

	rootCmd.AddCommand(packageCmd)
}
