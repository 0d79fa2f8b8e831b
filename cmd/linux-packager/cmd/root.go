package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/version"
)

var (
	// logLevel is the minimum level written to the console.
	logLevel string

	// rootCmd is the base command; the work happens in its subcommands.
	rootCmd = &cobra.Command{
		Use:   "linux-packager",
		Short: "Package a built Chromium-based browser for Linux.",
		Long: `Turns a compiled browser build tree into Linux distributables:
a portable tar.gz (always), an AppImage and a Debian package when their tools are installed.

Artifacts are written to <root>/dist, staging happens under <root>/tmp.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

// Execute runs the linux-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}
