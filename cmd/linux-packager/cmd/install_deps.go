package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nxtscape/linux-packager/internal/service/environment"
)

var installDepsCmd = &cobra.Command{
	Use:   "install-deps",
	Short: "Install dpkg-dev and fakeroot with apt (Debian and Ubuntu, root only).",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return environment.NewInstaller().Install(ctx)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(installDepsCmd)
}
