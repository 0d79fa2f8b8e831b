package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nxtscape/linux-packager/internal/service/environment"
)

var osinfoCmd = &cobra.Command{
	Use:   "osinfo",
	Short: "Print the distribution, version and codename of this host.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := environment.ReadOSRelease(environment.DefaultOSReleasePath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Distribution: %s\n", info.Distribution)
		_, _ = fmt.Fprintf(out, "Version: %s\n", info.Version)
		_, _ = fmt.Fprintf(out, "Codename: %s\n", info.Codename)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(osinfoCmd)
}
