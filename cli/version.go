package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/startrelay/startrelay/pkg/version"
)

// VersionCmd creates the version command.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "startrelay %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.CommitHash)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.BuildDate)
			return nil
		},
	}
}
