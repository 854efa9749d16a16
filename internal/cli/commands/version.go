package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yangaound/dbman/pkg/adapter"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dbman v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Adapters: %v\n", adapter.ListAdapters())
		},
	}
}
