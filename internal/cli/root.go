// Package cli provides the command-line interface for dbman.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yangaound/dbman/internal/cli/commands"

	// Register the bundled database adapters.
	_ "github.com/yangaound/dbman/pkg/adapters/duckdb"
	_ "github.com/yangaound/dbman/pkg/adapters/mssql"
	_ "github.com/yangaound/dbman/pkg/adapters/mysql"
	_ "github.com/yangaound/dbman/pkg/adapters/postgres"
	_ "github.com/yangaound/dbman/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbman",
		Short: "dbman - one front door to your databases",
		Long: `dbman reads connection profiles from dbman.yaml and gives every
supported engine the same query and load interface: run SQL, inspect
tables, and bulk-load tabular data with insert, replace, upsert,
truncate or create semantics.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().String("config", "", "config file (default: discover dbman.yaml)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "connection profile to use")
	rootCmd.PersistentFlags().StringP("output", "o", "auto", "output format (auto|table|json|csv|md)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewExecCommand())
	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewPingCommand())
	rootCmd.AddCommand(commands.NewProfilesCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
