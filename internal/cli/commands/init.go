package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yangaound/dbman/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter dbman.yaml",
		Long: `Write a starter dbman.yaml with example profiles into the current
directory. Refuses to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(config.ConfigFileName); err == nil {
				return fmt.Errorf("%s already exists", config.ConfigFileName)
			}

			starter := config.File{
				DefaultProfile: "dev",
				Profiles: map[string]config.Profile{
					"dev": {
						Driver:   "sqlite",
						Database: "./dev.db",
					},
					"staging": {
						Driver:   "postgres",
						Host:     "localhost",
						Port:     5432,
						User:     "app",
						Password: "${STAGING_DB_PASSWORD}",
						Database: "app",
					},
				},
			}

			data, err := yaml.Marshal(starter)
			if err != nil {
				return err
			}
			if err := os.WriteFile(config.ConfigFileName, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.ConfigFileName)
			return nil
		},
	}
}
