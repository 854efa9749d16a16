package commands

import (
	"github.com/spf13/cobra"

	"github.com/yangaound/dbman/pkg/table"
)

// NewProfilesCommand creates the profiles command.
func NewProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the connection profiles in the config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var rows [][]any
			for _, name := range cfg.ProfileNames() {
				p := cfg.Profiles[name]

				target := p.Database
				if p.Host != "" {
					target = p.Host + "/" + p.Database
				}
				if p.DSN != "" {
					target = "(dsn)"
				}

				isDefault := ""
				if name == cfg.DefaultProfile {
					isDefault = "*"
				}
				rows = append(rows, []any{name, p.Driver, target, isDefault})
			}

			result := table.New([]string{"profile", "driver", "target", "default"}, rows)
			return result.Render(cmd.OutOrStdout(), resolveFormat(cmd))
		},
	}
}
