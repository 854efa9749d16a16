package commands

import (
	"github.com/spf13/cobra"

	"github.com/yangaound/dbman/pkg/table"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the connected schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := openManager(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			names, err := m.TableNames(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]any, len(names))
			for i, name := range names {
				rows[i] = []any{name}
			}
			result := table.New([]string{"table_name"}, rows)
			return result.Render(cmd.OutOrStdout(), resolveFormat(cmd))
		},
	}
}
