package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yangaound/dbman/pkg/table"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show a table's columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openManager(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			meta, err := m.TableMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows := make([][]any, len(meta.Columns))
			for i, col := range meta.Columns {
				nullable := "NO"
				if col.Nullable {
					nullable = "YES"
				}
				rows[i] = []any{col.Position, col.Name, col.Type, nullable}
			}
			result := table.New([]string{"position", "column", "type", "nullable"}, rows)
			if err := result.Render(cmd.OutOrStdout(), resolveFormat(cmd)); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s.%s: %d row(s)\n", meta.Schema, meta.Name, meta.RowCount)
			return nil
		},
	}
}
