package commands

import (
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "query [sql]",
		Short: "Run a query and print the result",
		Long: `Run a SQL query against the selected profile and print the result
in the chosen output format. The SQL comes from the argument, --file,
or stdin.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(cmd, args, file)
			if err != nil {
				return err
			}

			m, err := openManager(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			result, err := m.Query(cmd.Context(), sql)
			if err != nil {
				return err
			}
			return result.Render(cmd.OutOrStdout(), resolveFormat(cmd))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the SQL from a file")
	return cmd
}
