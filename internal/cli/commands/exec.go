package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "exec [sql]",
		Short: "Run a statement that returns no rows",
		Long: `Run a DML or DDL statement against the selected profile and report
the affected row count.`,
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

			n, err := m.Exec(cmd.Context(), sql)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the SQL from a file")
	return cmd
}
