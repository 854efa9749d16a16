package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yangaound/dbman/pkg/dbman"
	"github.com/yangaound/dbman/pkg/sqlgen"
	"github.com/yangaound/dbman/pkg/table"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var (
		mode     string
		keys     []string
		batch    int
		noHeader bool
	)

	cmd := &cobra.Command{
		Use:   "load <table> [file.csv]",
		Short: "Bulk-load a CSV file into a table",
		Long: `Read CSV data from a file (or stdin) and write it into the named
table. The first CSV record is the header unless --no-header is set.

Write modes:
  insert     append the rows (default)
  replace    use the engine's replace form
  upsert     insert or update by key columns (requires --keys)
  truncate   empty the table first, then insert
  create     create the table from the data shape, then insert`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sqlgen.ParseMode(mode)
			if err != nil {
				return err
			}

			tbl, err := readCSV(cmd, args, noHeader)
			if err != nil {
				return err
			}

			mgr, err := openManager(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = mgr.Close() }()

			opts := []dbman.LoadOption{dbman.WithMode(m), dbman.WithKeys(keys...)}
			if batch > 0 {
				opts = append(opts, dbman.WithBatch(batch))
			}

			n, err := mgr.Load(cmd.Context(), args[0], tbl, opts...)
			if err != nil {
				return fmt.Errorf("loaded %d row(s), then: %w", n, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "insert", "write mode (insert|replace|upsert|truncate|create)")
	cmd.Flags().StringSliceVarP(&keys, "keys", "k", nil, "key columns for upsert mode")
	cmd.Flags().IntVar(&batch, "batch", 0, "rows per transaction (default from profile)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "treat the first CSV record as data")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"insert", "replace", "upsert", "truncate", "create"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// readCSV reads the CSV file named by the second argument, or stdin.
// Empty cells become NULL.
func readCSV(cmd *cobra.Command, args []string, noHeader bool) (*table.Table, error) {
	var in io.Reader = cmd.InOrStdin()
	if len(args) > 1 {
		f, err := os.Open(args[1])
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV input is empty")
	}

	var header []string
	if !noHeader {
		header = records[0]
		records = records[1:]
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, cell := range rec {
			if cell == "" {
				row[j] = nil
			} else {
				row[j] = cell
			}
		}
		rows[i] = row
	}
	return table.New(header, rows), nil
}
