// Package commands implements the dbman subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yangaound/dbman/internal/config"
	"github.com/yangaound/dbman/pkg/dbman"
	"github.com/yangaound/dbman/pkg/table"
)

// rootFlags reads the persistent flags shared by every subcommand.
func rootFlags(cmd *cobra.Command) (configPath, profile string, verbose bool) {
	flags := cmd.Root().PersistentFlags()
	configPath, _ = flags.GetString("config")
	profile, _ = flags.GetString("profile")
	verbose, _ = flags.GetBool("verbose")
	return configPath, profile, verbose
}

// newLogger builds the CLI logger: debug text on stderr when verbose,
// warnings only otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openManager connects using the --config and --profile flags.
func openManager(cmd *cobra.Command) (*dbman.Manager, error) {
	_, _, verbose := rootFlags(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	// --profile was merged into default_profile by the loader.
	p, err := cfg.Profile("")
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return dbman.OpenConfig(cmd.Context(), p.AdapterConfig(),
		dbman.WithBatchSize(p.EffectiveBatchSize()),
		dbman.WithLogger(newLogger(verbose)))
}

// loadConfig reads the config file named by --config, applying flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	configPath, _, _ := rootFlags(cmd)
	return config.Load(configPath, cmd.Root().PersistentFlags())
}

// resolveFormat maps the --output flag to a table format. "auto" renders
// a pretty table on a terminal and CSV when piped.
func resolveFormat(cmd *cobra.Command) table.Format {
	out, _ := cmd.Root().PersistentFlags().GetString("output")
	switch out {
	case "", "auto":
		if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return table.FormatTable
		}
		return table.FormatCSV
	default:
		return table.Format(out)
	}
}

// readSQL resolves the statement to run: positional args, a --file flag,
// or stdin when neither is given.
func readSQL(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	sql := strings.TrimSpace(string(data))
	if sql == "" {
		return "", fmt.Errorf("no SQL given (pass it as an argument, --file or stdin)")
	}
	return sql, nil
}
