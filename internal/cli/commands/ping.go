package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yangaound/dbman/pkg/dbman"
)

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	var (
		all     bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that a profile's database is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if all {
				return pingAll(ctx, cmd)
			}

			m, err := openManager(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			start := time.Now()
			if err := m.Ping(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ok (%s, %s)\n", m.Dialect().Name, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "ping every profile in the config")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connection timeout")
	return cmd
}

// pingAll checks every profile concurrently and prints one line per
// profile. It fails when any profile is unreachable.
func pingAll(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, _, verbose := rootFlags(cmd)
	logger := newLogger(verbose)

	var (
		mu      sync.Mutex
		results = make(map[string]string)
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range cfg.ProfileNames() {
		g.Go(func() error {
			p, err := cfg.Profile(name)
			if err != nil {
				return err
			}

			status := "ok"
			start := time.Now()
			m, err := dbman.OpenConfig(ctx, p.AdapterConfig(), dbman.WithLogger(logger))
			if err != nil {
				status = fmt.Sprintf("failed: %v", err)
			} else {
				_ = m.Close()
				status = fmt.Sprintf("ok (%s)", time.Since(start).Round(time.Millisecond))
			}

			mu.Lock()
			results[name] = status
			mu.Unlock()

			if err != nil {
				return fmt.Errorf("profile %q unreachable: %w", name, err)
			}
			return nil
		})
	}
	pingErr := g.Wait()

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, results[name])
	}
	return pingErr
}
