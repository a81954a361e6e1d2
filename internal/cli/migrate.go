package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	cmd.PersistentFlags().StringVar(&source, "source", "file://db/migrations", "migration source URL")

	run := func(fn func(m *migrate.Migrate, w io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			m, err := migrate.New(source, cfg.DB.DSN())
			if err != nil {
				return fmt.Errorf("creating migrate instance: %w", err)
			}
			defer m.Close()
			return fn(m, cmd.OutOrStdout())
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(m *migrate.Migrate, w io.Writer) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration up failed: %w", err)
			}
			fmt.Fprintln(w, "migrations applied successfully")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(m *migrate.Migrate, w io.Writer) error {
			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration down failed: %w", err)
			}
			fmt.Fprintln(w, "migrations reverted successfully")
			return nil
		}),
	})

	steps := &cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations (negative N reverts)",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid steps argument %q: %w", args[0], err)
			}
			return nil
		},
	}
	steps.RunE = func(cmd *cobra.Command, args []string) error {
		n, _ := strconv.Atoi(args[0])
		return run(func(m *migrate.Migrate, w io.Writer) error {
			if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration steps failed: %w", err)
			}
			fmt.Fprintf(w, "applied %d migration steps\n", n)
			return nil
		})(cmd, args)
	}
	cmd.AddCommand(steps)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: run(func(m *migrate.Migrate, w io.Writer) error {
			version, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Fprintf(w, "version: %d, dirty: %v\n", version, dirty)
			return nil
		}),
	})

	return cmd
}
