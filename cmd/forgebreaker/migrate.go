package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/storage"
)

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	run := func(fn func(mm *storage.MigrationManager) error) error {
		mm, err := storage.NewMigrationManager(a.cfg.Database.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := mm.Close(); err != nil {
				a.logger.Warn("Error closing migration manager", zap.Error(err))
			}
		}()
		return fn(mm)
	}

	report := func(cmd *cobra.Command, mm *storage.MigrationManager) error {
		version, dirty, err := mm.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(func(mm *storage.MigrationManager) error {
					if err := mm.Up(); err != nil {
						return err
					}
					return report(cmd, mm)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(func(mm *storage.MigrationManager) error { return mm.Down() })
			},
		},
		&cobra.Command{
			Use:   "steps N",
			Short: "Apply N migrations, or roll back when N is negative",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q: %w", args[0], err)
				}
				return run(func(mm *storage.MigrationManager) error {
					if err := mm.Steps(n); err != nil {
						return err
					}
					return report(cmd, mm)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(func(mm *storage.MigrationManager) error { return report(cmd, mm) })
			},
		},
	)
	return cmd
}
