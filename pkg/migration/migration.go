package migration

import (
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

const defaultSourceURL = "file://migrations"

func newMigrate(sourceURL string, dsn string) (*migrate.Migrate, error) {
	return migrate.New(sourceURL, "mysql://"+dsn)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func printVersion(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("Version: none")
		return
	}
	if err != nil {
		fmt.Println("[ERROR]", err)
		return
	}
	fmt.Println("Version:", version, "Dirty:", dirty)
}

// MigrateCommand returns the migrate command with up, down, force and version sub commands.
// Database and source drivers must be registered by the caller.
func MigrateCommand(dsn string) *cobra.Command {
	var sourceURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "migrate the MySQL schema",
	}
	cmd.PersistentFlags().StringVar(&sourceURL, "source", defaultSourceURL, "migration source url")

	up := &cobra.Command{
		Use:   "up",
		Short: "apply all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate(sourceURL, dsn)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Up()); err != nil {
				return err
			}
			printVersion(m)
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "roll back the given number of migrations, default 1",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid steps: %s", args[0])
				}
				steps = n
			}

			m, err := newMigrate(sourceURL, dsn)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Steps(-steps)); err != nil {
				return err
			}
			printVersion(m)
			return nil
		},
	}

	force := &cobra.Command{
		Use:   "force [version]",
		Short: "set the version without running migrations, clears the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			m, err := newMigrate(sourceURL, dsn)
			if err != nil {
				return err
			}
			if err := m.Force(version); err != nil {
				return err
			}
			printVersion(m)
			return nil
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "print the current version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate(sourceURL, dsn)
			if err != nil {
				return err
			}
			printVersion(m)
			return nil
		},
	}

	cmd.AddCommand(up, down, force, version)
	return cmd
}

// MigrateUpForTesting applies the migrations of the repository root, panics on failure
func MigrateUpForTesting(rootDir string, dsn string) {
	m, err := newMigrate("file://"+path.Join(rootDir, "migrations"), dsn)
	if err != nil {
		panic(err)
	}
	if err := ignoreNoChange(m.Up()); err != nil {
		panic(err)
	}
}
