package cli

import (
	"imagehub/internal/repository"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database schema versions. Use subcommands 'up', 'down', or 'status'.`,
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Migrate the database to the most recent version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration((*repository.Repository).MigrateUp)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the database by one version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration((*repository.Repository).MigrateDown)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Dump the migration status for the current DB",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration((*repository.Repository).MigrationStatus)
		},
	}

	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
	migrateCmd.AddCommand(statusCmd)

	return migrateCmd
}

func runMigration(fn func(*repository.Repository) error) error {
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}
