package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/user-directory/config"
	pginfra "github.com/oksasatya/user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/user-directory/pkg/helpers"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := pginfra.MigrateUp(cfg.PostgresDSN(), helpers.NewLogger(cfg.AppName, cfg.Env)); err != nil {
				return fmt.Errorf("migrate up failed: %w", err)
			}
			cmd.Println("migrations applied")
			return nil
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			cfg := config.Load()
			if err := pginfra.MigrateDown(cfg.PostgresDSN(), steps, helpers.NewLogger(cfg.AppName, cfg.Env)); err != nil {
				return fmt.Errorf("migrate down failed: %w", err)
			}
			cmd.Printf("rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}
