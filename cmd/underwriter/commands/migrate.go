package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/underwriter/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 마이그레이션",
	Long: `견적 저장소 스키마를 마이그레이션합니다 (golang-migrate).

Example:
  go run ./cmd/underwriter migrate up
  go run ./cmd/underwriter migrate down --steps 1
  go run ./cmd/underwriter migrate version`,
}

var (
	migrateSteps int

	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "모든 마이그레이션 적용",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.Migrate(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				return err
			}
			log.WithField("source", cfg.Database.MigrationsPath).Info("Migrations applied")
			return nil
		},
	}

	migrateDownCmd = &cobra.Command{
		Use:   "down",
		Short: "마이그레이션 되돌리기",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cfg.Database.URL, cfg.Database.MigrationsPath, migrateSteps); err != nil {
				return err
			}
			log.WithField("steps", migrateSteps).Info("Migrations rolled back")
			return nil
		},
	}

	migrateVersionCmd = &cobra.Command{
		Use:   "version",
		Short: "현재 스키마 버전",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			version, dirty, err := database.MigrationVersion(cfg.Database.URL, cfg.Database.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
}
