package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"employee-tracker/config"
	"employee-tracker/pkg/database"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "数据库迁移（仅 postgres）",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "应用所有未执行的迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrationDB(func(db *gorm.DB, logger *zap.Logger) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return database.RunMigrations(sqlDB, logger)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "回滚最近的迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackSteps <= 0 {
			return fmt.Errorf("--steps 必须大于 0")
		}
		return withMigrationDB(func(db *gorm.DB, logger *zap.Logger) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return database.RollbackMigrations(sqlDB, rollbackSteps, logger)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示当前迁移版本",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrationDB(func(db *gorm.DB, logger *zap.Logger) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			version, dirty, err := database.MigrationVersion(sqlDB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "回滚的迁移数")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

// withMigrationDB 打开 postgres 连接后执行 fn
func withMigrationDB(fn func(db *gorm.DB, logger *zap.Logger) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := requirePostgres(&cfg.Database); err != nil {
		return err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(db, logger)
}

func requirePostgres(cfg *config.DatabaseConfig) error {
	if cfg.Driver != "postgres" {
		return errors.New("migrate 子命令仅支持 postgres；sqlite 启动时自动建表")
	}
	return nil
}
