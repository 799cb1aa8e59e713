package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbpkg "github.com/BruksfildServices01/clinica-otica/internal/db"
	"github.com/BruksfildServices01/clinica-otica/internal/logger"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			log, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			// NewDB migrates on open.
			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}

			log.Info("migrations executed successfully", zap.String("env", cfg.Env))
			return nil
		},
	}
}
