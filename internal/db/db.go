package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinica-otica/internal/config"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

// NewDB opens the pool and migrates every table the service owns.
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if !cfg.IsProduction() && cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger: gormlogger.New(
			zap.NewStdLog(log.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Branch{},
		&models.Doctor{},
		&models.User{},
		&models.ScheduleConfig{},
		&models.AvailableDate{},
		&models.Appointment{},
		&models.ExpenseCategory{},
		&models.SupplierType{},
		&models.Supplier{},
		&models.FixedExpense{},
		&models.DiverseExpense{},
		&models.Instrument{},
		&models.ServiceOrderCost{},
		&models.RevenueEntry{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Rows written before the status column had a default.
	if err := db.Exec(`
        UPDATE agendamentos
        SET status = 'pending'
        WHERE status IS NULL OR status = ''
    `).Error; err != nil {
		return fmt.Errorf("backfill appointment status: %w", err)
	}
	return nil
}
