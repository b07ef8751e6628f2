package db

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"instrument-inventory/logger"
	"instrument-inventory/models"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := Migrate(conn); err != nil {
		logger.Fatal("failed to migrate models", zap.Error(err))
	}
	logger.Info("database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Instrument{},
		&models.BorrowRequest{},
		&models.MaintenanceLog{},
		&models.CalibrationLog{},
		&models.ConditionReport{},
		&models.ActivityLog{},
	); err != nil {
		return err
	}

	// Capacity checks sum active quantities per instrument on every
	// submit/approve; keep that lookup off a full scan.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_by_instrument
	  ON %s (instrument_id)
	  WHERE status IN ('approved', 'overdue');
	`, models.BorrowRequestTable, models.BorrowRequestTable)).Error; err != nil {
		return err
	}

	// Activity feed is always read newest-first.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_created_desc
	  ON %s (created_at DESC);
	`, models.ActivityLogTable, models.ActivityLogTable)).Error; err != nil {
		return err
	}

	return nil
}
