package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Event{},
		&models.CustomFormField{},
		&models.Registration{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Seat accounting counts by (event_id, status) on every intake.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registrations_event_status
		ON registrations (event_id, status)
	`).Error; err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
