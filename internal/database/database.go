package database

import (
	"fmt"
	"log"

	"enough/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs migrations against the given handle; tests pass an in-memory
// sqlite database here.
func Migrate(db *gorm.DB) error {
	// Core account models first
	coreModels := []interface{}{
		&models.User{},
		&models.Referral{},
		&models.PointEvent{},
	}

	for _, model := range coreModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Domain models
	domainModels := []interface{}{
		&models.Entry{},
		&models.Goal{},
		&models.Preset{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.DailyTask{},
	}

	for _, model := range domainModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
