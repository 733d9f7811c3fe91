package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"student-admin-backend/internal/config"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/model"
)

// DefaultGenders seeds the genders table on first start.
var DefaultGenders = []string{"Male", "Female", "Other"}

func InitDB(cfg config.Database, env string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
	}

	logMode := gormlogger.Warn
	if env == "dev" {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(logMode)})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info().Str("driver", cfg.Driver).Msg("Database ready")
	return db, nil
}

// Migrate creates the tables and seeds reference data.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Gender{}, &model.Student{}, &model.Address{}, &model.UploadedFile{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return SeedGenders(db)
}

func SeedGenders(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Gender{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count genders: %w", err)
	}
	if count > 0 {
		return nil
	}

	genders := make([]model.Gender, 0, len(DefaultGenders))
	for _, d := range DefaultGenders {
		genders = append(genders, model.Gender{Description: d})
	}
	if err := db.Create(&genders).Error; err != nil {
		return fmt.Errorf("seed genders: %w", err)
	}
	logger.Info().Int("count", len(genders)).Msg("Seeded genders")
	return nil
}
