package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"irrigation-planner/internal/config"
	"irrigation-planner/internal/model"
)

// New opens the durable store and runs migrations. With DB_DSN set the
// service talks to postgres; otherwise it keeps a local sqlite file, which is
// the default single-farmer deployment.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DB.DSN != "" {
		dialector = postgres.Open(cfg.DB.DSN)
		log.Info().Msg("using postgres storage")
	} else {
		dialector = sqlite.Open(cfg.DB.SQLitePath)
		log.Info().Str("path", cfg.DB.SQLitePath).Msg("using local sqlite storage")
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}
	return database, nil
}

// Migrate creates or updates the schema. AutoMigrate keeps the DDL portable
// between the sqlite and postgres dialects.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&model.FarmRecord{},
		&model.IrrigationPlan{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
