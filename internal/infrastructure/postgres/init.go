package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/promise-case-service/internal/config"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.CaseConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.CaseDB.Dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	// SQL migrations own the schema when configured
	if cfg.CaseDB.MigrationsPath == "" {
		if err := AutoMigrate(db); err != nil {
			log.Fatalf("failed to migrate db: %v\n", err)
		}
	}

	return db
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
