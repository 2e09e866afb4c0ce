package database

import (
	"log"

	"vms-backend/internal/config"
	"vms-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError makes unique-constraint violations surface as
	// gorm.ErrDuplicatedKey, which the ledger maps to its duplicate error.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established. Migration complete.")
}

// AutoMigrate is shared with the test suites, which run it against sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.UserRecord{},
		&models.Client{},
		&models.ClientRecord{},
		&models.AuditLog{},
	)
}
