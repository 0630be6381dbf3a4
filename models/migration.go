package models

import (
	"log"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
	"gorm.io/gorm"
)

func MigrateTable() {
	if err := AutoMigrate(config.GetDB()); err != nil {
		log.Fatal(err)
	}
}

// AutoMigrate migrates the three collections onto db. Split out from
// MigrateTable so tests can migrate an in-memory store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Person{},
		&Application{},
		&Approval{},
	)
}
