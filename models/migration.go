package models

import (
	"github.com/majanidev/insurance_backend/config"
)

// Migrate creates/updates the schema for every model.
func Migrate() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&User{},
		&Client{},
		&AgentSettings{},
	)
}
