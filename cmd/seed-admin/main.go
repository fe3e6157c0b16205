// seed-admin creates or updates the initial agent account. The account
// starts with MustChangePassword set, so the first login is forced
// through the change-password and profile steps before the dashboard
// opens.
//
// Usage:
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//   SEED_ADMIN_EMAIL=agent@majani.co.ke SEED_ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/models"
	"github.com/majanidev/insurance_backend/utils"
)

const (
	defaultAdminEmail    = "agent@majani.co.ke"
	defaultAdminPassword = "majani123"
	defaultAdminName     = "Majani Agent"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Email:              email,
			Name:               defaultAdminName,
			Password:           hashedStr,
			IsActive:           utils.NewTrue(),
			MustChangePassword: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create agent: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created agent: email=%q (must change password on first login)\n", email)
		return
	}

	// Reset password and re-arm the forced change for an existing account.
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(map[string]any{
		"password":             hashedStr,
		"is_active":            utils.NewTrue(),
		"must_change_password": utils.NewTrue(),
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update agent: %v\n", err)
		os.Exit(1)
	}
	_ = existing.RemoveInstanceRedis()
	fmt.Printf("Updated agent: email=%q (must change password on next login)\n", email)
}
