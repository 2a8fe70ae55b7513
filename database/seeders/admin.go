package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/config"
	"github.com/roadassist/roadassist/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the initial admin account if none exists. The
// password comes from ADMIN_PASSWORD and must be changed after first
// login.
func SeedAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil // an admin already exists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	admin := models.User{
		Username: config.Get("ADMIN_USERNAME", "admin"),
		Password: hash,
		Role:     models.RoleAdmin,
		Name:     "Administrator",
	}
	return db.Create(&admin).Error
}
