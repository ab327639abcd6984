package database

import (
	"errors"
	"log"

	"mobileopsconnect/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed ensures the settings row and the five built-in accounts exist.
// Existing records are left untouched, so it is safe to run on every start.
func Seed(db *gorm.DB) error {
	// Settings: always row #1
	var settings model.SystemSettings
	if err := db.First(&settings, 1).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		settings = model.SystemSettings{ID: 1}
		if err := db.Create(&settings).Error; err != nil {
			return err
		}
	}

	accounts := []struct {
		Email string
		Role  string
	}{
		{"alpha@mobileops.com", model.RoleSuperAdmin},
		{"beta@mobileops.com", model.RoleSystemAdmin},
		{"charlie@mobileops.com", model.RoleDepartmentManager},
		{"delta@mobileops.com", model.RoleWarehouseStaff},
		{"echo@mobileops.com", model.RoleEmployee},
	}

	for _, a := range accounts {
		var existing model.User
		err := db.Where("email = ?", a.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := model.User{Email: a.Email, Password: string(hash), Role: a.Role}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("Seeded account %s (%s)", a.Email, a.Role)
	}

	return nil
}
