package database

import (
	"log"

	"mobileopsconnect/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for all core models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.DeviceToken{},
		&model.Product{},
		&model.StockMovement{},
		&model.LeaveRequest{},
		&model.PurchaseOrder{},
		&model.AccountingEntry{},
		&model.AuditLog{},
		&model.SystemSettings{},
	)
}
