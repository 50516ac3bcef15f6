package database

import (
	"log"

	"github.com/ajedamilola/pharmalink/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.OTPSession{},
		&model.Pharmacy{},
		&model.Vendor{},
		&model.Drug{},
		&model.InventoryLot{},
		&model.VendorProduct{},
		&model.MarketplaceListing{},
		&model.BuybackRequest{},
		&model.Order{},
		&model.PurchaseOrder{},
		&model.POSSale{},
		&model.Transaction{},
		&model.Document{},
		&model.Notification{},
		&model.Dispute{},
		&model.AuditLog{},
		&model.PlatformConfig{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
