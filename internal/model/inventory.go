package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalMode enum constants for restock purchase orders raised from a lot
const (
	ApprovalModeAuto   = "auto"
	ApprovalModeManual = "manual"
)

// DefaultReorderThreshold applies when a lot was stored without one.
const DefaultReorderThreshold = 10

// InventoryLot is one batch of a drug held by a pharmacy. Lots are depleted to
// zero rather than hard-deleted. IsManual marks direct data entry; such lots
// are permanently exempt from auto-restock.
type InventoryLot struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy         Pharmacy   `gorm:"foreignKey:PharmacyID" json:"-"`
	DrugID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug             Drug       `gorm:"foreignKey:DrugID" json:"drug"`
	VendorID         *uuid.UUID `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	BatchNumber      string     `gorm:"type:varchar(100);not null" json:"batch_number"`
	ExpiryDate       time.Time  `gorm:"not null;index" json:"expiry_date"`
	StockLevel       int        `gorm:"not null;default:0" json:"stock_level"`
	ReorderThreshold int        `gorm:"not null;default:10" json:"reorder_threshold"`
	ReorderQuantity  int        `gorm:"default:0" json:"reorder_quantity"`
	IsManual         bool       `gorm:"default:false" json:"is_manual"`
	AutoRestock      bool       `gorm:"default:false" json:"auto_restock"`
	ApprovalMode     string     `gorm:"type:varchar(10);default:'manual'" json:"approval_mode"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
