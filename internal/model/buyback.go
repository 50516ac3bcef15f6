package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuybackStatus enum constants. Requests only move forward; completed and
// declined are terminal.
const (
	BuybackPending       = "pending"
	BuybackAdminApproved = "admin_approved"
	BuybackVendorMatched = "vendor_matched"
	BuybackCompleted     = "completed"
	BuybackDeclined      = "declined"
)

// ListingStatus enum constants
const (
	ListingActive = "active"
	ListingSold   = "sold"
)

// BuybackRequest is a pharmacy's offer to sell near-expiry stock back into
// the marketplace. Prices are derived from the remaining-shelf tier at
// submission time and are always a strict discount on the original price.
type BuybackRequest struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy          Pharmacy        `gorm:"foreignKey:PharmacyID" json:"-"`
	DrugID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug              Drug            `gorm:"foreignKey:DrugID" json:"drug"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	OriginalUnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"original_unit_price"`
	BuybackUnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"buyback_unit_price"`
	ExpiryDate        time.Time       `gorm:"not null" json:"expiry_date"`
	RemainingShelfPct int             `gorm:"not null" json:"remaining_shelf_pct"`
	AdminSuggestion   bool            `gorm:"default:false" json:"admin_suggestion"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MarketplaceListing is a purchasable line on the network marketplace, sourced
// either from a vendor catalogue or an approved buy-back request
type MarketplaceListing struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DrugID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug              Drug            `gorm:"foreignKey:DrugID" json:"drug"`
	VendorID          *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Vendor            *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	PharmacyID        *uuid.UUID      `gorm:"type:uuid;index" json:"pharmacy_id,omitempty"` // selling pharmacy for buy-back listings
	Pharmacy          *Pharmacy       `gorm:"foreignKey:PharmacyID" json:"pharmacy,omitempty"`
	Source            string          `gorm:"type:varchar(10);not null;default:'vendor';index" json:"source"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	DiscountPct       int             `gorm:"default:0" json:"discount_pct"`
	QuantityAvailable int             `gorm:"not null;default:0" json:"quantity_available"`
	LeadTimeDays      int             `gorm:"default:3" json:"lead_time_days"`
	Status            string          `gorm:"type:varchar(10);not null;default:'active';index" json:"status"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
