package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VerificationStatus enum constants
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// ProductStatus enum constants
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// VendorDocType enum constants (compliance documents reviewed by admins)
const (
	VendorDocCAC     = "cac"
	VendorDocNAFDAC  = "nafdac"
	VendorDocLicense = "license"
)

// Vendor is the tenant profile for a user with the vendor role
type Vendor struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User               User      `gorm:"foreignKey:UserID" json:"-"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	Location           string    `gorm:"type:varchar(255);not null" json:"location"`
	VerificationStatus string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"verification_status"`
	CACStatus          string    `gorm:"column:cac_status;type:varchar(20);default:'pending'" json:"cac_status"`
	NAFDACStatus       string    `gorm:"column:nafdac_status;type:varchar(20);default:'pending'" json:"nafdac_status"`
	LicenseStatus      string    `gorm:"type:varchar(20);default:'pending'" json:"license_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// VendorProduct is a catalogue entry a vendor offers to the network
type VendorProduct struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor         Vendor          `gorm:"foreignKey:VendorID" json:"-"`
	DrugID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug           Drug            `gorm:"foreignKey:DrugID" json:"drug"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	StockAvailable int             `gorm:"not null;default:0" json:"stock_available"`
	MOQ            int             `gorm:"column:moq;default:1" json:"moq"` // minimum order quantity
	LeadTimeDays   int             `gorm:"default:3" json:"lead_time_days"`
	Status         string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
