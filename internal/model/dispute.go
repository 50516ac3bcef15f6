package model

import (
	"time"

	"github.com/google/uuid"
)

// DisputeStatus enum constants
const (
	DisputeOpen      = "open"
	DisputeResolved  = "resolved"
	DisputeEscalated = "escalated"
)

// Dispute is an issue a pharmacy raises against a vendor, usually tied to an order
type Dispute struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy    Pharmacy   `gorm:"foreignKey:PharmacyID" json:"-"`
	VendorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor      Vendor     `gorm:"foreignKey:VendorID" json:"-"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	IssueType   string     `gorm:"type:varchar(100);not null" json:"issue_type"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
