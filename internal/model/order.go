package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSource enum constants
const (
	OrderSourceVendor  = "vendor"
	OrderSourceBuyback = "buyback"
)

// OrderStatus enum constants, in delivery-chain order
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusInTransit      = "in_transit"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
)

// OrderStatusChain is the forward-only progression an order walks through.
var OrderStatusChain = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// POTrigger enum constants
const (
	POTriggerAuto   = "auto"
	POTriggerManual = "manual"
)

// PurchaseOrderStatus enum constants
const (
	POStatusPending   = "pending"
	POStatusApproved  = "approved"
	POStatusFulfilled = "fulfilled"
)

// Order is a pharmacy purchase of one marketplace line (vendor stock or
// buy-back relisting)
type Order struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy            Pharmacy        `gorm:"foreignKey:PharmacyID" json:"-"`
	VendorID            *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Vendor              *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	DrugID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug                Drug            `gorm:"foreignKey:DrugID" json:"drug"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TotalPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	LogisticsFee        decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"logistics_fee"`
	LogisticsPartner    string          `gorm:"type:varchar(100)" json:"logistics_partner,omitempty"`
	DestinationLocation string          `gorm:"type:varchar(255)" json:"destination_location,omitempty"`
	Source              string          `gorm:"type:varchar(10);not null;default:'vendor'" json:"source"`
	Status              string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt           time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// PurchaseOrder is a restock request against a vendor, raised manually or by
// the auto-restock sweep when a lot falls to its reorder threshold
type PurchaseOrder struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy       Pharmacy        `gorm:"foreignKey:PharmacyID" json:"-"`
	VendorID       *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Vendor         *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	DrugID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug           Drug            `gorm:"foreignKey:DrugID" json:"drug"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	Trigger        string          `gorm:"type:varchar(10);not null;default:'manual'" json:"trigger"`
	ApprovalStatus string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// POSSale records an over-the-counter sale from a specific inventory lot
type POSSale struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy     Pharmacy        `gorm:"foreignKey:PharmacyID" json:"-"`
	LotID        uuid.UUID       `gorm:"column:inventory_item_id;type:uuid;not null;index" json:"inventory_item_id"`
	Lot          InventoryLot    `gorm:"foreignKey:LotID" json:"-"`
	DrugID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"drug_id"`
	Drug         Drug            `gorm:"foreignKey:DrugID" json:"drug"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	CustomerName string          `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}
