package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountStatus enum constants
const (
	AccountActive    = "active"
	AccountSuspended = "suspended"
)

// TransactionType enum constants
const (
	TxTypeDebit  = "debit"
	TxTypeCredit = "credit"
)

// DocumentType enum constants
const (
	DocTypeInvoice        = "invoice"
	DocTypePurchaseOrder  = "purchase_order"
	DocTypeBuybackReceipt = "buyback_receipt"
	DocTypeStatement      = "statement"
)

// Pharmacy is the tenant profile for a user with the pharmacy role
type Pharmacy struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User               User            `gorm:"foreignKey:UserID" json:"-"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	Location           string          `gorm:"type:varchar(255);not null" json:"location"`
	WalletBalance      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"wallet_balance"`
	AccountStatus      string          `gorm:"type:varchar(20);not null;default:'active'" json:"account_status"`
	PCNLicenseStatus   string          `gorm:"column:pcn_license_status;type:varchar(20);default:'pending'" json:"pcn_license_status"`
	DirectDebitEnabled bool            `gorm:"default:false" json:"direct_debit_enabled"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Transaction is one row of a pharmacy's wallet ledger
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy    Pharmacy        `gorm:"foreignKey:PharmacyID" json:"-"`
	Type        string          `gorm:"type:varchar(10);not null" json:"type"` // debit, credit
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Reference   string          `gorm:"type:varchar(100)" json:"reference"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// Document is a pharmacy-owned paperwork record (metadata only, no blob storage)
type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID uuid.UUID `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Pharmacy   Pharmacy  `gorm:"foreignKey:PharmacyID" json:"-"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Type       string    `gorm:"type:varchar(30);not null" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}
