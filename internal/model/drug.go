package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Drug is the shared catalogue of medicines known to the platform.
// ShelfLifeMonths is the total usable life from manufacture; classification
// falls back to 24 months when a row carries zero.
type Drug struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Category        string          `gorm:"type:varchar(100);not null" json:"category"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	NAFDACNumber    string          `gorm:"column:nafdac_number;type:varchar(50)" json:"nafdac_number,omitempty"`
	ShelfLifeMonths int             `gorm:"not null;default:24" json:"shelf_life_months"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
