package model

import (
	"time"

	"github.com/google/uuid"
)

// Platform configuration keys
const (
	ConfigKeyBuybackTiers = "buyback_discount_tiers"
	ConfigKeyLogisticsFee = "logistics_fee_rate"
)

// PlatformConfig is an admin-managed key/JSON settings store
type PlatformConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
