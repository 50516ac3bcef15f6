package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit event types recorded for critical platform changes
const (
	EventBuybackApproved  = "buyback_approved"
	EventBuybackDeclined  = "buyback_declined"
	EventBuybackAdvanced  = "buyback_advanced"
	EventOrderPlaced      = "order_placed"
	EventOrderDelivered   = "order_delivered"
	EventVendorVerified   = "vendor_verified"
	EventVendorRejected   = "vendor_rejected"
	EventPharmacyStatus   = "pharmacy_status_changed"
	EventAutoRestock      = "auto_restock_triggered"
	EventDisputeResolved  = "dispute_resolved"
	EventDisputeEscalated = "dispute_escalated"
	EventConfigUpdated    = "platform_config_updated"
	EventUserRegistered   = "user_registered"
)

// AuditLog tracks who did what and when across the network
type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID     *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // nullable for system actions
	Actor       *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	ActorRole   string     `gorm:"type:varchar(20)" json:"actor_role,omitempty"`
	EventType   string     `gorm:"type:varchar(50);not null;index" json:"event_type"`
	Description string     `gorm:"type:text" json:"description"`
	Metadata    string     `gorm:"type:jsonb" json:"metadata,omitempty"` // serialized JSON payload of the event
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}
