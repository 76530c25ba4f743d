package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification channels and delivery outcomes.
const (
	ChannelWhatsApp = "WHATSAPP"
	ChannelEmail    = "EMAIL"

	SendSuccess = "SUCCESS"
	SendFailed  = "FAILED"
)

// NotificationLog is an immutable audit record of one attempted delivery for
// one status-update event. Exactly one row per channel actually attempted;
// Payload keeps what was sent and the raw dispatcher result as jsonb.
type NotificationLog struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	SubmissionID uint           `gorm:"index;not null"`
	Channel      string         `gorm:"size:16;not null"`
	SendStatus   string         `gorm:"size:16;not null"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
}
