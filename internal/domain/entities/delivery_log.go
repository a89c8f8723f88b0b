package entities

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the outcome of one recipient delivery attempt
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// DeliveryLog is one append-only entry per (minutes, recipient) attempt.
// A minutes record routinely has entries with mixed statuses; partial
// failure is a normal end state, surfaced here rather than on the job.
type DeliveryLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MinutesID    uuid.UUID      `json:"minutes_id" gorm:"type:uuid;not null;index"`
	Recipient    string         `json:"recipient" gorm:"type:varchar(320);not null"`
	Status       DeliveryStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	SentAt       *time.Time     `json:"sent_at,omitempty" gorm:"type:timestamp"`
	ErrorMessage *string        `json:"error_message,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (DeliveryLog) TableName() string {
	return "delivery_logs"
}

// NewDeliveryLog creates a pending entry for a recipient
func NewDeliveryLog(minutesID uuid.UUID, recipient string) *DeliveryLog {
	return &DeliveryLog{
		ID:        uuid.New(),
		MinutesID: minutesID,
		Recipient: recipient,
		Status:    DeliveryStatusPending,
		CreatedAt: time.Now(),
	}
}

// MarkSent records a successful send
func (d *DeliveryLog) MarkSent() {
	d.Status = DeliveryStatusSent
	now := time.Now()
	d.SentAt = &now
}

// MarkFailed records a failed send with the cause
func (d *DeliveryLog) MarkFailed(errMsg string) {
	d.Status = DeliveryStatusFailed
	d.ErrorMessage = &errMsg
}
