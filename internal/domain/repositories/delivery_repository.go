package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// DeliveryLogRepository defines append/read access to the delivery log.
// Entries are append-only; a failed recipient gets a new entry on resend.
type DeliveryLogRepository interface {
	Create(ctx context.Context, entry *entities.DeliveryLog) error
	ListByMinutesID(ctx context.Context, minutesID uuid.UUID) ([]entities.DeliveryLog, error)
}
