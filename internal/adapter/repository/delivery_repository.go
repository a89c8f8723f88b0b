package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// DeliveryLogRepository handles delivery log data operations
type DeliveryLogRepository struct {
	db *gorm.DB
}

// NewDeliveryLogRepository creates a new delivery log repository
func NewDeliveryLogRepository(db *gorm.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{db: db}
}

// Create appends a delivery log entry
func (r *DeliveryLogRepository) Create(ctx context.Context, entry *entities.DeliveryLog) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByMinutesID retrieves all delivery entries for a minutes record,
// oldest first
func (r *DeliveryLogRepository) ListByMinutesID(ctx context.Context, minutesID uuid.UUID) ([]entities.DeliveryLog, error) {
	var entries []entities.DeliveryLog
	if err := r.db.WithContext(ctx).
		Where("minutes_id = ?", minutesID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
