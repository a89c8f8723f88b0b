package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// MinutesRepository handles minutes record data operations
type MinutesRepository struct {
	db *gorm.DB
}

// NewMinutesRepository creates a new minutes repository
func NewMinutesRepository(db *gorm.DB) *MinutesRepository {
	return &MinutesRepository{db: db}
}

// Create inserts a minutes record. The unique index on job_id guarantees
// at most one record per job.
func (r *MinutesRepository) Create(ctx context.Context, minutes *entities.Minutes) error {
	if minutes == nil {
		return errors.New("minutes cannot be nil")
	}
	return r.db.WithContext(ctx).Create(minutes).Error
}

// GetByID retrieves a minutes record by ID
func (r *MinutesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Minutes, error) {
	var minutes entities.Minutes
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// GetByJobID retrieves the minutes record owned by a job
func (r *MinutesRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*entities.Minutes, error) {
	var minutes entities.Minutes
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}
