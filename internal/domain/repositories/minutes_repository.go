package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// MinutesRepository defines data access for stored minutes records
type MinutesRepository interface {
	Create(ctx context.Context, minutes *entities.Minutes) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Minutes, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*entities.Minutes, error)
}
