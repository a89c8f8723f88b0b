package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// JobRepository defines data access for pipeline jobs. The orchestrator
// and gateway depend on this interface so tests can substitute fakes.
type JobRepository interface {
	Create(ctx context.Context, job *entities.Job) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*entities.Job, error)
	ListByMeetingID(ctx context.Context, tenantID, meetingID string) ([]entities.Job, error)

	// HasActiveDuplicate reports whether an equivalent job keyed on
	// (tenant_id, meeting_id, type) is already pending or processing.
	HasActiveDuplicate(ctx context.Context, tenantID, meetingID string, jobType entities.JobType) (bool, error)

	// GetPendingJobs returns the oldest pending jobs up to limit.
	GetPendingJobs(ctx context.Context, limit int) ([]entities.Job, error)

	// Claim atomically moves a job from pending to processing. Returns
	// false when another worker won the claim or another job for the
	// same meeting is already processing.
	Claim(ctx context.Context, jobID uuid.UUID) (bool, error)

	MarkCompleted(ctx context.Context, jobID uuid.UUID, result []byte) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// ResetForRetry is the operator-initiated terminal→pending transition.
	ResetForRetry(ctx context.Context, jobID uuid.UUID) error

	// ReleaseZombies returns jobs stuck in processing longer than cutoff
	// back to pending and reports how many were released.
	ReleaseZombies(ctx context.Context, cutoff time.Time) (int64, error)
}
