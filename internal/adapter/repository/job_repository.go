package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// JobRepository handles pipeline job data operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job
func (r *JobRepository) Create(ctx context.Context, job *entities.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*entities.Job, error) {
	var job entities.Job
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListByMeetingID retrieves all jobs for a tenant's meeting, newest first
func (r *JobRepository) ListByMeetingID(ctx context.Context, tenantID, meetingID string) ([]entities.Job, error) {
	var jobs []entities.Job
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND meeting_id = ?", tenantID, meetingID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// HasActiveDuplicate reports whether an equivalent job is already pending
// or processing. Advisory only: the Claim conditional update is the real
// idempotency boundary.
func (r *JobRepository) HasActiveDuplicate(ctx context.Context, tenantID, meetingID string, jobType entities.JobType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("tenant_id = ? AND meeting_id = ? AND job_type = ? AND status IN ?",
			tenantID, meetingID, jobType,
			[]entities.JobStatus{entities.JobStatusPending, entities.JobStatusProcessing}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetPendingJobs retrieves the oldest pending jobs up to limit
func (r *JobRepository) GetPendingJobs(ctx context.Context, limit int) ([]entities.Job, error) {
	var jobs []entities.Job
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.JobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically moves a job from pending to processing. The WHERE
// clause enforces both exclusivity (only one worker flips the status) and
// the one-processing-job-per-meeting invariant, so duplicate deliveries of
// the same event cannot both progress past pending.
func (r *JobRepository) Claim(ctx context.Context, jobID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ? AND status = ?", jobID, entities.JobStatusPending).
		Where("NOT EXISTS (SELECT 1 FROM jobs p WHERE p.meeting_id = jobs.meeting_id AND p.tenant_id = jobs.tenant_id AND p.status = ? AND p.id <> jobs.id)",
			entities.JobStatusProcessing).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusProcessing,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted marks a job as completed with its result blob
func (r *JobRepository) MarkCompleted(ctx context.Context, jobID uuid.UUID, resultBlob []byte) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       entities.JobStatusCompleted,
		"completed_at": now,
		"updated_at":   now,
	}
	if resultBlob != nil {
		updates["result"] = resultBlob
	}
	return r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ?", jobID).
		Updates(updates).Error
}

// MarkFailed marks a job as failed with the first permanent cause
func (r *JobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":        entities.JobStatusFailed,
			"error_message": errMsg,
			"completed_at":  now,
			"updated_at":    now,
		}).Error
}

// ResetForRetry moves a terminal job back to pending and clears its error.
// Conditional on the job being terminal so a retry cannot race a worker.
func (r *JobRepository) ResetForRetry(ctx context.Context, jobID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ? AND status IN ?", jobID,
			[]entities.JobStatus{entities.JobStatusCompleted, entities.JobStatusFailed}).
		Updates(map[string]interface{}{
			"status":        entities.JobStatusPending,
			"error_message": nil,
			"completed_at":  nil,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrJobNotTerminal
	}
	return nil
}

// ReleaseZombies returns jobs stuck in processing since before cutoff back
// to pending so a worker can pick them up again
func (r *JobRepository) ReleaseZombies(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("status = ? AND updated_at < ?", entities.JobStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusPending,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
