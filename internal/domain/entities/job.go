package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobStatus represents the state of a pipeline job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"    // Waiting to be claimed by a worker
	JobStatusProcessing JobStatus = "processing" // Claimed, pipeline running
	JobStatusCompleted  JobStatus = "completed"  // Minutes persisted, delivery attempted
	JobStatusFailed     JobStatus = "failed"     // Permanent error, see ErrorMessage
)

// JobType identifies which provider event (or manual action) created the job
type JobType string

const (
	JobTypeRecordingCompleted  JobType = "recording_completed"
	JobTypeTranscriptCompleted JobType = "transcript_completed"
	JobTypeMeetingEnded        JobType = "meeting_ended"
	JobTypeManual              JobType = "manual"
)

// Job tracks one meeting-completion event end to end. Jobs are created by
// the webhook gateway or the manual path, mutated only by the orchestrator,
// and never deleted.
type Job struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string         `json:"tenant_id" gorm:"type:varchar(255);not null;index"`
	JobType      JobType        `json:"job_type" gorm:"type:varchar(50);not null;index"`
	Status       JobStatus      `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	MeetingID    string         `json:"meeting_id" gorm:"type:varchar(255);not null;index"`
	Payload      datatypes.JSON `json:"payload,omitempty" gorm:"type:jsonb"`
	Result       datatypes.JSON `json:"result,omitempty" gorm:"type:jsonb"`
	ErrorMessage *string        `json:"error_message,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
}

// NewJob creates a new pending job
func NewJob(tenantID string, jobType JobType, meetingID string, payload []byte) *Job {
	return &Job{
		ID:        uuid.New(),
		TenantID:  tenantID,
		JobType:   jobType,
		Status:    JobStatusPending,
		MeetingID: meetingID,
		Payload:   datatypes.JSON(payload),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// IsTerminal reports whether the job reached a final state
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// MarkAsCompleted marks the job as completed with an optional result blob
func (j *Job) MarkAsCompleted(result []byte) {
	j.Status = JobStatusCompleted
	if result != nil {
		j.Result = datatypes.JSON(result)
	}
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed records the first permanent cause and finalizes the job
func (j *Job) MarkAsFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = &errMsg
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// ResetForRetry is the operator-initiated transition back to pending.
// Clears the error so the next run records its own first cause.
func (j *Job) ResetForRetry() {
	j.Status = JobStatusPending
	j.ErrorMessage = nil
	j.CompletedAt = nil
	j.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}
