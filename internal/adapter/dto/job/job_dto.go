package job

import (
	"time"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// CreateManualJobRequest is the admin-surface request to enqueue a job
// without a webhook event
type CreateManualJobRequest struct {
	TenantID     string             `json:"tenant_id" validate:"required"`
	MeetingID    string             `json:"meeting_id" validate:"required"`
	Topic        string             `json:"topic"`
	HostEmail    string             `json:"host_email" validate:"omitempty,email"`
	Participants []ParticipantInput `json:"participants" validate:"dive"`
	Files        []RecordingInput   `json:"files" validate:"dive"`
}

// ParticipantInput is one participant in a manual job request
type ParticipantInput struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// RecordingInput is one media asset in a manual job request
type RecordingInput struct {
	FileType    string `json:"file_type" validate:"required"`
	DownloadURL string `json:"download_url" validate:"required,url"`
}

// JobResponse is the external view of a job
type JobResponse struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	JobType      string     `json:"job_type"`
	Status       string     `json:"status"`
	MeetingID    string     `json:"meeting_id"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	Result       any        `json:"result,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// DeliveryLogResponse is the external view of one delivery attempt
type DeliveryLogResponse struct {
	ID           string     `json:"id"`
	MinutesID    string     `json:"minutes_id"`
	Recipient    string     `json:"recipient"`
	Status       string     `json:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FromJob converts a job entity to its response shape
func FromJob(j *entities.Job) JobResponse {
	resp := JobResponse{
		ID:           j.ID.String(),
		TenantID:     j.TenantID,
		JobType:      string(j.JobType),
		Status:       string(j.Status),
		MeetingID:    j.MeetingID,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		CompletedAt:  j.CompletedAt,
	}
	if len(j.Result) > 0 {
		resp.Result = j.Result
	}
	return resp
}

// FromDeliveryLogs converts delivery log entities to their response shape
func FromDeliveryLogs(entries []entities.DeliveryLog) []DeliveryLogResponse {
	out := make([]DeliveryLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, DeliveryLogResponse{
			ID:           e.ID.String(),
			MinutesID:    e.MinutesID.String(),
			Recipient:    e.Recipient,
			Status:       string(e.Status),
			SentAt:       e.SentAt,
			ErrorMessage: e.ErrorMessage,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}

// ToEventParticipants converts participant inputs to the entity shape
func ToEventParticipants(in []ParticipantInput) []entities.EventParticipant {
	out := make([]entities.EventParticipant, 0, len(in))
	for _, p := range in {
		out = append(out, entities.EventParticipant{Name: p.Name, Email: p.Email})
	}
	return out
}

// ToRecordingFiles converts recording inputs to the entity shape
func ToRecordingFiles(in []RecordingInput) []entities.RecordingFile {
	out := make([]entities.RecordingFile, 0, len(in))
	for _, f := range in {
		out = append(out, entities.RecordingFile{FileType: f.FileType, DownloadURL: f.DownloadURL})
	}
	return out
}
