package entities

import (
	"time"

	"github.com/google/uuid"
)

// Minutes is the stored minutes record for a processed meeting. Created
// exactly once by the job that produced it; later edits belong to the
// collaboration surface, not the pipeline.
type Minutes struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	JobID               uuid.UUID  `json:"job_id" gorm:"type:uuid;not null;uniqueIndex"`
	MeetingTopic        string     `json:"meeting_topic" gorm:"type:varchar(512)"`
	StartTime           *time.Time `json:"start_time,omitempty" gorm:"type:timestamp"`
	DurationMinutes     int        `json:"duration_minutes,omitempty"`
	Participants        []string   `json:"participants,omitempty" gorm:"type:jsonb;serializer:json"`
	RawTranscript       string     `json:"raw_transcript" gorm:"type:text"`
	FormattedTranscript string     `json:"formatted_transcript,omitempty" gorm:"type:text"`
	Summary             string     `json:"summary,omitempty" gorm:"type:text"`
	ActionItems         []string   `json:"action_items,omitempty" gorm:"type:jsonb;serializer:json"`
	TranscriptSource    string     `json:"transcript_source,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Minutes) TableName() string {
	return "minutes"
}

// NewMinutes creates a minutes record owned by the given job
func NewMinutes(jobID uuid.UUID) *Minutes {
	return &Minutes{
		ID:        uuid.New(),
		JobID:     jobID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
