package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provider webhook event types
const (
	EventRecordingCompleted  = "recording.completed"
	EventTranscriptCompleted = "recording.transcript_completed"
	EventMeetingEnded        = "meeting.ended"
	EventURLValidation       = "endpoint.url_validation"
)

// WebhookEvent is the provider event envelope
type WebhookEvent struct {
	Event   string          `json:"event"`
	EventTS int64           `json:"event_ts,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// ValidationPayload is the payload of an endpoint.url_validation event
type ValidationPayload struct {
	PlainToken string `json:"plain_token"`
}

// MeetingPayload is the typed payload stored on a job. The webhook gateway
// stores the raw event payload; the orchestrator decodes and validates it
// through DecodeMeetingPayload before any pipeline step runs.
type MeetingPayload struct {
	AccountID     string             `json:"account_id,omitempty"`
	DownloadToken string             `json:"download_token,omitempty"`
	Object        MeetingObject      `json:"object"`
	Participants  []EventParticipant `json:"participants,omitempty"`
}

// MeetingObject describes the meeting the event refers to
type MeetingObject struct {
	MeetingID      string          `json:"id"`
	UUID           string          `json:"uuid,omitempty"`
	Topic          string          `json:"topic,omitempty"`
	HostEmail      string          `json:"host_email,omitempty"`
	StartTime      *time.Time      `json:"start_time,omitempty"`
	Duration       int             `json:"duration,omitempty"`
	RecordingFiles []RecordingFile `json:"recording_files,omitempty"`
}

// EventParticipant is a meeting participant as reported by the provider
// or supplied through the manual job path
type EventParticipant struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RecordingFile is one media asset attached to the event
type RecordingFile struct {
	ID            string `json:"id,omitempty"`
	FileType      string `json:"file_type"`
	FileExtension string `json:"file_extension,omitempty"`
	RecordingType string `json:"recording_type,omitempty"`
	DownloadURL   string `json:"download_url"`
}

// Recording file types used by the transcription strategy
const (
	FileTypeTranscript = "TRANSCRIPT"
	FileTypeCaption    = "CC"
	FileTypeAudio      = "M4A"
	FileTypeAudioMP3   = "MP3"
	FileTypeVideo      = "MP4"
)

// IsCaption reports whether the file carries caption/transcript text
func (f RecordingFile) IsCaption() bool {
	return f.FileType == FileTypeTranscript || f.FileType == FileTypeCaption
}

// IsAudio reports whether the file is an audio-only container
func (f RecordingFile) IsAudio() bool {
	return f.FileType == FileTypeAudio || f.FileType == FileTypeAudioMP3
}

// IsVideo reports whether the file is a video container usable as an STT
// source of last resort
func (f RecordingFile) IsVideo() bool {
	return f.FileType == FileTypeVideo
}

// DecodeMeetingPayload validates and decodes a stored job payload.
// This is the single boundary where the opaque blob becomes typed data.
func DecodeMeetingPayload(raw []byte) (*MeetingPayload, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty job payload")
	}
	var p MeetingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed job payload: %w", err)
	}
	if p.Object.MeetingID == "" {
		return nil, fmt.Errorf("job payload missing meeting id")
	}
	return &p, nil
}

// Recipients returns the distinct delivery addresses for the meeting:
// every participant with an email, falling back to the host.
func (p *MeetingPayload) Recipients() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(p.Participants)+1)
	for _, part := range p.Participants {
		if part.Email == "" {
			continue
		}
		if _, ok := seen[part.Email]; ok {
			continue
		}
		seen[part.Email] = struct{}{}
		out = append(out, part.Email)
	}
	if len(out) == 0 && p.Object.HostEmail != "" {
		out = append(out, p.Object.HostEmail)
	}
	return out
}
