package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/domain/repositories"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/cache"
	"github.com/trananhdev/meeting-minutes/internal/usecase/credentials"
	"github.com/trananhdev/meeting-minutes/pkg/signature"
)

// dedupeTTL bounds the advisory redelivery window in the cache. The durable
// dedupe check against the job store still runs after it.
const dedupeTTL = 10 * time.Minute

// WebhookResult tells the handler how an event was resolved
type WebhookResult struct {
	// Validation is set for endpoint validation challenges
	Validation *ValidationResponse
	// Job is set when a new job was enqueued
	Job *entities.Job
	// Discarded marks events accepted with a 200 but dropped without
	// side effects (unknown types, duplicates)
	Discarded bool
	Reason    string
}

// ValidationResponse is the challenge answer for endpoint validation events
type ValidationResponse struct {
	PlainToken     string `json:"plain_token"`
	EncryptedToken string `json:"encrypted_token"`
}

// Service authenticates provider events per tenant and enqueues jobs. It
// also backs the manual/status surface the admin UI consumes.
type Service struct {
	jobs       repositories.JobRepository
	minutes    repositories.MinutesRepository
	deliveries repositories.DeliveryLogRepository
	resolver   *credentials.Resolver
	dedupe     cache.DedupeStore
	logger     *zap.Logger
}

// NewService creates the ingest service. dedupe may be nil to skip the
// advisory cache check.
func NewService(
	jobs repositories.JobRepository,
	minutes repositories.MinutesRepository,
	deliveries repositories.DeliveryLogRepository,
	resolver *credentials.Resolver,
	dedupe cache.DedupeStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobs:       jobs,
		minutes:    minutes,
		deliveries: deliveries,
		resolver:   resolver,
		dedupe:     dedupe,
		logger:     logger,
	}
}

// HandleEvent processes one signed provider event. Returns
// entities.ErrInvalidSignature for auth failures and
// entities.ErrTenantNotConfigured for unknown tenants; the handler maps
// those to 401 and 400.
func (s *Service) HandleEvent(ctx context.Context, tenantID string, rawBody []byte, signatureHeader string) (*WebhookResult, error) {
	creds, err := s.resolver.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var event entities.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedEvent, err)
	}

	// Endpoint validation answers the challenge with an HMAC of the nonce;
	// there is no body signature to check on these
	if event.Event == entities.EventURLValidation {
		return s.handleValidation(creds.WebhookSecret, event.Payload)
	}

	if !signature.Verify(creds.WebhookSecret, rawBody, signatureHeader) {
		if s.logger != nil {
			s.logger.Warn("🚫 Webhook signature rejected",
				zap.String("tenant_id", tenantID),
				zap.String("event", event.Event),
			)
		}
		return nil, entities.ErrInvalidSignature
	}

	jobType, recognized := eventJobType(event.Event)
	if !recognized {
		// The provider does not tolerate non-2xx for unknown types
		if s.logger != nil {
			s.logger.Info("ℹ️ Ignoring unknown event type",
				zap.String("tenant_id", tenantID),
				zap.String("event", event.Event),
			)
		}
		return &WebhookResult{Discarded: true, Reason: "unknown event type"}, nil
	}

	payload, err := entities.DecodeMeetingPayload(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedEvent, err)
	}

	return s.enqueue(ctx, tenantID, jobType, payload.Object.MeetingID, event.Payload)
}

// handleValidation signs the provider's nonce with the tenant secret
func (s *Service) handleValidation(secret string, payload json.RawMessage) (*WebhookResult, error) {
	var vp entities.ValidationPayload
	if err := json.Unmarshal(payload, &vp); err != nil || vp.PlainToken == "" {
		return nil, fmt.Errorf("%w: validation payload missing plain_token", entities.ErrMalformedEvent)
	}
	return &WebhookResult{
		Validation: &ValidationResponse{
			PlainToken:     vp.PlainToken,
			EncryptedToken: signature.Sign(secret, []byte(vp.PlainToken)),
		},
	}, nil
}

// enqueue creates a pending job unless an equivalent one is already in
// flight. The gateway is deliberately not the idempotency boundary: the
// advisory cache check cuts noise, the job-store check decides.
func (s *Service) enqueue(ctx context.Context, tenantID string, jobType entities.JobType, meetingID string, payload []byte) (*WebhookResult, error) {
	if s.dedupe != nil {
		key := fmt.Sprintf("webhook:seen:%s:%s:%s", tenantID, meetingID, jobType)
		first, err := s.dedupe.SetNX(ctx, key, time.Now().Format(time.RFC3339), dedupeTTL)
		if err == nil && !first {
			return &WebhookResult{Discarded: true, Reason: "duplicate delivery"}, nil
		}
		// Cache trouble falls through to the durable check
	}

	duplicate, err := s.jobs.HasActiveDuplicate(ctx, tenantID, meetingID, jobType)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return &WebhookResult{Discarded: true, Reason: "equivalent job already active"}, nil
	}

	job := entities.NewJob(tenantID, jobType, meetingID, payload)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("📥 Job enqueued",
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", tenantID),
			zap.String("job_type", string(jobType)),
			zap.String("meeting_id", meetingID),
		)
	}

	return &WebhookResult{Job: job}, nil
}

// ManualJobInput is the admin-surface equivalent of a webhook event
type ManualJobInput struct {
	TenantID     string
	MeetingID    string
	Topic        string
	HostEmail    string
	Participants []entities.EventParticipant
	Files        []entities.RecordingFile
}

// CreateManualJob builds a job identical in shape to a webhook-originated
// one, entering the same orchestrator path
func (s *Service) CreateManualJob(ctx context.Context, input ManualJobInput) (*entities.Job, error) {
	if _, err := s.resolver.Resolve(ctx, input.TenantID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(entities.MeetingPayload{
		Object: entities.MeetingObject{
			MeetingID:      input.MeetingID,
			Topic:          input.Topic,
			HostEmail:      input.HostEmail,
			RecordingFiles: input.Files,
		},
		Participants: input.Participants,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.enqueue(ctx, input.TenantID, entities.JobTypeManual, input.MeetingID, payload)
	if err != nil {
		return nil, err
	}
	if result.Discarded {
		return nil, entities.ErrDuplicateJob
	}
	return result.Job, nil
}

// GetJob returns a job by id, entities.ErrJobNotFound when absent
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*entities.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, entities.ErrJobNotFound
	}
	return job, nil
}

// RetryJob is the operator-initiated terminal→pending transition
func (s *Service) RetryJob(ctx context.Context, jobID uuid.UUID) (*entities.Job, error) {
	if err := s.jobs.ResetForRetry(ctx, jobID); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("🔄 Job reset for retry", zap.String("job_id", jobID.String()))
	}
	return s.GetJob(ctx, jobID)
}

// ListDeliveries returns the per-recipient delivery log for a minutes record
func (s *Service) ListDeliveries(ctx context.Context, minutesID uuid.UUID) ([]entities.DeliveryLog, error) {
	record, err := s.minutes.GetByID(ctx, minutesID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, entities.ErrMinutesNotFound
	}
	return s.deliveries.ListByMinutesID(ctx, minutesID)
}

// eventJobType maps recognized provider event types to job types
func eventJobType(event string) (entities.JobType, bool) {
	switch event {
	case entities.EventRecordingCompleted:
		return entities.JobTypeRecordingCompleted, true
	case entities.EventTranscriptCompleted:
		return entities.JobTypeTranscriptCompleted, true
	case entities.EventMeetingEnded:
		return entities.JobTypeMeetingEnded, true
	default:
		return "", false
	}
}
