package handler

import (
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/trananhdev/meeting-minutes/errors"
	jobdto "github.com/trananhdev/meeting-minutes/internal/adapter/dto/job"
	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/usecase/ingest"
)

// Job exposes the manual job, status, and delivery log surface used by the
// admin UI
type Job struct {
	ingest *ingest.Service
	logger *zap.Logger
}

// NewJob creates a job handler
func NewJob(ingestSvc *ingest.Service, logger *zap.Logger) *Job {
	return &Job{ingest: ingestSvc, logger: logger}
}

// CreateManual handles POST /v1/jobs
func (h *Job) CreateManual(c echo.Context) error {
	var req jobdto.CreateManualJobRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	created, err := h.ingest.CreateManualJob(c.Request().Context(), ingest.ManualJobInput{
		TenantID:     req.TenantID,
		MeetingID:    req.MeetingID,
		Topic:        req.Topic,
		HostEmail:    req.HostEmail,
		Participants: jobdto.ToEventParticipants(req.Participants),
		Files:        jobdto.ToRecordingFiles(req.Files),
	})
	if err != nil {
		return HandleError(h.logger, c, mapJobError(err, req.TenantID, ""))
	}

	return HandleSuccess(h.logger, c, jobdto.FromJob(created))
}

// Get handles GET /v1/jobs/:id
func (h *Job) Get(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid job id"))
	}

	found, err := h.ingest.GetJob(c.Request().Context(), jobID)
	if err != nil {
		return HandleError(h.logger, c, mapJobError(err, "", jobID.String()))
	}

	return HandleSuccess(h.logger, c, jobdto.FromJob(found))
}

// Retry handles POST /v1/jobs/:id/retry
func (h *Job) Retry(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid job id"))
	}

	reset, err := h.ingest.RetryJob(c.Request().Context(), jobID)
	if err != nil {
		return HandleError(h.logger, c, mapJobError(err, "", jobID.String()))
	}

	return HandleSuccess(h.logger, c, jobdto.FromJob(reset))
}

// ListDeliveries handles GET /v1/minutes/:id/deliveries
func (h *Job) ListDeliveries(c echo.Context) error {
	minutesID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid minutes id"))
	}

	entries, err := h.ingest.ListDeliveries(c.Request().Context(), minutesID)
	if err != nil {
		return HandleError(h.logger, c, mapJobError(err, "", ""))
	}

	return HandleSuccess(h.logger, c, jobdto.FromDeliveryLogs(entries))
}

// mapJobError converts domain errors from the job surface into HTTP-coded
// app errors
func mapJobError(err error, tenantID, jobID string) error {
	switch {
	case stdErrors.Is(err, entities.ErrJobNotFound):
		return apperrors.ErrJobNotFound(jobID)
	case stdErrors.Is(err, entities.ErrJobNotTerminal):
		return apperrors.ErrJobInvalidState(jobID, "active", "completed or failed")
	case stdErrors.Is(err, entities.ErrTenantNotConfigured):
		return apperrors.ErrTenantNotConfigured(tenantID)
	case stdErrors.Is(err, entities.ErrDuplicateJob):
		return apperrors.ErrInvalidArgument("equivalent job already pending or processing")
	case stdErrors.Is(err, entities.ErrMinutesNotFound):
		return apperrors.ErrNotFound("minutes")
	default:
		return apperrors.ErrInternal(err)
	}
}
