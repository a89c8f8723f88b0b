package handler

import (
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/trananhdev/meeting-minutes/errors"
	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/usecase/ingest"
)

// Signature and timestamp headers carried on provider webhook requests.
// The timestamp is logged for audit but not enforced; the provider retries
// with fresh timestamps and the HMAC covers the body.
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
)

// Webhook handles inbound provider events per tenant
type Webhook struct {
	ingest *ingest.Service
	logger *zap.Logger
}

// NewWebhook creates a webhook handler
func NewWebhook(ingestSvc *ingest.Service, logger *zap.Logger) *Webhook {
	return &Webhook{ingest: ingestSvc, logger: logger}
}

// Receive handles POST /v1/webhooks/:tenant_id
func (h *Webhook) Receive(c echo.Context) error {
	tenantID := c.Param("tenant_id")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	if h.logger != nil {
		h.logger.Info("📨 Webhook received",
			zap.String("tenant_id", tenantID),
			zap.String("timestamp_header", c.Request().Header.Get(HeaderTimestamp)),
			zap.Int("body_bytes", len(body)),
		)
	}

	result, err := h.ingest.HandleEvent(c.Request().Context(), tenantID, body, c.Request().Header.Get(HeaderSignature))
	if err != nil {
		return HandleError(h.logger, c, mapIngestError(err, tenantID))
	}

	// Validation challenges need the exact provider shape, not the envelope
	if result.Validation != nil {
		return c.JSON(http.StatusOK, result.Validation)
	}

	if result.Discarded {
		return HandleSuccess(h.logger, c, map[string]string{
			"status": "ignored",
			"reason": result.Reason,
		})
	}

	return HandleSuccess(h.logger, c, map[string]string{
		"status": "accepted",
		"job_id": result.Job.ID.String(),
	})
}

// Challenge handles GET /v1/webhooks/:tenant_id for endpoint liveness
// checks: echoes the challenge token without signing
func (h *Webhook) Challenge(c echo.Context) error {
	token := c.QueryParam("challenge")
	if token == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("missing challenge parameter"))
	}
	return c.String(http.StatusOK, token)
}

// mapIngestError converts domain errors into HTTP-coded app errors
func mapIngestError(err error, tenantID string) error {
	switch {
	case stdErrors.Is(err, entities.ErrInvalidSignature):
		return apperrors.ErrInvalidSignature()
	case stdErrors.Is(err, entities.ErrTenantNotConfigured):
		return apperrors.ErrTenantNotConfigured(tenantID)
	case stdErrors.Is(err, entities.ErrDuplicateJob):
		return apperrors.ErrInvalidArgument("equivalent job already pending or processing")
	case stdErrors.Is(err, entities.ErrJobNotFound):
		return apperrors.ErrJobNotFound("")
	case stdErrors.Is(err, entities.ErrMalformedEvent):
		return apperrors.ErrInvalidPayload()
	default:
		return apperrors.ErrInternal(err)
	}
}
