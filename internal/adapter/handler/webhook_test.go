package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/usecase/credentials"
	"github.com/trananhdev/meeting-minutes/internal/usecase/ingest"
	"github.com/trananhdev/meeting-minutes/pkg/config"
	"github.com/trananhdev/meeting-minutes/pkg/signature"
	pkgvalidator "github.com/trananhdev/meeting-minutes/pkg/validator"
)

const testSecret = "handler-test-secret"

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[uuid.UUID]*entities.Job)}
}

func (m *memJobRepo) Create(_ context.Context, job *entities.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *memJobRepo) GetByID(_ context.Context, jobID uuid.UUID) (*entities.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[jobID], nil
}

func (m *memJobRepo) ListByMeetingID(_ context.Context, _, _ string) ([]entities.Job, error) {
	return nil, nil
}

func (m *memJobRepo) HasActiveDuplicate(_ context.Context, tenantID, meetingID string, jobType entities.JobType) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.TenantID == tenantID && j.MeetingID == meetingID && j.JobType == jobType &&
			(j.Status == entities.JobStatusPending || j.Status == entities.JobStatusProcessing) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memJobRepo) GetPendingJobs(_ context.Context, _ int) ([]entities.Job, error) {
	return nil, nil
}

func (m *memJobRepo) Claim(_ context.Context, _ uuid.UUID) (bool, error) { return false, nil }

func (m *memJobRepo) MarkCompleted(_ context.Context, _ uuid.UUID, _ []byte) error { return nil }

func (m *memJobRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (m *memJobRepo) ResetForRetry(_ context.Context, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return entities.ErrJobNotFound
	}
	if !job.IsTerminal() {
		return entities.ErrJobNotTerminal
	}
	job.ResetForRetry()
	return nil
}

func (m *memJobRepo) ReleaseZombies(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func (m *memJobRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type memMinutesRepo struct{}

func (memMinutesRepo) Create(_ context.Context, _ *entities.Minutes) error { return nil }
func (memMinutesRepo) GetByID(_ context.Context, _ uuid.UUID) (*entities.Minutes, error) {
	return nil, nil
}
func (memMinutesRepo) GetByJobID(_ context.Context, _ uuid.UUID) (*entities.Minutes, error) {
	return nil, nil
}

type memDeliveryRepo struct{}

func (memDeliveryRepo) Create(_ context.Context, _ *entities.DeliveryLog) error { return nil }
func (memDeliveryRepo) ListByMinutesID(_ context.Context, _ uuid.UUID) ([]entities.DeliveryLog, error) {
	return nil, nil
}

type memCredRepo struct{}

func (memCredRepo) GetActiveByTenantID(_ context.Context, _ string) (*entities.TenantCredential, error) {
	return nil, nil
}
func (memCredRepo) Upsert(_ context.Context, _ *entities.TenantCredential) error { return nil }

func setupWebhook(jobs *memJobRepo) (*echo.Echo, *Webhook) {
	resolver := credentials.NewResolver(memCredRepo{}, &config.ProviderConfig{
		SystemTenantID: "system",
		WebhookSecret:  testSecret,
	}, nil)
	svc := ingest.NewService(jobs, memMinutesRepo{}, memDeliveryRepo{}, resolver, nil, nil)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e, NewWebhook(svc, nil)
}

func postWebhook(e *echo.Echo, h *Webhook, tenantID string, body []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/"+tenantID, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sig != "" {
		req.Header.Set(HeaderSignature, sig)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/webhooks/:tenant_id")
	c.SetParamNames("tenant_id")
	c.SetParamValues(tenantID)
	_ = h.Receive(c)
	return rec
}

func recordingCompletedBody(t *testing.T, meetingID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"event": entities.EventRecordingCompleted,
		"payload": map[string]interface{}{
			"object": map[string]interface{}{"id": meetingID},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestReceive_ValidEventAccepted(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupWebhook(jobs)

	body := recordingCompletedBody(t, "m-1")
	rec := postWebhook(e, h, "system", body, signature.Sign(testSecret, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if jobs.count() != 1 {
		t.Errorf("expected 1 job created, got %d", jobs.count())
	}
	if !strings.Contains(rec.Body.String(), "accepted") {
		t.Errorf("unexpected response %s", rec.Body.String())
	}
}

func TestReceive_BadSignatureRejected(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupWebhook(jobs)

	body := recordingCompletedBody(t, "m-1")
	rec := postWebhook(e, h, "system", body, signature.Sign("other-secret", body))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if jobs.count() != 0 {
		t.Error("rejected webhook must not create a job")
	}
}

func TestReceive_UnknownTenant(t *testing.T) {
	e, h := setupWebhook(newMemJobRepo())

	body := recordingCompletedBody(t, "m-1")
	rec := postWebhook(e, h, "ghost-tenant", body, signature.Sign(testSecret, body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReceive_ValidationChallenge(t *testing.T) {
	e, h := setupWebhook(newMemJobRepo())

	body, _ := json.Marshal(map[string]interface{}{
		"event":   entities.EventURLValidation,
		"payload": map[string]string{"plain_token": "nonce-42"},
	})
	rec := postWebhook(e, h, "system", body, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ingest.ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("challenge response not valid JSON: %v", err)
	}
	if resp.PlainToken != "nonce-42" {
		t.Errorf("plain token should echo, got %q", resp.PlainToken)
	}
	if resp.EncryptedToken != signature.Sign(testSecret, []byte("nonce-42")) {
		t.Error("encrypted token mismatch")
	}
}

func TestReceive_UnknownEventIgnoredWith200(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupWebhook(jobs)

	body, _ := json.Marshal(map[string]interface{}{
		"event":   "meeting.chat_message_sent",
		"payload": map[string]interface{}{"object": map[string]interface{}{"id": "m-1"}},
	})
	rec := postWebhook(e, h, "system", body, signature.Sign(testSecret, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("unknown events must get 200, got %d", rec.Code)
	}
	if jobs.count() != 0 {
		t.Error("unknown event must not create a job")
	}
}

func TestChallenge_EchoesToken(t *testing.T) {
	e, h := setupWebhook(newMemJobRepo())

	req := httptest.NewRequest(http.MethodGet, "/v1/webhooks/system?challenge=ping-123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/webhooks/:tenant_id")
	c.SetParamNames("tenant_id")
	c.SetParamValues("system")

	if err := h.Challenge(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "ping-123" {
		t.Fatalf("expected echoed token, got %d %q", rec.Code, rec.Body.String())
	}
}
