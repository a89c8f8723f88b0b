package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/usecase/credentials"
	"github.com/trananhdev/meeting-minutes/internal/usecase/ingest"
	"github.com/trananhdev/meeting-minutes/pkg/config"
	pkgvalidator "github.com/trananhdev/meeting-minutes/pkg/validator"
)

func setupJob(jobs *memJobRepo) (*echo.Echo, *Job) {
	resolver := credentials.NewResolver(memCredRepo{}, &config.ProviderConfig{
		SystemTenantID: "system",
		WebhookSecret:  testSecret,
	}, nil)
	svc := ingest.NewService(jobs, memMinutesRepo{}, memDeliveryRepo{}, resolver, nil, nil)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e, NewJob(svc, nil)
}

func TestCreateManual(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupJob(jobs)

	body, _ := json.Marshal(map[string]interface{}{
		"tenant_id":  "system",
		"meeting_id": "m-manual-1",
		"topic":      "Backfill",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateManual(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if jobs.count() != 1 {
		t.Errorf("expected 1 job, got %d", jobs.count())
	}
}

func TestCreateManual_MissingMeetingID(t *testing.T) {
	e, h := setupJob(newMemJobRepo())

	body, _ := json.Marshal(map[string]interface{}{"tenant_id": "system"})
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.CreateManual(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetJob(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupJob(jobs)

	job := entities.NewJob("system", entities.JobTypeManual, "m-1", []byte(`{}`))
	jobs.Create(context.Background(), job)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(job.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.ID != job.ID.String() || resp.Data.Status != "pending" {
		t.Errorf("unexpected response %+v", resp.Data)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	e, h := setupJob(newMemJobRepo())

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	_ = h.Get(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRetryJob_Handler(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupJob(jobs)

	job := entities.NewJob("system", entities.JobTypeManual, "m-1", []byte(`{}`))
	job.MarkAsFailed("boom")
	jobs.Create(context.Background(), job)

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/"+job.ID.String()+"/retry", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(job.ID.String())

	if err := h.Retry(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got, _ := jobs.GetByID(context.Background(), job.ID)
	if got.Status != entities.JobStatusPending {
		t.Errorf("expected pending after retry, got %s", got.Status)
	}
}

func TestRetryJob_ActiveJobConflicts(t *testing.T) {
	jobs := newMemJobRepo()
	e, h := setupJob(jobs)

	job := entities.NewJob("system", entities.JobTypeManual, "m-1", []byte(`{}`))
	jobs.Create(context.Background(), job)

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/"+job.ID.String()+"/retry", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(job.ID.String())

	_ = h.Retry(c)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for non-terminal job, got %d", rec.Code)
	}
}
