package distribution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

type fakeSender struct {
	failFor map[string]error
	sent    []string
}

func (f *fakeSender) Send(_ context.Context, recipient, _, _ string) error {
	if err, ok := f.failFor[recipient]; ok {
		return err
	}
	f.sent = append(f.sent, recipient)
	return nil
}

type fakeDeliveryRepo struct {
	entries   []entities.DeliveryLog
	createErr error
}

func (f *fakeDeliveryRepo) Create(_ context.Context, entry *entities.DeliveryLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeDeliveryRepo) ListByMinutesID(_ context.Context, minutesID uuid.UUID) ([]entities.DeliveryLog, error) {
	var out []entities.DeliveryLog
	for _, e := range f.entries {
		if e.MinutesID == minutesID {
			out = append(out, e)
		}
	}
	return out, nil
}

func testMinutes() *entities.Minutes {
	m := entities.NewMinutes(uuid.New())
	m.MeetingTopic = "Weekly Sync"
	m.Summary = "Discussed roadmap"
	m.ActionItems = []string{"Ship it"}
	return m
}

func TestDeliver_AllRecipients(t *testing.T) {
	sender := &fakeSender{}
	repo := &fakeDeliveryRepo{}
	engine := NewEngine(sender, repo, time.Second, nil)

	entries, err := engine.Deliver(context.Background(), testMinutes(),
		[]string{"a@example.com", "b@example.com"})
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Status != entities.DeliveryStatusSent {
			t.Errorf("recipient %s: expected sent, got %s", e.Recipient, e.Status)
		}
	}
}

func TestDeliver_PartialFailureStillAttemptsAll(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{
		"b@example.com": errors.New("mailbox unavailable"),
	}}
	repo := &fakeDeliveryRepo{}
	engine := NewEngine(sender, repo, time.Second, nil)

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	entries, err := engine.Deliver(context.Background(), testMinutes(), recipients)
	if err != nil {
		t.Fatalf("partial failure must not surface as error: %v", err)
	}
	if len(entries) != len(recipients) {
		t.Fatalf("expected %d entries, got %d", len(recipients), len(entries))
	}

	byRecipient := make(map[string]entities.DeliveryLog)
	for _, e := range entries {
		byRecipient[e.Recipient] = e
	}
	if byRecipient["b@example.com"].Status != entities.DeliveryStatusFailed {
		t.Error("failing recipient should be marked failed")
	}
	if byRecipient["b@example.com"].ErrorMessage == nil {
		t.Error("failed entry should record the cause")
	}
	if byRecipient["a@example.com"].Status != entities.DeliveryStatusSent ||
		byRecipient["c@example.com"].Status != entities.DeliveryStatusSent {
		t.Error("other recipients should still be attempted and sent")
	}
}

func TestDeliver_LogWriteErrorSurfaces(t *testing.T) {
	boom := errors.New("db down")
	engine := NewEngine(&fakeSender{}, &fakeDeliveryRepo{createErr: boom}, time.Second, nil)

	_, err := engine.Deliver(context.Background(), testMinutes(), []string{"a@example.com"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected log write error to surface, got %v", err)
	}
}
