package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/domain/repositories"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/mail"
)

// Engine sends generated minutes to recipients. Every recipient is
// attempted independently; one failure never blocks the rest, and the
// caller treats the job as complete once all attempts were made.
type Engine struct {
	sender      mail.Sender
	deliveryLog repositories.DeliveryLogRepository
	sendTimeout time.Duration
	logger      *zap.Logger
}

// NewEngine creates a distribution engine
func NewEngine(sender mail.Sender, deliveryLog repositories.DeliveryLogRepository, sendTimeout time.Duration, logger *zap.Logger) *Engine {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Engine{
		sender:      sender,
		deliveryLog: deliveryLog,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// Deliver sends the minutes to each recipient and appends one delivery log
// entry per attempt. Returns the entries; the error is non-nil only when
// logging an attempt failed, never for a failed send.
func (e *Engine) Deliver(ctx context.Context, minutes *entities.Minutes, recipients []string) ([]entities.DeliveryLog, error) {
	subject := buildSubject(minutes)
	body := buildBody(minutes)

	entries := make([]entities.DeliveryLog, 0, len(recipients))
	for _, recipient := range recipients {
		entry := entities.NewDeliveryLog(minutes.ID, recipient)

		sendCtx, cancel := context.WithTimeout(ctx, e.sendTimeout)
		err := e.sender.Send(sendCtx, recipient, subject, body)
		cancel()

		if err != nil {
			entry.MarkFailed(err.Error())
			if e.logger != nil {
				e.logger.Warn("⚠️ Delivery failed for recipient",
					zap.String("minutes_id", minutes.ID.String()),
					zap.String("recipient", recipient),
					zap.Error(err),
				)
			}
		} else {
			entry.MarkSent()
		}

		if err := e.deliveryLog.Create(ctx, entry); err != nil {
			return entries, fmt.Errorf("failed to record delivery for %s: %w", recipient, err)
		}
		entries = append(entries, *entry)
	}

	if e.logger != nil {
		sent := 0
		for _, entry := range entries {
			if entry.Status == entities.DeliveryStatusSent {
				sent++
			}
		}
		e.logger.Info("📧 Distribution finished",
			zap.String("minutes_id", minutes.ID.String()),
			zap.Int("recipients", len(recipients)),
			zap.Int("sent", sent),
		)
	}

	return entries, nil
}

func buildSubject(minutes *entities.Minutes) string {
	topic := minutes.MeetingTopic
	if topic == "" {
		topic = "your meeting"
	}
	return fmt.Sprintf("Meeting minutes: %s", topic)
}

func buildBody(minutes *entities.Minutes) string {
	var sb strings.Builder

	if minutes.MeetingTopic != "" {
		fmt.Fprintf(&sb, "Topic: %s\n", minutes.MeetingTopic)
	}
	if minutes.StartTime != nil {
		fmt.Fprintf(&sb, "Started: %s\n", minutes.StartTime.Format(time.RFC1123))
	}
	if minutes.DurationMinutes > 0 {
		fmt.Fprintf(&sb, "Duration: %d minutes\n", minutes.DurationMinutes)
	}
	if len(minutes.Participants) > 0 {
		fmt.Fprintf(&sb, "Participants: %s\n", strings.Join(minutes.Participants, ", "))
	}

	sb.WriteString("\nSummary\n-------\n")
	sb.WriteString(minutes.Summary)
	sb.WriteString("\n")

	if len(minutes.ActionItems) > 0 {
		sb.WriteString("\nAction items\n------------\n")
		for _, item := range minutes.ActionItems {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}

	if minutes.FormattedTranscript != "" {
		sb.WriteString("\nTranscript\n----------\n")
		sb.WriteString(minutes.FormattedTranscript)
		sb.WriteString("\n")
	}

	return sb.String()
}
