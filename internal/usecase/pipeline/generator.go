package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/trananhdev/meeting-minutes/pkg/ai"
	"github.com/trananhdev/meeting-minutes/pkg/jobcontext"
)

// maxGenerateRetries bounds retries of the summarization call on transient
// failures. Permanent (4xx) errors never retry.
const maxGenerateRetries = 2

// SummarizerClient is the single external call producing structured minutes
type SummarizerClient interface {
	GenerateMinutes(ctx context.Context, transcript string, info ai.MeetingInfo) (*ai.MinutesResult, error)
}

// Generator wraps the summarizer with bounded retry on transient errors
type Generator struct {
	client SummarizerClient
	logger *zap.Logger
}

// NewGenerator creates a minutes generator
func NewGenerator(client SummarizerClient, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Generate produces minutes from a raw transcript. Transient errors
// (timeouts, 5xx, rate limits) retry up to maxGenerateRetries times with
// exponential backoff; everything else fails immediately.
func (g *Generator) Generate(ctx context.Context, transcript string, info ai.MeetingInfo) (*ai.MinutesResult, error) {
	var result *ai.MinutesResult

	attempt := 0
	operation := func() error {
		attempt++
		r, err := g.client.GenerateMinutes(ctx, transcript, info)
		if err != nil {
			if !isTransientGenerateError(err) {
				return backoff.Permanent(err)
			}
			if g.logger != nil {
				g.logger.Warn("⚠️ Minutes generation failed, will retry",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
			}
			return err
		}
		result = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, maxGenerateRetries), ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isTransientGenerateError splits retriable summarizer failures from
// permanent ones. 4xx means the input itself is the problem.
func isTransientGenerateError(err error) bool {
	var se *ai.StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return jobcontext.IsRetryableError(err)
}
