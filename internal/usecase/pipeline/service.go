package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/domain/repositories"
	"github.com/trananhdev/meeting-minutes/internal/usecase/credentials"
	"github.com/trananhdev/meeting-minutes/internal/usecase/distribution"
	"github.com/trananhdev/meeting-minutes/pkg/ai"
	"github.com/trananhdev/meeting-minutes/pkg/config"
	"github.com/trananhdev/meeting-minutes/pkg/jobcontext"
)

// Archiver stores pipeline artifacts for audit. Archiving is best effort
// and never fails a job.
type Archiver interface {
	ArchiveJobText(ctx context.Context, jobID, name, content string) error
}

// Service is the pipeline orchestrator: a pool of workers claims pending
// jobs and drives each one through transcription, generation, persistence,
// and distribution.
type Service struct {
	jobs        repositories.JobRepository
	minutes     repositories.MinutesRepository
	resolver    *credentials.Resolver
	strategy    *Strategy
	generator   *Generator
	distributor *distribution.Engine
	archive     Archiver
	cfg         *config.WorkerConfig
	logger      *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewService creates the pipeline orchestrator. archive may be nil.
func NewService(
	jobs repositories.JobRepository,
	minutes repositories.MinutesRepository,
	resolver *credentials.Resolver,
	strategy *Strategy,
	generator *Generator,
	distributor *distribution.Engine,
	archive Archiver,
	cfg *config.WorkerConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobs:        jobs,
		minutes:     minutes,
		resolver:    resolver,
		strategy:    strategy,
		generator:   generator,
		distributor: distributor,
		archive:     archive,
		cfg:         cfg,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}
}

// StartWorkers launches the worker pool and the zombie sweeper
func (s *Service) StartWorkers(ctx context.Context) {
	for i := 0; i < s.cfg.Count; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.wg.Add(1)
	go s.zombieSweeper(ctx)

	if s.logger != nil {
		s.logger.Info("🚀 Pipeline workers started",
			zap.Int("workers", s.cfg.Count),
			zap.Duration("poll_interval", s.cfg.PollInterval),
		)
	}
}

// Stop signals all workers to finish and waits for them
func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// worker polls for pending jobs and processes the ones it wins the claim on
func (s *Service) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx, workerID)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context, workerID int) {
	pending, err := s.jobs.GetPendingJobs(ctx, s.cfg.Count)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to poll pending jobs", zap.Error(err))
		}
		return
	}

	for i := range pending {
		job := pending[i]

		claimed, err := s.jobs.Claim(ctx, job.ID)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Claim failed",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		if !claimed {
			// Another worker won, or a sibling job for the meeting is running
			continue
		}

		jobCtx, cancel := jobcontext.JobBegin(ctx, job.ID, string(job.JobType), workerID, s.cfg.JobTimeout)
		err = jobcontext.Run(jobCtx, func(runCtx context.Context) error {
			return s.processJob(runCtx, &job)
		})
		cancel()

		if err != nil {
			s.failJob(ctx, &job, err)
		}
	}
}

// processJob drives one claimed job to a terminal state. Returning an error
// marks the job failed with that error as the first permanent cause.
func (s *Service) processJob(ctx context.Context, job *entities.Job) error {
	if s.logger != nil {
		s.logger.Info("⚙️ Processing job",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.JobType)),
			zap.String("meeting_id", job.MeetingID),
			zap.Int("worker_id", jobcontext.GetWorkerID(ctx)),
		)
	}

	payload, err := entities.DecodeMeetingPayload(job.Payload)
	if err != nil {
		return err
	}

	if _, err := s.resolver.Resolve(ctx, job.TenantID); err != nil {
		return err
	}

	// An operator retry after a delivery-era crash must not regenerate
	// minutes; reuse the record the first run persisted.
	record, err := s.minutes.GetByJobID(ctx, job.ID)
	if err != nil {
		return err
	}
	if record == nil {
		record, err = s.produceMinutes(ctx, job, payload)
		if err != nil {
			return err
		}
	}

	entries, err := s.distributor.Deliver(ctx, record, payload.Recipients())
	if err != nil && s.logger != nil {
		// Delivery bookkeeping trouble is not a job failure either; the
		// per-recipient log is advisory once minutes exist
		s.logger.Error("❌ Delivery logging incomplete",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}

	return s.completeJob(ctx, job, record, entries)
}

// produceMinutes runs transcription and generation, persists the minutes
// record, and archives artifacts
func (s *Service) produceMinutes(ctx context.Context, job *entities.Job, payload *entities.MeetingPayload) (*entities.Minutes, error) {
	outcome, err := s.strategy.Produce(ctx, payload)
	if err != nil {
		return nil, err
	}

	participants := participantNames(payload, outcome)

	generated, err := s.generator.Generate(ctx, outcome.Transcript, ai.MeetingInfo{
		Topic:           payload.Object.Topic,
		DurationMinutes: payload.Object.Duration,
		Participants:    participants,
	})
	if err != nil {
		return nil, fmt.Errorf("minutes generation failed: %w", err)
	}

	record := entities.NewMinutes(job.ID)
	record.MeetingTopic = payload.Object.Topic
	record.StartTime = payload.Object.StartTime
	record.DurationMinutes = payload.Object.Duration
	record.Participants = participants
	record.RawTranscript = outcome.Transcript
	record.FormattedTranscript = generated.FormattedTranscript
	record.Summary = generated.Summary
	record.ActionItems = generated.ActionItems
	record.TranscriptSource = string(outcome.Source)

	if err := s.minutes.Create(ctx, record); err != nil {
		return nil, err
	}

	s.archiveArtifacts(ctx, job, outcome)

	return record, nil
}

// archiveArtifacts stores the raw caption and transcript for audit.
// Failures are logged and swallowed.
func (s *Service) archiveArtifacts(ctx context.Context, job *entities.Job, outcome *Outcome) {
	if s.archive == nil {
		return
	}

	jobID := job.ID.String()
	if outcome.RawCaption != "" {
		if err := s.archive.ArchiveJobText(ctx, jobID, "caption.vtt", outcome.RawCaption); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to archive caption", zap.String("job_id", jobID), zap.Error(err))
		}
	}
	if err := s.archive.ArchiveJobText(ctx, jobID, "transcript.txt", outcome.Transcript); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to archive transcript", zap.String("job_id", jobID), zap.Error(err))
	}
}

// completeJob finalizes the job regardless of individual delivery outcomes
func (s *Service) completeJob(ctx context.Context, job *entities.Job, record *entities.Minutes, entries []entities.DeliveryLog) error {
	sent, failed := 0, 0
	for _, e := range entries {
		if e.Status == entities.DeliveryStatusSent {
			sent++
		} else {
			failed++
		}
	}

	result, _ := json.Marshal(map[string]interface{}{
		"minutes_id":        record.ID,
		"transcript_source": record.TranscriptSource,
		"deliveries_sent":   sent,
		"deliveries_failed": failed,
		"recipients_total":  len(entries),
	})

	if err := s.jobs.MarkCompleted(ctx, job.ID, result); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("✅ Job completed",
			zap.String("job_id", job.ID.String()),
			zap.String("minutes_id", record.ID.String()),
			zap.Int("deliveries_sent", sent),
			zap.Int("deliveries_failed", failed),
		)
	}
	return nil
}

// failJob records the first permanent cause on the job
func (s *Service) failJob(ctx context.Context, job *entities.Job, cause error) {
	if s.logger != nil {
		s.logger.Error("❌ Job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", job.MeetingID),
			zap.Error(cause),
		)
	}

	if err := s.jobs.MarkFailed(ctx, job.ID, cause.Error()); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark job failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

// zombieSweeper returns jobs stuck in processing past the cutoff back to
// pending, covering worker crashes mid-job
func (s *Service) zombieSweeper(ctx context.Context) {
	defer s.wg.Done()

	interval := s.cfg.ZombieAfter / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			released, err := s.jobs.ReleaseZombies(ctx, time.Now().Add(-s.cfg.ZombieAfter))
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Zombie sweep failed", zap.Error(err))
				}
				continue
			}
			if released > 0 && s.logger != nil {
				s.logger.Warn("⚠️ Released zombie jobs back to pending",
					zap.Int64("count", released),
				)
			}
		}
	}
}

// participantNames prefers names reported by the provider, falling back to
// speakers detected in the transcript
func participantNames(payload *entities.MeetingPayload, outcome *Outcome) []string {
	var names []string
	for _, p := range payload.Participants {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		names = outcome.Speakers
	}
	return names
}

// permanent error helpers used by tests and handlers

// IsPermanentJobError reports whether an error should immediately fail a
// job rather than be surfaced as transient trouble
func IsPermanentJobError(err error) bool {
	return errors.Is(err, entities.ErrNoMediaAvailable) ||
		errors.Is(err, entities.ErrTenantNotConfigured)
}
