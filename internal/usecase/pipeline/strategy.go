package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/usecase/caption"
	"github.com/trananhdev/meeting-minutes/pkg/ai"
)

// TranscriptSource tags which path produced a transcript
type TranscriptSource string

const (
	SourceCaption TranscriptSource = "caption"
	SourceAudio   TranscriptSource = "audio"
)

// Outcome is the tagged result of the transcription strategy
type Outcome struct {
	Source     TranscriptSource
	Transcript string
	Speakers   []string

	// Quality is set only for caption-derived transcripts
	Quality *caption.QualityReport
	// RawCaption holds the downloaded caption content for archiving
	RawCaption string
}

// MediaClient downloads recording assets and checks their reachability
type MediaClient interface {
	DownloadFile(ctx context.Context, url, downloadToken string) ([]byte, error)
	CheckReachable(ctx context.Context, url, downloadToken string) error
}

// AudioTranscriber converts a reachable audio URL into speaker-tagged text
type AudioTranscriber interface {
	TranscribeFromURL(ctx context.Context, audioURL string) (*ai.TranscriptResult, error)
}

// Strategy picks between the caption path and the audio STT fallback.
// Ordered evaluation: caption first, audio second, NoMediaAvailable when
// neither yields a transcript.
type Strategy struct {
	media       MediaClient
	transcriber AudioTranscriber
	sttTimeout  time.Duration
	logger      *zap.Logger
}

// NewStrategy creates a transcription strategy
func NewStrategy(media MediaClient, transcriber AudioTranscriber, sttTimeout time.Duration, logger *zap.Logger) *Strategy {
	if sttTimeout <= 0 {
		sttTimeout = 10 * time.Minute
	}
	return &Strategy{
		media:       media,
		transcriber: transcriber,
		sttTimeout:  sttTimeout,
		logger:      logger,
	}
}

// Produce returns a transcript for the meeting payload, or
// entities.ErrNoMediaAvailable when no usable media exists. That error is
// terminal for the job.
func (s *Strategy) Produce(ctx context.Context, payload *entities.MeetingPayload) (*Outcome, error) {
	if outcome := s.tryCaption(ctx, payload); outcome != nil {
		return outcome, nil
	}
	return s.tryAudio(ctx, payload)
}

// tryCaption downloads and parses the first caption file in the media list.
// Returns nil when no caption file exists, the download failed, or parsing
// hit a hard error; all of those fall through to the audio path.
func (s *Strategy) tryCaption(ctx context.Context, payload *entities.MeetingPayload) *Outcome {
	var captionFile *entities.RecordingFile
	for i := range payload.Object.RecordingFiles {
		if payload.Object.RecordingFiles[i].IsCaption() {
			captionFile = &payload.Object.RecordingFiles[i]
			break
		}
	}
	if captionFile == nil {
		return nil
	}

	content, err := s.media.DownloadFile(ctx, captionFile.DownloadURL, payload.DownloadToken)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Caption download failed, falling back to audio",
				zap.String("meeting_id", payload.Object.MeetingID),
				zap.Error(err),
			)
		}
		return nil
	}

	result, err := caption.Parse(string(content))
	if err != nil {
		var pe *caption.ParseError
		if errors.As(err, &pe) && s.logger != nil {
			s.logger.Warn("⚠️ Caption unusable, falling back to audio",
				zap.String("meeting_id", payload.Object.MeetingID),
				zap.Strings("hard_errors", pe.HardErrors),
			)
		}
		return nil
	}

	if s.logger != nil {
		s.logger.Info("✅ Caption transcript produced",
			zap.String("meeting_id", payload.Object.MeetingID),
			zap.Int("quality_score", result.Report.Score),
			zap.Int("cues", result.Report.Metrics.CueCount),
		)
	}

	return &Outcome{
		Source:     SourceCaption,
		Transcript: result.Transcript,
		Speakers:   result.Speakers,
		Quality:    result.Report,
		RawCaption: string(content),
	}
}

// tryAudio runs STT on the best reachable audio asset, preferring
// audio-only containers over video
func (s *Strategy) tryAudio(ctx context.Context, payload *entities.MeetingPayload) (*Outcome, error) {
	candidates := audioCandidates(payload.Object.RecordingFiles)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: meeting %s has no caption, audio, or video files",
			entities.ErrNoMediaAvailable, payload.Object.MeetingID)
	}

	var target *entities.RecordingFile
	for i := range candidates {
		if err := s.media.CheckReachable(ctx, candidates[i].DownloadURL, payload.DownloadToken); err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Media candidate unreachable",
					zap.String("meeting_id", payload.Object.MeetingID),
					zap.String("file_type", candidates[i].FileType),
					zap.Error(err),
				)
			}
			continue
		}
		target = &candidates[i]
		break
	}
	if target == nil {
		return nil, fmt.Errorf("%w: no reachable audio or video file for meeting %s",
			entities.ErrNoMediaAvailable, payload.Object.MeetingID)
	}

	sttCtx, cancel := context.WithTimeout(ctx, s.sttTimeout)
	defer cancel()

	result, err := s.transcriber.TranscribeFromURL(sttCtx, target.DownloadURL)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Audio transcript produced",
			zap.String("meeting_id", payload.Object.MeetingID),
			zap.String("file_type", target.FileType),
			zap.Int("speakers", len(result.Speakers)),
		)
	}

	return &Outcome{
		Source:     SourceAudio,
		Transcript: result.Text,
		Speakers:   result.Speakers,
	}, nil
}

// audioCandidates orders media files for the STT fallback: audio-only
// containers first, video as last resort
func audioCandidates(files []entities.RecordingFile) []entities.RecordingFile {
	var audio, video []entities.RecordingFile
	for _, f := range files {
		switch {
		case f.IsAudio():
			audio = append(audio, f)
		case f.IsVideo():
			video = append(video, f)
		}
	}
	return append(audio, video...)
}
