package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// Transcriber wraps the AssemblyAI SDK client for synchronous
// audio-to-text transcription with speaker diarization
type Transcriber struct {
	client *aai.Client
}

// NewTranscriber creates a transcriber using the provided config.
// If cfg is nil, falls back to environment variables.
func NewTranscriber(cfg *config.STTConfig) *Transcriber {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &Transcriber{client: aai.NewClient(apiKey)}
}

// TranscriptResult is the speaker-attributed output of an audio transcription
type TranscriptResult struct {
	Text     string
	Speakers []string
}

// TranscribeFromURL submits the audio URL and blocks until the transcript is
// done. The SDK polls the transcript status internally, so the caller bounds
// the wait through ctx.
func (t *Transcriber) TranscribeFromURL(ctx context.Context, audioURL string) (*TranscriptResult, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, audioURL, params)
	if err != nil {
		return nil, fmt.Errorf("audio transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		errMsg := "transcription error"
		if transcript.Error != nil {
			errMsg = *transcript.Error
		}
		return nil, fmt.Errorf("audio transcription failed: %s", errMsg)
	}

	return buildResult(&transcript), nil
}

// buildResult flattens SDK utterances into "Speaker: text" lines in
// chronological order. Falls back to the plain text when no utterances
// came back (diarization unavailable for the audio).
func buildResult(transcript *aai.Transcript) *TranscriptResult {
	result := &TranscriptResult{Speakers: []string{}}

	if len(transcript.Utterances) == 0 {
		if transcript.Text != nil {
			result.Text = *transcript.Text
		}
		return result
	}

	var lines []string
	seen := make(map[string]bool)
	for _, u := range transcript.Utterances {
		speaker := "Unknown"
		if u.Speaker != nil && *u.Speaker != "" {
			speaker = "Speaker " + *u.Speaker
		}
		text := ""
		if u.Text != nil {
			text = *u.Text
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, text))
		if !seen[speaker] {
			seen[speaker] = true
			result.Speakers = append(result.Speakers, speaker)
		}
	}

	result.Text = strings.Join(lines, "\n")
	return result
}
