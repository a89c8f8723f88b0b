package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// SummarizerClient is a minimal client for the chat-completions endpoint
// used to turn a raw transcript into structured minutes
type SummarizerClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewSummarizerClient creates a summarizer client using values from the
// provided config. Pass a nil config to fall back to environment variables.
func NewSummarizerClient(cfg *config.SummarizerConfig) *SummarizerClient {
	var apiKey, base, model string
	timeout := 60 * time.Second
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("SUMMARIZER_API_KEY")
	}
	if base == "" {
		base = os.Getenv("SUMMARIZER_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}
	if model == "" {
		model = "llama-3.1-70b-versatile"
	}

	return &SummarizerClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// StatusError carries the upstream HTTP status so callers can tell
// transient (5xx, 429) from permanent (other 4xx) failures
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("summarizer returned status %d", e.StatusCode)
}

// Transient reports whether the call is worth retrying
func (e *StatusError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// MeetingInfo is the metadata handed to the model alongside the transcript
type MeetingInfo struct {
	Topic           string
	DurationMinutes int
	Participants    []string
}

// MinutesResult is the structured output expected back from the model
type MinutesResult struct {
	Summary             string   `json:"summary"`
	ActionItems         []string `json:"action_items"`
	FormattedTranscript string   `json:"formatted_transcript"`
}

const minutesPrompt = `You are a meeting secretary. From the transcript below, produce minutes as a single JSON object with exactly these fields:
- "summary": a concise prose summary of the meeting
- "action_items": an array of strings, one per concrete follow-up (empty array if none)
- "formatted_transcript": the transcript cleaned up with consistent "Speaker: text" lines

Return only the JSON object, no commentary.

Meeting topic: %s
Duration: %d minutes
Participants: %s

Transcript:
%s`

// GenerateMinutes sends the transcript to the summarization endpoint and
// parses the structured response. Returns *StatusError on non-2xx so the
// caller decides whether to retry.
func (s *SummarizerClient) GenerateMinutes(ctx context.Context, transcript string, info MeetingInfo) (*MinutesResult, error) {
	prompt := fmt.Sprintf(minutesPrompt,
		info.Topic, info.DurationMinutes, strings.Join(info.Participants, ", "), transcript)

	reqBody := ChatRequest{
		Model:       s.model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: 0.3,
		MaxTokens:   8000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := s.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, err
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from summarizer")
	}

	return parseMinutesResponse(cr.Choices[0].Message.Content)
}

// parseMinutesResponse decodes the model output into a MinutesResult
func parseMinutesResponse(content string) (*MinutesResult, error) {
	content = extractJSON(content)

	var result MinutesResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse summarizer response: %w", err)
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("missing summary in summarizer response")
	}
	if result.ActionItems == nil {
		result.ActionItems = []string{}
	}
	return &result, nil
}

// extractJSON strips markdown code fences the model sometimes wraps the
// JSON object in
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	// Fall back to the outermost braces when prose surrounds the object
	if !strings.HasPrefix(s, "{") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}
