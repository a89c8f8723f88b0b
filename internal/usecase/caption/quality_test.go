package caption

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func cue(speaker, text string, start, end time.Duration) Cue {
	return Cue{Speaker: speaker, Text: text, StartTime: start, EndTime: end}
}

func TestQualityScore_CleanParse(t *testing.T) {
	result, err := Parse(validContent)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// Short utterances cost 10; perfect balance between two speakers earns 5
	if result.Report.Score != 95 {
		t.Errorf("expected score 95, got %d", result.Report.Score)
	}
}

func TestQualityScore_MonotonicInWarnings(t *testing.T) {
	prev := 101
	for n := 0; n <= 3; n++ {
		var sb strings.Builder
		sb.WriteString(validContent)
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "\ngarbage line %d", i)
		}

		result, err := Parse(sb.String())
		if err != nil {
			t.Fatalf("Parse failed with %d warnings: %v", n, err)
		}
		if result.Report.Score >= prev {
			t.Errorf("score must decrease as warnings grow: %d warnings -> %d (prev %d)",
				n, result.Report.Score, prev)
		}
		prev = result.Report.Score
	}
}

func TestQualityScore_EmptyCuePenalty(t *testing.T) {
	cues := []Cue{
		cue("Alice", "some reasonably long utterance here", 0, time.Second),
		cue("Bob", "", 2*time.Second, 3*time.Second),
	}
	report := buildReport(cues, []string{"Alice", "Bob"}, nil, 2)

	if report.Metrics.EmptyCueCount != 1 {
		t.Errorf("expected 1 empty cue, got %d", report.Metrics.EmptyCueCount)
	}

	full := []Cue{
		cue("Alice", "some reasonably long utterance here", 0, time.Second),
		cue("Bob", "another reasonably long utterance too", 2*time.Second, 3*time.Second),
	}
	fullReport := buildReport(full, []string{"Alice", "Bob"}, nil, 2)
	if report.Score >= fullReport.Score {
		t.Errorf("empty cue should lower score: %d vs %d", report.Score, fullReport.Score)
	}
}

func TestQualityScore_SingleSpeakerPenalty(t *testing.T) {
	mono := []Cue{
		cue("Alice", "a long enough utterance to avoid the short penalty", 0, time.Second),
		cue("Alice", "a second long enough utterance from the same person", 2*time.Second, 3*time.Second),
	}
	report := buildReport(mono, []string{"Alice"}, nil, 2)
	if report.Score != 100-penaltySingleSpeaker {
		t.Errorf("expected %d, got %d", 100-penaltySingleSpeaker, report.Score)
	}
}

func TestQualityScore_LargeGapPenalty(t *testing.T) {
	gapped := []Cue{
		cue("Alice", "a long enough utterance to avoid the short penalty", 0, time.Second),
		cue("Bob", "another long enough utterance after a long silence", 10*time.Minute, 10*time.Minute+time.Second),
	}
	report := buildReport(gapped, []string{"Alice", "Bob"}, nil, 2)

	if report.Metrics.LargeGapCount != 1 {
		t.Errorf("expected 1 large gap, got %d", report.Metrics.LargeGapCount)
	}
	// 100 - 5 (gap) + 5 (balance)
	if report.Score != 100 {
		t.Errorf("expected score 100, got %d", report.Score)
	}
}

func TestQualityScore_ClampedAtZero(t *testing.T) {
	warnings := make([]string, 50)
	for i := range warnings {
		warnings[i] = "bad line"
	}
	report := buildReport(nil, nil, warnings, 0)
	if report.Score != 0 {
		t.Errorf("score must clamp at 0, got %d", report.Score)
	}
}

func TestBalanceScore(t *testing.T) {
	if got := balanceScore(map[string]int{"Alice": 5}); got != 0 {
		t.Errorf("single speaker balance should be 0, got %f", got)
	}
	if got := balanceScore(map[string]int{"Alice": 4, "Bob": 4}); got != 100 {
		t.Errorf("even split should be 100, got %f", got)
	}
	if got := balanceScore(map[string]int{"Alice": 8, "Bob": 2}); got != 25 {
		t.Errorf("expected 25, got %f", got)
	}
}
