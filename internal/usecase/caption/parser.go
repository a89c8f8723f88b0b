package caption

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Cue is a single speaker utterance bound to a timestamp range
type Cue struct {
	StartTime time.Duration
	EndTime   time.Duration
	Speaker   string
	Text      string
}

// Result is a successful caption parse: the interleaved chronological
// transcript, per-speaker transcripts, and the computed quality report
type Result struct {
	Transcript string
	Speakers   []string
	PerSpeaker map[string]string
	Cues       []Cue
	Report     *QualityReport
}

// ParseError means the caption content is unusable (zero cues, zero
// speakers, or zero timestamps). Carries the report so callers can log
// what was found before falling back to audio transcription.
type ParseError struct {
	HardErrors []string
	Report     *QualityReport
}

// Error implements error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("caption content unusable: %s", strings.Join(e.HardErrors, "; "))
}

var (
	// 00:00:01.000 --> 00:00:03.000
	timestampRe = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3})\s+-->\s+(\d{2}:\d{2}:\d{2}\.\d{3})`)
	// 1 Alice: Hello team
	cueRe = regexp.MustCompile(`^(\d+)\s+([^:]+):\s*(.*)$`)
)

// Parse converts caption file content into a chronological speaker-tagged
// transcript plus a quality report. Lines that match neither a timestamp
// nor a cue are recorded as warnings, not dropped silently. Returns
// *ParseError when a hard error makes the result unusable.
func Parse(content string) (*Result, error) {
	var (
		cues           []Cue
		warnings       []string
		timestampCount int
		curStart       time.Duration
		curEnd         time.Duration
		haveTimestamp  bool
	)

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "WEBVTT" {
			continue
		}

		if m := timestampRe.FindStringSubmatch(trimmed); m != nil {
			start, err1 := parseTimestamp(m[1])
			end, err2 := parseTimestamp(m[2])
			if err1 != nil || err2 != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid timestamp values", i+1))
				continue
			}
			curStart, curEnd = start, end
			haveTimestamp = true
			timestampCount++
			continue
		}

		if m := cueRe.FindStringSubmatch(trimmed); m != nil {
			cue := Cue{
				Speaker: strings.TrimSpace(m[2]),
				Text:    strings.TrimSpace(m[3]),
			}
			if haveTimestamp {
				cue.StartTime = curStart
				cue.EndTime = curEnd
			}
			cues = append(cues, cue)
			continue
		}

		warnings = append(warnings, fmt.Sprintf("line %d: unrecognized format: %s", i+1, truncate(trimmed, 60)))
	}

	speakers, perSpeaker := groupBySpeaker(cues)
	report := buildReport(cues, speakers, warnings, timestampCount)

	if len(report.HardErrors) > 0 {
		return nil, &ParseError{HardErrors: report.HardErrors, Report: report}
	}

	return &Result{
		Transcript: chronologicalTranscript(cues),
		Speakers:   speakers,
		PerSpeaker: perSpeaker,
		Cues:       cues,
		Report:     report,
	}, nil
}

// chronologicalTranscript joins cues in original order as "speaker: text"
func chronologicalTranscript(cues []Cue) string {
	lines := make([]string, 0, len(cues))
	for _, c := range cues {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Speaker, c.Text))
	}
	return strings.Join(lines, "\n")
}

// groupBySpeaker returns speakers in order of first appearance and each
// speaker's utterances joined by newlines
func groupBySpeaker(cues []Cue) ([]string, map[string]string) {
	var speakers []string
	grouped := make(map[string][]string)
	for _, c := range cues {
		if c.Speaker == "" {
			continue
		}
		if _, seen := grouped[c.Speaker]; !seen {
			speakers = append(speakers, c.Speaker)
		}
		grouped[c.Speaker] = append(grouped[c.Speaker], c.Text)
	}

	perSpeaker := make(map[string]string, len(grouped))
	for speaker, texts := range grouped {
		perSpeaker[speaker] = strings.Join(texts, "\n")
	}
	return speakers, perSpeaker
}

// parseTimestamp converts "HH:MM:SS.mmm" into a duration from recording start
func parseTimestamp(s string) (time.Duration, error) {
	var h, m, sec, ms int
	if _, err := fmt.Sscanf(s, "%02d:%02d:%02d.%03d", &h, &m, &sec, &ms); err != nil {
		return 0, err
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
