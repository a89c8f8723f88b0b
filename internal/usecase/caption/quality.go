package caption

import "time"

// QualityMetrics are the raw measurements behind the score
type QualityMetrics struct {
	CueCount            int     `json:"cue_count"`
	SpeakerCount        int     `json:"speaker_count"`
	AverageTextLength   float64 `json:"average_text_length"`
	EmptyCueCount       int     `json:"empty_cue_count"`
	LargeGapCount       int     `json:"large_gap_count"`
	SpeakerBalanceScore float64 `json:"speaker_balance_score"`
}

// QualityReport summarizes how trustworthy a caption parse is. A low score
// does not block using the transcript; only hard errors do.
type QualityReport struct {
	Score      int            `json:"score"`
	Warnings   []string       `json:"warnings"`
	HardErrors []string       `json:"hard_errors,omitempty"`
	Metrics    QualityMetrics `json:"metrics"`
}

// Penalty and bonus weights for the 0-100 quality score
const (
	penaltyHardError     = 30
	penaltyWarning       = 5
	penaltyEmptyCue      = 2
	penaltyShortAverage  = 10
	penaltySingleSpeaker = 15
	penaltyLargeGap      = 5
	bonusGoodBalance     = 5

	shortAverageThreshold = 20.0
	largeGapThreshold     = 5 * time.Minute
	balanceBonusThreshold = 70.0
)

// buildReport computes metrics and the weighted score for a parsed cue set
func buildReport(cues []Cue, speakers []string, warnings []string, timestampCount int) *QualityReport {
	metrics := computeMetrics(cues, speakers)

	var hardErrors []string
	if metrics.CueCount == 0 {
		hardErrors = append(hardErrors, "no cues found")
	}
	if metrics.SpeakerCount == 0 {
		hardErrors = append(hardErrors, "no speakers found")
	}
	if timestampCount == 0 {
		hardErrors = append(hardErrors, "no timestamps found")
	}

	score := 100
	score -= penaltyHardError * len(hardErrors)
	score -= penaltyWarning * len(warnings)
	score -= penaltyEmptyCue * metrics.EmptyCueCount
	if metrics.CueCount > 0 && metrics.AverageTextLength < shortAverageThreshold {
		score -= penaltyShortAverage
	}
	if metrics.SpeakerCount == 1 && metrics.CueCount > 1 {
		score -= penaltySingleSpeaker
	}
	score -= penaltyLargeGap * metrics.LargeGapCount
	if metrics.SpeakerBalanceScore > balanceBonusThreshold {
		score += bonusGoodBalance
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	if warnings == nil {
		warnings = []string{}
	}

	return &QualityReport{
		Score:      score,
		Warnings:   warnings,
		HardErrors: hardErrors,
		Metrics:    metrics,
	}
}

func computeMetrics(cues []Cue, speakers []string) QualityMetrics {
	metrics := QualityMetrics{
		CueCount:     len(cues),
		SpeakerCount: len(speakers),
	}

	totalLen := 0
	perSpeakerCues := make(map[string]int)
	for i, c := range cues {
		if c.Text == "" {
			metrics.EmptyCueCount++
		}
		totalLen += len(c.Text)
		perSpeakerCues[c.Speaker]++

		if i > 0 && c.StartTime > cues[i-1].EndTime &&
			c.StartTime-cues[i-1].EndTime > largeGapThreshold {
			metrics.LargeGapCount++
		}
	}

	if len(cues) > 0 {
		metrics.AverageTextLength = float64(totalLen) / float64(len(cues))
	}
	metrics.SpeakerBalanceScore = balanceScore(perSpeakerCues)

	return metrics
}

// balanceScore is the ratio of the quietest speaker's cue count to the most
// talkative one's, scaled 0-100. A single speaker scores 0 since there is
// nothing to balance.
func balanceScore(perSpeaker map[string]int) float64 {
	if len(perSpeaker) < 2 {
		return 0
	}
	minCount, maxCount := -1, 0
	for _, n := range perSpeaker {
		if minCount < 0 || n < minCount {
			minCount = n
		}
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		return 0
	}
	return float64(minCount) / float64(maxCount) * 100
}
