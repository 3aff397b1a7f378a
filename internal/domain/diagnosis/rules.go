package diagnosis

import (
	"math"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
)

// scoreRules rates every catalog condition against the detected symptoms.
// The result is in catalog order.
func scoreRules(conditions []lexicon.Condition, symptoms []string, th Thresholds) []Candidate {
	have := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		have[s] = true
	}

	out := []Candidate{}
	for i := range conditions {
		c := &conditions[i]
		total := len(c.Symptoms)
		if total == 0 {
			continue
		}
		matches := countMatches(c.Symptoms, have)
		keyMatches := countMatches(c.KeySymptoms(), have)

		confidence := float64(matches) / float64(total)
		if keyMatches > 0 {
			confidence += th.KeySymptomBonus
		}
		// The gate applies to the reported value, so nothing rounds down
		// onto the threshold.
		reported := calibrate(confidence, th.ConfidenceCap)
		if reported > th.RuleMinConfidence && (matches >= 2 || keyMatches > 0) {
			out = append(out, candidateFor(c, reported))
		}
	}
	return out
}

// countMatches counts the distinct entries of list present in have.
func countMatches(list []string, have map[string]bool) int {
	seen := make(map[string]bool, len(list))
	n := 0
	for _, s := range list {
		if have[s] && !seen[s] {
			seen[s] = true
			n++
		}
	}
	return n
}

// calibrate rounds to two decimals and caps the result.
func calibrate(confidence, limit float64) float64 {
	return math.Min(math.Round(confidence*100)/100, limit)
}
