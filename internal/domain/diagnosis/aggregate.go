package diagnosis

import (
	"sort"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
	"github.com/lifelynxhealth-hub/backend/internal/platform/classifier"
)

// Defaults for a predicted label that has no catalog entry.
const (
	unknownSeverity  = 1
	unknownTreatment = "Consult doctor"
)

// withPrediction appends the classifier's prediction to the rule candidates
// when it is confident enough and names a condition the rules missed.
func withPrediction(lex *lexicon.Lexicon, candidates []Candidate, pred classifier.Prediction, th Thresholds) []Candidate {
	if pred.Label == "" || !(pred.Probability > th.ClassifierMinProbability) {
		return candidates
	}
	for _, c := range candidates {
		if c.Disease == pred.Label {
			return candidates
		}
	}

	confidence := calibrate(pred.Probability, th.ConfidenceCap)
	if cond, ok := lex.Condition(pred.Label); ok {
		return append(candidates, candidateFor(cond, confidence))
	}
	return append(candidates, Candidate{
		Disease:          pred.Label,
		Confidence:       confidence,
		EmergencyLevel:   unknownSeverity,
		Treatment:        unknownTreatment,
		RecommendedDrugs: []string{},
	})
}

// rank orders candidates by confidence, then severity, both descending.
// Equal candidates keep their relative order.
func rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].EmergencyLevel > candidates[j].EmergencyLevel
	})
}
