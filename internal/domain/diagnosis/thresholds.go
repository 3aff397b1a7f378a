package diagnosis

import "fmt"

// Thresholds are the tunable constants of the scoring pipeline.
type Thresholds struct {
	// RuleMinConfidence is the exclusive lower bound a rule candidate must
	// exceed to be reported.
	RuleMinConfidence float64
	// KeySymptomBonus is added once when any key symptom matches.
	KeySymptomBonus float64
	// ConfidenceCap bounds every reported confidence.
	ConfidenceCap float64
	// ClassifierMinProbability is the exclusive lower bound for a classifier
	// prediction to be added.
	ClassifierMinProbability float64
	// ClassifierMinTextLength is the length the raw text must exceed before
	// the classifier is consulted.
	ClassifierMinTextLength int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RuleMinConfidence:        0.3,
		KeySymptomBonus:          0.3,
		ConfidenceCap:            0.95,
		ClassifierMinProbability: 0.7,
		ClassifierMinTextLength:  10,
	}
}

func (t Thresholds) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"rule min confidence", t.RuleMinConfidence},
		{"key symptom bonus", t.KeySymptomBonus},
		{"confidence cap", t.ConfidenceCap},
		{"classifier min probability", t.ClassifierMinProbability},
	} {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", f.name, f.v)
		}
	}
	if t.ClassifierMinTextLength < 0 {
		return fmt.Errorf("classifier min text length must not be negative, got %d", t.ClassifierMinTextLength)
	}
	return nil
}
