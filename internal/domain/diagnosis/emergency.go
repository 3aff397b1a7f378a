package diagnosis

import (
	"strings"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
)

// SevereLevel is the severity from which a diagnosis alone is an emergency.
const SevereLevel = 4

// broadSymptomCount is the symptom count a fever must exceed to be treated
// as systemic.
const broadSymptomCount = 3

// isEmergency reports whether the situation needs urgent care.
func isEmergency(rules lexicon.EmergencyRules, symptoms []string, diagnoses []Candidate) bool {
	if len(symptoms) > broadSymptomCount && hasHeatSymptom(rules.HeatMarkers, symptoms) {
		return true
	}
	for _, s := range symptoms {
		for _, severe := range rules.SevereSymptoms {
			if s == severe {
				return true
			}
		}
	}
	for _, d := range diagnoses {
		if d.EmergencyLevel >= SevereLevel {
			return true
		}
	}
	return false
}

func hasHeatSymptom(markers, symptoms []string) bool {
	for _, s := range symptoms {
		for _, m := range markers {
			if m != "" && strings.Contains(s, m) {
				return true
			}
		}
	}
	return false
}
