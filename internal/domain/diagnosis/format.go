package diagnosis

import (
	"strings"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
)

// Confidence tiers of the top diagnosis.
const (
	likelyConfidence   = 0.7
	possibleConfidence = 0.5
)

// formatResponse picks and fills the template for a result.
func formatResponse(msgs lexicon.Messages, diagnoses []Candidate, symptoms []string, emergency bool) string {
	if emergency {
		return msgs.Emergency
	}
	if len(diagnoses) == 0 {
		if len(symptoms) == 0 {
			return msgs.Clarify
		}
		return fill(msgs.RestAndMonitor, map[string]string{
			"symptoms": displaySymptoms(symptoms),
		})
	}

	top := diagnoses[0]
	tmpl := msgs.SlightChance
	switch {
	case top.Confidence > likelyConfidence:
		tmpl = msgs.Likely
	case top.Confidence > possibleConfidence:
		tmpl = msgs.Possible
	}
	drug, ok := top.PrimaryDrug()
	if !ok {
		drug = msgs.FallbackDrug
	}
	return fill(tmpl, map[string]string{
		"disease":     top.Disease,
		"description": top.Description,
		"drug":        drug,
	})
}

// fill substitutes {name} placeholders and tidies the spacing left by empty
// values.
func fill(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.Join(strings.Fields(strings.NewReplacer(pairs...).Replace(tmpl)), " ")
}

func displaySymptoms(symptoms []string) string {
	names := make([]string, len(symptoms))
	for i, s := range symptoms {
		names[i] = strings.ReplaceAll(s, "_", " ")
	}
	return strings.Join(names, ", ")
}
