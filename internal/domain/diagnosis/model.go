package diagnosis

import (
	"strings"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
)

// Candidate is one ranked diagnosis.
type Candidate struct {
	Disease          string   `json:"disease"`
	Confidence       float64  `json:"confidence"`
	EmergencyLevel   int      `json:"emergency_level"`
	Treatment        string   `json:"treatment"`
	RecommendedDrugs []string `json:"recommended_drugs"`
	Description      string   `json:"description"`
}

func candidateFor(c *lexicon.Condition, confidence float64) Candidate {
	drugs := c.Drugs
	if drugs == nil {
		drugs = []string{}
	}
	return Candidate{
		Disease:          c.ID,
		Confidence:       confidence,
		EmergencyLevel:   c.Severity,
		Treatment:        c.Treatment,
		RecommendedDrugs: drugs,
		Description:      c.Description,
	}
}

// PrimaryDrug returns the first recommended drug.
func (c Candidate) PrimaryDrug() (string, bool) {
	if len(c.RecommendedDrugs) == 0 {
		return "", false
	}
	return c.RecommendedDrugs[0], true
}

// Result is the outcome of one diagnosis request.
type Result struct {
	SymptomsDetected []string    `json:"symptoms_detected"`
	Diagnosis        []Candidate `json:"diagnosis"`
	Response         string      `json:"response"`
	IsEmergency      bool        `json:"is_emergency"`
}

// Top returns the highest ranked candidate.
func (r *Result) Top() (Candidate, bool) {
	if len(r.Diagnosis) == 0 {
		return Candidate{}, false
	}
	return r.Diagnosis[0], true
}

// PatientContext carries optional patient details. It is accepted on every
// request but does not influence scoring.
type PatientContext struct {
	BloodType string   `json:"blood_type,omitempty"`
	Genotype  string   `json:"genotype,omitempty"`
	Allergies []string `json:"allergies,omitempty"`
}

// HealthRecord is the summary of a result kept by the record store.
type HealthRecord struct {
	Symptoms    string  `json:"symptoms"`
	Diagnosis   string  `json:"diagnosis"`
	Confidence  float64 `json:"confidence_score"`
	IsEmergency bool    `json:"is_emergency"`
}

// HealthRecord summarizes r as comma-joined symptoms and diagnoses with the
// top confidence. Results without detected symptoms are not recorded.
func (r *Result) HealthRecord() (HealthRecord, bool) {
	if len(r.SymptomsDetected) == 0 {
		return HealthRecord{}, false
	}
	names := make([]string, len(r.Diagnosis))
	for i, d := range r.Diagnosis {
		names[i] = d.Disease
	}
	rec := HealthRecord{
		Symptoms:    strings.Join(r.SymptomsDetected, ", "),
		Diagnosis:   strings.Join(names, ", "),
		IsEmergency: r.IsEmergency,
	}
	if top, ok := r.Top(); ok {
		rec.Confidence = top.Confidence
	}
	return rec, true
}
