package lexicon

import (
	"sort"
	"strings"
)

// Language is a supported language code such as "english" or "pidgin".
type Language string

const (
	English Language = "english"
	Pidgin  Language = "pidgin"
	Yoruba  Language = "yoruba"
	Igbo    Language = "igbo"
	Hausa   Language = "hausa"
)

// Baseline is the language used whenever a requested language has no
// keyword list or message record of its own.
const Baseline = English

// KeySymptomCount is the number of leading symptoms of a condition that
// count as its key symptoms.
const KeySymptomCount = 3

// Condition is an entry of the disease catalog.
type Condition struct {
	ID          string   `yaml:"id" json:"id"`
	Symptoms    []string `yaml:"symptoms" json:"symptoms"`
	Severity    int      `yaml:"severity" json:"severity"`
	Treatment   string   `yaml:"treatment" json:"treatment"`
	Drugs       []string `yaml:"drugs" json:"drugs"`
	Description string   `yaml:"description" json:"description"`
}

// KeySymptoms returns the first three symptoms, or all of them when the
// condition lists fewer.
func (c *Condition) KeySymptoms() []string {
	if len(c.Symptoms) < KeySymptomCount {
		return c.Symptoms
	}
	return c.Symptoms[:KeySymptomCount]
}

// Symptom holds the trigger phrases for one canonical symptom.
type Symptom struct {
	ID       string                `yaml:"id" json:"id"`
	Keywords map[Language][]string `yaml:"keywords" json:"keywords"`
}

// Messages is the set of response templates for one language.
type Messages struct {
	Welcome        string `yaml:"welcome" json:"welcome"`
	Busy           string `yaml:"busy" json:"busy"`
	Emergency      string `yaml:"emergency" json:"emergency"`
	RestAndMonitor string `yaml:"rest_and_monitor" json:"rest_and_monitor"`
	Clarify        string `yaml:"clarify" json:"clarify"`
	Likely         string `yaml:"likely" json:"likely"`
	Possible       string `yaml:"possible" json:"possible"`
	SlightChance   string `yaml:"slight_chance" json:"slight_chance"`
	FallbackDrug   string `yaml:"fallback_drug" json:"fallback_drug"`
}

// inherit fills every empty field from base.
func (m *Messages) inherit(base Messages) {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&m.Welcome, base.Welcome)
	fill(&m.Busy, base.Busy)
	fill(&m.Emergency, base.Emergency)
	fill(&m.RestAndMonitor, base.RestAndMonitor)
	fill(&m.Clarify, base.Clarify)
	fill(&m.Likely, base.Likely)
	fill(&m.Possible, base.Possible)
	fill(&m.SlightChance, base.SlightChance)
	fill(&m.FallbackDrug, base.FallbackDrug)
}

// missing lists the names of empty fields.
func (m *Messages) missing() []string {
	var out []string
	for name, v := range map[string]string{
		"welcome":          m.Welcome,
		"busy":             m.Busy,
		"emergency":        m.Emergency,
		"rest_and_monitor": m.RestAndMonitor,
		"clarify":          m.Clarify,
		"likely":           m.Likely,
		"possible":         m.Possible,
		"slight_chance":    m.SlightChance,
		"fallback_drug":    m.FallbackDrug,
	} {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Locale is the language-specific record: fillers stripped from input and
// the message templates.
type Locale struct {
	Code     Language `yaml:"code" json:"code"`
	Aliases  []string `yaml:"aliases" json:"aliases,omitempty"`
	Fillers  []string `yaml:"fillers" json:"fillers"`
	Messages Messages `yaml:"messages" json:"messages"`
}

// EmergencyRules are the data inputs of the emergency detector.
type EmergencyRules struct {
	HeatMarkers    []string `yaml:"heat_markers" json:"heat_markers"`
	SevereSymptoms []string `yaml:"severe_symptoms" json:"severe_symptoms"`
}

// Gap records a catalog symptom that has no keyword list for a language.
type Gap struct {
	Symptom  string
	Language Language
}
