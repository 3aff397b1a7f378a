package diagnosis

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
	"github.com/lifelynxhealth-hub/backend/internal/platform/classifier"
)

func mustLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Default()
	if err != nil {
		t.Fatalf("lexicon.Default() error: %v", err)
	}
	return lex
}

func findCandidate(cs []Candidate, disease string) (Candidate, bool) {
	for _, c := range cs {
		if c.Disease == disease {
			return c, true
		}
	}
	return Candidate{}, false
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		fillers []string
		want    string
	}{
		{"case and whitespace", "  My   HEAD\tdey  pain ", nil, "my head dey pain"},
		{"filler anywhere", "abeg my belle abeg dey pain", []string{"abeg"}, "my belle dey pain"},
		{"longest first", "don allah ciwon kai", prepareFillers([]string{"allah", "don allah"}), "ciwon kai"},
		{"empty", "", []string{"o"}, ""},
		{"only fillers", "abeg sha", []string{"abeg", "sha"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.text, tt.fillers); got != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPrepareFillers(t *testing.T) {
	got := prepareFillers([]string{"o", " Abeg ", "na wa o", "", "abeg", "sha"})
	want := []string{"na wa o", "abeg", "sha", "o"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("prepareFillers() = %q, want %q", got, want)
	}
}

func TestExtractor_Languages(t *testing.T) {
	e := NewExtractor(mustLexicon(t))

	tests := []struct {
		name string
		text string
		lang lexicon.Language
		want []string
	}{
		{"english", "I have fever and headache and body pain", lexicon.English, []string{"fever", "headache", "body_pain"}},
		{"pidgin with fillers", "Abeg my belle dey pain o", lexicon.Pidgin, []string{"stomach_pain"}},
		{"hausa", "Don Allah ina da zazzabi da ciwon kai", lexicon.Hausa, []string{"fever", "headache"}},
		{"unknown language uses baseline", "cough and sneezing", lexicon.Language("klingon"), []string{"cough", "sneezing"}},
		{"nothing", "hello there", lexicon.English, []string{}},
		{"empty", "", lexicon.Pidgin, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text, tt.lang)
			if got == nil {
				t.Fatal("Extract() returned nil")
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractor_EveryKeywordDetected(t *testing.T) {
	lex := mustLexicon(t)
	e := NewExtractor(lex)

	langs := append(lex.Languages(), lexicon.Language("klingon"))
	for _, lang := range langs {
		filler := "well"
		if f := lex.Fillers(lang); len(f) > 0 {
			filler = f[0]
		}
		for _, s := range lex.Symptoms() {
			for _, kw := range lex.Keywords(s.ID, lang) {
				text := filler + " " + kw + " " + filler
				found := false
				for _, id := range e.Extract(text, lang) {
					if id == s.ID {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("%s: %q not detected as %s", lang, text, s.ID)
				}
			}
		}
	}
}

func TestScoreRules_Malaria(t *testing.T) {
	lex := mustLexicon(t)
	got := scoreRules(lex.Conditions(), []string{"fever", "headache", "body_pain"}, DefaultThresholds())

	malaria, ok := findCandidate(got, "malaria")
	if !ok {
		t.Fatal("expected malaria candidate")
	}
	if malaria.Confidence != 0.73 {
		t.Errorf("malaria confidence = %v, want 0.73", malaria.Confidence)
	}
	if malaria.EmergencyLevel != 2 || malaria.RecommendedDrugs[0] != "Artemisinin" {
		t.Errorf("unexpected malaria candidate %+v", malaria)
	}
	if typhoid, ok := findCandidate(got, "typhoid"); !ok || typhoid.Confidence != 0.63 {
		t.Errorf("typhoid = %+v, want confidence 0.63", typhoid)
	}
	if _, ok := findCandidate(got, "urinary tract infection"); ok {
		t.Error("urinary tract infection matched on a single non-key symptom")
	}
}

func TestScoreRules_CatalogTotals(t *testing.T) {
	lex := mustLexicon(t)
	tests := []struct {
		name     string
		symptoms []string
		disease  string
		want     float64
	}{
		// 2/6 + 0.3: the pidgin-only symptoms count toward the total.
		{"cholera", []string{"diarrhea", "vomiting"}, "cholera", 0.63},
		// 3/6 + 0.3
		{"typhoid", []string{"fever", "stomach_pain", "headache"}, "typhoid", 0.8},
		// 1/5 + 0.3 on cough; pneumonia lists fatigue, not weakness.
		{"pneumonia", []string{"cough", "weakness"}, "pneumonia", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreRules(lex.Conditions(), tt.symptoms, DefaultThresholds())
			c, ok := findCandidate(got, tt.disease)
			if !ok {
				t.Fatalf("no %s candidate in %+v", tt.disease, got)
			}
			if c.Confidence != tt.want {
				t.Errorf("%s confidence = %v, want %v", tt.disease, c.Confidence, tt.want)
			}
		})
	}
}

func TestScoreRules_Bounds(t *testing.T) {
	lex := mustLexicon(t)
	th := DefaultThresholds()

	if got := scoreRules(lex.Conditions(), []string{}, th); len(got) != 0 {
		t.Errorf("empty symptoms gave %d candidates", len(got))
	}

	var all []string
	for _, s := range lex.Symptoms() {
		all = append(all, s.ID)
	}
	for _, c := range scoreRules(lex.Conditions(), all, th) {
		if c.Confidence <= th.RuleMinConfidence || c.Confidence > th.ConfidenceCap {
			t.Errorf("%s confidence %v outside (0.3, 0.95]", c.Disease, c.Confidence)
		}
	}
	if c, ok := findCandidate(scoreRules(lex.Conditions(), all, th), "malaria"); !ok || c.Confidence != 0.95 {
		t.Errorf("fully matched malaria = %+v, want capped 0.95", c)
	}
}

func TestScoreRules_Gate(t *testing.T) {
	conds := []lexicon.Condition{
		{ID: "empty", Severity: 1},
		{ID: "two", Symptoms: []string{"a", "b", "c", "d", "e"}, Severity: 1},
		{ID: "short", Symptoms: []string{"x", "y"}, Severity: 1},
	}
	th := DefaultThresholds()

	// d and e are not key symptoms: 2/5 = 0.4 passes on match count alone.
	got := scoreRules(conds, []string{"d", "e"}, th)
	if len(got) != 1 || got[0].Disease != "two" || got[0].Confidence != 0.4 {
		t.Errorf("got %+v, want two at 0.4", got)
	}

	// A single non-key symptom stays below the gate.
	if got := scoreRules(conds, []string{"e"}, th); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}

	// Fewer than three symptoms: all are key.
	got = scoreRules(conds, []string{"y"}, th)
	if len(got) != 1 || got[0].Disease != "short" || got[0].Confidence != 0.8 {
		t.Errorf("got %+v, want short at 0.8", got)
	}
}

func TestScoreRules_GateOnReportedConfidence(t *testing.T) {
	long := lexicon.Condition{ID: "long", Severity: 1}
	for i := 0; i < 23; i++ {
		long.Symptoms = append(long.Symptoms, fmt.Sprintf("s%d", i))
	}
	th := DefaultThresholds()

	// 7/23 is 0.3043 raw but reports as 0.30, which is not above the gate.
	if got := scoreRules([]lexicon.Condition{long}, long.Symptoms[3:10], th); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}

	// 8/23 reports as 0.35.
	got := scoreRules([]lexicon.Condition{long}, long.Symptoms[3:11], th)
	if len(got) != 1 || got[0].Confidence != 0.35 {
		t.Errorf("got %+v, want long at 0.35", got)
	}
}

func TestCandidate_PrimaryDrug(t *testing.T) {
	if drug, ok := (Candidate{RecommendedDrugs: []string{"Artemisinin", "Paracetamol"}}).PrimaryDrug(); !ok || drug != "Artemisinin" {
		t.Errorf("PrimaryDrug() = %q, %v, want Artemisinin", drug, ok)
	}
	if _, ok := (Candidate{}).PrimaryDrug(); ok {
		t.Error("PrimaryDrug() reported a drug for an empty list")
	}
}

func TestWithPrediction(t *testing.T) {
	lex := mustLexicon(t)
	th := DefaultThresholds()
	base := func() []Candidate {
		return []Candidate{{Disease: "typhoid", Confidence: 0.5, EmergencyLevel: 3}}
	}

	tests := []struct {
		name     string
		pred     classifier.Prediction
		wantLen  int
		wantConf float64
	}{
		{"added", classifier.Prediction{Label: "cholera", Probability: 0.876}, 2, 0.88},
		{"capped", classifier.Prediction{Label: "cholera", Probability: 0.99}, 2, 0.95},
		{"at cutoff", classifier.Prediction{Label: "cholera", Probability: 0.7}, 1, 0},
		{"already present", classifier.Prediction{Label: "typhoid", Probability: 0.99}, 1, 0},
		{"empty label", classifier.Prediction{Probability: 0.99}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withPrediction(lex, base(), tt.pred, th)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[0].Confidence != 0.5 {
				t.Errorf("rule candidate changed: %+v", got[0])
			}
			if tt.wantLen == 2 {
				added := got[1]
				if added.Disease != "cholera" || added.Confidence != tt.wantConf || added.EmergencyLevel != 4 {
					t.Errorf("added = %+v", added)
				}
			}
		})
	}
}

func TestWithPrediction_UnknownLabel(t *testing.T) {
	got := withPrediction(mustLexicon(t), nil, classifier.Prediction{Label: "flu", Probability: 0.8}, DefaultThresholds())
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d", len(got))
	}
	if got[0].EmergencyLevel != 1 || got[0].Treatment != "Consult doctor" || got[0].RecommendedDrugs == nil {
		t.Errorf("unexpected defaults %+v", got[0])
	}
}

func TestRank(t *testing.T) {
	cs := []Candidate{
		{Disease: "a", Confidence: 0.5, EmergencyLevel: 2},
		{Disease: "b", Confidence: 0.63, EmergencyLevel: 3},
		{Disease: "c", Confidence: 0.63, EmergencyLevel: 5},
		{Disease: "d", Confidence: 0.73, EmergencyLevel: 1},
		{Disease: "e", Confidence: 0.5, EmergencyLevel: 2},
	}
	rank(cs)

	var order []string
	for _, c := range cs {
		order = append(order, c.Disease)
	}
	if got := strings.Join(order, ""); got != "dcbae" {
		t.Errorf("order = %s, want dcbae", got)
	}
	for i := 1; i < len(cs); i++ {
		prev, cur := cs[i-1], cs[i]
		if cur.Confidence > prev.Confidence ||
			(cur.Confidence == prev.Confidence && cur.EmergencyLevel > prev.EmergencyLevel) {
			t.Errorf("%s ranked above dominating %s", prev.Disease, cur.Disease)
		}
	}
}

func TestIsEmergency(t *testing.T) {
	rules := mustLexicon(t).Emergency()

	tests := []struct {
		name      string
		symptoms  []string
		diagnoses []Candidate
		want      bool
	}{
		{"severe symptom alone", []string{"difficulty_breathing"}, nil, true},
		{"chest pain", []string{"chest_pain"}, nil, true},
		{"fever with many symptoms", []string{"fever", "headache", "cough", "weakness"}, nil, true},
		{"hot marker", []string{"hot_body", "headache", "cough", "weakness"}, nil, true},
		{"fever with three symptoms", []string{"fever", "headache", "cough"}, nil, false},
		{"many symptoms without fever", []string{"headache", "cough", "weakness", "rash"}, nil, false},
		{"severe diagnosis", []string{"cough"}, []Candidate{{Disease: "pneumonia", EmergencyLevel: 4}}, true},
		{"mild diagnosis", []string{"cough"}, []Candidate{{Disease: "common cold", EmergencyLevel: 1}}, false},
		{"nothing", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmergency(rules, tt.symptoms, tt.diagnoses); got != tt.want {
				t.Errorf("isEmergency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatResponse(t *testing.T) {
	lex := mustLexicon(t)
	en := lex.Messages(lexicon.English)
	pcm := lex.Messages(lexicon.Pidgin)
	diag := func(conf float64, drugs ...string) []Candidate {
		return []Candidate{{Disease: "malaria", Confidence: conf, Description: "Spread by mosquitoes.", RecommendedDrugs: drugs}}
	}

	tests := []struct {
		name      string
		msgs      lexicon.Messages
		diagnoses []Candidate
		symptoms  []string
		emergency bool
		want      string
	}{
		{"emergency wins", en, diag(0.9, "Artemisinin"), []string{"fever"}, true, en.Emergency},
		{"clarify", en, nil, nil, false, en.Clarify},
		{"rest and monitor", en, nil, []string{"running_nose", "thirst"}, false, "(running nose, thirst)"},
		{"likely", en, diag(0.73, "Artemisinin"), nil, false, "I'm sorry! You might have malaria. Spread by mosquitoes. Please visit a PHC that has Artemisinin."},
		{"possible boundary", en, diag(0.7, "Artemisinin"), nil, false, "Don't worry, but you might have malaria."},
		{"slight chance", en, diag(0.5, "Artemisinin"), nil, false, "There's a slight chance you might have malaria."},
		{"fallback drug", pcm, diag(0.9), nil, false, "wey get correct medicine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatResponse(tt.msgs, tt.diagnoses, tt.symptoms, tt.emergency)
			if got == "" {
				t.Fatal("empty response")
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("response %q does not contain %q", got, tt.want)
			}
			if strings.Contains(got, "{") {
				t.Errorf("unfilled placeholder in %q", got)
			}
		})
	}
}

func TestFill_EmptyValue(t *testing.T) {
	got := fill("You might have {disease}. {description} Rest.", map[string]string{"disease": "flu", "description": ""})
	if got != "You might have flu. Rest." {
		t.Errorf("fill() = %q", got)
	}
}

func TestCalibrate(t *testing.T) {
	if got := calibrate(3.0/7.0+0.3, 0.95); math.Abs(got-0.73) > 1e-12 {
		t.Errorf("calibrate = %v, want 0.73", got)
	}
	if got := calibrate(1.3, 0.95); got != 0.95 {
		t.Errorf("calibrate = %v, want 0.95", got)
	}
}
