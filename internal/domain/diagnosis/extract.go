package diagnosis

import (
	"strings"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
)

type symptomMatcher struct {
	id       string
	keywords []string
}

// languageMatcher holds the normalized keyword lists for one language.
type languageMatcher struct {
	fillers  []string
	symptoms []symptomMatcher
}

// Extractor maps free text onto canonical symptom ids.
//
// Keywords are passed through the same normalization as the input text of
// their language, so a phrase that contains a filler still matches.
type Extractor struct {
	byLang  map[lexicon.Language]*languageMatcher
	unknown *languageMatcher
}

func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	e := &Extractor{byLang: make(map[lexicon.Language]*languageMatcher)}
	for _, lang := range lex.Languages() {
		e.byLang[lang] = buildMatcher(lex, lang, lex.Fillers(lang))
	}
	// An unconfigured language has no fillers and uses baseline keywords.
	e.unknown = buildMatcher(lex, "", nil)
	return e
}

func buildMatcher(lex *lexicon.Lexicon, lang lexicon.Language, fillers []string) *languageMatcher {
	m := &languageMatcher{fillers: prepareFillers(fillers)}
	for _, s := range lex.Symptoms() {
		sm := symptomMatcher{id: s.ID}
		for _, kw := range lex.Keywords(s.ID, lang) {
			if n := normalize(kw, m.fillers); n != "" {
				sm.keywords = append(sm.keywords, n)
			}
		}
		if len(sm.keywords) > 0 {
			m.symptoms = append(m.symptoms, sm)
		}
	}
	return m
}

func (e *Extractor) matcher(lang lexicon.Language) *languageMatcher {
	if m, ok := e.byLang[lang]; ok {
		return m
	}
	return e.unknown
}

// Extract returns the symptoms detected in text, in keyword map order. It
// never returns nil.
func (e *Extractor) Extract(text string, lang lexicon.Language) []string {
	m := e.matcher(lang)
	norm := normalize(text, m.fillers)
	found := []string{}
	if norm == "" {
		return found
	}
	for _, s := range m.symptoms {
		for _, kw := range s.keywords {
			if strings.Contains(norm, kw) {
				found = append(found, s.id)
				break
			}
		}
	}
	return found
}
