// Package lexicon holds the static tables the diagnosis engine reads: the
// disease catalog, the multilingual symptom keyword map, per-language filler
// phrases and response templates. A Lexicon is immutable once built and safe
// for any number of concurrent readers.
package lexicon

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	conditionsFile = "conditions.yaml"
	symptomsFile   = "symptoms.yaml"
	localesFile    = "locales.yaml"
)

// ErrInvalidLexicon is returned when lexicon data fails validation.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// Lexicon is the in-memory lexicon store.
type Lexicon struct {
	baseline     Language
	conditions   []Condition
	conditionIdx map[string]int
	symptoms     []Symptom
	symptomIdx   map[string]int
	locales      map[Language]*Locale
	languages    []Language
	aliases      map[string]Language
	emergency    EmergencyRules
}

type conditionsDoc struct {
	Conditions []Condition    `yaml:"conditions"`
	Emergency  EmergencyRules `yaml:"emergency"`
}

type symptomsDoc struct {
	Symptoms []Symptom `yaml:"symptoms"`
}

type localesDoc struct {
	Baseline  Language `yaml:"baseline"`
	Languages []Locale `yaml:"languages"`
}

// Default builds the lexicon from the data compiled into the binary.
func Default() (*Lexicon, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded lexicon: %w", err)
	}
	return Load(sub)
}

// LoadDir builds the lexicon from conditions.yaml, symptoms.yaml and
// locales.yaml in dir.
func LoadDir(dir string) (*Lexicon, error) {
	return Load(os.DirFS(dir))
}

// Load builds the lexicon from the three YAML documents found in fsys.
func Load(fsys fs.FS) (*Lexicon, error) {
	var cd conditionsDoc
	if err := decode(fsys, conditionsFile, &cd); err != nil {
		return nil, err
	}
	var sd symptomsDoc
	if err := decode(fsys, symptomsFile, &sd); err != nil {
		return nil, err
	}
	var ld localesDoc
	if err := decode(fsys, localesFile, &ld); err != nil {
		return nil, err
	}
	baseline := ld.Baseline
	if baseline == "" {
		baseline = Baseline
	}
	return New(baseline, cd.Conditions, sd.Symptoms, ld.Languages, cd.Emergency)
}

func decode(fsys fs.FS, name string, out interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// New validates the given tables and assembles a Lexicon. Message fields a
// language leaves empty are inherited from the baseline language.
func New(baseline Language, conditions []Condition, symptoms []Symptom, locales []Locale, rules EmergencyRules) (*Lexicon, error) {
	l := &Lexicon{
		baseline:     normalizeCode(string(baseline)),
		conditionIdx: make(map[string]int, len(conditions)),
		symptomIdx:   make(map[string]int, len(symptoms)),
		locales:      make(map[Language]*Locale, len(locales)),
		aliases:      make(map[string]Language),
		emergency:    rules,
	}

	for i := range conditions {
		c := conditions[i]
		if c.ID == "" {
			return nil, fmt.Errorf("%w: condition %d has no id", ErrInvalidLexicon, i)
		}
		if _, dup := l.conditionIdx[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate condition %q", ErrInvalidLexicon, c.ID)
		}
		if c.Severity < 1 || c.Severity > 5 {
			return nil, fmt.Errorf("%w: condition %q severity %d outside 1..5", ErrInvalidLexicon, c.ID, c.Severity)
		}
		l.conditionIdx[c.ID] = len(l.conditions)
		l.conditions = append(l.conditions, c)
	}

	for i := range symptoms {
		s := symptoms[i]
		if s.ID == "" {
			return nil, fmt.Errorf("%w: symptom %d has no id", ErrInvalidLexicon, i)
		}
		if _, dup := l.symptomIdx[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate symptom %q", ErrInvalidLexicon, s.ID)
		}
		kw := make(map[Language][]string, len(s.Keywords))
		for lang, phrases := range s.Keywords {
			kw[normalizeCode(string(lang))] = phrases
		}
		s.Keywords = kw
		l.symptomIdx[s.ID] = len(l.symptoms)
		l.symptoms = append(l.symptoms, s)
	}

	for i := range locales {
		loc := locales[i]
		loc.Code = normalizeCode(string(loc.Code))
		if loc.Code == "" {
			return nil, fmt.Errorf("%w: language %d has no code", ErrInvalidLexicon, i)
		}
		if _, dup := l.locales[loc.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate language %q", ErrInvalidLexicon, loc.Code)
		}
		l.locales[loc.Code] = &loc
		l.languages = append(l.languages, loc.Code)
		l.aliases[string(loc.Code)] = loc.Code
	}
	for _, code := range l.languages {
		for _, alias := range l.locales[code].Aliases {
			a := string(normalizeCode(alias))
			if owner, taken := l.aliases[a]; taken && owner != code {
				return nil, fmt.Errorf("%w: alias %q claimed by %q and %q", ErrInvalidLexicon, alias, owner, code)
			}
			l.aliases[a] = code
		}
	}

	base, ok := l.locales[l.baseline]
	if !ok {
		return nil, fmt.Errorf("%w: baseline language %q has no messages", ErrInvalidLexicon, l.baseline)
	}
	if missing := base.Messages.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: baseline language %q is missing %s", ErrInvalidLexicon, l.baseline, strings.Join(missing, ", "))
	}
	for _, code := range l.languages {
		l.locales[code].Messages.inherit(base.Messages)
	}

	return l, nil
}

func normalizeCode(code string) Language {
	return Language(strings.ToLower(strings.TrimSpace(code)))
}

// Baseline returns the fallback language.
func (l *Lexicon) Baseline() Language {
	return l.baseline
}

// Languages returns the configured language codes in declaration order.
func (l *Lexicon) Languages() []Language {
	out := make([]Language, len(l.languages))
	copy(out, l.languages)
	return out
}

// Resolve maps a requested code or alias to a configured language.
// Matching ignores case and surrounding whitespace.
func (l *Lexicon) Resolve(code string) (Language, bool) {
	lang, ok := l.aliases[string(normalizeCode(code))]
	return lang, ok
}

// Conditions returns the catalog in declaration order. The slice is shared
// and must not be modified.
func (l *Lexicon) Conditions() []Condition {
	return l.conditions
}

// Condition looks up a catalog entry by id.
func (l *Lexicon) Condition(id string) (*Condition, bool) {
	i, ok := l.conditionIdx[id]
	if !ok {
		return nil, false
	}
	return &l.conditions[i], true
}

// Symptoms returns the keyword map entries in declaration order. The slice
// is shared and must not be modified.
func (l *Lexicon) Symptoms() []Symptom {
	return l.symptoms
}

// Keywords returns the trigger phrases of a symptom for lang, falling back
// to the baseline language when lang has no entry for that symptom.
func (l *Lexicon) Keywords(symptomID string, lang Language) []string {
	i, ok := l.symptomIdx[symptomID]
	if !ok {
		return nil
	}
	kw := l.symptoms[i].Keywords
	if phrases, ok := kw[lang]; ok {
		return phrases
	}
	return kw[l.baseline]
}

// Fillers returns the filler phrases of lang. Unknown languages have none.
func (l *Lexicon) Fillers(lang Language) []string {
	loc, ok := l.locales[lang]
	if !ok {
		return nil
	}
	return loc.Fillers
}

// Messages returns the templates of lang, or the baseline templates when
// lang is not configured.
func (l *Lexicon) Messages(lang Language) Messages {
	if loc, ok := l.locales[lang]; ok {
		return loc.Messages
	}
	return l.locales[l.baseline].Messages
}

// Emergency returns the emergency detector inputs.
func (l *Lexicon) Emergency() EmergencyRules {
	return l.emergency
}

// Gaps lists catalog symptoms with no keyword list for a configured
// language, in catalog order. A gap degrades extraction for that language
// to the baseline phrases, or to nothing when the symptom is unmapped.
func (l *Lexicon) Gaps() []Gap {
	var gaps []Gap
	seen := make(map[string]bool)
	for _, c := range l.conditions {
		for _, s := range c.Symptoms {
			if seen[s] {
				continue
			}
			seen[s] = true
			i, mapped := l.symptomIdx[s]
			for _, lang := range l.languages {
				if !mapped {
					gaps = append(gaps, Gap{Symptom: s, Language: lang})
					continue
				}
				if _, ok := l.symptoms[i].Keywords[lang]; !ok {
					gaps = append(gaps, Gap{Symptom: s, Language: lang})
				}
			}
		}
	}
	return gaps
}
