// Package diagnosis turns a free-text complaint into detected symptoms,
// ranked candidate conditions, an emergency decision and a localized reply.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
	"github.com/lifelynxhealth-hub/backend/internal/platform/classifier"
)

var (
	ErrNoLexicon     = errors.New("diagnosis: lexicon is required")
	errEmptyResponse = errors.New("diagnosis: empty response template")
)

// Classifier predicts a condition from raw text. ok is false when no
// prediction is available.
type Classifier interface {
	Classify(ctx context.Context, text string) (pred classifier.Prediction, ok bool)
}

type Service struct {
	lex         *lexicon.Lexicon
	extractor   *Extractor
	clf         Classifier
	th          Thresholds
	defaultLang lexicon.Language
	logger      zerolog.Logger
}

// NewService builds the diagnosis pipeline. clf may be nil, in which case
// only the keyword rules contribute candidates.
func NewService(lex *lexicon.Lexicon, clf Classifier, th Thresholds, logger zerolog.Logger) (*Service, error) {
	if lex == nil {
		return nil, ErrNoLexicon
	}
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	return &Service{
		lex:         lex,
		extractor:   NewExtractor(lex),
		clf:         clf,
		th:          th,
		defaultLang: lex.Baseline(),
		logger:      logger.With().Str("component", "diagnosis").Logger(),
	}, nil
}

// SetDefaultLanguage sets the language used when a request names none.
func (s *Service) SetDefaultLanguage(code string) {
	if code = strings.TrimSpace(code); code != "" {
		s.defaultLang = s.Language(code)
	}
}

// DefaultLanguage returns the language used when a request names none.
func (s *Service) DefaultLanguage() lexicon.Language {
	return s.defaultLang
}

// Language resolves a requested code or alias. Unknown codes are returned
// as given so that they degrade to baseline content downstream.
func (s *Service) Language(code string) lexicon.Language {
	if strings.TrimSpace(code) == "" {
		return s.defaultLang
	}
	if lang, ok := s.lex.Resolve(code); ok {
		return lang
	}
	return lexicon.Language(strings.ToLower(strings.TrimSpace(code)))
}

// Welcome returns the greeting for a language. Unconfigured or empty codes
// get the default language's greeting.
func (s *Service) Welcome(code string) string {
	if lang, ok := s.lex.Resolve(code); ok {
		return s.lex.Messages(lang).Welcome
	}
	return s.lex.Messages(s.defaultLang).Welcome
}

// GenerateResponse runs the full pipeline. It always returns a usable
// result: internal failures yield the localized busy reply with no
// symptoms or diagnoses. pc is accepted for future use and not consulted.
func (s *Service) GenerateResponse(ctx context.Context, text, language string, pc *PatientContext) Result {
	lang := s.Language(language)
	res, err := s.run(ctx, text, lang)
	if err != nil {
		s.logger.Error().Err(err).
			Str("language", string(lang)).
			Int("input_length", utf8.RuneCountInString(text)).
			Msg("diagnosis failed, returning busy response")
		return s.busy(lang)
	}
	return res
}

func (s *Service) run(ctx context.Context, text string, lang lexicon.Language) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diagnosis pipeline panic: %v", r)
		}
	}()

	symptoms := s.extractor.Extract(text, lang)
	candidates := scoreRules(s.lex.Conditions(), symptoms, s.th)
	if s.clf != nil && utf8.RuneCountInString(text) > s.th.ClassifierMinTextLength {
		if pred, ok := s.clf.Classify(ctx, text); ok {
			candidates = withPrediction(s.lex, candidates, pred, s.th)
		}
	}
	rank(candidates)

	emergency := isEmergency(s.lex.Emergency(), symptoms, candidates)
	msg := formatResponse(s.lex.Messages(lang), candidates, symptoms, emergency)
	if msg == "" {
		return Result{}, errEmptyResponse
	}
	return Result{
		SymptomsDetected: symptoms,
		Diagnosis:        candidates,
		Response:         msg,
		IsEmergency:      emergency,
	}, nil
}

func (s *Service) busy(lang lexicon.Language) Result {
	return Result{
		SymptomsDetected: []string{},
		Diagnosis:        []Candidate{},
		Response:         s.lex.Messages(lang).Busy,
		IsEmergency:      false,
	}
}
