// Package classifier implements the statistical side of diagnosis: a TF-IDF
// bag-of-n-grams vectorizer feeding a multinomial naive Bayes model, trained
// from a small fixed corpus and persisted as a single opaque artifact.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// ArtifactVersion is bumped whenever the artifact layout changes.
	ArtifactVersion = 1

	// MaxFeatures caps the vocabulary size.
	MaxFeatures = 1000

	// NGramMax is the longest n-gram in the feature space.
	NGramMax = 2

	// Alpha is the additive smoothing constant.
	Alpha = 0.1
)

var (
	ErrEmptyCorpus     = errors.New("classifier: empty training corpus")
	ErrEmptyVocabulary = errors.New("classifier: empty vocabulary")
	ErrMalformedModel  = errors.New("classifier: malformed model")
	ErrUntrained       = errors.New("classifier: model not trained")
)

// Example is one labelled training text.
type Example struct {
	Text  string
	Label string
}

// Prediction is the most probable label for a text.
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Model is a trained classifier. It is read-only and safe for concurrent
// use.
type Model struct {
	id        string
	trainedAt time.Time
	vec       *vectorizer
	nb        *naiveBayes
}

// Train fits a model on examples. Training is deterministic: the same
// corpus always yields the same vocabulary and parameters.
func Train(examples []Example) (*Model, error) {
	if len(examples) == 0 {
		return nil, ErrEmptyCorpus
	}
	docs := make([]string, len(examples))
	labels := make([]string, len(examples))
	for i, ex := range examples {
		docs[i] = ex.Text
		labels[i] = ex.Label
	}

	vec := fitVectorizer(docs, NGramMax, MaxFeatures)
	if len(vec.terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		rows[i] = vec.transform(doc)
	}
	nb := fitNaiveBayes(rows, labels, len(vec.terms), Alpha)

	return &Model{
		id:        uuid.NewString(),
		trainedAt: time.Now().UTC(),
		vec:       vec,
		nb:        nb,
	}, nil
}

// ID identifies the training run that produced the model.
func (m *Model) ID() string { return m.id }

// TrainedAt reports when the model was trained.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Classes returns the labels the model can predict.
func (m *Model) Classes() []string {
	out := make([]string, len(m.nb.classes))
	copy(out, m.nb.classes)
	return out
}

// Predict returns the most probable label of text and its posterior
// probability.
func (m *Model) Predict(text string) (Prediction, error) {
	if m == nil || m.vec == nil || m.nb == nil {
		return Prediction{}, ErrUntrained
	}
	if err := m.validate(); err != nil {
		return Prediction{}, err
	}
	best, probs := m.nb.predict(m.vec.transform(text))
	return Prediction{Label: m.nb.classes[best], Probability: probs[best]}, nil
}

func (m *Model) validate() error {
	n := len(m.vec.terms)
	if n == 0 {
		return ErrEmptyVocabulary
	}
	if len(m.vec.idf) != n {
		return fmt.Errorf("%w: %d idf weights for %d terms", ErrMalformedModel, len(m.vec.idf), n)
	}
	if len(m.nb.classes) == 0 ||
		len(m.nb.classLogPrior) != len(m.nb.classes) ||
		len(m.nb.featureLogProb) != len(m.nb.classes) {
		return fmt.Errorf("%w: inconsistent class tables", ErrMalformedModel)
	}
	for c, flp := range m.nb.featureLogProb {
		if len(flp) != n {
			return fmt.Errorf("%w: class %q has %d feature weights for %d terms", ErrMalformedModel, m.nb.classes[c], len(flp), n)
		}
	}
	return nil
}

// artifact is the persisted form of a Model.
type artifact struct {
	ID             string      `json:"id"`
	Version        int         `json:"version"`
	TrainedAt      time.Time   `json:"trained_at"`
	NGramMax       int         `json:"ngram_max"`
	Vocabulary     []string    `json:"vocabulary"`
	IDF            []float64   `json:"idf"`
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// MarshalBinary encodes the model as an artifact blob.
func (m *Model) MarshalBinary() ([]byte, error) {
	if m == nil || m.vec == nil || m.nb == nil {
		return nil, ErrUntrained
	}
	return json.Marshal(artifact{
		ID:             m.id,
		Version:        ArtifactVersion,
		TrainedAt:      m.trainedAt,
		NGramMax:       m.vec.maxN,
		Vocabulary:     m.vec.terms,
		IDF:            m.vec.idf,
		Classes:        m.nb.classes,
		ClassLogPrior:  m.nb.classLogPrior,
		FeatureLogProb: m.nb.featureLogProb,
	})
}

// Decode rebuilds a model from an artifact blob produced by MarshalBinary.
func Decode(data []byte) (*Model, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: artifact version %d, want %d", ErrMalformedModel, a.Version, ArtifactVersion)
	}
	m := &Model{
		id:        a.ID,
		trainedAt: a.TrainedAt,
		vec:       newVectorizer(a.Vocabulary, a.IDF, a.NGramMax),
		nb: &naiveBayes{
			classes:        a.Classes,
			classLogPrior:  a.ClassLogPrior,
			featureLogProb: a.FeatureLogProb,
		},
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}
