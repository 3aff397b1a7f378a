package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Provider owns the process-wide model. The first call to Model loads the
// artifact from the store or, failing that, trains from the corpus and
// persists the result. Later calls return the same model.
type Provider struct {
	store  ArtifactStore
	corpus []Example
	logger zerolog.Logger

	once  sync.Once
	mu    sync.RWMutex
	model *Model
	err   error
}

// NewProvider creates a provider. A nil store means the model is trained
// in memory and never persisted.
func NewProvider(store ArtifactStore, corpus []Example, logger zerolog.Logger) *Provider {
	return &Provider{
		store:  store,
		corpus: corpus,
		logger: logger.With().Str("component", "classifier").Logger(),
	}
}

// Model returns the shared model, initializing it on first use.
// Initialization is not cancelable: ctx values are kept but its deadline
// and cancellation are ignored.
func (p *Provider) Model(ctx context.Context) (*Model, error) {
	p.once.Do(func() {
		m, err := p.loadOrTrain(context.WithoutCancel(ctx))
		p.mu.Lock()
		p.model, p.err = m, err
		p.mu.Unlock()
	})
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model, p.err
}

// Classify predicts the label of text. Any failure is logged and reported
// as ok == false.
func (p *Provider) Classify(ctx context.Context, text string) (Prediction, bool) {
	m, err := p.Model(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("classifier unavailable")
		return Prediction{}, false
	}
	pred, err := m.Predict(text)
	if err != nil {
		p.logger.Warn().Err(err).Msg("classifier prediction failed")
		return Prediction{}, false
	}
	return pred, true
}

// Retrain trains a fresh model from the corpus, persists it and makes it
// the shared model. Unlike first-use initialization, a persist failure is
// returned to the caller.
func (p *Provider) Retrain(ctx context.Context) (*Model, error) {
	m, err := Train(p.corpus)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}
	p.logger.Info().Str("model_id", m.ID()).Int("examples", len(p.corpus)).Msg("classifier trained")

	// Mark initialization done so a later Model call does not reload.
	p.once.Do(func() {})
	p.mu.Lock()
	p.model, p.err = m, nil
	p.mu.Unlock()

	if p.store == nil {
		return m, nil
	}
	if err := p.persist(ctx, m); err != nil {
		return m, err
	}
	return m, nil
}

func (p *Provider) loadOrTrain(ctx context.Context) (*Model, error) {
	if p.store != nil {
		data, err := p.store.Load(ctx)
		switch {
		case err == nil:
			m, derr := Decode(data)
			if derr == nil {
				p.logger.Info().Str("model_id", m.ID()).Msg("classifier artifact loaded")
				return m, nil
			}
			p.logger.Warn().Err(derr).Msg("classifier artifact unusable, retraining")
		case errors.Is(err, ErrArtifactNotFound):
			p.logger.Info().Msg("no classifier artifact, training")
		default:
			p.logger.Warn().Err(err).Msg("classifier artifact load failed, retraining")
		}
	}

	m, err := Train(p.corpus)
	if err != nil {
		p.logger.Error().Err(err).Msg("classifier training failed")
		return nil, fmt.Errorf("train classifier: %w", err)
	}
	p.logger.Info().Str("model_id", m.ID()).Int("examples", len(p.corpus)).Msg("classifier trained")

	if p.store != nil {
		if err := p.persist(ctx, m); err != nil {
			p.logger.Warn().Err(err).Msg("classifier artifact not persisted, serving in-memory model")
		}
	}
	return m, nil
}

func (p *Provider) persist(ctx context.Context, m *Model) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode classifier artifact: %w", err)
	}
	if err := p.store.Save(ctx, data); err != nil {
		return fmt.Errorf("persist classifier artifact: %w", err)
	}
	p.logger.Info().Str("model_id", m.ID()).Int("bytes", len(data)).Msg("classifier artifact saved")
	return nil
}
