package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultArtifactName is the row key used when none is configured.
const DefaultArtifactName = "symptom-classifier"

type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PGStore keeps the artifact as a row of the classifier_artifacts table.
type PGStore struct {
	db   queryable
	name string
}

// NewPGStore returns a store over db, typically a *pgxpool.Pool. An empty
// name selects DefaultArtifactName.
func NewPGStore(db queryable, name string) *PGStore {
	if name == "" {
		name = DefaultArtifactName
	}
	return &PGStore{db: db, name: name}
}

func (s *PGStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM classifier_artifacts WHERE name = $1`, s.name,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", s.name, err)
	}
	return payload, nil
}

func (s *PGStore) Save(ctx context.Context, data []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO classifier_artifacts (name, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		s.name, data)
	if err != nil {
		return fmt.Errorf("save artifact %s: %w", s.name, err)
	}
	return nil
}
