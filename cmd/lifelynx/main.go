package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lifelynxhealth-hub/backend/internal/config"
	"github.com/lifelynxhealth-hub/backend/internal/domain/diagnosis"
	"github.com/lifelynxhealth-hub/backend/internal/domain/lexicon"
	"github.com/lifelynxhealth-hub/backend/internal/platform/classifier"
	"github.com/lifelynxhealth-hub/backend/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "lifelynx",
		Short:        "Lifelynx symptom triage service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app holds the components shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	lex      *lexicon.Lexicon
	provider *classifier.Provider
	svc      *diagnosis.Service
	pool     *pgxpool.Pool
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	lvl, err := cfg.ZerologLevel()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

func loadLexicon(cfg *config.Config) (*lexicon.Lexicon, error) {
	if cfg.LexiconDir != "" {
		return lexicon.LoadDir(cfg.LexiconDir)
	}
	return lexicon.Default()
}

func thresholds(cfg *config.Config) diagnosis.Thresholds {
	return diagnosis.Thresholds{
		RuleMinConfidence:        cfg.RuleMinConfidence,
		KeySymptomBonus:          cfg.KeySymptomBonus,
		ConfidenceCap:            cfg.ConfidenceCap,
		ClassifierMinProbability: cfg.ClassifierMinProbability,
		ClassifierMinTextLength:  cfg.ClassifierMinTextLength,
	}
}

// newApp loads config, the lexicon and the artifact store, and builds the
// diagnosis service. Logs go to logOut. The classifier itself is resolved
// lazily on first use.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, logOut)

	lex, err := loadLexicon(cfg)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	for _, gap := range lex.Gaps() {
		logger.Debug().Str("symptom", gap.Symptom).Str("language", string(gap.Language)).Msg("symptom has no keywords for language")
	}

	a := &app{cfg: cfg, logger: logger, lex: lex}

	var store classifier.ArtifactStore
	if cfg.UsesPostgres() {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		logger.Info().Msg("connected to database")

		applied, err := db.NewMigrator(pool, db.Migrations()).Up(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		if applied > 0 {
			logger.Info().Int("count", applied).Msg("applied database migrations")
		}
		store = classifier.NewPGStore(pool, classifier.DefaultArtifactName)
	} else {
		store = classifier.NewFileStore(cfg.ModelPath)
	}
	a.provider = classifier.NewProvider(store, classifier.DefaultCorpus(), logger)

	svc, err := diagnosis.NewService(lex, a.provider, thresholds(cfg), logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	svc.SetDefaultLanguage(cfg.DefaultLanguage)
	a.svc = svc

	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
