package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Artifact store backends.
const (
	ModelStoreFile     = "file"
	ModelStorePostgres = "postgres"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	DefaultLanguage string   `mapstructure:"DEFAULT_LANGUAGE"`
	LexiconDir      string   `mapstructure:"LEXICON_DIR"`
	ModelStore      string   `mapstructure:"MODEL_STORE"`
	ModelPath       string   `mapstructure:"MODEL_PATH"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	BodyLimit       string   `mapstructure:"BODY_LIMIT"`

	RuleMinConfidence        float64 `mapstructure:"RULE_MIN_CONFIDENCE"`
	KeySymptomBonus          float64 `mapstructure:"KEY_SYMPTOM_BONUS"`
	ConfidenceCap            float64 `mapstructure:"CONFIDENCE_CAP"`
	ClassifierMinProbability float64 `mapstructure:"CLASSIFIER_MIN_PROBABILITY"`
	ClassifierMinTextLength  int     `mapstructure:"CLASSIFIER_MIN_TEXT_LENGTH"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEFAULT_LANGUAGE", "pidgin")
	v.SetDefault("MODEL_STORE", ModelStoreFile)
	v.SetDefault("MODEL_PATH", "lifelynx_model.json")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BODY_LIMIT", "64K")
	v.SetDefault("RULE_MIN_CONFIDENCE", 0.3)
	v.SetDefault("KEY_SYMPTOM_BONUS", 0.3)
	v.SetDefault("CONFIDENCE_CAP", 0.95)
	v.SetDefault("CLASSIFIER_MIN_PROBABILITY", 0.7)
	v.SetDefault("CLASSIFIER_MIN_TEXT_LENGTH", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "DEFAULT_LANGUAGE", "LEXICON_DIR",
		"MODEL_STORE", "MODEL_PATH", "DATABASE_URL", "DB_MAX_CONNS",
		"DB_MIN_CONNS", "CORS_ORIGINS", "BODY_LIMIT", "RULE_MIN_CONFIDENCE",
		"KEY_SYMPTOM_BONUS", "CONFIDENCE_CAP", "CLASSIFIER_MIN_PROBABILITY",
		"CLASSIFIER_MIN_TEXT_LENGTH",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	cfg.ModelStore = strings.ToLower(strings.TrimSpace(cfg.ModelStore))

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesPostgres reports whether the classifier artifact lives in PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.ModelStore == ModelStorePostgres
}

// ZerologLevel parses LOG_LEVEL, defaulting to info when it is empty.
func (c *Config) ZerologLevel() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Validate checks that the configuration is usable. DATABASE_URL is only
// required when the artifact store is PostgreSQL.
func (c *Config) Validate() error {
	if _, err := c.ZerologLevel(); err != nil {
		return err
	}

	switch c.ModelStore {
	case ModelStoreFile:
		if c.ModelPath == "" {
			return fmt.Errorf("MODEL_PATH is required when MODEL_STORE is %q", ModelStoreFile)
		}
	case ModelStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when MODEL_STORE is %q", ModelStorePostgres)
		}
	default:
		return fmt.Errorf("MODEL_STORE must be %q or %q, got %q", ModelStoreFile, ModelStorePostgres, c.ModelStore)
	}

	if c.DBMinConns < 0 || c.DBMaxConns < 1 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool size: DB_MIN_CONNS=%d DB_MAX_CONNS=%d", c.DBMinConns, c.DBMaxConns)
	}

	for name, v := range map[string]float64{
		"RULE_MIN_CONFIDENCE":        c.RuleMinConfidence,
		"KEY_SYMPTOM_BONUS":          c.KeySymptomBonus,
		"CONFIDENCE_CAP":             c.ConfidenceCap,
		"CLASSIFIER_MIN_PROBABILITY": c.ClassifierMinProbability,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if c.ClassifierMinTextLength < 0 {
		return fmt.Errorf("CLASSIFIER_MIN_TEXT_LENGTH must not be negative, got %d", c.ClassifierMinTextLength)
	}

	return nil
}
