package config

import (
	"os"
	"strings"

	"github.com/spf13/cast"

	dErrors "idsynth/pkg/domain-errors"
)

const (
	defaultAddr         = ":8080"
	defaultDataDir      = "data"
	defaultLogLevel     = "info"
	defaultTrees        = 100
	defaultTestFraction = 0.2
	defaultModelSeed    = 42
)

// Config captures process level configuration.
type Config struct {
	Addr     string
	DataDir  string
	LogLevel string
	// SQLDSN is the only Postgres database clients may export to or import
	// from. Empty disables Postgres targets over HTTP.
	SQLDSN string
	Model  Model
}

// Model tunes training of the country model.
type Model struct {
	Trees        int
	TestFraction float64
	Seed         uint64
}

// FromEnv builds a Config from environment variables so main stays lean.
// Unset variables take defaults; set but malformed ones are errors.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:     envOr("IDSYNTH_ADDR", defaultAddr),
		DataDir:  envOr("IDSYNTH_DATA_DIR", defaultDataDir),
		LogLevel: envOr("IDSYNTH_LOG_LEVEL", defaultLogLevel),
		SQLDSN:   os.Getenv("IDSYNTH_SQL_DSN"),
		Model: Model{
			Trees:        defaultTrees,
			TestFraction: defaultTestFraction,
			Seed:         defaultModelSeed,
		},
	}

	if cfg.SQLDSN != "" && !strings.HasPrefix(cfg.SQLDSN, "postgres://") && !strings.HasPrefix(cfg.SQLDSN, "postgresql://") {
		return Config{}, dErrors.New(dErrors.CodeInvalidInput, "IDSYNTH_SQL_DSN must be a postgres:// URL")
	}
	if v, ok := os.LookupEnv("IDSYNTH_TREES"); ok {
		n, err := cast.ToIntE(v)
		if err != nil || n < 1 {
			return Config{}, dErrors.New(dErrors.CodeInvalidInput, "IDSYNTH_TREES must be a positive integer")
		}
		cfg.Model.Trees = n
	}
	if v, ok := os.LookupEnv("IDSYNTH_TEST_FRACTION"); ok {
		f, err := cast.ToFloat64E(v)
		if err != nil || f <= 0 || f >= 1 {
			return Config{}, dErrors.New(dErrors.CodeInvalidInput, "IDSYNTH_TEST_FRACTION must be between 0 and 1")
		}
		cfg.Model.TestFraction = f
	}
	if v, ok := os.LookupEnv("IDSYNTH_MODEL_SEED"); ok {
		seed, err := cast.ToUint64E(v)
		if err != nil {
			return Config{}, dErrors.New(dErrors.CodeInvalidInput, "IDSYNTH_MODEL_SEED must be a non-negative integer")
		}
		cfg.Model.Seed = seed
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
