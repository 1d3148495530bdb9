package config

import (
	"os"
	"strconv"

	"gouncertain/adapters/rng"
	"gouncertain/adapters/stats/sprt"
	"gouncertain/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	SPRT     SPRTConfig
	Sampling SamplingConfig
	Server   ServerConfig
	Database DatabaseConfig
	LogLevel string
}

// SPRTConfig holds the stopping rule of the sequential evaluator
type SPRTConfig struct {
	ReliabilityHigh float64
	ReliabilityLow  float64
	BatchSize       int
	MaxBatches      int
}

// SamplingConfig holds randomness and concurrency settings
type SamplingConfig struct {
	Seed                   int64
	MaxConcurrentDecisions int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the decision ledger connection. An empty URL disables the ledger.
type DatabaseConfig struct {
	URL    string
	Driver string
}

// Enabled reports whether a ledger database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// Evaluator converts the settings into an evaluator configuration
func (c SPRTConfig) Evaluator() sprt.Config {
	return sprt.Config{
		ReliabilityHigh: c.ReliabilityHigh,
		ReliabilityLow:  c.ReliabilityLow,
		BatchSize:       c.BatchSize,
		MaxBatches:      c.MaxBatches,
	}
}

// LoadFile reads variables from a .env file into the environment, then calls Load.
// Variables already present in the environment take precedence.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "failed to read env file %s", path)
		}
	}
	return Load()
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	defaults := sprt.DefaultConfig()

	config := &Config{
		SPRT: SPRTConfig{
			ReliabilityHigh: getEnvFloatOrDefault("SPRT_RELIABILITY_HIGH", defaults.ReliabilityHigh),
			ReliabilityLow:  getEnvFloatOrDefault("SPRT_RELIABILITY_LOW", defaults.ReliabilityLow),
			BatchSize:       getEnvIntOrDefault("SPRT_BATCH_SIZE", defaults.BatchSize),
			MaxBatches:      getEnvIntOrDefault("SPRT_MAX_BATCHES", defaults.MaxBatches),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL:    os.Getenv("DATABASE_URL"),
			Driver: getEnvOrDefault("DATABASE_DRIVER", "postgres"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	sampling, err := loadSamplingConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sampling configuration")
	}
	config.Sampling = *sampling

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSamplingConfig() (*SamplingConfig, error) {
	seed, ok := lookupEnvInt64("SEED")
	if !ok {
		generated, err := rng.NewSeed()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate seed")
		}
		seed = generated
	}
	return &SamplingConfig{
		Seed:                   seed,
		MaxConcurrentDecisions: getEnvIntOrDefault("MAX_CONCURRENT_DECISIONS", 4),
	}, nil
}

func validateConfig(config *Config) error {
	if err := config.SPRT.Evaluator().Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "invalid SPRT_* settings"))
	}
	if config.Sampling.MaxConcurrentDecisions <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_DECISIONS must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite, got " + config.Database.Driver)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func lookupEnvInt64(key string) (int64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
