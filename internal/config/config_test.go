package config

import (
	"os"
	"path/filepath"
	"testing"

	"gouncertain/adapters/stats/sprt"
	"gouncertain/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SPRT_RELIABILITY_HIGH", "SPRT_RELIABILITY_LOW", "SPRT_BATCH_SIZE", "SPRT_MAX_BATCHES", "SEED", "MAX_CONCURRENT_DECISIONS", "PORT", "DATABASE_URL", "DATABASE_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, sprt.DefaultConfig(), cfg.SPRT.Evaluator())
	assert.Equal(t, 4, cfg.Sampling.MaxConcurrentDecisions)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SPRT_RELIABILITY_HIGH", "0.99")
	t.Setenv("SPRT_RELIABILITY_LOW", "0.95")
	t.Setenv("SPRT_BATCH_SIZE", "20")
	t.Setenv("SPRT_MAX_BATCHES", "50")
	t.Setenv("SEED", "12345")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, sprt.Config{ReliabilityHigh: 0.99, ReliabilityLow: 0.95, BatchSize: 20, MaxBatches: 50}, cfg.SPRT.Evaluator())
	assert.Equal(t, int64(12345), cfg.Sampling.Seed)
}

func TestLoad_RejectsInvalidReliability(t *testing.T) {
	t.Setenv("SPRT_RELIABILITY_HIGH", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_RejectsNonPositiveConcurrency(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_DECISIONS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_Database(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:ledger.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	t.Setenv("DATABASE_DRIVER", "mysql")
	_, err = Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadFile(t *testing.T) {
	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("SPRT_BATCH_SIZE", "")
	require.NoError(t, os.Unsetenv("SPRT_BATCH_SIZE"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SPRT_BATCH_SIZE=25\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.SPRT.BatchSize)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
