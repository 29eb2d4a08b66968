package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fitforge/server/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_user = "fitforge_dev_user"
postgres_db_name = "fitforge_dev"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "9091"
recommendation_rate_limit_per_min = 30

[development.engine]
min_sessions = 3
compound_increment = 5.0
deload_rpe_threshold = 8.0
form_drop_threshold = 0.2
weekly_increase_cap = 7.5
start_weight_compound = 30.0
max_new_exercises = 1
seconds_per_rep = 4.0

[production]
host = "0.0.0.0"
port = 8080
log_level = "info"
logs_path = "/var/log/fitforge"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "fitforge"
redis_host = "redis"
redis_port = "6379"
prometheus_metrics_host = "0.0.0.0"
prometheus_metrics_port = "9091"
recommendation_rate_limit_per_min = 10
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "fitforge_dev_user", cfg.PostgresUser)
	assert.Equal(t, "fitforge_dev", cfg.PostgresDBName)
	assert.Equal(t, 30, cfg.RecommendationRateLimitPerMin)

	prod, err := Load("prod", path)
	require.NoError(t, err)
	assert.Equal(t, "fitforge", prod.PostgresDBName)
	assert.Equal(t, "/var/log/fitforge", prod.LogsPath)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("staging", path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("dev", "/nonexistent/config.toml")
	require.Error(t, err)
}

func TestEngineConfig_OverridesMergeOntoDefaults(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("dev", path)
	require.NoError(t, err)

	engineCfg := cfg.EngineConfig()
	// overridden
	assert.Equal(t, 3, engineCfg.MinSessions)
	assert.Equal(t, 5.0, engineCfg.CompoundIncrement)
	assert.Equal(t, 8.0, engineCfg.DeloadRPEThreshold)
	assert.Equal(t, 0.2, engineCfg.FormDropThreshold)
	assert.Equal(t, 7.5, engineCfg.WeeklyIncreaseCap)
	assert.Equal(t, 30.0, engineCfg.StartWeightCompound)
	assert.Equal(t, 1, engineCfg.MaxNewExercises)
	assert.Equal(t, 4.0, engineCfg.SecondsPerRep)
	// untouched defaults
	assert.Equal(t, 4, engineCfg.StagnationWeeks)
	assert.Equal(t, 1.25, engineCfg.IsolationIncrement)
	assert.Equal(t, 7.5, engineCfg.TargetRPE)
	assert.Equal(t, 2, engineCfg.MinActiveIndicators)
	assert.Equal(t, 0.85, engineCfg.MinCompletionRate)
	assert.Equal(t, 10.0, engineCfg.StartWeightIsolated)
	assert.Equal(t, 1.2, engineCfg.DurationBuffer)
	assert.Equal(t, 60.0, engineCfg.DeloadConfidence)

	require.NoError(t, engineCfg.Validate())
}

// An empty engine table must reproduce the defaults exactly, field for
// field, so a missing override can never zero out a threshold.
func TestEngineConfig_EmptyTableYieldsDefaults(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, progression.DefaultConfig(), cfg.EngineConfig())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 0, RecommendationRateLimitPerMin: -1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
	assert.Contains(t, err.Error(), "postgres_host")
	assert.Contains(t, err.Error(), "postgres_db_name")
	assert.Contains(t, err.Error(), "rate_limit")
}
