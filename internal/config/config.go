package config

import (
	"fmt"
	"strings"

	"github.com/fitforge/server/internal/progression"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres; the password is a secret and comes from the env
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus metrics endpoint
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	RecommendationRateLimitPerMin int `toml:"recommendation_rate_limit_per_min"`

	// engine threshold overrides; zero-value fields fall back to the
	// engine defaults
	Engine progression.Config `toml:"engine"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlFile Toml
	if _, err := toml.DecodeFile(path, &tomlFile); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlFile.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = env

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var err error
	if c.Port <= 0 {
		err = multierr.Append(err, fmt.Errorf("port must be positive, got %d", c.Port))
	}
	if c.PostgresHost == "" {
		err = multierr.Append(err, fmt.Errorf("postgres_host must be set"))
	}
	if c.PostgresDBName == "" {
		err = multierr.Append(err, fmt.Errorf("postgres_db_name must be set"))
	}
	if c.RecommendationRateLimitPerMin < 0 {
		err = multierr.Append(err, fmt.Errorf("recommendation_rate_limit_per_min must not be negative"))
	}
	return err
}

// EngineConfig merges the TOML overrides onto the engine defaults. Only
// fields explicitly set in the config file replace the default values;
// every engine default is positive, so zero means "not set".
func (c *Config) EngineConfig() progression.Config {
	cfg := progression.DefaultConfig()

	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setFloat := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}

	setInt(&cfg.MinSessions, c.Engine.MinSessions)
	setInt(&cfg.StagnationWeeks, c.Engine.StagnationWeeks)
	setFloat(&cfg.RPEElevationThreshold, c.Engine.RPEElevationThreshold)
	setInt(&cfg.CompletionDropWindow, c.Engine.CompletionDropWindow)
	setFloat(&cfg.CompletionThreshold, c.Engine.CompletionThreshold)
	setFloat(&cfg.FormDropThreshold, c.Engine.FormDropThreshold)
	setInt(&cfg.MinActiveIndicators, c.Engine.MinActiveIndicators)
	setFloat(&cfg.VolumePlateauThreshold, c.Engine.VolumePlateauThreshold)

	setFloat(&cfg.MinCompletionRate, c.Engine.MinCompletionRate)
	setFloat(&cfg.ProgressionRPELimit, c.Engine.ProgressionRPELimit)
	setFloat(&cfg.DeloadRPEThreshold, c.Engine.DeloadRPEThreshold)
	setFloat(&cfg.TargetRPE, c.Engine.TargetRPE)
	setFloat(&cfg.CompoundIncrement, c.Engine.CompoundIncrement)
	setFloat(&cfg.IsolationIncrement, c.Engine.IsolationIncrement)
	setFloat(&cfg.WeeklyIncreaseCap, c.Engine.WeeklyIncreaseCap)
	setFloat(&cfg.MinIncrease, c.Engine.MinIncrease)
	setFloat(&cfg.WeightRoundingUnit, c.Engine.WeightRoundingUnit)
	setFloat(&cfg.StartWeightCompound, c.Engine.StartWeightCompound)
	setFloat(&cfg.StartWeightIsolated, c.Engine.StartWeightIsolated)

	setInt(&cfg.MaxExercises, c.Engine.MaxExercises)
	setFloat(&cfg.SetupMinutes, c.Engine.SetupMinutes)
	setFloat(&cfg.DurationBuffer, c.Engine.DurationBuffer)
	setFloat(&cfg.RetirementScore, c.Engine.RetirementScore)
	setInt(&cfg.MaxNewExercises, c.Engine.MaxNewExercises)
	setInt(&cfg.MaxVariations, c.Engine.MaxVariations)
	setFloat(&cfg.SecondsPerRep, c.Engine.SecondsPerRep)
	setFloat(&cfg.DeloadConfidence, c.Engine.DeloadConfidence)

	return cfg
}
