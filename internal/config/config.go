package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// goal progress
	GoalViewsCacheSizeMB        int      `toml:"goal_views_cache_size_mb"`
	GoalViewsCacheTTLSeconds    int      `toml:"goal_views_cache_ttl_seconds"`
	BodyFatMaxAgeDays           int      `toml:"body_fat_max_age_days"`
	MeasurementsRateLimitPerMin int      `toml:"measurements_rate_limit_per_min"`
	AllowedOrigins              []string `toml:"allowed_origins"`
}

func (c *Config) GoalViewsCacheTTL() time.Duration {
	return time.Duration(c.GoalViewsCacheTTLSeconds) * time.Second
}

func (c *Config) BodyFatMaxAge() time.Duration {
	return time.Duration(c.BodyFatMaxAgeDays) * 24 * time.Hour
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host, port and db name must be set"))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis host and port must be set"))
	}
	if c.MeasurementsRateLimitPerMin < 0 {
		errs = append(errs, fmt.Errorf("invalid measurements rate limit: %d", c.MeasurementsRateLimitPerMin))
	}
	return errors.Join(errs...)
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
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}
	return cfg, nil
}
