// Package config loads and validates runtime configuration at startup.
// Sources, lowest precedence first: built-in defaults, the YAML file, the
// process environment (after .env is loaded). Invalid values fail fast.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"joblens/internal/i18n"
	"joblens/internal/scraper"
)

const defaultConfigPath = "configs/joblens.yaml"

// Config holds all runtime configuration for the JobLens service.
type Config struct {
	Port                string `yaml:"port"`
	GRPCPort            string `yaml:"grpc_port"`
	JobTechBaseURL      string `yaml:"jobtech_base_url"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	DefaultLimit        int    `yaml:"default_limit"`
	RedisURL            string `yaml:"redis_url"` // empty: in-process session store
	SessionTTLMinutes   int    `yaml:"session_ttl_minutes"`
	SessionSweepMinutes int    `yaml:"session_sweep_minutes"`
	DefaultLocale       string `yaml:"default_locale"`
	LogFormat           string `yaml:"log_format"` // "text" or "json"
}

// FetchTimeout is the upstream request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// SessionTTL is how long an idle session is kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Locale is the validated default locale.
func (c *Config) Locale() i18n.Locale {
	loc, _ := i18n.ParseLocale(c.DefaultLocale)
	return loc
}

func defaults() *Config {
	return &Config{
		Port:                "8090",
		GRPCPort:            "9090",
		JobTechBaseURL:      scraper.DefaultJobTechURL,
		FetchTimeoutSeconds: int(scraper.DefaultFetchTimeout / time.Second),
		DefaultLimit:        20,
		SessionTTLMinutes:   60,
		SessionSweepMinutes: 5,
		DefaultLocale:       string(i18n.English),
		LogFormat:           "text",
	}
}

// Load reads .env, the YAML file named by JOBLENS_CONFIG (default
// configs/joblens.yaml, optional) and the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	path := os.Getenv("JOBLENS_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Printf("[config] %s not found, using defaults and environment", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		s := os.Getenv(key)
		if s == "" {
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, s)
		}
		*dst = v
		return nil
	}

	setString("JOBLENS_PORT", &c.Port)
	setString("JOBLENS_GRPC_PORT", &c.GRPCPort)
	setString("JOBTECH_BASE_URL", &c.JobTechBaseURL)
	setString("REDIS_URL", &c.RedisURL)
	setString("DEFAULT_LOCALE", &c.DefaultLocale)
	setString("LOG_FORMAT", &c.LogFormat)

	for key, dst := range map[string]*int{
		"FETCH_TIMEOUT_SECONDS": &c.FetchTimeoutSeconds,
		"DEFAULT_LIMIT":         &c.DefaultLimit,
		"SESSION_TTL_MINUTES":   &c.SessionTTLMinutes,
		"SESSION_SWEEP_MINUTES": &c.SessionSweepMinutes,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("JOBLENS_PORT is required")
	}
	if c.GRPCPort == "" {
		return fmt.Errorf("JOBLENS_GRPC_PORT is required")
	}
	if c.JobTechBaseURL == "" {
		return fmt.Errorf("JOBTECH_BASE_URL is required")
	}
	if c.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be a positive integer, got %d", c.FetchTimeoutSeconds)
	}
	if c.DefaultLimit < scraper.MinLimit || c.DefaultLimit > scraper.MaxLimit {
		return fmt.Errorf("DEFAULT_LIMIT must be between %d and %d, got %d", scraper.MinLimit, scraper.MaxLimit, c.DefaultLimit)
	}
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer, got %d", c.SessionTTLMinutes)
	}
	if c.SessionSweepMinutes < 1 {
		return fmt.Errorf("SESSION_SWEEP_MINUTES must be a positive integer, got %d", c.SessionSweepMinutes)
	}
	if _, ok := i18n.ParseLocale(c.DefaultLocale); !ok {
		return fmt.Errorf("DEFAULT_LOCALE %q is not supported", c.DefaultLocale)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}
