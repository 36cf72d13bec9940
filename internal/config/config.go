// Package config loads layered configuration: built-in defaults, an
// optional YAML file, then environment variables. Every empirically
// tuned constant of the engine is a named, overridable field here.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/EfrainCalderon/efrain-fm/internal/core/interrupt"
	"github.com/EfrainCalderon/efrain-fm/internal/core/scoring"
)

// EnvPrefix scopes environment overrides. Nested keys use a double
// underscore: EFRAINFM_TUNING__MIN_SCORE=0.5.
const EnvPrefix = "EFRAINFM_"

// DefaultConfigPaths are searched in order; the first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/efrain-fm/config.yaml",
}

type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

type CatalogConfig struct {
	Path string `koanf:"path"`
}

type SessionsConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

type FavoritesConfig struct {
	Path string `koanf:"path"`
}

type UnderstandingConfig struct {
	// Provider is "openai", "ollama" or "none".
	Provider   string        `koanf:"provider"`
	OpenAIKey  string        `koanf:"openai_key"`
	Model      string        `koanf:"model"`
	OllamaHost string        `koanf:"ollama_host"`
	Timeout    time.Duration `koanf:"timeout"`
}

type AnalyzerConfig struct {
	Enabled   bool `koanf:"enabled"`
	Workers   int  `koanf:"workers"`
	QueueSize int  `koanf:"queue_size"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
}

type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Catalog       CatalogConfig       `koanf:"catalog"`
	Sessions      SessionsConfig      `koanf:"sessions"`
	Favorites     FavoritesConfig     `koanf:"favorites"`
	Understanding UnderstandingConfig `koanf:"understanding"`
	Analyzer      AnalyzerConfig      `koanf:"analyzer"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit"`
	Logging       LoggingConfig       `koanf:"logging"`
	Tuning        scoring.Tuning      `koanf:"tuning"`
	Cadence       interrupt.Cadence   `koanf:"cadence"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Catalog: CatalogConfig{
			Path: "catalog.json",
		},
		Sessions: SessionsConfig{
			TTL:           12 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Favorites: FavoritesConfig{
			Path: "favorites.db",
		},
		Understanding: UnderstandingConfig{
			Provider: "none",
			Timeout:  20 * time.Second,
		},
		Analyzer: AnalyzerConfig{
			Enabled:   false,
			Workers:   2,
			QueueSize: 100,
		},
		RateLimit: RateLimitConfig{
			Requests: 30,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tuning:  scoring.DefaultTuning(),
		Cadence: interrupt.DefaultCadence(),
	}
}

// Load builds the configuration. An explicit path overrides the search
// list; a missing explicit file is an error, a missing default is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	switch c.Understanding.Provider {
	case "openai", "ollama", "none":
	default:
		return fmt.Errorf("config: unknown understanding provider %q", c.Understanding.Provider)
	}
	if c.Understanding.Provider == "openai" && c.Understanding.OpenAIKey == "" {
		return fmt.Errorf("config: understanding.openai_key required for the openai provider")
	}
	if c.Tuning.ToleranceRatio <= 0 || c.Tuning.ToleranceRatio > 1 {
		return fmt.Errorf("config: tuning.tolerance_ratio must be in (0,1]")
	}
	return nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func findConfigFile() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
