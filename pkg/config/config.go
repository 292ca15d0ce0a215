// Package config loads storedash settings from defaults, an optional YAML file
// and STOREDASH_ environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix scopes the environment variables read by Load.
	EnvPrefix = "STOREDASH_"
	// EnvConfigFile names a YAML file to load when Options.File is empty.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// FileSearchPaths are tried in order when no file is configured.
var FileSearchPaths = []string{"storedash.yaml", "config/storedash.yaml"}

// Config is the effective storedash configuration.
type Config struct {
	Backend BackendConfig `koanf:"backend" yaml:"backend"`
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Chart   ChartConfig   `koanf:"chart" yaml:"chart"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	// Demo serves analytics from the in-memory backend instead of backend.url.
	Demo bool `koanf:"demo" yaml:"demo"`
}

type BackendConfig struct {
	URL        string        `koanf:"url" yaml:"url" validate:"required,url"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout" validate:"gte=0"`
	HealthPath string        `koanf:"health_path" yaml:"health_path" validate:"required,startswith=/"`
}

type ServerConfig struct {
	Listen        string `koanf:"listen" yaml:"listen" validate:"required"`
	MetricsListen string `koanf:"metrics_listen" yaml:"metrics_listen"`
	BasePath      string `koanf:"base_path" yaml:"base_path" validate:"omitempty,startswith=/"`
}

type ChartConfig struct {
	Renderer   string        `koanf:"renderer" yaml:"renderer" validate:"oneof=svg echarts"`
	Theme      string        `koanf:"theme" yaml:"theme"`
	CacheTTL   time.Duration `koanf:"cache_ttl" yaml:"cache_ttl" validate:"gte=0"`
	AssetsHost string        `koanf:"assets_host" yaml:"assets_host" validate:"omitempty,url"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=json console"`
}

// Options control where Load reads from.
type Options struct {
	// File is a YAML file path. Empty falls back to STOREDASH_CONFIG, then FileSearchPaths.
	File string
	// Overrides are applied last, keyed by dotted path (e.g. "backend.url").
	Overrides map[string]any
}

// Defaults returns the built-in settings keyed by dotted path.
func Defaults() map[string]any {
	return map[string]any{
		"backend.url":           "http://localhost:8000",
		"backend.timeout":       "0s",
		"backend.health_path":   "/api/health",
		"server.listen":         ":8080",
		"server.metrics_listen": "",
		"server.base_path":      "",
		"chart.renderer":        "svg",
		"chart.theme":           "westeros",
		"chart.cache_ttl":       "5m",
		"chart.assets_host":     "",
		"log.level":             "info",
		"log.format":            "json",
		"demo":                  false,
	}
}

// Load layers defaults, file, environment and overrides, then validates.
func Load(opts Options) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := resolveFile(opts.File); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return Config{}, fmt.Errorf("config: load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints on a decoded configuration.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// envKey maps STOREDASH_BACKEND__HEALTH_PATH to backend.health_path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Join(strings.Split(s, "__"), ".")
}

func resolveFile(path string) string {
	if path != "" {
		return path
	}
	if path = os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	for _, candidate := range FileSearchPaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
