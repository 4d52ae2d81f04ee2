// Package config loads runtime settings for the entreprenot command and
// HTTP service from defaults, an optional YAML file, a .env file and the
// environment, in that order of increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAddr      = "ENTREPRENO_ADDR"
	EnvPort      = "PORT"
	EnvRules     = "ENTREPRENO_RULES"
	EnvLogLevel  = "ENTREPRENO_LOG_LEVEL"
	EnvLogFormat = "ENTREPRENO_LOG_FORMAT"
	EnvRedact    = "ENTREPRENO_REDACT"
)

// Config holds runtime settings.
type Config struct {
	Addr         string    `yaml:"addr"`
	Rules        string    `yaml:"rules"`
	Redact       bool      `yaml:"redact"`
	MaxBodyBytes int64     `yaml:"max_body_bytes"`
	Log          LogConfig `yaml:"log"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Addr:         ":8080",
		Rules:        "default",
		MaxBodyBytes: 64 << 10,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config. path names an optional YAML file; an empty path
// skips it. A .env file in the working directory is loaded if present,
// without overriding variables already set.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if err := LoadEnvFile(".env"); err != nil {
		return Config{}, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load: %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config.LoadEnvFile: %s: %w", path, err)
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty document leaves the defaults in place
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	} else if v := os.Getenv(EnvPort); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv(EnvRules); v != "" {
		c.Rules = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvRedact); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: not a boolean", EnvRedact, v)
		}
		c.Redact = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: addr is required")
	}
	if strings.TrimSpace(c.Rules) == "" {
		return fmt.Errorf("config: rules is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
