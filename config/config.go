// Package config loads the application settings from an optional .env file, an optional
// YAML file and MVCORE_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvHTTPPort       = "MVCORE_HTTP_PORT"
	EnvLogLevel       = "MVCORE_LOG_LEVEL"
	EnvBasePackages   = "MVCORE_BASE_PACKAGES"
	EnvValidateOnInit = "MVCORE_VALIDATE_ON_INIT"
)

type Config struct {
	HTTPPort       string        `yaml:"http_port"`
	LogLevel       string        `yaml:"log_level"`
	BasePackages   []string      `yaml:"base_packages"`
	ValidateOnInit bool          `yaml:"validate_on_init"`
	MetricsPath    string        `yaml:"metrics_path"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

func Default() Config {
	return Config{
		HTTPPort:       "8080",
		LogLevel:       "info",
		ValidateOnInit: true,
		MetricsPath:    "/metrics",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped when path is
// empty), then the environment. Variables from envFiles are loaded first without
// overriding the existing environment; missing env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if len(path) > 0 {
		if err := LoadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadYAML unmarshals the YAML file at path into target.
func LoadYAML(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvHTTPPort); len(v) > 0 {
		c.HTTPPort = v
	}
	if v := os.Getenv(EnvLogLevel); len(v) > 0 {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvBasePackages); len(v) > 0 {
		c.BasePackages = nil
		for _, pkg := range strings.Split(v, ",") {
			if pkg = strings.TrimSpace(pkg); len(pkg) > 0 {
				c.BasePackages = append(c.BasePackages, pkg)
			}
		}
	}
	if v := os.Getenv(EnvValidateOnInit); len(v) > 0 {
		validate, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvValidateOnInit, err)
		}
		c.ValidateOnInit = validate
	}
	return nil
}
