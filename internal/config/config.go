// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An explicit path, usually from the --config flag
//  2. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  3. Environment variables alone, falling back to env-default values
//
// Every field can be overridden by the environment variable named in its
// env:"..." tag, even when a YAML file is loaded.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/aanand-mishra/sinja/internal/tracing"
)

// Config is the root configuration structure shared by the client
// commands and the stub API server.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the SQLite file used by `sinja serve`.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/students.db"`

	HTTPServer `yaml:"http_server"`

	Remote   Remote         `yaml:"remote"`
	Workflow Workflow       `yaml:"workflow"`
	Tracing  tracing.Config `yaml:"tracing"`
}

// HTTPServer holds settings for the stub API server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8080"`
}

// Remote describes the student API the client talks to.
type Remote struct {
	// BaseURL is the scheme and host of the API, without a trailing path.
	BaseURL string `yaml:"base_url" env:"REMOTE_BASE_URL" env-default:"http://localhost:8080"`

	// Timeout is handed to the http.Client. The workflows add none of their own.
	Timeout time.Duration `yaml:"timeout" env:"REMOTE_TIMEOUT" env-default:"10s"`
}

// Workflow holds presentation hints produced by the workflows.
type Workflow struct {
	// ResetDelay is how long a successful registration stays on screen
	// before the form is cleared.
	ResetDelay time.Duration `yaml:"reset_delay" env:"RESET_DELAY" env-default:"2s"`
}

// Load reads the configuration from path, or from CONFIG_PATH when path
// is empty. With neither set, only the environment and defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
		return &cfg, nil
	}

	// A clear message beats a cryptic "open: no such file" from the reader.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}
