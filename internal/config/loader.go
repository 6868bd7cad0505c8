package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"sitegen/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr                  string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel              string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat             string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	MaxBodyBytes          int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutSeconds int64    `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	CORSOrigins           []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	PromptDir             string   `json:"prompt_dir" yaml:"prompt_dir" toml:"prompt_dir"`
	Backend               Backend  `json:"backend" yaml:"backend" toml:"backend"`
	Images                Images   `json:"images" yaml:"images" toml:"images"`
}

// Backend configures the text-generation backend.
type Backend struct {
	URL                   string `json:"url" yaml:"url" toml:"url"`
	Model                 string `json:"model" yaml:"model" toml:"model"`
	TimeoutSeconds        int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds" yaml:"connect_timeout_seconds" toml:"connect_timeout_seconds"`
}

// Images configures placeholder resolution.
type Images struct {
	PexelsAPIKey      string  `json:"pexels_api_key" yaml:"pexels_api_key" toml:"pexels_api_key"`
	PexelsEndpoint    string  `json:"pexels_endpoint" yaml:"pexels_endpoint" toml:"pexels_endpoint"`
	TimeoutSeconds    int     `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	Concurrency       int     `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst" toml:"burst"`
}

// SearchPaths are tried in order when no config file is named.
var SearchPaths = []string{
	"sitegen.yaml", "sitegen.yml", "sitegen.toml", "sitegen.json",
	"~/.config/sitegen/config.yaml",
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: .env files, then the config
// file (path, or the first of SearchPaths that exists), then environment
// overrides, then defaults for anything still unset.
func Resolve(path string) (Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if path == "" {
		path = fsutil.FirstExisting(SearchPaths...)
	}
	if path != "" {
		c, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = c
	}
	ApplyEnv(&cfg)
	return cfg.WithDefaults(), nil
}
