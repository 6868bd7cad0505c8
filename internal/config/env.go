package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvPexelsKey   = "PEXELS_API_KEY"
	EnvAddr        = "SITEGEN_ADDR"
	EnvBackendURL  = "OLLAMA_URL"
	EnvModel       = "SITEGEN_MODEL"
	EnvLogLevel    = "SITEGEN_LOG_LEVEL"
	EnvLogFormat   = "SITEGEN_LOG_FORMAT"
	EnvPromptDir   = "SITEGEN_PROMPT_DIR"
	EnvCORSOrigins = "SITEGEN_CORS_ORIGINS"
	EnvConcurrency = "SITEGEN_IMAGE_CONCURRENCY"
	EnvEnvFile     = "ENV_FILE"
)

// Defaults used by WithDefaults.
const (
	DefaultAddr                  = ":8000"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultMaxBodyBytes          = 4 << 20
	DefaultBackendURL            = "http://localhost:11434"
	DefaultModel                 = "qwen2.5-coder:7b"
	DefaultBackendTimeoutSeconds = 420
	DefaultConnectTimeoutSeconds = 10
	DefaultPexelsEndpoint        = "https://api.pexels.com/v1/search"
	DefaultImageTimeoutSeconds   = 5
	DefaultImageConcurrency      = 4
)

// LoadEnvFiles loads variables from ENV_FILE when set, otherwise from
// .env.local and .env in the working directory. Missing files are ignored
// and variables already present in the process environment win.
func LoadEnvFiles() error {
	if f := os.Getenv(EnvEnvFile); f != "" {
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays non-empty environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	setString(&cfg.Images.PexelsAPIKey, EnvPexelsKey)
	setString(&cfg.Addr, EnvAddr)
	setString(&cfg.Backend.URL, EnvBackendURL)
	setString(&cfg.Backend.Model, EnvModel)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.LogFormat, EnvLogFormat)
	setString(&cfg.PromptDir, EnvPromptDir)
	if v := strings.TrimSpace(os.Getenv(EnvCORSOrigins)); v != "" {
		cfg.CORSOrigins = SplitCSV(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvConcurrency)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Images.Concurrency = n
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// SplitCSV splits a comma-separated list, trimming blanks.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendURL
	}
	if c.Backend.Model == "" {
		c.Backend.Model = DefaultModel
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = DefaultBackendTimeoutSeconds
	}
	if c.Backend.ConnectTimeoutSeconds <= 0 {
		c.Backend.ConnectTimeoutSeconds = DefaultConnectTimeoutSeconds
	}
	if c.Images.PexelsEndpoint == "" {
		c.Images.PexelsEndpoint = DefaultPexelsEndpoint
	}
	if c.Images.TimeoutSeconds <= 0 {
		c.Images.TimeoutSeconds = DefaultImageTimeoutSeconds
	}
	if c.Images.Concurrency <= 0 {
		c.Images.Concurrency = DefaultImageConcurrency
	}
	return c
}

// BackendTimeout is the whole-request timeout for generation calls.
func (c Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// ConnectTimeout bounds dialing the backend.
func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Backend.ConnectTimeoutSeconds) * time.Second
}

// ImageTimeout bounds a single stock-photo search.
func (c Config) ImageTimeout() time.Duration {
	return time.Duration(c.Images.TimeoutSeconds) * time.Second
}

// Defaults is the configuration used when nothing is set.
func Defaults() Config { return Config{}.WithDefaults() }
