package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for the scorer configuration.
const (
	DefaultLogLevel   = "info"
	DefaultAuthHeader = "x-api-key"
)

// Config is the top-level configuration read by the scorer.
type Config struct {
	Scorer ScorerConfig `yaml:"scorer"`
}

// ScorerConfig holds all scorer settings.
type ScorerConfig struct {
	// Sheets lists the game sheet files to score (.yaml/.yml or text).
	Sheets []string `yaml:"sheets"`

	// StrictFrames rejects rolls that knock down more pins than are standing.
	// Off by default: any roll in [0, 10] is accepted.
	StrictFrames bool `yaml:"strict_frames"`

	// Textfile is the optional path of a Prometheus textfile to write the
	// scores to after every run.
	Textfile string `yaml:"textfile"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// Lane optionally replays one scored game onto a running lane server.
	Lane LaneConfig `yaml:"lane"`
}

// LaneConfig points the scorer at a lane server.
type LaneConfig struct {
	// Endpoint is the base URL of the lane server, e.g. http://localhost:8080.
	// Replay is disabled when empty.
	Endpoint string `yaml:"endpoint"`

	// Game names the sheet game to replay. The first game is used when empty.
	Game string `yaml:"game"`

	// Auth configures the API key sent to the lane server.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig holds the client side of the lane server's API key auth.
type AuthConfig struct {
	// KeyEnv is the name of the environment variable that holds the API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to send the key in.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAuthHeader
}

// Level returns the slog level for LogLevel.
func (c ScorerConfig) Level() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a log level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	resolvePaths(cfg, filepath.Dir(path))
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Scorer: ScorerConfig{
			LogLevel: DefaultLogLevel,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if len(cfg.Scorer.Sheets) == 0 {
		return fmt.Errorf("scorer.sheets must list at least one file")
	}
	for i, s := range cfg.Scorer.Sheets {
		if s == "" {
			return fmt.Errorf("scorer.sheets[%d]: path is empty", i)
		}
	}
	switch cfg.Scorer.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("scorer.log_level %q unknown: want debug|info|warn|error", cfg.Scorer.LogLevel)
	}
	if ep := cfg.Scorer.Lane.Endpoint; ep != "" {
		if err := ValidateEndpoint(ep); err != nil {
			return fmt.Errorf("scorer.lane.endpoint: %w", err)
		}
	}
	return nil
}

// ValidateEndpoint checks that ep is an absolute http or https URL.
func ValidateEndpoint(ep string) error {
	u, err := url.Parse(ep)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", ep)
	}
	return nil
}

// resolvePaths makes relative file paths relative to dir.
func resolvePaths(cfg *Config, dir string) {
	for i, s := range cfg.Scorer.Sheets {
		if !filepath.IsAbs(s) {
			cfg.Scorer.Sheets[i] = filepath.Join(dir, s)
		}
	}
	if cfg.Scorer.Textfile != "" && !filepath.IsAbs(cfg.Scorer.Textfile) {
		cfg.Scorer.Textfile = filepath.Join(dir, cfg.Scorer.Textfile)
	}
}
