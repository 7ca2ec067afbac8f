package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Scorer-only config; server section absent.
	p := writeConfig(t, `scorer:
  sheets: [games.txt]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Stream.Interval != DefaultStreamInterval {
		t.Errorf("stream.interval: got %v, want %v", cfg.Server.Stream.Interval, DefaultStreamInterval)
	}
	if cfg.Server.LogLevel != DefaultLogLevel {
		t.Errorf("log_level: got %q, want %q", cfg.Server.LogLevel, DefaultLogLevel)
	}
	if cfg.Server.StrictFrames {
		t.Error("strict_frames: got true, want false")
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9091
  strict_frames: true
  log_level: debug
  auth:
    mode: apikey
    key_env: MY_KEY
    header: x-lane-key
  stream:
    interval: 250ms
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", cfg.Server.HTTPPort)
	}
	if !cfg.Server.StrictFrames {
		t.Error("strict_frames: got false, want true")
	}
	if cfg.Server.Level() != slog.LevelDebug {
		t.Errorf("Level(): got %v, want debug", cfg.Server.Level())
	}
	if cfg.Server.Auth.Mode != "apikey" {
		t.Errorf("auth.mode: got %q, want apikey", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Auth.EffectiveHeader() != "x-lane-key" {
		t.Errorf("header: got %q, want x-lane-key", cfg.Server.Auth.EffectiveHeader())
	}
	if cfg.Server.Stream.Interval != 250*time.Millisecond {
		t.Errorf("stream.interval: got %v, want 250ms", cfg.Server.Stream.Interval)
	}
}

func TestLoad_DefaultHeader(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: K
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h := cfg.Server.Auth.EffectiveHeader(); h != "x-api-key" {
		t.Errorf("EffectiveHeader: got %q, want x-api-key", h)
	}
}

func TestLoad_KeyEnvResolution(t *testing.T) {
	t.Setenv("TEST_SERVER_KEY", "supersecret")
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: TEST_SERVER_KEY
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k := cfg.Server.Auth.Key(); k != "supersecret" {
		t.Errorf("Key(): got %q, want supersecret", k)
	}
}

func TestLoad_Webhooks(t *testing.T) {
	t.Setenv("TEST_SLACK_URL", "https://hooks.example.com/abc")
	p := writeConfig(t, `server:
  webhooks:
    - type: slack
      url_env: TEST_SLACK_URL
    - type: http
      url_env: TEST_UNSET_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Server.Webhooks) != 2 {
		t.Fatalf("webhooks: got %d, want 2", len(cfg.Server.Webhooks))
	}
	if u := cfg.Server.Webhooks[0].URL(); u != "https://hooks.example.com/abc" {
		t.Errorf("webhooks[0].URL(): got %q", u)
	}
	if u := cfg.Server.Webhooks[1].URL(); u != "" {
		t.Errorf("webhooks[1].URL(): got %q, want empty for unset env", u)
	}
}

// --- environment overrides ---

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TENPIN_HTTP_PORT", "7000")
	t.Setenv("TENPIN_STRICT_FRAMES", "true")
	t.Setenv("TENPIN_LOG_LEVEL", "warn")
	t.Setenv("TENPIN_STREAM_INTERVAL", "2s")
	p := writeConfig(t, `server:
  http_port: 9091
  log_level: debug
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 7000 {
		t.Errorf("http_port: got %d, want 7000 from env", cfg.Server.HTTPPort)
	}
	if !cfg.Server.StrictFrames {
		t.Error("strict_frames: got false, want true from env")
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("log_level: got %q, want warn from env", cfg.Server.LogLevel)
	}
	if cfg.Server.Stream.Interval != 2*time.Second {
		t.Errorf("stream.interval: got %v, want 2s from env", cfg.Server.Stream.Interval)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TENPIN_HTTP_PORT", "8181")
	t.Setenv("TENPIN_AUTH_MODE", "none")
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.Server.HTTPPort != 8181 {
		t.Errorf("http_port: got %d, want 8181", cfg.Server.HTTPPort)
	}
	if cfg.Server.Auth.Mode != "none" {
		t.Errorf("auth.mode: got %q, want none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Stream.Interval != DefaultStreamInterval {
		t.Errorf("stream.interval: got %v, want default", cfg.Server.Stream.Interval)
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("TENPIN_HTTP_PORT", "eighty")
	p := writeConfig(t, "server: {}\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for non-numeric TENPIN_HTTP_PORT, got nil")
	}
}

// --- validation ---

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown auth mode", "server:\n  auth:\n    mode: oauth2\n"},
		{"apikey without key_env", "server:\n  auth:\n    mode: apikey\n"},
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"unknown log level", "server:\n  log_level: loud\n"},
		{"zero stream interval", "server:\n  stream:\n    interval: 0s\n"},
		{"unknown webhook type", "server:\n  webhooks:\n    - type: pager\n      url_env: U\n"},
		{"webhook without url_env", "server:\n  webhooks:\n    - type: slack\n"},
		{"malformed yaml", "server: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
