package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestConfigUsesFileValuesWhenEnvUnset(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearDocintelEnv(t)

	writeConfigFile(t, home, `api_keys:
  anthropic: file-ant
  google: file-google
server:
  listen: ":9090"
storage:
  database: /tmp/test-records.db
processing:
  default_mode: quiz
  min_validation_score: 55
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnthropicAPIKey != "file-ant" {
		t.Errorf("anthropic key = %q", cfg.AnthropicAPIKey)
	}
	if cfg.GoogleAPIKey != "file-google" {
		t.Errorf("google key = %q", cfg.GoogleAPIKey)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Errorf("openai key = %q, want empty", cfg.OpenAIAPIKey)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "/tmp/test-records.db" {
		t.Errorf("database = %q", cfg.DatabasePath)
	}
	if cfg.DefaultMode != "quiz" {
		t.Errorf("mode = %q", cfg.DefaultMode)
	}
	if cfg.MinValidationScore != 55 {
		t.Errorf("min score = %v", cfg.MinValidationScore)
	}
}

func TestConfigEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearDocintelEnv(t)

	writeConfigFile(t, home, `api_keys:
  anthropic: file-ant
server:
  listen: ":9090"
`)

	t.Setenv("ANTHROPIC_API_KEY", "env-ant")
	t.Setenv("DOCINTEL_LISTEN", ":7070")
	t.Setenv("DOCINTEL_MIN_SCORE", "80")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnthropicAPIKey != "env-ant" {
		t.Errorf("anthropic key = %q", cfg.AnthropicAPIKey)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.MinValidationScore != 80 {
		t.Errorf("min score = %v", cfg.MinValidationScore)
	}
}

func TestConfigDefaults(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearDocintelEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.DefaultMode != "study" {
		t.Errorf("mode = %q", cfg.DefaultMode)
	}
	if cfg.MinValidationScore != 70 {
		t.Errorf("min score = %v", cfg.MinValidationScore)
	}
	if cfg.DatabasePath != filepath.Join(cfg.ConfigDir, "records.db") {
		t.Errorf("database = %q", cfg.DatabasePath)
	}
	if cfg.Catalog == nil || !cfg.Catalog.Has("gemini-2.0-flash") {
		t.Error("expected builtin catalog")
	}
	if cfg.Registry == nil || cfg.Registry.Generic() == nil {
		t.Error("expected builtin profile registry")
	}
}

func TestConfigRejectsInvalidDefaultMode(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearDocintelEnv(t)
	t.Setenv("DOCINTEL_MODE", "osmosis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid default mode")
	}
}

func TestConfigIgnoresUnparsableScoreEnv(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearDocintelEnv(t)
	t.Setenv("DOCINTEL_MIN_SCORE", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinValidationScore != 70 {
		t.Errorf("min score = %v, want default 70", cfg.MinValidationScore)
	}
}

func TestHasProvider(t *testing.T) {
	cfg := &Config{AnthropicAPIKey: "k", GoogleAPIKey: "k"}

	tests := []struct {
		name string
		want bool
	}{
		{"anthropic", true},
		{"google", true},
		{"openai", false},
		{"deepseek", false},
		{"mystery", false},
	}
	for _, tt := range tests {
		if got := cfg.HasProvider(tt.name); got != tt.want {
			t.Errorf("HasProvider(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	providers := cfg.ConfiguredProviders()
	if len(providers) != 2 || providers[0] != "anthropic" || providers[1] != "google" {
		t.Errorf("configured providers = %v", providers)
	}
}

func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	configDir := filepath.Join(home, ".docintel")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func clearDocintelEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY", "DEEPSEEK_API_KEY",
		"DOCINTEL_LISTEN", "DOCINTEL_DATABASE", "DOCINTEL_MODE", "DOCINTEL_MIN_SCORE",
	} {
		t.Setenv(key, "")
	}
}

func setHomeEnv(t *testing.T, home string) {
	t.Helper()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
}
