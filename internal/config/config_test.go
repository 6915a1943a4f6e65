package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPaths_DefaultsWhenNothingExists(t *testing.T) {
	cfg, err := LoadFromPaths(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Service.Endpoint != "http://localhost:8750" {
		t.Errorf("wrong default endpoint: %s", cfg.Service.Endpoint)
	}
	if cfg.Turn.PollIntervalMs != 500 || cfg.Turn.MaxToolRounds != 5 {
		t.Errorf("wrong default turn settings: %+v", cfg.Turn)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("wrong default retry attempts: %d", cfg.Retry.MaxAttempts)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdesk.yaml")
	content := []byte(`service:
  endpoint: https://agents.example.com
turn:
  timeout_seconds: 120
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.Endpoint != "https://agents.example.com" {
		t.Errorf("file value not applied: %s", cfg.Service.Endpoint)
	}
	if cfg.Turn.TimeoutSeconds != 120 {
		t.Errorf("file value not applied: %d", cfg.Turn.TimeoutSeconds)
	}
	// Keys the file does not set keep their defaults.
	if cfg.Agent.Model != "gpt-4o" {
		t.Errorf("default model lost: %s", cfg.Agent.Model)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AGENTDESK_SERVICE_API_KEY", "sk-env")
	t.Setenv("AGENTDESK_TURN_MAX_TOOL_ROUNDS", "9")

	cfg, err := LoadFromPaths()
	if err != nil {
		t.Fatalf("LoadFromPaths: %v", err)
	}
	if cfg.Service.APIKey != "sk-env" {
		t.Errorf("env api key not applied: %q", cfg.Service.APIKey)
	}
	if cfg.Turn.MaxToolRounds != 9 {
		t.Errorf("env tool rounds not applied: %d", cfg.Turn.MaxToolRounds)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdesk.yaml")

	want := DefaultConfig()
	want.Service.Endpoint = "https://east.example.com"
	want.Retry.MaxAttempts = 7
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Service.Endpoint != want.Service.Endpoint {
		t.Errorf("endpoint lost in roundtrip: %s", got.Service.Endpoint)
	}
	if got.Retry.MaxAttempts != 7 {
		t.Errorf("retry attempts lost in roundtrip: %d", got.Retry.MaxAttempts)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Errorf("PollInterval = %s", cfg.PollInterval())
	}
	if cfg.TurnTimeout() != time.Minute {
		t.Errorf("TurnTimeout = %s", cfg.TurnTimeout())
	}
	if cfg.RetryBaseDelay() != time.Second {
		t.Errorf("RetryBaseDelay = %s", cfg.RetryBaseDelay())
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.RequestTimeout())
	}
}
