package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Fatalf("got sample rate %v, want default %v", cfg.SampleRate, DefaultSampleRate)
	}
	if cfg.MaxBlockSize != DefaultMaxBlockSize {
		t.Fatalf("got block size %d, want default %d", cfg.MaxBlockSize, DefaultMaxBlockSize)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	cfg := Default()
	cfg.AudioDevice = "USB Audio Interface"
	cfg.SampleRate = 44100
	cfg.MaxBlockSize = 256

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.AudioDevice != "USB Audio Interface" {
		t.Fatalf("got device %q, want %q", loaded.AudioDevice, "USB Audio Interface")
	}
	if loaded.SampleRate != 44100 {
		t.Fatalf("got sample rate %v, want 44100", loaded.SampleRate)
	}
	if loaded.MaxBlockSize != 256 {
		t.Fatalf("got block size %d, want 256", loaded.MaxBlockSize)
	}
}

func TestAPIKeyReadsConfiguredEnvVar(t *testing.T) {
	cfg := Default()
	cfg.APIKeyEnv = "AUDIOCORE_TEST_KEY"
	t.Setenv("AUDIOCORE_TEST_KEY", "sk-test-123")

	if got := cfg.APIKey(); got != "sk-test-123" {
		t.Fatalf("got API key %q, want %q", got, "sk-test-123")
	}
}

func TestAPIKeyEmptyWhenUnset(t *testing.T) {
	cfg := Default()
	cfg.APIKeyEnv = "AUDIOCORE_TEST_KEY_UNSET"
	if got := cfg.APIKey(); got != "" {
		t.Fatalf("got API key %q, want empty", got)
	}
}

func TestApplyOverridesOnlyChangesSuppliedFields(t *testing.T) {
	cfg := Default()
	cfg.ApplyOverrides("", 0, 0, "", "")
	if *cfg != *Default() {
		t.Fatalf("zero-value overrides should leave config unchanged, got %+v", cfg)
	}

	cfg.ApplyOverrides("hw:1,0", 96000, 128, "/var/log/audiocore", "https://ai.example/generate")
	if cfg.AudioDevice != "hw:1,0" || cfg.SampleRate != 96000 || cfg.MaxBlockSize != 128 {
		t.Fatalf("overrides did not apply, got %+v", cfg)
	}
	if cfg.LogDir != "/var/log/audiocore" || cfg.AIEndpoint != "https://ai.example/generate" {
		t.Fatalf("overrides did not apply, got %+v", cfg)
	}
}
