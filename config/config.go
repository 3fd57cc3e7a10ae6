// Package config loads the standalone launcher's on-disk session and
// device-preference file (spec §6.5) and reconciles it with command-line
// overrides (spec §6.4). This is deliberately separate from the JSON
// preset payload of §6.2: that format crosses the AI-service HTTP
// boundary and must stay byte-compatible JSON, while this file is a local
// YAML document the launcher owns end to end, following
// doismellburning-samoyed's convention of keeping its daemon config in
// YAML and its preset-shaped wire formats elsewhere.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirror spec §4.5's "typical" operating point for the slot
// chain host: 48kHz, 512-sample blocks, stereo.
const (
	DefaultSampleRate   = 48000.0
	DefaultMaxBlockSize = 512
	DefaultBufferCount  = 32
)

// Config is the launcher's resolved configuration: on-disk preferences
// overridden by whatever flags the caller supplied on the command line.
// APIKeyEnv names the environment variable the AI preset-generation
// client's key is read from (spec §6.4: "accepts environment variables
// (OPENAI_API_KEY, ...)"); the key itself is never written to the YAML
// file or logged.
type Config struct {
	AudioDevice  string  `yaml:"audio_device"`
	SampleRate   float64 `yaml:"sample_rate"`
	MaxBlockSize int     `yaml:"max_block_size"`
	LogDir       string  `yaml:"log_dir"`
	AIEndpoint   string  `yaml:"ai_endpoint"`
	APIKeyEnv    string  `yaml:"api_key_env"`
}

// Default returns the configuration a fresh install starts from, before
// any on-disk file or flag has been consulted.
func Default() *Config {
	return &Config{
		AudioDevice:  "default",
		SampleRate:   DefaultSampleRate,
		MaxBlockSize: DefaultMaxBlockSize,
		LogDir:       ".",
		AIEndpoint:   "",
		APIKeyEnv:    "OPENAI_API_KEY",
	}
}

// Load reads a YAML preference file at path, applying its contents on top
// of Default(). A missing file is not an error — the launcher runs fine
// on defaults alone, matching doismellburning-samoyed's tolerance for an
// absent config file on the first run of a fresh install.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg back to path as YAML, used to persist session/device
// preferences across launches (spec §6.5).
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// APIKey reads the AI preset-generation service key from the environment
// variable named by APIKeyEnv. An empty return means no key is
// configured; callers decide whether that disables AI preset generation
// or is itself an error.
func (c *Config) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// ApplyOverrides merges non-zero-value flag overrides onto cfg. Each
// parameter mirrors a pflag-parsed command-line flag in cmd/audiohost;
// callers pass the zero value for any flag the user did not set, so only
// flags actually supplied on the command line ever win over the file.
func (c *Config) ApplyOverrides(audioDevice string, sampleRate float64, maxBlockSize int, logDir, aiEndpoint string) {
	if audioDevice != "" {
		c.AudioDevice = audioDevice
	}
	if sampleRate != 0 {
		c.SampleRate = sampleRate
	}
	if maxBlockSize != 0 {
		c.MaxBlockSize = maxBlockSize
	}
	if logDir != "" {
		c.LogDir = logDir
	}
	if aiEndpoint != "" {
		c.AIEndpoint = aiEndpoint
	}
}
