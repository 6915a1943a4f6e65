// Package config handles agentdesk configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ServiceConfig points the harness at the remote agent service.
type ServiceConfig struct {
	Endpoint              string `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey                string `mapstructure:"api_key" yaml:"api_key"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// AgentConfig selects the model used for agent configurations.
type AgentConfig struct {
	Model string `mapstructure:"model" yaml:"model"`
}

// TurnConfig tunes the run-polling loop.
type TurnConfig struct {
	PollIntervalMs int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxToolRounds  int `mapstructure:"max_tool_rounds" yaml:"max_tool_rounds"`
}

// RetryConfig tunes the resilience wrapper.
type RetryConfig struct {
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`
	BaseDelayMs int `mapstructure:"base_delay_ms" yaml:"base_delay_ms"`
}

// Config holds all agentdesk configuration.
type Config struct {
	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
	Turn    TurnConfig    `mapstructure:"turn" yaml:"turn"`
	Retry   RetryConfig   `mapstructure:"retry" yaml:"retry"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Endpoint:              "http://localhost:8750",
			RequestTimeoutSeconds: 30,
		},
		Agent: AgentConfig{Model: "gpt-4o"},
		Turn: TurnConfig{
			PollIntervalMs: 500,
			TimeoutSeconds: 60,
			MaxToolRounds:  5,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMs: 1000,
		},
	}
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Turn.PollIntervalMs) * time.Millisecond
}

// TurnTimeout returns the per-turn wall-clock budget as a duration.
func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.Turn.TimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the base backoff delay as a duration.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Retry.BaseDelayMs) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Service.RequestTimeoutSeconds) * time.Second
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("AGENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("service.endpoint", d.Service.Endpoint)
	v.SetDefault("service.api_key", d.Service.APIKey)
	v.SetDefault("service.request_timeout_seconds", d.Service.RequestTimeoutSeconds)
	v.SetDefault("agent.model", d.Agent.Model)
	v.SetDefault("turn.poll_interval_ms", d.Turn.PollIntervalMs)
	v.SetDefault("turn.timeout_seconds", d.Turn.TimeoutSeconds)
	v.SetDefault("turn.max_tool_rounds", d.Turn.MaxToolRounds)
	v.SetDefault("retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("retry.base_delay_ms", d.Retry.BaseDelayMs)
	return v
}

// Load loads configuration from the given file, layered over defaults and
// AGENTDESK_* environment variables.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromPaths tries each path in order and returns the first one that
// loads. When none exist, defaults (plus env overrides) are returned.
func LoadFromPaths(paths ...string) (*Config, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}

	v := newViper()
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse defaults: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to the given path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
