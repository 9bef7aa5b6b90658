package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

type Config struct {
	Port                  int    `json:"port"`
	UpstreamAPIURL        string `json:"upstream_api_url"`
	HistoryDBPath         string `json:"history_db_path"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	VerboseLogging        bool   `json:"verbose_logging"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:                  8080,
		UpstreamAPIURL:        "",
		HistoryDBPath:         filepath.Join("data", "history.db"),
		RequestTimeoutSeconds: 60,
		VerboseLogging:        false,
	}
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

func (c *Config) Save(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.HistoryDBPath == "" {
		return fmt.Errorf("history_db_path cannot be empty")
	}

	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds cannot be negative")
	}

	// The upstream URL may be absent (settings-only mode), but when set
	// it has to be absolute so the relay never guesses a scheme.
	if c.UpstreamAPIURL != "" {
		u, err := url.Parse(c.UpstreamAPIURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("upstream_api_url must be an absolute URL")
		}
	}

	return nil
}

// Redacted returns a copy safe to expose to API callers: the upstream
// destination stays server-side.
func (c *Config) Redacted() Config {
	redacted := *c
	if redacted.UpstreamAPIURL != "" {
		redacted.UpstreamAPIURL = "(configured)"
	}
	return redacted
}
