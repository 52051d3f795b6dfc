package oracle

import "fmt"

// Config defines settings for the external suggestion oracle.
type Config struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	APIKey  string `json:"api_key"`
	// TimeoutSeconds bounds each oracle request. One request is issued
	// per planning call, no retries.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Enabled && c.URL == "" {
		return fmt.Errorf("oracle url is required when enabled")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("oracle timeout must not be negative")
	}
	return nil
}
