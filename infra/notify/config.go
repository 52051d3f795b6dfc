package notify

import "fmt"

// Config defines settings for the MQTT plan notifier.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic receives one JSON message per completed planning call.
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fieldroute-planner"
	}
	if c.Topic == "" {
		c.Topic = "fieldroute/plans"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("notify broker is required when enabled")
	}
	return nil
}
