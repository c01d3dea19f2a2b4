package config

import "fmt"

// APIConfig defines settings for the HTTP planning API.
type APIConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
	// RequestTimeoutSeconds bounds the time a single plan request may run.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// RefDataConfig points at an optional park reference-data file. When Path is
// empty the built-in tables are used.
type RefDataConfig struct {
	Path string `json:"path"`
}
