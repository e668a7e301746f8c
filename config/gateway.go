package config

import (
	"fmt"
	"net/url"
)

// GatewayConfig configures the public HTTP gateway.
type GatewayConfig struct {
	// Addr is the public listen address.
	Addr string `json:"addr"`
	// DataURL is the base URL of the internal data service.
	DataURL string `json:"data_url"`
	// StaticDir, when set, is served under /static/ for the frontend.
	StaticDir string `json:"static_dir"`
}

// SetDefaults applies sane defaults.
func (c *GatewayConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.DataURL == "" {
		c.DataURL = "http://localhost:50051"
	}
}

// Validate checks mandatory fields.
func (c GatewayConfig) Validate() error {
	if _, err := url.ParseRequestURI(c.DataURL); err != nil {
		return fmt.Errorf("invalid data_url: %w", err)
	}
	return nil
}
