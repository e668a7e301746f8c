package config

import "fmt"

// DataConfig configures the internal data service.
type DataConfig struct {
	// Addr is the listen address of the JSON RPC endpoint.
	Addr string `json:"addr"`
	// CSVPath is the consumption source file loaded at startup.
	CSVPath string `json:"csv_path"`
}

// SetDefaults applies sane defaults.
func (c *DataConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":50051"
	}
	if c.CSVPath == "" {
		c.CSVPath = "meterusage.csv"
	}
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("csv_path is required")
	}
	return nil
}
