package clickhouse

import (
	"fmt"
	"time"
)

// Config holds configuration for the trace summary sink.
//
//nolint:tagliatelle // YAML config uses snake_case by convention
type Config struct {
	Addr     string `yaml:"addr"`     // Native protocol address, e.g., "localhost:9000"
	Database string `yaml:"database"` // Database name, default: "default"
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Table    string `yaml:"table"` // Summary table, default: "trace_summaries"

	DialTimeout  time.Duration `yaml:"dial_timeout"`  // Dial timeout, default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // Insert timeout per call, default: 30s

	Debug bool `yaml:"debug"`
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}

	return nil
}

// SetDefaults sets default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Database == "" {
		c.Database = "default"
	}

	if c.Table == "" {
		c.Table = "trace_summaries"
	}

	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}

	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
}
