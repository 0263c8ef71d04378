package server

import (
	"fmt"
	"time"

	"github.com/ethpandaops/trace-icicle/pkg/cache"
	"github.com/ethpandaops/trace-icicle/pkg/clickhouse"
	"github.com/ethpandaops/trace-icicle/pkg/ethereum"
)

type Config struct {
	// MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck.
	HealthCheckAddr *string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof.
	PProfAddr *string `yaml:"pprofAddr"`
	// APIAddr is the address to listen on for the API server.
	APIAddr string `yaml:"apiAddr" default:":8080"`
	// LoggingLevel is the logging level to use.
	LoggingLevel string `yaml:"logging" default:"info"`
	// Ethereum is the execution node configuration. Optional: without it the
	// by-transaction endpoint is disabled and only posted traces are served.
	Ethereum *ethereum.Config `yaml:"ethereum"`
	// Cache is the memoization cache configuration.
	Cache cache.Config `yaml:"cache"`
	// Summaries is the optional ClickHouse trace summary sink.
	Summaries *clickhouse.Config `yaml:"summaries"`
	// ShutdownTimeout is the timeout for shutting down the server.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`
}

func (c *Config) Validate() error {
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("invalid cache configuration: %w", err)
	}

	if c.Ethereum != nil {
		if err := c.Ethereum.Validate(); err != nil {
			return fmt.Errorf("invalid ethereum configuration: %w", err)
		}
	}

	if c.Summaries != nil {
		if err := c.Summaries.Validate(); err != nil {
			return fmt.Errorf("invalid summaries configuration: %w", err)
		}
	}

	if c.APIAddr == "" {
		return fmt.Errorf("api address is required")
	}

	return nil
}
