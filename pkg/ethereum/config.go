// Package ethereum provides the execution-node client used to fetch raw call
// traces when no decoded trace is supplied.
package ethereum

import (
	"fmt"
	"time"
)

// Config is the execution node configuration.
type Config struct {
	// Name identifies the node in logs and metrics.
	Name string `yaml:"name" default:"execution"`
	// NodeAddress is the JSON-RPC endpoint of the execution node.
	NodeAddress string `yaml:"nodeAddress"`
	// NodeHeaders are extra HTTP headers sent with every RPC request.
	NodeHeaders map[string]string `yaml:"nodeHeaders"`
	// MetadataRefreshInterval is how often node metadata is refreshed.
	MetadataRefreshInterval time.Duration `yaml:"metadataRefreshInterval" default:"5m"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.NodeAddress == "" {
		return fmt.Errorf("node address is required")
	}

	return nil
}
