// Package clickhouse implements the optional trace summary sink: one row per
// processed trace for usage analytics. The hierarchy tree itself is never
// persisted - it has no identity beyond a single render cycle.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/trace-icicle/pkg/common"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// SummaryRow is one processed-trace record.
type SummaryRow struct {
	Source    string    // "decoded", "fallback" or "empty"
	Reference string    // transaction hash or request identifier
	RootLabel string    // display label of the tree root
	TotalGas  uint64    // aggregate gas of the tree
	NodeCount uint32    // nodes in the tree, synthetic wrapper included
	MaxDepth  uint16    // longest root-to-leaf path
	CreatedAt time.Time // insertion time
}

// Client writes summary rows over the ClickHouse native protocol.
type Client struct {
	conn   driver.Conn
	config *Config
	log    logrus.FieldLogger
}

// NewClient creates a sink client from configuration.
func NewClient(log logrus.FieldLogger, config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clickhouse config: %w", err)
	}

	config.SetDefaults()

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{config.Addr},
		Auth: clickhouse.Auth{
			Database: config.Database,
			Username: config.Username,
			Password: config.Password,
		},
		DialTimeout: config.DialTimeout,
		Debug:       config.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	return &Client{
		conn:   conn,
		config: config,
		log:    log.WithField("component", "clickhouse"),
	}, nil
}

// Start verifies connectivity.
func (c *Client) Start(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"addr":  c.config.Addr,
		"table": c.config.Table,
	}).Info("Connected to ClickHouse")

	return nil
}

// Stop closes the connection.
func (c *Client) Stop(_ context.Context) error {
	return c.conn.Close()
}

// InsertSummary writes one summary row. Failures are reported to the caller
// and counted, but the sink is best-effort by design: the caller logs and
// moves on.
func (c *Client) InsertSummary(ctx context.Context, row *SummaryRow) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.WriteTimeout)
	defer cancel()

	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", c.config.Table))
	if err != nil {
		common.SummaryRowsWritten.WithLabelValues(statusFailed).Inc()

		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	if err := batch.Append(
		row.Source,
		row.Reference,
		row.RootLabel,
		row.TotalGas,
		row.NodeCount,
		row.MaxDepth,
		row.CreatedAt,
	); err != nil {
		common.SummaryRowsWritten.WithLabelValues(statusFailed).Inc()

		return fmt.Errorf("failed to append row: %w", err)
	}

	if err := batch.Send(); err != nil {
		common.SummaryRowsWritten.WithLabelValues(statusFailed).Inc()

		return fmt.Errorf("failed to send batch: %w", err)
	}

	common.SummaryRowsWritten.WithLabelValues(statusSuccess).Inc()

	return nil
}
