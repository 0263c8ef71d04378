package ethereum

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/0xsequence/ethkit/ethrpc"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// headerTransport adds custom headers to requests and respects context
// cancellation.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	if req.Context().Err() != nil {
		return nil, req.Context().Err()
	}

	return t.base.RoundTrip(req)
}

// Node is a client for a single execution node. It refreshes node metadata
// (client version, chain id) in the background and exposes the trace fetch
// used by the engine's raw fallback path.
type Node struct {
	config *Config
	log    logrus.FieldLogger
	rpc    *ethrpc.Provider

	scheduler *gocron.Scheduler

	mu          sync.RWMutex
	nodeVersion string
	chainID     int64
}

// NewNode creates a node client.
func NewNode(log logrus.FieldLogger, config *Config) *Node {
	return &Node{
		config: config,
		log:    log.WithFields(logrus.Fields{"component": "ethereum", "node": config.Name}),
	}
}

// Start creates the RPC provider and begins metadata refresh. The initial
// refresh is retried with exponential backoff in the background so a slow
// node does not block service startup.
func (n *Node) Start(ctx context.Context) error {
	httpClient := http.Client{
		// No fixed timeout - the request context controls the lifecycle.
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}

	httpClient.Transport = &headerTransport{
		headers: n.config.NodeHeaders,
		base:    httpClient.Transport,
	}

	rpc, err := ethrpc.NewProvider(n.config.NodeAddress, ethrpc.WithHTTPClient(&httpClient))
	if err != nil {
		return fmt.Errorf("failed to create RPC provider for %s: %w", n.config.NodeAddress, err)
	}

	n.rpc = rpc

	go func() {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxInterval = 5 * time.Second
		b.MaxElapsedTime = 2 * time.Minute

		operation := func() error {
			if err := n.refreshMetadata(ctx); err != nil {
				n.log.WithError(err).Warn("Failed to refresh node metadata, will retry")

				return err
			}

			return nil
		}

		if err := backoff.Retry(operation, b); err != nil {
			n.log.WithError(err).Error("Failed to refresh node metadata after retries")

			return
		}

		n.log.WithFields(logrus.Fields{
			"node_version": n.NodeVersion(),
			"chain_id":     n.ChainID(),
		}).Info("Node metadata initialized")
	}()

	scheduler := gocron.NewScheduler(time.Local)

	if _, err := scheduler.Every(n.config.MetadataRefreshInterval).Do(func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := n.refreshMetadata(refreshCtx); err != nil {
			n.log.WithError(err).Warn("Failed to refresh node metadata")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule metadata refresh: %w", err)
	}

	scheduler.StartAsync()
	n.scheduler = scheduler

	return nil
}

// Stop halts background refresh.
func (n *Node) Stop(_ context.Context) error {
	if n.scheduler != nil {
		n.scheduler.Stop()
	}

	return nil
}

// Healthy reports whether metadata has been fetched at least once.
func (n *Node) Healthy() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.nodeVersion != "" && n.chainID != 0
}

// NodeVersion returns the last fetched client version string.
func (n *Node) NodeVersion() string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.nodeVersion
}

// ChainID returns the last fetched chain id, zero when unknown.
func (n *Node) ChainID() int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.chainID
}

func (n *Node) refreshMetadata(ctx context.Context) error {
	version, err := n.web3ClientVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get client version: %w", err)
	}

	chainID, err := n.ethChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}

	n.mu.Lock()
	n.nodeVersion = version
	n.chainID = chainID
	n.mu.Unlock()

	return nil
}

func (n *Node) web3ClientVersion(ctx context.Context) (string, error) {
	var version string

	call := ethrpc.NewCallBuilder[string]("web3_clientVersion", nil)

	_, err := n.rpc.Do(ctx, call.Into(&version))
	if err != nil {
		return "", err
	}

	return version, nil
}

func (n *Node) ethChainID(ctx context.Context) (int64, error) {
	var chainID string

	call := ethrpc.NewCallBuilder[string]("eth_chainId", nil)

	_, err := n.rpc.Do(ctx, call.Into(&chainID))
	if err != nil {
		return 0, err
	}

	parsed, err := strconv.ParseInt(strings.TrimPrefix(chainID, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain id %s: %w", chainID, err)
	}

	if parsed == 0 {
		return 0, errors.New("chain id is zero")
	}

	return parsed, nil
}
