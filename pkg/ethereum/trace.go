package ethereum

import (
	"context"
	"fmt"
	"time"

	"github.com/0xsequence/ethkit/ethrpc"
	"github.com/goccy/go-json"

	"github.com/ethpandaops/trace-icicle/pkg/common"
)

const (
	statusError   = "error"
	statusSuccess = "success"
)

// callTracerParams returns debug_traceTransaction parameters selecting the
// nested call tracer (one record per call frame, children under `calls`).
func callTracerParams(hash string) []any {
	return []any{
		hash,
		map[string]any{
			"tracer": "callTracer",
		},
	}
}

// CallTrace fetches the raw call trace for a transaction. The result is kept
// as raw JSON: the engine's normalizer owns shape interpretation, and backend
// versions disagree on optional fields.
func (n *Node) CallTrace(ctx context.Context, hash string) (json.RawMessage, error) {
	if n.rpc == nil {
		return nil, fmt.Errorf("node is not started")
	}

	var rsp json.RawMessage

	call := ethrpc.NewCallBuilder[json.RawMessage]("debug_traceTransaction", nil, callTracerParams(hash)...)

	start := time.Now()
	_, err := n.rpc.Do(ctx, call.Into(&rsp))
	duration := time.Since(start)

	status := statusSuccess
	if err != nil {
		status = statusError
	}

	common.RPCCallDuration.WithLabelValues(n.config.Name, "debug_traceTransaction", status).Observe(duration.Seconds())
	common.RPCCallsTotal.WithLabelValues(n.config.Name, "debug_traceTransaction", status).Inc()

	if err != nil {
		return nil, fmt.Errorf("failed to fetch call trace for %s: %w", hash, err)
	}

	return rsp, nil
}
