package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/trace-icicle/pkg/clickhouse"
	"github.com/ethpandaops/trace-icicle/pkg/ethereum"
	"github.com/ethpandaops/trace-icicle/pkg/icicle"
)

const maxBodyBytes = 32 << 20 // traces can be large, but not unbounded

type Handler struct {
	log    logrus.FieldLogger
	engine *icicle.Engine
	node   *ethereum.Node     // nil when no execution node is configured
	sink   *clickhouse.Client // nil when the summary sink is disabled
}

func NewHandler(log logrus.FieldLogger, engine *icicle.Engine, node *ethereum.Node, sink *clickhouse.Client) *Handler {
	return &Handler{
		log:    log,
		engine: engine,
		node:   node,
		sink:   sink,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/hierarchy", h.buildHierarchy)
	mux.HandleFunc("GET /api/v1/hierarchy/tx/{tx_hash}", h.hierarchyForTransaction)
}

type HierarchyResponse struct {
	Tree      *icicle.HierarchyNode `json:"tree"`
	MaxDepth  int                   `json:"maxDepth"`
	NodeCount int                   `json:"nodeCount"`
	TotalGas  uint64                `json:"totalGas"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	TxHash string `json:"tx_hash,omitempty"`
}

// buildHierarchy transforms the posted trace document. Malformed trace
// content still yields a best-effort tree; only an unreadable body is
// rejected.
func (h *Handler) buildHierarchy(w http.ResponseWriter, r *http.Request) {
	var input icicle.Input

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "")

		return
	}

	result := h.engine.Process(r.Context(), &input)

	h.recordSummary(result, "request")
	h.writeJSON(w, http.StatusOK, toResponse(result))
}

// hierarchyForTransaction fetches the raw call trace from the execution node
// and runs it through the fallback path (no decoded input).
func (h *Handler) hierarchyForTransaction(w http.ResponseWriter, r *http.Request) {
	if h.node == nil {
		h.writeError(w, http.StatusServiceUnavailable, "no execution node configured", "")

		return
	}

	txHash := r.PathValue("tx_hash")
	if !isTxHash(txHash) {
		h.writeError(w, http.StatusBadRequest, "invalid transaction hash", txHash)

		return
	}

	trace, err := h.node.CallTrace(r.Context(), txHash)
	if err != nil {
		h.log.WithError(err).WithField("tx_hash", txHash).Error("Failed to fetch call trace")
		h.writeError(w, http.StatusBadGateway, "failed to fetch call trace from execution node", txHash)

		return
	}

	result := h.engine.Process(r.Context(), &icicle.Input{
		Simulation: &icicle.SimulationResponse{Trace: trace},
	})

	h.recordSummary(result, txHash)
	h.writeJSON(w, http.StatusOK, toResponse(result))
}

func toResponse(result *icicle.Result) HierarchyResponse {
	return HierarchyResponse{
		Tree:      result.Tree,
		MaxDepth:  result.MaxDepth,
		NodeCount: result.NodeCount,
		TotalGas:  result.TotalGas,
	}
}

func (h *Handler) recordSummary(result *icicle.Result, reference string) {
	if h.sink == nil {
		return
	}

	row := &clickhouse.SummaryRow{
		Source:    summarySource(result),
		Reference: reference,
		RootLabel: result.Tree.ID,
		TotalGas:  result.TotalGas,
		NodeCount: uint32(result.NodeCount), //nolint:gosec // node count is bounded by trace size
		MaxDepth:  uint16(min(result.MaxDepth, 65535)),
		CreatedAt: time.Now(),
	}

	// Best-effort: the sink must never delay or fail a response.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.sink.InsertSummary(ctx, row); err != nil {
			h.log.WithError(err).Warn("Failed to write trace summary")
		}
	}()
}

func summarySource(result *icicle.Result) string {
	if result.NodeCount <= 1 && result.Tree.ID == "" {
		return "empty"
	}

	return "trace"
}

func isTxHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}

	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, txHash string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:  message,
		TxHash: txHash,
	})
}
