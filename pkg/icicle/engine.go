package icicle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/trace-icicle/pkg/cache"
	"github.com/ethpandaops/trace-icicle/pkg/common"
)

// Input holds the two trace sources the engine transforms. DecodedTrace is
// the ABI-decoded document in any of its container shapes; Simulation is the
// raw backend response consulted only when the decoded value yields no roots.
type Input struct {
	DecodedTrace json.RawMessage     `json:"decodedTrace"`
	Simulation   *SimulationResponse `json:"simulation"`
}

// Result is the engine output: the canonical hierarchy plus the layout and
// summary metrics derived from it.
type Result struct {
	Tree      *HierarchyNode `json:"tree"`
	MaxDepth  int            `json:"maxDepth"`
	NodeCount int            `json:"nodeCount"`
	TotalGas  uint64         `json:"totalGas"`
}

// Engine builds hierarchy trees from trace inputs. It is synchronous and
// side-effect-free apart from metrics, optional memoization, and the optional
// debug hook; identical inputs always produce structurally identical output.
type Engine struct {
	log   logrus.FieldLogger
	cache cache.Cache
	hook  func(*Result)
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache memoizes results on a content digest of both inputs.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithDebugHook installs a diagnostic hook invoked with every freshly built
// result. The hook is outside the engine contract and must not mutate the
// tree.
func WithDebugHook(hook func(*Result)) Option {
	return func(e *Engine) {
		e.hook = hook
	}
}

// NewEngine creates an engine.
func NewEngine(log logrus.FieldLogger, opts ...Option) *Engine {
	e := &Engine{
		log: log.WithField("component", "icicle"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Process transforms the input into a hierarchy tree. It never fails on
// malformed trace content: every resolver degrades to a safe default, and an
// empty input produces an empty synthetic-root tree.
func (e *Engine) Process(ctx context.Context, input *Input) *Result {
	if input == nil {
		input = &Input{}
	}

	key := digest(input)

	if cached := e.lookup(ctx, key); cached != nil {
		common.CacheHits.Inc()

		return cached
	}

	common.CacheMisses.Inc()

	start := time.Now()

	roots, fromFallback := resolveRoots(input.DecodedTrace, input.Simulation)
	tree := BuildTree(roots)

	result := &Result{
		Tree:      tree,
		MaxDepth:  MaxDepth(tree),
		NodeCount: CountNodes(tree),
		TotalGas:  TotalGas(tree),
	}

	common.TreeBuildDuration.Observe(time.Since(start).Seconds())
	common.TreeNodes.Observe(float64(result.NodeCount))
	common.TreesBuilt.WithLabelValues(treeSource(roots, fromFallback)).Inc()

	if e.hook != nil {
		e.hook(result)
	}

	e.store(ctx, key, result)

	return result
}

func treeSource(roots []CallNode, fromFallback bool) string {
	switch {
	case fromFallback:
		return "fallback"
	case len(roots) > 0:
		return "decoded"
	default:
		return "empty"
	}
}

func (e *Engine) lookup(ctx context.Context, key string) *Result {
	if e.cache == nil {
		return nil
	}

	value, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.WithError(err).Debug("Cache lookup failed, rebuilding tree")

		return nil
	}

	if !ok {
		return nil
	}

	var result Result
	if err := json.Unmarshal(value, &result); err != nil {
		e.log.WithError(err).Warn("Failed to decode cached result, rebuilding tree")

		return nil
	}

	return &result
}

func (e *Engine) store(ctx context.Context, key string, result *Result) {
	if e.cache == nil {
		return
	}

	value, err := json.Marshal(result)
	if err != nil {
		e.log.WithError(err).Warn("Failed to encode result for caching")

		return
	}

	if err := e.cache.Set(ctx, key, value); err != nil {
		e.log.WithError(err).Debug("Failed to store result in cache")
	}
}

// digest content-addresses both inputs so unrelated re-renders with the same
// traces hit the cache.
func digest(input *Input) string {
	h := sha256.New()
	h.Write(input.DecodedTrace)
	h.Write([]byte{0})

	if input.Simulation != nil {
		h.Write(input.Simulation.Trace)
	}

	return hex.EncodeToString(h.Sum(nil))
}
