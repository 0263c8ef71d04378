package icicle

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/trace-icicle/pkg/cache"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	return log
}

func TestEngine_ProcessDecodedTrace(t *testing.T) {
	engine := NewEngine(newTestLogger())

	input := &Input{
		DecodedTrace: json.RawMessage(`[{
			"signature": "transfer(address,uint256)",
			"gasUsed": 5000,
			"children": [{"functionSelector": "0x12345678", "gasUsed": 1000}]
		}]`),
	}

	result := engine.Process(context.Background(), input)

	require.NotNil(t, result.Tree)
	assert.Equal(t, "transfer - 5000 GAS", result.Tree.ID)
	assert.Equal(t, 2, result.MaxDepth)
	assert.Equal(t, 2, result.NodeCount)
	assert.Equal(t, uint64(5000), result.TotalGas)
}

func TestEngine_ProcessEmptyInput(t *testing.T) {
	engine := NewEngine(newTestLogger())

	result := engine.Process(context.Background(), nil)

	require.NotNil(t, result.Tree)
	assert.Equal(t, "", result.Tree.ID)
	assert.Nil(t, result.Tree.Value)
	assert.Equal(t, 1, result.MaxDepth)
	assert.Equal(t, 1, result.NodeCount)
}

func TestEngine_FallbackToSimulation(t *testing.T) {
	engine := NewEngine(newTestLogger())

	input := &Input{
		DecodedTrace: json.RawMessage(`[]`),
		Simulation: &SimulationResponse{
			Trace: json.RawMessage(`{"input": "0xa9059cbb00", "gasUsed": 3000, "calls": [{"input": "0x", "gas": 7}]}`),
		},
	}

	result := engine.Process(context.Background(), input)

	require.NotNil(t, result.Tree)
	assert.Equal(t, "0xa9059cbb - 3000 GAS", result.Tree.ID)
	assert.Equal(t, 2, result.MaxDepth)
}

func TestEngine_MemoizesOnInputIdentity(t *testing.T) {
	memo, err := cache.NewLRU(8)
	require.NoError(t, err)

	builds := 0
	engine := NewEngine(newTestLogger(),
		WithCache(memo),
		WithDebugHook(func(*Result) { builds++ }),
	)

	input := &Input{
		DecodedTrace: json.RawMessage(`[{"signature": "a()", "gasUsed": 1}]`),
	}

	first := engine.Process(context.Background(), input)
	second := engine.Process(context.Background(), input)

	assert.Equal(t, 1, builds, "second call must be served from cache")
	assert.Equal(t, first, second)

	// A different input misses the cache.
	other := &Input{
		DecodedTrace: json.RawMessage(`[{"signature": "b()", "gasUsed": 2}]`),
	}

	engine.Process(context.Background(), other)
	assert.Equal(t, 2, builds)
}

func TestEngine_DebugHookSeesResult(t *testing.T) {
	var seen *Result

	engine := NewEngine(newTestLogger(), WithDebugHook(func(r *Result) { seen = r }))

	result := engine.Process(context.Background(), &Input{
		DecodedTrace: json.RawMessage(`{"signature": "main()", "gas": 10}`),
	})

	require.NotNil(t, seen)
	assert.Equal(t, result, seen)
}

func TestEngine_CachedResultRoundTrips(t *testing.T) {
	memo, err := cache.NewLRU(8)
	require.NoError(t, err)

	engine := NewEngine(newTestLogger(), WithCache(memo))

	input := &Input{
		DecodedTrace: json.RawMessage(`[{"gasUsed": 1}, {"gasUsed": 2}]`),
	}

	first := engine.Process(context.Background(), input)
	second := engine.Process(context.Background(), input)

	// The cached copy survives serialization: synthetic root without value,
	// leaves without children.
	assert.Nil(t, second.Tree.Value)
	require.Len(t, second.Tree.Children, 2)
	assert.Nil(t, second.Tree.Children[0].Children)
	assert.Equal(t, first.TotalGas, second.TotalGas)
}
