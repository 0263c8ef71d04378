package icicle

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoots_Array(t *testing.T) {
	decoded := json.RawMessage(`[{"signature": "a()"}, {"signature": "b()"}]`)

	roots := ResolveRoots(decoded, nil)

	require.Len(t, roots, 2)
	assert.Equal(t, "a()", *roots[0].Signature)
	assert.Equal(t, "b()", *roots[1].Signature)
}

func TestResolveRoots_RootContainer(t *testing.T) {
	decoded := json.RawMessage(`{"root": {"signature": "entry()", "gasUsed": 9}}`)

	roots := ResolveRoots(decoded, nil)

	require.Len(t, roots, 1)
	assert.Equal(t, "entry()", *roots[0].Signature)
	assert.Equal(t, uint64(9), roots[0].Gas)
}

func TestResolveRoots_BareObject(t *testing.T) {
	decoded := json.RawMessage(`{"signature": "main()"}`)

	roots := ResolveRoots(decoded, nil)

	require.Len(t, roots, 1)
	assert.Equal(t, "main()", *roots[0].Signature)
}

func TestResolveRoots_NonObjectRootField(t *testing.T) {
	// A `root` key that is not an object does not count; the container
	// itself is the sole root.
	decoded := json.RawMessage(`{"root": "nope", "signature": "self()"}`)

	roots := ResolveRoots(decoded, nil)

	require.Len(t, roots, 1)
	assert.Equal(t, "self()", *roots[0].Signature)
}

func TestResolveRoots_AbsentDecoded(t *testing.T) {
	assert.Empty(t, ResolveRoots(nil, nil))
	assert.Empty(t, ResolveRoots(json.RawMessage(`null`), nil))
	assert.Empty(t, ResolveRoots(json.RawMessage(`42`), nil))
}

func TestResolveRoots_FallbackToRawSingle(t *testing.T) {
	sim := &SimulationResponse{
		Trace: json.RawMessage(`{"input": "0xa9059cbb00", "gasUsed": 3000}`),
	}

	roots := ResolveRoots(nil, sim)

	require.Len(t, roots, 1)
	assert.Equal(t, ShapeRaw, roots[0].Shape)
	require.NotNil(t, roots[0].FunctionSelector)
	assert.Equal(t, "0xa9059cbb", *roots[0].FunctionSelector)
}

func TestResolveRoots_EmptyArrayFallsBack(t *testing.T) {
	sim := &SimulationResponse{
		Trace: json.RawMessage(`[{"input": "0x", "gas": 1}, {"input": "0x", "gas": 2}]`),
	}

	roots := ResolveRoots(json.RawMessage(`[]`), sim)

	require.Len(t, roots, 2)
	assert.Equal(t, uint64(1), roots[0].Gas)
	assert.Equal(t, uint64(2), roots[1].Gas)
}

func TestResolveRoots_DecodedWinsOverFallback(t *testing.T) {
	sim := &SimulationResponse{
		Trace: json.RawMessage(`{"input": "0xdeadbeef00"}`),
	}

	roots := ResolveRoots(json.RawMessage(`[{"signature": "a()"}]`), sim)

	require.Len(t, roots, 1)
	assert.Equal(t, ShapeDecoded, roots[0].Shape)
}

func TestResolveRoots_BothEmpty(t *testing.T) {
	assert.Empty(t, ResolveRoots(nil, &SimulationResponse{}))
	assert.Empty(t, ResolveRoots(json.RawMessage(`[]`), &SimulationResponse{Trace: json.RawMessage(`null`)}))
}
