package icicle

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveGas(t *testing.T, doc string) uint64 {
	t.Helper()

	var fields gasFields
	require.NoError(t, json.Unmarshal([]byte(doc), &fields))

	return fields.resolve()
}

func TestGasFields_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want uint64
	}{
		{"camel case wins", `{"gasUsed": 21000, "gas_used": 1}`, 21000},
		{"snake case second", `{"gas_used": 21000, "gas": 1}`, 21000},
		{"gas last", `{"gas": 42}`, 42},
		{"all three present", `{"gasUsed": 3, "gas_used": 2, "gas": 1}`, 3},
		{"none present", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveGas(t, tt.doc))
		})
	}
}

func TestGasFields_PresentButUnparsableWins(t *testing.T) {
	// A present-but-garbage gasUsed must resolve to 0, not fall through to
	// the next synonym.
	assert.Equal(t, uint64(0), resolveGas(t, `{"gasUsed": "abc", "gas_used": 21000}`))
}

func TestGasFields_NullIsAbsent(t *testing.T) {
	assert.Equal(t, uint64(7), resolveGas(t, `{"gasUsed": null, "gas": 7}`))
}

func TestGasAmount_Coercion(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want uint64
	}{
		{"number", `{"gasUsed": 21000}`, 21000},
		{"decimal string", `{"gasUsed": "21000"}`, 21000},
		{"hex string", `{"gasUsed": "0x5208"}`, 21000},
		{"uppercase hex string", `{"gasUsed": "0X5208"}`, 21000},
		{"float truncates", `{"gasUsed": 21000.9}`, 21000},
		{"negative clamps to zero", `{"gasUsed": -5}`, 0},
		{"garbage string", `{"gasUsed": "abc"}`, 0},
		{"garbage hex", `{"gasUsed": "0xzz"}`, 0},
		{"object value", `{"gasUsed": {"nested": true}}`, 0},
		{"array value", `{"gasUsed": [1, 2]}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveGas(t, tt.doc))
		})
	}
}

func TestGasAmount_NeverErrors(t *testing.T) {
	var fields gasFields

	require.NoError(t, json.Unmarshal([]byte(`{"gasUsed": {"deeply": ["broken"]}}`), &fields))
	assert.Equal(t, uint64(0), fields.resolve())
}
