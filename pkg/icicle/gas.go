package icicle

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// GasAmount holds a gas figure as it appears in trace JSON. Backends disagree
// on the encoding: some emit numbers, some decimal strings, some 0x-prefixed
// hex strings. Parsing is lenient and anything unreadable resolves to zero so
// a broken gas field never aborts tree construction.
type GasAmount struct {
	value   uint64
	present bool
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error:
// a present-but-garbage value is recorded as zero.
func (g *GasAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	g.present = true

	// JSON number
	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		g.value = clampGas(f)

		return nil
	}

	// JSON string, possibly quoted decimal or hex
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		g.value = parseGasString(string(data[1 : len(data)-1]))
	}

	return nil
}

// Uint64 returns the parsed value (zero when absent or unparsable).
func (g GasAmount) Uint64() uint64 {
	return g.value
}

// Present reports whether the field appeared in the source document.
func (g GasAmount) Present() bool {
	return g.present
}

func parseGasString(s string) uint64 {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0
		}

		return v
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return clampGas(f)
}

func clampGas(f float64) uint64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}

	if f >= math.MaxUint64 {
		return math.MaxUint64
	}

	return uint64(f)
}

// gasFields is the synonym set every backend version draws from. The
// priority order is fixed: gasUsed wins over gas_used wins over gas.
type gasFields struct {
	GasUsed      GasAmount `json:"gasUsed"`
	GasUsedSnake GasAmount `json:"gas_used"`
	Gas          GasAmount `json:"gas"`
}

// resolve returns the first present field's value, zero when none is present.
// Shared by the shape normalizers and the label deriver so the synonym
// handling lives in exactly one place.
func (f gasFields) resolve() uint64 {
	switch {
	case f.GasUsed.Present():
		return f.GasUsed.Uint64()
	case f.GasUsedSnake.Present():
		return f.GasUsedSnake.Uint64()
	case f.Gas.Present():
		return f.Gas.Uint64()
	default:
		return 0
	}
}
