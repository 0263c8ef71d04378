package icicle

import (
	"bytes"

	"github.com/goccy/go-json"
)

// SimulationResponse is the raw simulation backend payload used as the
// fallback trace source. Trace holds either a single call record or an array
// of them.
type SimulationResponse struct {
	Trace json.RawMessage `json:"trace"`
}

type rootContainerJSON struct {
	Root json.RawMessage `json:"root"`
}

// ResolveRoots extracts the ordered top-level nodes from whichever container
// shape the decoded trace uses:
//
//  1. an array of nodes - its elements are the roots
//  2. an object with a `root` object - that single node is the sole root
//  3. any other object - itself the sole root
//  4. absent - zero roots
//
// When the decoded value yields zero roots, the simulation response's trace
// field is used instead, with each record run through NormalizeRaw.
func ResolveRoots(decoded json.RawMessage, sim *SimulationResponse) []CallNode {
	roots, _ := resolveRoots(decoded, sim)

	return roots
}

// resolveRoots additionally reports whether the raw fallback source was used,
// which the engine records as a metric.
func resolveRoots(decoded json.RawMessage, sim *SimulationResponse) ([]CallNode, bool) {
	roots := decodedRoots(decoded)
	if len(roots) > 0 {
		return roots, false
	}

	if sim == nil {
		return nil, false
	}

	fallback := rawRoots(sim.Trace)

	return fallback, len(fallback) > 0
}

func decodedRoots(decoded json.RawMessage) []CallNode {
	decoded = bytes.TrimSpace(decoded)
	if len(decoded) == 0 || string(decoded) == "null" {
		return nil
	}

	switch decoded[0] {
	case '[':
		var roots []CallNode

		for _, elem := range elementsOf(decoded) {
			roots = append(roots, NormalizeDecoded(elem))
		}

		return roots
	case '{':
		var container rootContainerJSON
		if err := json.Unmarshal(decoded, &container); err == nil && isJSONObject(container.Root) {
			return []CallNode{NormalizeDecoded(container.Root)}
		}

		return []CallNode{NormalizeDecoded(decoded)}
	default:
		// Scalar values carry no nodes.
		return nil
	}
}

func rawRoots(trace json.RawMessage) []CallNode {
	trace = bytes.TrimSpace(trace)
	if len(trace) == 0 || string(trace) == "null" {
		return nil
	}

	switch trace[0] {
	case '[':
		var roots []CallNode

		for _, elem := range elementsOf(trace) {
			roots = append(roots, NormalizeRaw(elem))
		}

		return roots
	case '{':
		return []CallNode{NormalizeRaw(trace)}
	default:
		return nil
	}
}
