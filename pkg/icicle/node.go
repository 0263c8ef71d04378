// Package icicle converts heterogeneous execution-trace records into one
// canonical, value-weighted hierarchy suitable for a space-filling (icicle)
// visualization. The engine is a pure transform: it tolerates multiple
// incompatible trace shapes and degrades to safe defaults instead of failing,
// because a partially-labeled tree renders and a thrown error does not.
package icicle

import (
	"bytes"

	"github.com/goccy/go-json"
)

// NodeShape tags which input variant a CallNode was normalized from.
type NodeShape int

const (
	// ShapeUnknown marks records that are not JSON objects at all.
	ShapeUnknown NodeShape = iota
	// ShapeDecoded marks nodes from the ABI-decoded call tree.
	ShapeDecoded
	// ShapeRaw marks nodes from the low-level call-trace array.
	ShapeRaw
)

// CallNode is the unified node every trace record is normalized into before
// tree building. String fields are nil when absent from the source record;
// an empty string is treated as absent by the label fallback chain.
type CallNode struct {
	Shape            NodeShape
	FunctionName     *string
	Signature        *string
	FunctionSelector *string
	Input            *string
	Gas              uint64
	Children         []CallNode
}

// selectorLength is the "0x" prefix plus 8 hex digits: the 4-byte selector
// slice of ABI-encoded call input.
const selectorLength = 10

type decodedNodeJSON struct {
	gasFields

	FunctionName     *string         `json:"functionName"`
	Signature        *string         `json:"signature"`
	FunctionSelector *string         `json:"functionSelector"`
	InputRaw         *string         `json:"inputRaw"`
	Input            *string         `json:"input"`
	Children         json.RawMessage `json:"children"`
}

type rawCallJSON struct {
	gasFields

	Input *string         `json:"input"`
	Calls json.RawMessage `json:"calls"`
}

// NormalizeDecoded converts one record of the ABI-decoded call tree into a
// CallNode. Records that are not JSON objects normalize to ShapeUnknown.
func NormalizeDecoded(data []byte) CallNode {
	if !isJSONObject(data) {
		return CallNode{Shape: ShapeUnknown}
	}

	var rec decodedNodeJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return CallNode{Shape: ShapeUnknown}
	}

	node := CallNode{
		Shape:            ShapeDecoded,
		FunctionName:     rec.FunctionName,
		Signature:        rec.Signature,
		FunctionSelector: rec.FunctionSelector,
		Input:            rec.InputRaw,
		Gas:              rec.resolve(),
	}

	if node.Input == nil {
		node.Input = rec.Input
	}

	for _, child := range elementsOf(rec.Children) {
		node.Children = append(node.Children, NormalizeDecoded(child))
	}

	return node
}

// NormalizeRaw converts one low-level call record into the decoded shape:
// the selector is sliced from the input, gas is copied through, and each
// entry of `calls` is normalized recursively. A missing or non-array `calls`
// yields no children.
func NormalizeRaw(data []byte) CallNode {
	if !isJSONObject(data) {
		return CallNode{Shape: ShapeUnknown}
	}

	var rec rawCallJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return CallNode{Shape: ShapeUnknown}
	}

	node := CallNode{
		Shape: ShapeRaw,
		Input: rec.Input,
		Gas:   rec.resolve(),
	}

	if rec.Input != nil && hasHexPrefix(*rec.Input) {
		selector := firstChars(*rec.Input, selectorLength)
		node.FunctionSelector = &selector
	}

	for _, child := range elementsOf(rec.Calls) {
		node.Children = append(node.Children, NormalizeRaw(child))
	}

	return node
}

// elementsOf splits a JSON array into its raw elements. Anything that is not
// an array yields nil, so malformed children lists degrade to leaves.
func elementsOf(data json.RawMessage) []json.RawMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}

	return elems
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)

	return len(data) > 0 && data[0] == '{'
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && s[1] == 'x'
}

func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
