package icicle

import (
	"fmt"
	"strings"
)

const (
	labelFallback = "fallback()"
	labelUnknown  = "unknown"
)

// DeriveLabel builds the display string for a node: "<base> - <gas> GAS".
// The base is resolved by an ordered fallback chain; earlier rules win even
// when a later rule's data is also present:
//
//  1. signature present: functionName (if present) up to its first '(',
//     otherwise signature up to its first '('
//  2. functionSelector present: the selector verbatim
//  3. input present, non-empty and not the bare "0x": its selector slice
//  4. otherwise: "fallback()"
//
// Nodes whose shape was never recognized label as "unknown".
func DeriveLabel(node CallNode) string {
	return fmt.Sprintf("%s - %d GAS", labelBase(node), node.Gas)
}

func labelBase(node CallNode) string {
	if node.Shape == ShapeUnknown {
		return labelUnknown
	}

	switch {
	case hasText(node.Signature):
		name := *node.Signature
		if hasText(node.FunctionName) {
			name = *node.FunctionName
		}

		return beforeParen(name)
	case hasText(node.FunctionSelector):
		return *node.FunctionSelector
	case hasText(node.Input) && *node.Input != "0x":
		return firstChars(*node.Input, selectorLength)
	default:
		return labelFallback
	}
}

func hasText(s *string) bool {
	return s != nil && *s != ""
}

func beforeParen(s string) string {
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		return s[:idx]
	}

	return s
}
