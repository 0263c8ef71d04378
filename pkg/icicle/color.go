package icicle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// depthBlendStep is the per-level blend increment toward white.
	depthBlendStep = 0.12
	// depthBlendCap keeps deep nodes distinguishable from the background.
	depthBlendCap = 0.8
)

// DepthColor lightens a 24-bit RGB hex color toward white as render depth
// grows. The blend factor is min(0.12*depth, 0.8), applied per channel as
// c + (255-c)*t, so every channel is non-decreasing with depth until the
// factor saturates. Depth here is the renderer's own per-node depth at draw
// time (0 = shallowest), independent of MaxDepth.
//
// A base value that does not parse as "#rrggbb" is returned unchanged.
func DepthColor(base string, depth int) string {
	hex := strings.TrimPrefix(base, "#")
	if len(hex) != 6 {
		return base
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return base
	}

	t := depthBlendStep * float64(depth)
	if t < 0 {
		t = 0
	}

	if t > depthBlendCap {
		t = depthBlendCap
	}

	r := blendChannel(uint8(rgb>>16), t)
	g := blendChannel(uint8(rgb>>8), t)
	b := blendChannel(uint8(rgb), t)

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func blendChannel(c uint8, t float64) uint8 {
	return uint8(math.Round(float64(c) + (255-float64(c))*t))
}
