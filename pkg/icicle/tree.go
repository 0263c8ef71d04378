package icicle

import (
	"strconv"
)

// HierarchyNode is the canonical weighted tree consumed by the icicle
// renderer. Children is omitted (not empty) for leaves - the renderer's
// layout pass keys off the field's absence. Value is nil only on the
// synthetic wrapper root, whose aggregate size the renderer derives from its
// descendants.
//
// Path is a stable structural identifier: the slash-joined child indexes
// from the root (e.g. "0/2/1"). Sibling calls to the same function share a
// display label, so renderer-side keying and tooltips use Path instead.
type HierarchyNode struct {
	ID       string           `json:"id"`
	Value    *uint64          `json:"value,omitempty"`
	Children []*HierarchyNode `json:"children,omitempty"`
	Path     string           `json:"path"`
}

// BuildTree converts a root-resolved forest into a single hierarchy.
// Exactly one root is returned directly, with no wrapper. Zero or multiple
// roots are wrapped as children of a synthetic node with an empty id and no
// value field.
func BuildTree(roots []CallNode) *HierarchyNode {
	if len(roots) == 1 {
		return buildNode(roots[0], "0")
	}

	wrapper := &HierarchyNode{ID: "", Path: ""}

	for i := range roots {
		wrapper.Children = append(wrapper.Children, buildNode(roots[i], strconv.Itoa(i)))
	}

	return wrapper
}

func buildNode(node CallNode, path string) *HierarchyNode {
	value := node.Gas
	out := &HierarchyNode{
		ID:    DeriveLabel(node),
		Value: &value,
		Path:  path,
	}

	for i := range node.Children {
		out.Children = append(out.Children, buildNode(node.Children[i], path+"/"+strconv.Itoa(i)))
	}

	return out
}

// MaxDepth returns the number of nodes on the longest root-to-leaf path,
// counting the root as depth 1. The renderer sizes its viewport a fixed
// height per level, so this must match the true depth exactly.
func MaxDepth(node *HierarchyNode) int {
	if node == nil {
		return 0
	}

	deepest := 0

	for _, child := range node.Children {
		if d := MaxDepth(child); d > deepest {
			deepest = d
		}
	}

	return deepest + 1
}

// CountNodes returns the total number of nodes in the tree, the synthetic
// wrapper included.
func CountNodes(node *HierarchyNode) int {
	if node == nil {
		return 0
	}

	total := 1

	for _, child := range node.Children {
		total += CountNodes(child)
	}

	return total
}

// TotalGas returns the tree's aggregate gas: the root's own value, or the
// sum of the top-level children when the root is the synthetic wrapper.
func TotalGas(node *HierarchyNode) uint64 {
	if node == nil {
		return 0
	}

	if node.Value != nil {
		return *node.Value
	}

	var total uint64

	for _, child := range node.Children {
		if child.Value != nil {
			total += *child.Value
		}
	}

	return total
}
