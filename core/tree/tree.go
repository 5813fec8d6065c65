// Package tree turns dash-joined category paths into sunburst hierarchies.
package tree

import (
	"strings"

	"github.com/huangsam/bountyviz/schema"
)

// RootName is the name of the synthetic root wrapping every path.
const RootName = "data"

// PathSeparator joins the segments of a category path.
const PathSeparator = "-"

// FromPath builds a singleton chain from a dash-joined key.
// Underscores are stripped from the key, and the last segment becomes a leaf
// whose size is the value truncated to an integer.
func FromPath(key string, value float64) schema.TreeNode {
	return fromSegments(strings.Split(strings.ReplaceAll(key, "_", ""), PathSeparator), value)
}

func fromSegments(segments []string, value float64) schema.TreeNode {
	node := schema.TreeNode{Name: segments[0]}
	if len(segments) == 1 {
		node.Size = int64(value)
		return node
	}
	node.Children = []schema.TreeNode{fromSegments(segments[1:], value)}
	return node
}

// Build wraps every path with a non-zero value under a root node and merges
// siblings that share a name.
func Build(rootName string, paths []schema.PathValue) schema.TreeNode {
	root := schema.TreeNode{Name: rootName, Children: []schema.TreeNode{}}
	for _, pv := range paths {
		if pv.Value == 0 {
			continue
		}
		root.Children = append(root.Children, FromPath(pv.Path, pv.Value))
	}
	return Merge(root)
}

// Merge consolidates siblings with equal names, concatenating their children
// in first-occurrence order, then recurses into the merged children.
// Leaves are returned unchanged and sizes are never re-aggregated.
// A leaf sharing a name with a sibling stays a separate sibling.
// The input tree is not modified.
func Merge(node schema.TreeNode) schema.TreeNode {
	if node.IsLeaf() {
		return schema.TreeNode{Name: node.Name, Size: node.Size}
	}

	merged := make([]schema.TreeNode, 0, len(node.Children))
	branchIdx := make(map[string]int)
	for _, child := range node.Children {
		if child.IsLeaf() {
			merged = append(merged, child)
			continue
		}
		if idx, ok := branchIdx[child.Name]; ok {
			merged[idx].Children = append(merged[idx].Children, child.Children...)
			continue
		}
		branchIdx[child.Name] = len(merged)
		// Copy so appends above never write into the caller's backing array.
		children := make([]schema.TreeNode, len(child.Children))
		copy(children, child.Children)
		merged = append(merged, schema.TreeNode{Name: child.Name, Children: children})
	}

	for i := range merged {
		merged[i] = Merge(merged[i])
	}
	return schema.TreeNode{Name: node.Name, Children: merged}
}

// Leaves returns every leaf as a dash-joined name path and its size.
func Leaves(node schema.TreeNode) []schema.PathValue {
	var out []schema.PathValue
	var walk func(n schema.TreeNode, prefix []string)
	walk = func(n schema.TreeNode, prefix []string) {
		path := append(prefix[:len(prefix):len(prefix)], n.Name)
		if n.IsLeaf() {
			out = append(out, schema.PathValue{Path: strings.Join(path, PathSeparator), Value: float64(n.Size)})
			return
		}
		for _, c := range n.Children {
			walk(c, path)
		}
	}
	walk(node, nil)
	return out
}
