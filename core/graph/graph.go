// Package graph aggregates funding and fulfillment relationships into a
// weighted node-link network.
package graph

import (
	"fmt"
	"math"

	"github.com/huangsam/bountyviz/schema"
)

// Default avatar settings of the network charts.
const (
	DefaultAvatarThreshold = 40
	DefaultAvatarBaseURL   = "https://gitcoin.co/funding/avatar"
)

// maskSuffix replaces everything after the visible prefix of a masked identifier.
const maskSuffix = "*******"

// maskVisible is the number of leading runes kept by Mask.
const maskVisible = 3

type edge struct {
	source string
	target string
	weight float64
}

// Builder accumulates nodes and edges for one graph payload.
// It is not safe for concurrent use.
type Builder struct {
	avatarThreshold float64
	avatarBaseURL   string

	order []string
	types map[string]schema.NodeType
	sums  map[string]float64
	edges []edge
}

// NewBuilder creates an empty Builder. Weighted nodes whose summed weight
// exceeds avatarThreshold get an avatar URL rooted at avatarBaseURL.
func NewBuilder(avatarThreshold float64, avatarBaseURL string) *Builder {
	if avatarBaseURL == "" {
		avatarBaseURL = DefaultAvatarBaseURL
	}
	return &Builder{
		avatarThreshold: avatarThreshold,
		avatarBaseURL:   avatarBaseURL,
		types:           make(map[string]schema.NodeType),
		sums:            make(map[string]float64),
	}
}

// register records id with the given type unless it is already known.
func (b *Builder) register(id string, nodeType schema.NodeType) {
	if _, ok := b.types[id]; ok {
		return
	}
	b.types[id] = nodeType
	b.order = append(b.order, id)
}

// AddRelationship records a weighted relationship from a funder to a fulfiller.
// Both endpoints are registered and the weight counts toward both node values.
// It reports false when the relationship was skipped.
func (b *Builder) AddRelationship(source, target string, weight float64, targetType schema.NodeType) bool {
	if source == "" || target == "" || !(weight > 0) {
		return false
	}
	b.register(source, schema.SourceNode)
	b.register(target, targetType)
	b.sums[source] += weight
	b.sums[target] += weight
	b.edges = append(b.edges, edge{source: source, target: target, weight: weight})
	return true
}

// AddNode registers a node without weight. An empty id is ignored.
func (b *Builder) AddNode(id string, nodeType schema.NodeType) {
	if id == "" {
		return
	}
	b.register(id, nodeType)
}

// AddEdge records an edge that does not count toward node values.
// Endpoints are not registered; Build drops the edge if either is unknown.
func (b *Builder) AddEdge(source, target string, weight float64) bool {
	if source == "" || target == "" || !(weight > 0) {
		return false
	}
	b.edges = append(b.edges, edge{source: source, target: target, weight: weight})
	return true
}

// Len returns the number of registered nodes.
func (b *Builder) Len() int {
	return len(b.order)
}

// Build assigns node indices in registration order and resolves edges
// to index pairs. Edges with an unknown endpoint are dropped.
func (b *Builder) Build() schema.Graph {
	out := schema.Graph{
		Nodes: make([]schema.GraphNode, 0, len(b.order)),
		Links: make([]schema.GraphLink, 0, len(b.edges)),
	}

	index := make(map[string]int, len(b.order))
	for _, id := range b.order {
		sum, ok := b.sums[id]
		if !ok {
			sum = 1
		}
		node := schema.GraphNode{
			Name:  id,
			Value: int(Damp(sum)),
			Type:  b.types[id],
		}
		if ok && sum > b.avatarThreshold {
			avatar := AvatarURL(b.avatarBaseURL, id)
			node.Avatar = &avatar
		}
		index[id] = len(out.Nodes)
		out.Nodes = append(out.Nodes, node)
	}

	for _, e := range b.edges {
		src, okSrc := index[e.source]
		dst, okDst := index[e.target]
		if !okSrc || !okDst {
			continue
		}
		out.Links = append(out.Links, schema.GraphLink{
			Source: src,
			Target: dst,
			Value:  e.weight,
			Weight: math.Sqrt(e.weight),
		})
	}
	return out
}

// AvatarURL returns the avatar endpoint for a GitHub handle or org.
func AvatarURL(baseURL, handle string) string {
	return fmt.Sprintf("%s?repo=https://github.com/%s&v=3", baseURL, handle)
}

// Mask hides all but the first three runes of an identifier.
// It returns false for an empty identifier.
func Mask(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	runes := []rune(id)
	if len(runes) > maskVisible {
		runes = runes[:maskVisible]
	}
	return string(runes) + maskSuffix, true
}

// Damp is the double square root applied to node sizes.
func Damp(x float64) float64 {
	return math.Sqrt(math.Sqrt(x))
}
