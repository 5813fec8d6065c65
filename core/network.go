package core

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/bountyviz/core/graph"
	"github.com/huangsam/bountyviz/schema"
	"go.uber.org/zap"
)

// GraphData is the data response of the graph and sankey pages.
// Stored is set when the mode is backed by a precomputed payload and is
// returned verbatim instead of Graph.
type GraphData struct {
	Mode   string
	Stored json.RawMessage
	Graph  schema.Graph
}

// graphContext resolves the mode of a graph request and the payloads backing it.
type graphContext struct {
	mode     string
	options  []string
	payloads []schema.DataPayload
}

func (v *Visualizer) resolveGraph(ctx context.Context, mode string, template schema.Template) (graphContext, error) {
	var gc graphContext
	stored, err := v.store.ListDataPayloads(ctx, schema.GraphPayloadKey)
	if err != nil {
		return gc, fmt.Errorf("failed to list graph payloads: %w", err)
	}

	if template == schema.SquareGraphTemplate {
		// The sankey layout cannot handle the larger networks
		gc.options = []string{string(schema.AcceptedOnlyMode)}
	} else {
		for _, m := range schema.BuiltinGraphModes {
			gc.options = append(gc.options, string(m))
		}
		for _, p := range stored {
			gc.options = append(gc.options, p.Report)
		}
		gc.options = sortedUnique(gc.options)
	}

	gc.mode = ResolveOption(gc.options, mode)
	for _, p := range stored {
		if p.Report == gc.mode {
			gc.payloads = append(gc.payloads, p)
		}
	}
	return gc, nil
}

// GraphPage returns the shell parameters of the graph or sankey page.
func (v *Visualizer) GraphPage(ctx context.Context, mode string, template schema.Template) (schema.Page, error) {
	gc, err := v.resolveGraph(ctx, mode, template)
	page := schema.Page{
		Title:       "Graph : Visualizer - " + gc.mode,
		VizType:     gc.mode,
		PageRoute:   string(schema.GraphTemplate),
		Template:    template,
		TypeOptions: gc.options,
	}
	if len(gc.payloads) > 0 {
		page.Comment = gc.payloads[0].Comments
	}
	return page, err
}

// Graph builds the network of a graph mode, or returns the stored payload backing it.
func (v *Visualizer) Graph(ctx context.Context, mode string, template schema.Template) (GraphData, error) {
	gc, err := v.resolveGraph(ctx, mode, template)
	if err != nil {
		return GraphData{Mode: mode, Graph: graph.NewBuilder(v.cfg.AvatarThreshold, v.cfg.AvatarBaseURL).Build()}, err
	}
	out := GraphData{Mode: gc.mode}

	if len(gc.payloads) > 0 {
		raw := json.RawMessage(gc.payloads[0].Payload)
		if json.Valid(raw) {
			out.Stored = raw
			return out, nil
		}
		v.logger.Warn("stored graph payload is not valid JSON", zap.String("report", gc.mode), zap.Int64("id", gc.payloads[0].ID))
	}

	g, err := v.buildNetwork(ctx, schema.GraphMode(gc.mode))
	out.Graph = g
	return out, err
}

// nodeID normalizes a username into a node identifier, masking it when PII is hidden.
func (v *Visualizer) nodeID(username string) (string, bool) {
	id := strings.ToLower(username)
	if !v.cfg.HidePII {
		return id, id != ""
	}
	return graph.Mask(id)
}

func (v *Visualizer) buildNetwork(ctx context.Context, mode schema.GraphMode) (schema.Graph, error) {
	b := graph.NewBuilder(v.cfg.AvatarThreshold, v.cfg.AvatarBaseURL)
	network := v.network()

	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{Network: network, CurrentOnly: true})
	if err != nil {
		return b.Build(), fmt.Errorf("failed to list bounties: %w", err)
	}
	funded := make(map[int64]schema.Bounty, len(bounties))
	ids := make([]int64, 0, len(bounties))
	for _, bounty := range bounties {
		if bounty.ValueInUSDTThen == 0 || bounty.OrgName == "" {
			continue
		}
		funded[bounty.ID] = bounty
		ids = append(ids, bounty.ID)
	}

	fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{
		AcceptedOnly: mode == schema.AcceptedOnlyMode,
		BountyIDs:    ids,
	})
	if err != nil {
		return b.Build(), fmt.Errorf("failed to list fulfillments: %w", err)
	}
	// Edges follow bounty order, then fulfillment order within a bounty
	byBounty := make(map[int64][]schema.Fulfillment, len(ids))
	for _, f := range fulfillments {
		byBounty[f.BountyID] = append(byBounty[f.BountyID], f)
	}
	for _, id := range ids {
		bounty := funded[id]
		for _, f := range byBounty[id] {
			target, ok := v.nodeID(f.FulfillerUsername)
			if !ok {
				continue
			}
			targetType := schema.TargetNode
			if f.Accepted {
				targetType = schema.TargetAcceptedNode
			}
			b.AddRelationship(bounty.OrgName, target, bounty.ValueInUSDTThen, targetType)
		}
	}

	tips, err := v.store.ListTips(ctx, network)
	if err != nil {
		return b.Build(), fmt.Errorf("failed to list tips: %w", err)
	}
	for _, tip := range tips {
		if tip.ValueInUSDT == nil || !(*tip.ValueInUSDT > 0) {
			continue
		}
		source, okSource := v.nodeID(tip.Username)
		target, okTarget := v.nodeID(tip.FromUsername)
		if !okSource || !okTarget {
			continue
		}
		b.AddNode(source, schema.SourceNode)
		b.AddNode(target, schema.TargetNode)
		b.AddEdge(source, target, *tip.ValueInUSDT)
	}

	if mode == schema.AllMode || mode == schema.FutureMode {
		if err := v.addProfiles(ctx, b, mode == schema.FutureMode); err != nil {
			return b.Build(), err
		}
	}
	return b.Build(), nil
}

// addProfiles registers every profile with a GitHub token as an independent node.
// With synthetic set, each profile after the first also receives an edge from a
// randomly picked profile.
func (v *Visualizer) addProfiles(ctx context.Context, b *graph.Builder, synthetic bool) error {
	profiles, err := v.store.ListProfiles(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if id, ok := v.nodeID(p.Handle); ok {
			ids = append(ids, id)
		}
	}
	for i, id := range ids {
		b.AddNode(id, schema.IndependentNode)
		if !synthetic || i == 0 {
			continue
		}
		weight := float64(v.rng.IntN(10) + 1)
		source := ids[v.rng.IntN(len(ids))]
		b.AddEdge(source, id, weight)
	}
	return nil
}

// GraphModes lists the modes a template offers.
func (v *Visualizer) GraphModes(ctx context.Context, template schema.Template) ([]string, error) {
	gc, err := v.resolveGraph(ctx, "", template)
	return slices.Clone(gc.options), err
}
