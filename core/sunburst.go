package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/bountyviz/core/tree"
	"github.com/huangsam/bountyviz/schema"
)

// VisualTypeOptions returns the sunburst visual types in display order.
func VisualTypeOptions() []string {
	out := make([]string, len(schema.AllVisualTypes))
	for i, vt := range schema.AllVisualTypes {
		out[i] = string(vt)
	}
	return out
}

// ResolveVisualType falls back to status progression for unknown types.
func ResolveVisualType(visualType string) schema.VisualType {
	return schema.VisualType(ResolveOption(VisualTypeOptions(), visualType))
}

// pathAccumulator sums values per path while remembering first-insertion order.
type pathAccumulator struct {
	index  map[string]int
	values []schema.PathValue
}

func newPathAccumulator() *pathAccumulator {
	return &pathAccumulator{index: make(map[string]int)}
}

func (a *pathAccumulator) add(segments []string, value float64) {
	if len(segments) == 0 || value == 0 {
		return
	}
	path := strings.Join(segments, tree.PathSeparator)
	if i, ok := a.index[path]; ok {
		a.values[i].Value += value
		return
	}
	a.index[path] = len(a.values)
	a.values = append(a.values, schema.PathValue{Path: path, Value: value})
}

// stripDashes removes path separators from a segment.
func stripDashes(s string) string {
	return strings.ReplaceAll(s, tree.PathSeparator, "")
}

// DataResponses aggregates current bounties into category paths for a visual type.
// Paths keep the order in which they were first seen.
func (v *Visualizer) DataResponses(ctx context.Context, visualType schema.VisualType) ([]schema.PathValue, error) {
	network := v.network()
	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{
		Network:     network,
		Web3Type:    schema.BountiesNetwork,
		CurrentOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bounties: %w", err)
	}

	acc := newPathAccumulator()
	switch visualType {
	case schema.ReposVisual:
		for _, b := range bounties {
			acc.add([]string{
				stripDashes(b.OrgName),
				stripDashes(b.RepoName),
				strconv.FormatInt(b.IssueNumber, 10),
			}, b.ValueInUSDTThen)
		}

	case schema.FulfillersVisual:
		accepted, err := v.acceptedFulfillers(ctx, bounties)
		if err != nil {
			return nil, err
		}
		for _, b := range bounties {
			if b.Status != schema.DoneStatus {
				continue
			}
			// The last accepted fulfillment of a bounty receives its value
			if fulfiller, ok := accepted[b.ID]; ok {
				acc.add([]string{stripDashes(fulfiller)}, b.ValueInUSDTThen)
			}
		}

	case schema.FundersVisual:
		for _, b := range bounties {
			if b.OwnerUsername == "" {
				continue
			}
			acc.add([]string{stripDashes(b.OwnerUsername)}, b.ValueInUSDTThen)
		}

	default:
		history, err := v.store.ListBounties(ctx, schema.BountyFilter{Network: network})
		if err != nil {
			return nil, fmt.Errorf("failed to list bounty history: %w", err)
		}
		byStandardID := make(map[int64][]schema.Bounty)
		for _, b := range history {
			byStandardID[b.StandardBountiesID] = append(byStandardID[b.StandardBountiesID], b)
		}
		for _, b := range bounties {
			acc.add(StatusProgression(b, byStandardID[b.StandardBountiesID]), 1)
		}
	}
	return acc.values, nil
}

// acceptedFulfillers maps bounty ids to the last accepted fulfiller of each bounty.
func (v *Visualizer) acceptedFulfillers(ctx context.Context, bounties []schema.Bounty) (map[int64]string, error) {
	ids := make([]int64, 0, len(bounties))
	for _, b := range bounties {
		if b.Status == schema.DoneStatus {
			ids = append(ids, b.ID)
		}
	}
	fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{AcceptedOnly: true, BountyIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to list fulfillments: %w", err)
	}
	out := make(map[int64]string, len(fulfillments))
	for _, f := range fulfillments {
		if f.FulfillerUsername != "" {
			out[f.BountyID] = f.FulfillerUsername
		}
	}
	return out, nil
}

// StatusProgression returns the padded status sequence of a bounty given every
// record sharing its standard bounties id, ordered by creation.
func StatusProgression(b schema.Bounty, history []schema.Bounty) []string {
	var seq []string
	var last string
	first := true
	for _, prev := range history {
		if prev.ID == b.ID {
			continue
		}
		if first && prev.Status == schema.StartedStatus {
			// Bounties that were picked up right away never stored their open state
			seq = append(seq, schema.OpenStatus)
		}
		if first || prev.Status != last {
			seq = append(seq, prev.Status)
		}
		last = prev.Status
		first = false
	}
	if first || b.Status != last {
		seq = append(seq, b.Status)
	}

	if len(seq) > schema.StatusProgressionMaxLen {
		seq = seq[:schema.StatusProgressionMaxLen]
	}
	for len(seq) < schema.StatusProgressionMaxLen {
		seq = append(seq, schema.StatusPadding)
	}
	return seq
}

// SunburstTree builds the merged hierarchy of a visual type.
func (v *Visualizer) SunburstTree(ctx context.Context, visualType schema.VisualType) (schema.TreeNode, error) {
	paths, err := v.DataResponses(ctx, visualType)
	if err != nil {
		return tree.Build(tree.RootName, nil), err
	}
	return tree.Build(tree.RootName, paths), nil
}

// SunburstRows returns one path,value row per aggregated path.
func (v *Visualizer) SunburstRows(ctx context.Context, visualType schema.VisualType) ([][]string, error) {
	paths, err := v.DataResponses(ctx, visualType)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(paths))
	for i, pv := range paths {
		rows[i] = []string{pv.Path, formatNumber(pv.Value)}
	}
	return rows, nil
}

// sunburstCopy holds the title and comment of each visual type.
var sunburstCopy = map[schema.VisualType][2]string{
	schema.StatusProgression: {"Status Progression Viz", "of statuses begin with this sequence of status"},
	schema.ReposVisual:       {"Github Structure of All Bounties", "of bounties value with this github structure"},
	schema.FulfillersVisual:  {"Fulfillers", "of bounties value with this fulfiller"},
	schema.FundersVisual:     {"Funders", "of bounties value with this funder"},
}

// Categories lists the segment names a visual type can produce, for the chart legend.
func (v *Visualizer) Categories(ctx context.Context, visualType schema.VisualType) ([]string, error) {
	if visualType == schema.StatusProgression {
		statuses, err := v.store.DistinctStatuses(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list statuses: %w", err)
		}
		return append(statuses, schema.StatusPadding), nil
	}

	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{Network: v.network()})
	if err != nil {
		return nil, fmt.Errorf("failed to list bounties: %w", err)
	}

	var categories []string
	switch visualType {
	case schema.ReposVisual:
		for _, b := range bounties {
			if b.OrgName != "" {
				categories = append(categories, stripDashes(b.OrgName))
			}
		}
		for _, b := range bounties {
			if b.RepoName != "" {
				categories = append(categories, stripDashes(b.RepoName))
			}
		}
		for _, b := range bounties {
			categories = append(categories, strconv.FormatInt(b.IssueNumber, 10))
		}

	case schema.FulfillersVisual:
		ids := make([]int64, len(bounties))
		for i, b := range bounties {
			ids[i] = b.ID
		}
		fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{BountyIDs: ids})
		if err != nil {
			return nil, fmt.Errorf("failed to list fulfillments: %w", err)
		}
		for _, f := range fulfillments {
			categories = append(categories, stripDashes(f.FulfillerUsername))
		}

	case schema.FundersVisual:
		for _, b := range bounties {
			categories = append(categories, stripDashes(b.OwnerUsername))
		}
	}
	return uniqueInOrder(categories), nil
}

// SunburstPage returns the shell parameters of the sunburst or circles page.
func (v *Visualizer) SunburstPage(ctx context.Context, visualType string, template schema.Template) (schema.Page, error) {
	vt := ResolveVisualType(visualType)
	copyText := sunburstCopy[vt]
	page := schema.Page{
		Title:       copyText[0],
		Comment:     copyText[1],
		VizType:     string(vt),
		PageRoute:   string(template),
		Template:    template,
		TypeOptions: VisualTypeOptions(),
	}
	categories, err := v.Categories(ctx, vt)
	page.Categories = categories
	return page, err
}
