package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/bountyviz/schema"
)

// bubblePopulationScale converts a bounty count into a bubble area.
const bubblePopulationScale = 10_000_000

// DraggableUsernames lists up to the configured number of accepted fulfillers, sorted.
func (v *Visualizer) DraggableUsernames(ctx context.Context) ([]string, error) {
	fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{AcceptedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list fulfillments: %w", err)
	}
	names := make([]string, len(fulfillments))
	for i, f := range fulfillments {
		names[i] = f.FulfillerUsername
	}
	names = sortedUnique(names)
	if len(names) > v.cfg.DraggableLimit {
		names = names[:v.cfg.DraggableLimit]
	}
	return names, nil
}

// Draggable returns one bubble series per accepted fulfiller. For each day of the
// window it tracks cumulative income, the number of distinct bounties fulfilled
// before that day, and a bubble size proportional to that number.
func (v *Visualizer) Draggable(ctx context.Context) ([]schema.BubbleSeries, error) {
	out := []schema.BubbleSeries{}
	usernames, err := v.DraggableUsernames(ctx)
	if err != nil {
		return out, err
	}
	if len(usernames) == 0 {
		return out, nil
	}

	fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{AcceptedOnly: true})
	if err != nil {
		return out, fmt.Errorf("failed to list fulfillments: %w", err)
	}
	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{})
	if err != nil {
		return out, fmt.Errorf("failed to list bounties: %w", err)
	}
	values := make(map[int64]float64, len(bounties))
	for _, b := range bounties {
		values[b.ID] = b.ValueInUSDT
	}
	byUser := make(map[string][]schema.Fulfillment)
	for _, f := range fulfillments {
		byUser[f.FulfillerUsername] = append(byUser[f.FulfillerUsername], f)
	}

	days := v.cfg.DraggableDays
	start := v.now().Add(-time.Duration(days) * day)
	for _, username := range usernames {
		series := schema.BubbleSeries{
			Name:           username,
			Region:         username,
			Income:         make([][2]float64, 0, days),
			Population:     make([][2]float64, 0, days),
			LifeExpectancy: make([][2]float64, 0, days),
		}
		income := 0.0
		for i := 1; i < days; i++ {
			current := start.Add(time.Duration(i) * day)
			prev := start.Add(time.Duration(i-1) * day)
			var fulfilled []int64
			for _, f := range byUser[username] {
				if !f.CreatedOn.Before(current) {
					continue
				}
				fulfilled = append(fulfilled, f.BountyID)
				if f.CreatedOn.After(prev) {
					income += values[f.BountyID]
				}
			}
			slices.Sort(fulfilled)
			count := float64(len(slices.Compact(fulfilled)))
			x := float64(i)
			series.Income = append(series.Income, [2]float64{x, income})
			series.LifeExpectancy = append(series.LifeExpectancy, [2]float64{x, count})
			series.Population = append(series.Population, [2]float64{x, bubblePopulationScale * count})
		}
		out = append(out, series)
	}
	return out, nil
}

// DraggablePage returns the shell parameters of the draggable page.
func (v *Visualizer) DraggablePage(ctx context.Context, key string) (schema.Page, error) {
	usernames, err := v.DraggableUsernames(ctx)
	return schema.Page{
		Key:         key,
		VizType:     key,
		PageRoute:   string(schema.DraggableTemplate),
		Template:    schema.DraggableTemplate,
		TypeOptions: []string{},
		Usernames:   usernames,
	}, err
}
