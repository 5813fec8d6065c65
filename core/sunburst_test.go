package core

import (
	"context"
	"testing"

	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func padded(statuses ...string) []string {
	out := append([]string{}, statuses...)
	for len(out) < schema.StatusProgressionMaxLen {
		out = append(out, schema.StatusPadding)
	}
	return out
}

func TestDataResponses(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	ctx := context.Background()

	tests := []struct {
		visualType schema.VisualType
		want       []schema.PathValue
	}{
		{schema.ReposVisual, []schema.PathValue{{Path: "gitcoinco-web-42", Value: 100}, {Path: "ethereum-goethereum-7", Value: 50}}},
		{schema.FundersVisual, []schema.PathValue{{Path: "OwnerOne", Value: 100}, {Path: "funder", Value: 50}}},
		{schema.FulfillersVisual, []schema.PathValue{{Path: "Alice", Value: 100}}},
		{schema.StatusProgression, []schema.PathValue{
			{Path: joinPath(padded("open", "started", "done")), Value: 1},
			{Path: joinPath(padded("open")), Value: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.visualType), func(t *testing.T) {
			got, err := v.DataResponses(ctx, tt.visualType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func joinPath(segments []string) string {
	out := segments[0]
	for _, s := range segments[1:] {
		out += "-" + s
	}
	return out
}

func TestResolveVisualType(t *testing.T) {
	assert.Equal(t, schema.FundersVisual, ResolveVisualType("funders"))
	assert.Equal(t, schema.StatusProgression, ResolveVisualType("unknown"))
	assert.Equal(t, schema.StatusProgression, ResolveVisualType(""))
}

func TestStatusProgression(t *testing.T) {
	current := schema.Bounty{ID: 9, Status: "done"}

	t.Run("no history", func(t *testing.T) {
		assert.Equal(t, padded("done"), StatusProgression(current, []schema.Bounty{current}))
	})

	t.Run("started first gains open", func(t *testing.T) {
		history := []schema.Bounty{{ID: 1, Status: "started"}, {ID: 2, Status: "started"}, current}
		assert.Equal(t, padded("open", "started", "done"), StatusProgression(current, history))
	})

	t.Run("same status not repeated", func(t *testing.T) {
		history := []schema.Bounty{{ID: 1, Status: "open"}, {ID: 2, Status: "done"}, current}
		assert.Equal(t, padded("open", "done"), StatusProgression(current, history))
	})

	t.Run("truncated", func(t *testing.T) {
		var history []schema.Bounty
		for i := range 20 {
			status := "open"
			if i%2 == 1 {
				status = "submitted"
			}
			history = append(history, schema.Bounty{ID: int64(i + 100), Status: status})
		}
		got := StatusProgression(current, history)
		assert.Len(t, got, schema.StatusProgressionMaxLen)
		assert.NotContains(t, got, schema.StatusPadding)
	})
}

func TestSunburstTree(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	root, err := v.SunburstTree(context.Background(), schema.ReposVisual)
	require.NoError(t, err)

	assert.Equal(t, "data", root.Name)
	require.Len(t, root.Children, 2)
	org := root.Children[0]
	assert.Equal(t, "gitcoinco", org.Name)
	require.Len(t, org.Children, 1)
	repo := org.Children[0]
	assert.Equal(t, "web", repo.Name)
	require.Len(t, repo.Children, 1)
	assert.Equal(t, "42", repo.Children[0].Name)
	assert.Equal(t, int64(100), repo.Children[0].Size)
	assert.True(t, repo.Children[0].IsLeaf())
}

func TestSunburstRows(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	rows, err := v.SunburstRows(context.Background(), schema.FundersVisual)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"OwnerOne", "100"}, {"funder", "50"}}, rows)
}

func TestCategories(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	ctx := context.Background()

	statuses, err := v.Categories(ctx, schema.StatusProgression)
	require.NoError(t, err)
	assert.Equal(t, []string{"done", "open", "started", "_"}, statuses)

	funders, err := v.Categories(ctx, schema.FundersVisual)
	require.NoError(t, err)
	assert.Equal(t, []string{"OwnerOne", "funder"}, funders)

	repos, err := v.Categories(ctx, schema.ReposVisual)
	require.NoError(t, err)
	assert.Equal(t, []string{"gitcoinco", "ethereum", "web", "goethereum", "42", "7"}, repos)

	fulfillers, err := v.Categories(ctx, schema.FulfillersVisual)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice", "bob", "carol"}, fulfillers)
}

func TestSunburstPage(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	page, err := v.SunburstPage(context.Background(), "bogus", schema.CirclesTemplate)
	require.NoError(t, err)

	assert.Equal(t, "status_progression", page.VizType)
	assert.Equal(t, "circles", page.PageRoute)
	assert.Equal(t, schema.CirclesTemplate, page.Template)
	assert.Equal(t, "Status Progression Viz", page.Title)
	assert.Equal(t, VisualTypeOptions(), page.TypeOptions)
	assert.Contains(t, page.Categories, "_")
}
