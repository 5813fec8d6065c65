package core

import (
	"context"
	"testing"

	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraggable(t *testing.T) {
	cfg := testConfig()
	cfg.DraggableDays = 10
	v := newTestVisualizer(t, cfg)
	ctx := context.Background()

	series, err := v.Draggable(ctx)
	require.NoError(t, err)
	require.Len(t, series, 2)

	alice := series[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "Alice", alice.Region)
	require.Len(t, alice.Income, 9)
	for i := range 9 {
		day := float64(i + 1)
		wantIncome, wantCount := 0.0, 0.0
		if i+1 >= 5 {
			wantIncome, wantCount = 120, 1
		}
		assert.Equal(t, [2]float64{day, wantIncome}, alice.Income[i])
		assert.Equal(t, [2]float64{day, wantCount}, alice.LifeExpectancy[i])
		assert.Equal(t, [2]float64{day, wantCount * bubblePopulationScale}, alice.Population[i])
	}

	erin := series[1]
	assert.Equal(t, "erin", erin.Name)
	for i := range erin.Income {
		assert.Zero(t, erin.Income[i][1])
		assert.Equal(t, 1.0, erin.LifeExpectancy[i][1])
	}
}

func TestDraggable_Limit(t *testing.T) {
	cfg := testConfig()
	cfg.DraggableLimit = 1
	cfg.DraggableDays = 3
	v := newTestVisualizer(t, cfg)
	ctx := context.Background()

	names, err := v.DraggableUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, names)

	series, err := v.Draggable(ctx)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Len(t, series[0].Population, 2)

	page, err := v.DraggablePage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, page.Usernames)
	assert.Equal(t, schema.DraggableTemplate, page.Template)
}
