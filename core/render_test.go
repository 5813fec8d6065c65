package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWriter keeps the last payload of each kind.
type recordingWriter struct {
	calls   []string
	root    schema.TreeNode
	paths   []schema.PathValue
	graph   schema.Graph
	stored  json.RawMessage
	series  schema.Series
	table   schema.Table
	bubbles []schema.BubbleSeries
}

func (w *recordingWriter) WriteSunburst(root schema.TreeNode, paths []schema.PathValue, _ *contract.Config) error {
	w.calls = append(w.calls, "sunburst")
	w.root, w.paths = root, paths
	return nil
}

func (w *recordingWriter) WriteGraph(g schema.Graph, stored json.RawMessage, _ *contract.Config) error {
	w.calls = append(w.calls, "graph")
	w.graph, w.stored = g, stored
	return nil
}

func (w *recordingWriter) WriteSeries(series schema.Series, _ *contract.Config) error {
	w.calls = append(w.calls, "series")
	w.series = series
	return nil
}

func (w *recordingWriter) WriteTable(table schema.Table, _ *contract.Config) error {
	w.calls = append(w.calls, "table")
	w.table = table
	return nil
}

func (w *recordingWriter) WriteBubbles(series []schema.BubbleSeries, _ *contract.Config) error {
	w.calls = append(w.calls, "bubbles")
	w.bubbles = series
	return nil
}

func TestParseRenderTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    schema.Template
		wantErr bool
	}{
		{"sunburst", schema.SunburstTemplate, false},
		{" Chord ", schema.ChordTemplate, false},
		{"sankey", schema.SquareGraphTemplate, false},
		{"square_graph", schema.SquareGraphTemplate, false},
		{"index", "", true},
		{"pie", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRenderTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecuteRender(t *testing.T) {
	cfg := testConfig()
	store := newTestVisualizer(t, cfg).store
	clock := WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	render := func(t *testing.T, target schema.Template, arg string, c *contract.Config) *recordingWriter {
		t.Helper()
		w := &recordingWriter{}
		require.NoError(t, ExecuteRender(ctx, c, store, w, target, arg, clock, WithSeed(42)))
		require.Len(t, w.calls, 1)
		return w
	}

	t.Run("sunburst writes tree and paths", func(t *testing.T) {
		w := render(t, schema.SunburstTemplate, "funders", cfg)
		assert.Equal(t, "sunburst", w.calls[0])
		assert.NotEmpty(t, w.paths)
		assert.False(t, w.root.IsLeaf())
	})

	t.Run("graph stored payload", func(t *testing.T) {
		w := render(t, schema.GraphTemplate, "kudos", cfg)
		assert.Equal(t, "graph", w.calls[0])
		assert.NotNil(t, w.stored)
	})

	t.Run("sankey builds the accepted network", func(t *testing.T) {
		w := render(t, schema.SquareGraphTemplate, "", cfg)
		assert.Nil(t, w.stored)
		assert.NotEmpty(t, w.graph.Nodes)
	})

	t.Run("heatmap series unless csv", func(t *testing.T) {
		w := render(t, schema.HeatmapTemplate, "", cfg)
		assert.Equal(t, "series", w.calls[0])

		csvCfg := cfg.Clone()
		csvCfg.Output = schema.CSVOut
		w = render(t, schema.CalendarTemplate, "", csvCfg)
		assert.Equal(t, "table", w.calls[0])
		assert.Equal(t, []string{"Date", "Value"}, w.table.Header)
	})

	t.Run("spiral", func(t *testing.T) {
		w := render(t, schema.SpiralTemplate, "", cfg)
		assert.Equal(t, "series", w.calls[0])
	})

	t.Run("tables", func(t *testing.T) {
		headers := map[schema.Template][]string{
			schema.ChordTemplate:       {"creditor", "debtor", "amount", "risk"},
			schema.SteamgraphTemplate:  {"key", "value", "date"},
			schema.ScatterplotTemplate: {"hourlyRate", "daysBack", "username", "weight"},
		}
		for target, header := range headers {
			w := render(t, target, "", cfg)
			assert.Equal(t, "table", w.calls[0])
			assert.Equal(t, header, w.table.Header, target)
		}
	})

	t.Run("draggable", func(t *testing.T) {
		w := render(t, schema.DraggableTemplate, "", cfg)
		assert.Equal(t, "bubbles", w.calls[0])
		assert.NotNil(t, w.bubbles)
	})

	t.Run("index cannot be rendered", func(t *testing.T) {
		err := ExecuteRender(ctx, cfg, store, &recordingWriter{}, schema.IndexTemplate, "")
		assert.Error(t, err)
	})
}

func TestExecuteRender_StoreError(t *testing.T) {
	v, store := newFailingVisualizer(t)
	w := &recordingWriter{}
	err := ExecuteRender(context.Background(), v.cfg, store, w, schema.ChordTemplate, "")
	assert.Error(t, err)
	assert.Empty(t, w.calls)
}
