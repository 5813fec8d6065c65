package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
)

// RenderTargets lists the visualizations ExecuteRender can produce.
var RenderTargets = []schema.Template{
	schema.SunburstTemplate,
	schema.CirclesTemplate,
	schema.GraphTemplate,
	schema.SquareGraphTemplate,
	schema.HeatmapTemplate,
	schema.CalendarTemplate,
	schema.SpiralTemplate,
	schema.ChordTemplate,
	schema.SteamgraphTemplate,
	schema.DraggableTemplate,
	schema.ScatterplotTemplate,
}

// renderAliases maps route names onto templates.
var renderAliases = map[string]schema.Template{
	"sankey": schema.SquareGraphTemplate,
}

// ParseRenderTarget resolves a visualization name or route alias.
func ParseRenderTarget(name string) (schema.Template, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if t, ok := renderAliases[name]; ok {
		return t, nil
	}
	for _, t := range RenderTargets {
		if string(t) == name {
			return t, nil
		}
	}
	names := make([]string, len(RenderTargets))
	for i, t := range RenderTargets {
		names[i] = string(t)
	}
	return "", fmt.Errorf("unknown visualization %q. must be one of %s", name, strings.Join(names, ", "))
}

// ExecuteRender computes one visualization and writes it with the configured output format.
// It serves as the main entry point for the 'render' command.
func ExecuteRender(ctx context.Context, cfg *contract.Config, store contract.BountyStore, w contract.OutputWriter, target schema.Template, arg string, opts ...Option) error {
	v := NewVisualizer(store, cfg, opts...)

	switch target {
	case schema.SunburstTemplate, schema.CirclesTemplate:
		vt := ResolveVisualType(arg)
		paths, err := v.DataResponses(ctx, vt)
		if err != nil {
			return err
		}
		root, err := v.SunburstTree(ctx, vt)
		if err != nil {
			return err
		}
		return w.WriteSunburst(root, paths, cfg)

	case schema.GraphTemplate, schema.SquareGraphTemplate:
		data, err := v.Graph(ctx, arg, target)
		if err != nil {
			return err
		}
		return w.WriteGraph(data.Graph, data.Stored, cfg)

	case schema.HeatmapTemplate, schema.CalendarTemplate:
		series, err := v.HeatmapStats(ctx, arg, target)
		if err != nil {
			return err
		}
		if cfg.Output == schema.CSVOut {
			return w.WriteTable(HeatmapTable(series.Stats), cfg)
		}
		return w.WriteSeries(HeatmapSeries(series.Stats), cfg)

	case schema.SpiralTemplate:
		series, err := v.SpiralStats(ctx, arg)
		if err != nil {
			return err
		}
		return w.WriteSeries(SpiralSeries(series.Stats), cfg)

	case schema.ChordTemplate:
		table, err := v.Chord(ctx)
		if err != nil {
			return err
		}
		return w.WriteTable(table, cfg)

	case schema.SteamgraphTemplate:
		table, err := v.Steamgraph(ctx, arg)
		if err != nil {
			return err
		}
		return w.WriteTable(table, cfg)

	case schema.DraggableTemplate:
		series, err := v.Draggable(ctx)
		if err != nil {
			return err
		}
		return w.WriteBubbles(series, cfg)

	case schema.ScatterplotTemplate:
		table, err := v.Scatterplot(ctx)
		if err != nil {
			return err
		}
		return w.WriteTable(table, cfg)
	}
	return fmt.Errorf("visualization %q cannot be rendered", target)
}
