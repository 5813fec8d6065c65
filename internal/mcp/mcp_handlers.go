package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/bountyviz/core"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/outwriter"
	"github.com/huangsam/bountyviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.BountyStore
	opts    []core.Option
}

// visualizer returns a visualizer over a copy of the base config with the
// request overrides applied.
func (h *toolHandler) visualizer(request mcp.CallToolRequest) *core.Visualizer {
	cfg := h.baseCfg.Clone()
	if n := request.GetString("network", ""); n != "" {
		cfg.Network = n
	}
	return core.NewVisualizer(h.store, cfg, h.opts...)
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func csvResult(table schema.Table) *mcp.CallToolResult {
	return mcp.NewToolResultText(outwriter.JoinRows(table.AllRows()))
}

func (h *toolHandler) handleGetSunburst(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v := h.visualizer(request)
	vt := core.ResolveVisualType(request.GetString("visual_type", ""))

	if request.GetString("shape", "tree") == "paths" {
		paths, err := v.DataResponses(ctx, vt)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("sunburst failed: %v", err)), nil
		}
		return jsonResult(paths)
	}

	root, err := v.SunburstTree(ctx, vt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sunburst failed: %v", err)), nil
	}
	return jsonResult(root)
}

func (h *toolHandler) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if n := request.GetString("network", ""); n != "" {
		cfg.Network = n
	}
	cfg.HidePII = request.GetBool("hide_pii", cfg.HidePII)
	v := core.NewVisualizer(h.store, cfg, h.opts...)

	template := schema.Template(request.GetString("template", string(schema.GraphTemplate)))
	if template != schema.SquareGraphTemplate {
		template = schema.GraphTemplate
	}
	data, err := v.Graph(ctx, request.GetString("mode", ""), template)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	if data.Stored != nil {
		return mcp.NewToolResultText(string(data.Stored)), nil
	}
	return jsonResult(data.Graph)
}

func (h *toolHandler) handleGetHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v := h.visualizer(request)
	key := request.GetString("key", "")
	csv := request.GetString("format", string(schema.JSONFormat)) == string(schema.CSVFormat)

	template := schema.Template(request.GetString("template", string(schema.HeatmapTemplate)))
	if template == schema.SpiralTemplate {
		series, err := v.SpiralStats(ctx, key)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("spiral failed: %v", err)), nil
		}
		return jsonResult(core.SpiralSeries(series.Stats))
	}
	if template != schema.CalendarTemplate {
		template = schema.HeatmapTemplate
	}

	series, err := v.HeatmapStats(ctx, key, template)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("heatmap failed: %v", err)), nil
	}
	if csv {
		return csvResult(core.HeatmapTable(series.Stats)), nil
	}
	return jsonResult(core.HeatmapSeries(series.Stats))
}

func (h *toolHandler) handleGetSteamgraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if n := request.GetString("network", ""); n != "" {
		cfg.Network = n
	}
	if days := request.GetInt("days", 0); days > 0 {
		if days > contract.MaxWindowDays {
			return mcp.NewToolResultError(fmt.Sprintf("days must be at most %d", contract.MaxWindowDays)), nil
		}
		cfg.SteamgraphDays = days
	}
	v := core.NewVisualizer(h.store, cfg, h.opts...)

	table, err := v.Steamgraph(ctx, request.GetString("key", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("steamgraph failed: %v", err)), nil
	}
	return csvResult(table), nil
}

func (h *toolHandler) handleGetChord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := h.visualizer(request).Chord(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chord failed: %v", err)), nil
	}
	return csvResult(table), nil
}

func (h *toolHandler) handleGetScatterplot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := h.visualizer(request).Scatterplot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scatterplot failed: %v", err)), nil
	}
	return csvResult(table), nil
}

func (h *toolHandler) handleGetDraggable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if limit := request.GetInt("limit", 0); limit > 0 {
		cfg.DraggableLimit = limit
	}
	if days := request.GetInt("days", 0); days > 0 {
		if days > contract.MaxWindowDays {
			return mcp.NewToolResultError(fmt.Sprintf("days must be at most %d", contract.MaxWindowDays)), nil
		}
		cfg.DraggableDays = days
	}
	series, err := core.NewVisualizer(h.store, cfg, h.opts...).Draggable(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("draggable failed: %v", err)), nil
	}
	return jsonResult(series)
}
