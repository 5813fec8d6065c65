// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/bountyviz/core"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the bountyviz MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.BountyStore, opts ...core.Option) *server.MCPServer {
	s := server.NewMCPServer(
		"Bountyviz Visualization Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
		opts:    opts,
	}
	network := mcp.WithString("network", mcp.Description("Bounty network to read (defaults to the configured network)."))

	// --- 1. Tool: get_sunburst ---
	s.AddTool(mcp.NewTool("get_sunburst",
		mcp.WithDescription("Aggregate current bounties into a sunburst hierarchy of category paths."),
		mcp.WithString("visual_type", mcp.Description("Category paths to build. Defaults to 'status_progression'."), mcp.Enum(core.VisualTypeOptions()...)),
		mcp.WithString("shape", mcp.Description("Return the merged 'tree' (default) or the flat 'paths'."), mcp.Enum("tree", "paths")),
		network,
	), h.handleGetSunburst)

	// --- 2. Tool: get_graph ---
	s.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Build the funder/fulfiller network graph, or return a stored graph report."),
		mcp.WithString("mode", mcp.Description("Graph mode or stored report name. Unknown modes fall back to the first option.")),
		mcp.WithString("template", mcp.Description("Layout the graph is built for."), mcp.Enum(string(schema.GraphTemplate), string(schema.SquareGraphTemplate))),
		mcp.WithBoolean("hide_pii", mcp.Description("Mask usernames (defaults to the configured value).")),
		network,
	), h.handleGetGraph)

	// --- 3. Tool: get_heatmap ---
	s.AddTool(mcp.NewTool("get_heatmap",
		mcp.WithDescription("Return a marketing stat as a heatmap, calendar or spiral series."),
		mcp.WithString("key", mcp.Description("Stat key. Unknown keys fall back to the first key.")),
		mcp.WithString("template", mcp.Description("Chart the series is shaped for. Defaults to 'heatmap'."),
			mcp.Enum(string(schema.HeatmapTemplate), string(schema.CalendarTemplate), string(schema.SpiralTemplate))),
		mcp.WithString("format", mcp.Description("Payload format (json or csv)."), mcp.Enum(string(schema.JSONFormat), string(schema.CSVFormat))),
	), h.handleGetHeatmap)

	// --- 4. Tool: get_steamgraph ---
	s.AddTool(mcp.NewTool("get_steamgraph",
		mcp.WithDescription("Return the daily value of bounties per org for a bounty status as CSV."),
		mcp.WithString("key", mcp.Description("Bounty status. Unknown statuses fall back to the first status.")),
		mcp.WithNumber("days", mcp.Description("Number of days in the window.")),
		network,
	), h.handleGetSteamgraph)

	// --- 5. Tool: get_chord ---
	s.AddTool(mcp.NewTool("get_chord",
		mcp.WithDescription("Return funder to fulfiller payments of finished bounties as CSV."),
		network,
	), h.handleGetChord)

	// --- 6. Tool: get_scatterplot ---
	s.AddTool(mcp.NewTool("get_scatterplot",
		mcp.WithDescription("Return the hourly rate of accepted work against its age as CSV."),
	), h.handleGetScatterplot)

	// --- 7. Tool: get_draggable ---
	s.AddTool(mcp.NewTool("get_draggable",
		mcp.WithDescription("Return the cumulative income and fulfilled bounties of each fulfiller over time."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of fulfillers.")),
		mcp.WithNumber("days", mcp.Description("Number of days in the window.")),
	), h.handleGetDraggable)

	return s
}

// StartMCPServer starts the bountyviz MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.BountyStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
