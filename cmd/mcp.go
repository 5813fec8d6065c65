package cmd

import (
	"github.com/huangsam/bountyviz/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Bountyviz MCP server",
	Long: `Launch an MCP server that allows AI agents to query the visualization payloads via standard tools.

Logs go to stderr so that stdio stays reserved for the protocol.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}
