package cmd

import (
	"github.com/huangsam/bountyviz/core"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/outwriter"
	"github.com/spf13/cobra"
)

// renderCmd renders one visualization to the terminal or a file.
var renderCmd = &cobra.Command{
	Use:   "render <visualization> [type-or-key]",
	Short: "Render one visualization payload.",
	Long: `Compute one visualization from the store and write it in the configured output format.

Visualizations:
  sunburst, circles     [status_progression|repos|fulfillers|funders]
  graph, sankey         [graph mode or stored report]
  heatmap, calendar     [stat key]
  spiral                [stat key]
  chord                 [bounties_paid]
  steamgraph            [bounty status]
  draggable, scatterplot

Unknown types and keys fall back to the first option.

Examples:
  # Show the funders sunburst as a table
  bountyviz render sunburst funders

  # Export the accepted-only network to parquet
  bountyviz render graph fulfillments_accepted_only --output parquet --output-file graph.parquet

  # Steamgraph of open bounties over the last week as CSV
  bountyviz render steamgraph open --steamgraph-days 7 --output csv`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		target, err := core.ParseRenderTarget(args[0])
		if err != nil {
			contract.LogFatal("Cannot render", err)
		}
		var arg string
		if len(args) == 2 {
			arg = args[1]
		}
		if err := core.ExecuteRender(rootCtx, cfg, store, outwriter.NewOutWriter(), target, arg); err != nil {
			contract.LogFatal("Cannot render "+string(target), err)
		}
	},
}
