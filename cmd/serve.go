package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd serves the visualization pages over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the visualization pages over HTTP.",
	Long: `Start the HTTP server with one page and one data endpoint per visualization.

Every page lives under /dataviz. Append ?data=1 to a page to get its data,
and &format=json where a chart offers both CSV and JSON.

When staff tokens are configured, every page except draggable and scatterplot
requires an "Authorization: Bearer <token>" header.

Examples:
  # Serve on the default address
  bountyviz serve

  # Serve a MySQL store behind staff tokens
  BOUNTYVIZ_DB_BACKEND=mysql BOUNTYVIZ_DB_CONNECT="..." bountyviz serve --staff-tokens t1,t2

  # Fetch the funders sunburst as JSON
  curl 'localhost:8080/dataviz/sunburst/funders?data=1&format=json'`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := server.New(cfg, store)
		if err != nil {
			contract.LogFatal("Cannot build server", err)
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := srv.Run(ctx); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
