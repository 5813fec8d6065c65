// Package cmd defines the command-line interface for bountyviz.
package cmd

import (
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (sqlite defaults to ~/.bountyviz.db)")
	rootCmd.PersistentFlags().String("network", schema.DefaultNetwork, "Bounty network to visualize")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.ConsoleLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("hide-pii", "yes", "Mask usernames in network graphs (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Float64("avatar-threshold", contract.DefaultAvatarThreshold, "Node value above which an avatar is attached")
	rootCmd.PersistentFlags().String("avatar-base-url", contract.DefaultAvatarBaseURL, "Base URL of node avatars")
	rootCmd.PersistentFlags().Int("draggable-limit", contract.DefaultDraggableLimit, "Maximum number of fulfillers in the draggable chart")
	rootCmd.PersistentFlags().Int("draggable-days", contract.DefaultDraggableDays, "Days covered by the draggable chart")
	rootCmd.PersistentFlags().Int("steamgraph-days", contract.DefaultSteamgraphDays, "Days covered by the steamgraph")
	rootCmd.PersistentFlags().Int("heatmap-weeks", contract.DefaultHeatmapWeeks, "Weeks covered by the heatmap")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed of the synthetic future graph edges (0 = time based)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen-addr", contract.DefaultListenAddr, "HTTP listen address")
	serveCmd.Flags().String("staff-tokens", "", "Comma-separated bearer tokens of staff (empty = open)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
