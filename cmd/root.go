package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/datastore"
	"github.com/huangsam/bountyviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the bounty store opened by the setup of the running command.
var store *datastore.Store

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "bountyviz",
	Short:              "Serve and render visualizations of a bounty marketplace.",
	Long:               `Bountyviz turns bounties, fulfillments, tips and stats into sunbursts, networks, heatmaps and more.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("BOUNTYVIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("network", schema.DefaultNetwork)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.ConsoleLogFormat)
	viper.SetDefault("hide-pii", "yes")
	viper.SetDefault("avatar-threshold", contract.DefaultAvatarThreshold)
	viper.SetDefault("avatar-base-url", contract.DefaultAvatarBaseURL)
	viper.SetDefault("draggable-limit", contract.DefaultDraggableLimit)
	viper.SetDefault("draggable-days", contract.DefaultDraggableDays)
	viper.SetDefault("steamgraph-days", contract.DefaultSteamgraphDays)
	viper.SetDefault("heatmap-weeks", contract.DefaultHeatmapWeeks)
	viper.SetDefault("listen-addr", contract.DefaultListenAddr)
}

// setConfigFile points viper at the explicit config file or the default search paths.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".bountyviz") // Name of config file (without extension)
	viper.SetConfigType("yaml")       // We'll use YAML format
	viper.AddConfigPath(".")          // Look in the current directory
	viper.AddConfigPath("$HOME")      // Look in the home directory
}

// loadConfigFile reads the config file when one exists.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// loadConfig merges file, env and flags into the validated config and starts logging.
func loadConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Logging and terminal colors follow the validated config.
	if err := contract.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	color.NoColor = color.NoColor || !cfg.UseColors
	return nil
}

// sharedSetup loads the config and opens the bounty store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	s, err := datastore.NewStore(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open bounty store: %w", err)
	}
	store = s
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Close releases the bounty store opened by the command, if any.
func Close() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
