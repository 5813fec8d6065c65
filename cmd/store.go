package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/datastore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configSetupWrapper loads the config without opening the store.
// Migrations use it so that they can run on a fresh or rolled back database.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadConfig()
}

// storeCmd focused on store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the bounty store",
	Long: `Manage the database holding bounties, fulfillments, tips, profiles, stats and stored payloads.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (always empty)

Subcommands:
  status  - Show record counts and connection info
  migrate - Run database schema migrations
  clear   - Remove all records
  import  - Load a JSON dataset

Examples:
  # Check store status
  bountyviz store status

  # Load a dataset into PostgreSQL
  BOUNTYVIZ_DB_BACKEND=postgresql BOUNTYVIZ_DB_CONNECT="..." bountyviz store import dump.json`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display record counts and connection details",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		datastore.PrintStoreStatus(os.Stdout, status)
	},
}

// storeMigrateCmd runs database migrations for the bounty store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the bounty store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bountyviz store migrate

  # Rollback to initial state
  bountyviz store migrate --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := datastore.Migrate(cfg.DBBackend, cfg.DBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Schema already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated schema from version %d to %d.\n", result.From, result.To)
	},
}

// storeClearCmd removes every record.
var storeClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all records while keeping the schema",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeImportCmd loads a JSON dataset.
var storeImportCmd = &cobra.Command{
	Use:   "import <dataset.json>",
	Short: "Load a JSON dataset into the store",
	Long: `Import every record of a JSON dataset in a single transaction.

The dataset is an object with optional "bounties", "fulfillments", "tips",
"profiles", "stats" and "data_payloads" arrays.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		dataset, err := datastore.ReadDatasetFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to read dataset", err)
		}
		if err := store.Import(rootCtx, dataset); err != nil {
			contract.LogFatal("Failed to import dataset", err)
		}
		fmt.Printf("Imported %d bounties, %d fulfillments, %d tips, %d profiles, %d stats and %d payloads.\n",
			len(dataset.Bounties), len(dataset.Fulfillments), len(dataset.Tips),
			len(dataset.Profiles), len(dataset.Stats), len(dataset.DataPayloads))
	},
}
