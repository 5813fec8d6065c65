// Package contract provides interfaces and shared utilities for the internal architecture of bountyviz.
package contract

import (
	"context"
	"encoding/json"

	"github.com/huangsam/bountyviz/schema"
)

// BountyStore defines the read operations the visualizations need from the marketplace store.
// This allows the aggregation logic to be tested against any backend or a fake.
type BountyStore interface {
	// --- Bounties and work ---

	// ListBounties returns bounties matching the filter ordered by creation time.
	ListBounties(ctx context.Context, filter schema.BountyFilter) ([]schema.Bounty, error)

	// ListFulfillments returns fulfillments matching the filter ordered by creation time.
	ListFulfillments(ctx context.Context, filter schema.FulfillmentFilter) ([]schema.Fulfillment, error)

	// DistinctStatuses returns every bounty status present in the store, sorted.
	DistinctStatuses(ctx context.Context) ([]string, error)

	// --- People and payments ---

	// ListTips returns tips sent on the given network.
	ListTips(ctx context.Context, network string) ([]schema.Tip, error)

	// ListProfiles returns profiles, optionally only those with a GitHub token.
	ListProfiles(ctx context.Context, withGithubToken bool) ([]schema.Profile, error)

	// --- Marketing stats and stored payloads ---

	// ListStats returns stats matching the filter ordered by creation time.
	ListStats(ctx context.Context, filter schema.StatFilter) ([]schema.Stat, error)

	// ListDataPayloads returns the stored payloads saved under key.
	ListDataPayloads(ctx context.Context, key string) ([]schema.DataPayload, error)
}

// StoreAdmin defines the maintenance operations of a bounty store.
type StoreAdmin interface {
	// Import writes every record of the dataset in a single transaction.
	Import(ctx context.Context, data schema.Dataset) error

	// Clear deletes all records while keeping the schema.
	Clear(ctx context.Context) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// OutputWriter defines how rendered visualizations are written for the CLI.
type OutputWriter interface {
	WriteSunburst(root schema.TreeNode, paths []schema.PathValue, cfg *Config) error
	WriteGraph(g schema.Graph, stored json.RawMessage, cfg *Config) error
	WriteSeries(series schema.Series, cfg *Config) error
	WriteTable(table schema.Table, cfg *Config) error
	WriteBubbles(series []schema.BubbleSeries, cfg *Config) error
}
