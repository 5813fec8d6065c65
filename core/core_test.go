package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/datastore"
	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixedNow is the clock of every visualizer under test.
var fixedNow = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

const testDay = 24 * time.Hour

func ptrTime(t time.Time) *time.Time { return &t }

func ptrFloat(f float64) *float64 { return &f }

// sampleDataset is a small marketplace: one finished bounty with history, one
// open bounty, one bounty on another network, a tip and some stats.
func sampleDataset() schema.Dataset {
	return schema.Dataset{
		Bounties: []schema.Bounty{
			{
				ID: 1, StandardBountiesID: 10, Network: "mainnet", Web3Type: "bounties_network",
				Status: "started", OrgName: "gitcoin-co", RepoName: "web", IssueNumber: 42, OwnerUsername: "Owner-One",
				ValueInUSDTThen: 100, ValueInUSDT: 120,
				Web3Created: fixedNow.Add(-12 * testDay), CreatedOn: fixedNow.Add(-12 * testDay),
			},
			{
				ID: 2, StandardBountiesID: 10, Network: "mainnet", Web3Type: "bounties_network", CurrentBounty: true,
				Status: "done", OrgName: "gitcoin-co", RepoName: "web", IssueNumber: 42, OwnerUsername: "Owner-One",
				ValueInUSDTThen: 100, ValueInUSDT: 120,
				Web3Created: fixedNow.Add(-10 * testDay), CreatedOn: fixedNow.Add(-10 * testDay),
				ClosedOn: ptrTime(fixedNow.Add(-5 * testDay)),
			},
			{
				ID: 3, StandardBountiesID: 11, Network: "mainnet", Web3Type: "bounties_network", CurrentBounty: true,
				Status: "open", OrgName: "ethereum", RepoName: "go-ethereum", IssueNumber: 7, OwnerUsername: "funder",
				ValueInUSDTThen: 50, ValueInUSDT: 60,
				Web3Created: fixedNow.Add(-3 * testDay), CreatedOn: fixedNow.Add(-3 * testDay),
			},
			{
				ID: 4, StandardBountiesID: 12, Network: "rinkeby", Web3Type: "bounties_network", CurrentBounty: true,
				Status: "done", OrgName: "testorg", RepoName: "sandbox", IssueNumber: 1, OwnerUsername: "tester",
				ValueInUSDTThen: 999,
				Web3Created: fixedNow.Add(-30 * testDay), CreatedOn: fixedNow.Add(-30 * testDay),
			},
		},
		Fulfillments: []schema.Fulfillment{
			{
				ID: 1, BountyID: 2, FulfillerUsername: "Alice", Accepted: true,
				CreatedOn:  fixedNow.Add(-6*testDay + 12*time.Hour),
				AcceptedOn: ptrTime(fixedNow.Add(-6 * testDay)), HoursWorked: ptrFloat(4),
			},
			{ID: 2, BountyID: 2, FulfillerUsername: "bob", CreatedOn: fixedNow.Add(-7 * testDay)},
			{ID: 3, BountyID: 3, FulfillerUsername: "carol", CreatedOn: fixedNow.Add(-2 * testDay)},
			{
				ID: 4, BountyID: 4, FulfillerUsername: "erin", Accepted: true,
				CreatedOn:  fixedNow.Add(-20 * testDay),
				AcceptedOn: ptrTime(fixedNow.Add(-20 * testDay)), HoursWorked: ptrFloat(2),
			},
		},
		Tips: []schema.Tip{
			{ID: 1, Network: "mainnet", Username: "Alice", FromUsername: "dave", ValueInUSDT: ptrFloat(5), CreatedOn: fixedNow.Add(-testDay)},
			{ID: 2, Network: "mainnet", Username: "bob", FromUsername: "dave", CreatedOn: fixedNow.Add(-testDay)},
		},
		Profiles: []schema.Profile{
			{ID: 1, Handle: "alice", HasGithubToken: true},
			{ID: 2, Handle: "erin", HasGithubToken: true},
			{ID: 3, Handle: "frank"},
		},
		Stats: []schema.Stat{
			{ID: 1, Key: "email_open", CreatedOn: time.Date(2024, 3, 19, 1, 0, 0, 0, time.UTC), Val: 10, ValSinceHour: 2, ValSinceYesterday: 4},
			{ID: 2, Key: "email_open", CreatedOn: time.Date(2024, 3, 19, 22, 0, 0, 0, time.UTC), Val: 12, ValSinceHour: 4, ValSinceYesterday: 8},
			{ID: 3, Key: "slack_users", CreatedOn: time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), Val: 3, ValSinceHour: 1, ValSinceYesterday: 1},
			{ID: 4, Key: "email_open", CreatedOn: time.Date(2024, 3, 25, 1, 0, 0, 0, time.UTC), Val: 20, ValSinceHour: 6, ValSinceYesterday: 9},
		},
		DataPayloads: []schema.DataPayload{
			{ID: 1, Key: "graph", Report: "kudos", Comments: "stored kudos", Payload: `{"nodes":[],"links":[]}`},
			{ID: 2, Key: "graph", Report: "broken", Comments: "truncated", Payload: `{"nodes":[`},
			{ID: 3, Key: "other", Report: "ignored", Payload: `{}`},
		},
	}
}

func testConfig() *contract.Config {
	cfg := contract.DefaultConfig()
	cfg.HidePII = false
	return cfg
}

// newTestVisualizer returns a visualizer over an in-memory store holding sampleDataset.
func newTestVisualizer(t *testing.T, cfg *contract.Config) *Visualizer {
	t.Helper()
	store, err := datastore.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Import(context.Background(), sampleDataset()))
	return NewVisualizer(store, cfg, WithClock(func() time.Time { return fixedNow }), WithSeed(42))
}

// newFailingVisualizer returns a visualizer whose store fails every query.
func newFailingVisualizer(t *testing.T) (*Visualizer, *datastore.MockBountyStore) {
	t.Helper()
	errStore := errors.New("store unavailable")
	store := &datastore.MockBountyStore{}
	store.On("ListBounties", mock.Anything, mock.Anything).Return(nil, errStore)
	store.On("ListFulfillments", mock.Anything, mock.Anything).Return(nil, errStore)
	store.On("DistinctStatuses", mock.Anything).Return(nil, errStore)
	store.On("ListStats", mock.Anything, mock.Anything).Return(nil, errStore)
	store.On("ListDataPayloads", mock.Anything, mock.Anything).Return(nil, errStore)
	return NewVisualizer(store, testConfig(), WithClock(func() time.Time { return fixedNow })), store
}

func TestNewVisualizer_Defaults(t *testing.T) {
	v := NewVisualizer(&datastore.MockBountyStore{}, nil)
	require.NotNil(t, v.cfg)
	assert.Equal(t, schema.DefaultNetwork, v.network())
	assert.NotNil(t, v.rng)
	assert.NotNil(t, v.logger)
	assert.WithinDuration(t, time.Now(), v.now(), time.Minute)

	cfg := testConfig()
	cfg.Network = "rinkeby"
	v = NewVisualizer(&datastore.MockBountyStore{}, cfg, WithClock(nil), WithLogger(nil))
	assert.Equal(t, "rinkeby", v.network())
	assert.NotNil(t, v.now)
	assert.NotNil(t, v.logger)
}

func TestResolveOption(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		key     string
		want    string
	}{
		{"known key", []string{"a", "b"}, "b", "b"},
		{"unknown key", []string{"a", "b"}, "z", "a"},
		{"empty key", []string{"a", "b"}, "", "a"},
		{"no options", nil, "z", "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOption(tt.options, tt.key))
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedUnique([]string{"c", "", "a", "b", "a"}))
	assert.Equal(t, []string{"c", "a", "b"}, uniqueInOrder([]string{"c", "a", "c", "b", "a"}))
	assert.Equal(t, "100", formatNumber(100))
	assert.Equal(t, "0.5", formatNumber(0.5))
	assert.Equal(t, "1234567.25", formatNumber(1234567.25))
}

func TestVisualizer_StoreFailures(t *testing.T) {
	v, store := newFailingVisualizer(t)
	ctx := context.Background()

	_, err := v.DataResponses(ctx, schema.ReposVisual)
	assert.Error(t, err)

	root, err := v.SunburstTree(ctx, schema.FundersVisual)
	assert.Error(t, err)
	assert.Equal(t, "data", root.Name)
	assert.Empty(t, root.Children)

	data, err := v.Graph(ctx, "all", schema.GraphTemplate)
	assert.Error(t, err)
	assert.NotNil(t, data.Graph.Nodes)
	assert.NotNil(t, data.Graph.Links)

	_, err = v.HeatmapStats(ctx, "email_open", schema.HeatmapTemplate)
	assert.Error(t, err)

	table, err := v.Chord(ctx)
	assert.Error(t, err)
	assert.Empty(t, table.Rows)

	_, err = v.Steamgraph(ctx, "open")
	assert.Error(t, err)

	_, err = v.Scatterplot(ctx)
	assert.Error(t, err)

	series, err := v.Draggable(ctx)
	assert.Error(t, err)
	assert.NotNil(t, series)

	store.AssertExpectations(t)
}

func TestVisualizer_LargeStore(t *testing.T) {
	const total = 40_000
	dataset := schema.Dataset{}
	for id := int64(1); id <= total; id++ {
		dataset.Bounties = append(dataset.Bounties, schema.Bounty{
			ID: id, StandardBountiesID: id, Network: "mainnet", Web3Type: "bounties_network", CurrentBounty: true,
			Status: "done", OrgName: "bulk", RepoName: "repo", IssueNumber: id, OwnerUsername: "owner",
			ValueInUSDTThen: 1, Web3Created: fixedNow.Add(-2 * testDay), CreatedOn: fixedNow.Add(-2 * testDay),
		})
	}
	dataset.Fulfillments = []schema.Fulfillment{
		{ID: 1, BountyID: 1, FulfillerUsername: "amy", Accepted: true, CreatedOn: fixedNow.Add(-testDay), AcceptedOn: ptrTime(fixedNow.Add(-testDay))},
		{ID: 2, BountyID: total, FulfillerUsername: "zed", Accepted: true, CreatedOn: fixedNow.Add(-36 * time.Hour), AcceptedOn: ptrTime(fixedNow.Add(-testDay))},
	}

	store, err := datastore.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	require.NoError(t, store.Import(ctx, dataset))
	v := NewVisualizer(store, testConfig(), WithClock(func() time.Time { return fixedNow }), WithSeed(42))

	data, err := v.Graph(ctx, string(schema.FulfillmentsMode), schema.GraphTemplate)
	require.NoError(t, err)
	names := make([]string, len(data.Graph.Nodes))
	for i, n := range data.Graph.Nodes {
		names[i] = n.Name
	}
	assert.ElementsMatch(t, []string{"bulk", "amy", "zed"}, names)
	assert.Len(t, data.Graph.Links, 2)

	chord, err := v.Chord(ctx)
	require.NoError(t, err)
	assert.Len(t, chord.Rows, 2)

	paths, err := v.DataResponses(ctx, schema.FulfillersVisual)
	require.NoError(t, err)
	assert.ElementsMatch(t, []schema.PathValue{{Path: "amy", Value: 1}, {Path: "zed", Value: 1}}, paths)
}
