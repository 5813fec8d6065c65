package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/bountyviz/internal/datastore"
	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/require"
)

// syntheticDataset builds n done bounties spread over orgs, each with one accepted fulfillment.
func syntheticDataset(n int) schema.Dataset {
	var data schema.Dataset
	for i := range n {
		id := int64(i + 1)
		created := fixedNow.Add(-time.Duration(i%90+1) * testDay)
		accepted := created.Add(12 * time.Hour)
		hours := float64(i%8 + 1)
		data.Bounties = append(data.Bounties, schema.Bounty{
			ID: id, StandardBountiesID: id, Network: schema.DefaultNetwork, Web3Type: schema.BountiesNetwork,
			CurrentBounty: true, Status: schema.DoneStatus,
			OrgName: fmt.Sprintf("org%d", i%20), RepoName: fmt.Sprintf("repo%d", i%7), IssueNumber: id,
			OwnerUsername:   fmt.Sprintf("funder%d", i%30),
			ValueInUSDTThen: float64(10 + i%100), ValueInUSDT: float64(10 + i%100),
			Web3Created: created, CreatedOn: created,
		})
		data.Fulfillments = append(data.Fulfillments, schema.Fulfillment{
			ID: id, BountyID: id, FulfillerUsername: fmt.Sprintf("dev%d", i%60), Accepted: true,
			CreatedOn: accepted, AcceptedOn: &accepted, HoursWorked: &hours,
		})
	}
	return data
}

func newBenchVisualizer(b *testing.B, n int) *Visualizer {
	b.Helper()
	store, err := datastore.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(b, err)
	b.Cleanup(func() { _ = store.Close() })
	require.NoError(b, store.Import(context.Background(), syntheticDataset(n)))
	return NewVisualizer(store, testConfig(), WithClock(func() time.Time { return fixedNow }), WithSeed(1))
}

func BenchmarkSunburstTree(b *testing.B) {
	v := newBenchVisualizer(b, 1000)
	ctx := context.Background()
	for b.Loop() {
		if _, err := v.SunburstTree(ctx, schema.ReposVisual); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGraph(b *testing.B) {
	v := newBenchVisualizer(b, 1000)
	ctx := context.Background()
	for b.Loop() {
		if _, err := v.Graph(ctx, string(schema.AcceptedOnlyMode), schema.GraphTemplate); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDraggable(b *testing.B) {
	v := newBenchVisualizer(b, 1000)
	ctx := context.Background()
	for b.Loop() {
		if _, err := v.Draggable(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSteamgraph(b *testing.B) {
	v := newBenchVisualizer(b, 1000)
	ctx := context.Background()
	for b.Loop() {
		if _, err := v.Steamgraph(ctx, schema.DoneStatus); err != nil {
			b.Fatal(err)
		}
	}
}
