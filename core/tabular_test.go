package core

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChord(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	table, err := v.Chord(context.Background())
	require.NoError(t, err)

	risk := (4*testDay + 12*time.Hour) / time.Second
	assert.Equal(t, schema.Table{
		Header: []string{"creditor", "debtor", "amount", "risk"},
		Rows:   [][]string{{"owner-one", "alice", "100", formatNumber(float64(risk))}},
	}, table)

	page := v.ChordPage("unknown")
	assert.Equal(t, "bounties_paid", page.Key)
	assert.Equal(t, "chord", page.PageRoute)
}

func TestSteamgraph(t *testing.T) {
	cfg := testConfig()
	cfg.SteamgraphDays = 5
	v := newTestVisualizer(t, cfg)
	ctx := context.Background()

	table, err := v.Steamgraph(ctx, "open")
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value", "date"}, table.Header)
	assert.Equal(t, [][]string{
		{"ethereum", "0", "03/15/24"},
		{"ethereum", "0", "03/16/24"},
		{"ethereum", "50", "03/17/24"},
		{"ethereum", "50", "03/18/24"},
		{"ethereum", "50", "03/19/24"},
	}, table.Rows)

	// Unknown keys fall back to the first status
	done, err := v.Steamgraph(ctx, "nope")
	require.NoError(t, err)
	require.Len(t, done.Rows, 5)
	for _, row := range done.Rows {
		assert.Equal(t, "gitcoin-co", row[0])
		assert.Equal(t, "0", row[1])
	}

	page, err := v.SteamgraphPage(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, "done", page.Key)
	assert.Equal(t, []string{"done", "open", "started"}, page.TypeOptions)
}

func TestSteamgraph_ActiveWindow(t *testing.T) {
	cfg := testConfig()
	cfg.SteamgraphDays = 11
	v := newTestVisualizer(t, cfg)

	table, err := v.Steamgraph(context.Background(), "done")
	require.NoError(t, err)
	require.Len(t, table.Rows, 11)
	active := 0
	for _, row := range table.Rows {
		if row[1] == "100" {
			active++
		}
	}
	// Active from creation up to the day before closing
	assert.Equal(t, 5, active)
}

func TestScatterplot(t *testing.T) {
	v := newTestVisualizer(t, testConfig())
	table, err := v.Scatterplot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, schema.Table{
		Header: []string{"hourlyRate", "daysBack", "username", "weight"},
		Rows:   [][]string{{"30", "6", "Alice", formatNumber(math.Log10(120) / 4)}},
	}, table)

	page := v.ScatterplotPage("")
	assert.Equal(t, "hourly_rate", page.Key)
	assert.Equal(t, schema.ScatterplotTemplate, page.Template)
}

func TestScatterRow_Skips(t *testing.T) {
	accepted := fixedNow.Add(-testDay)
	f := schema.Fulfillment{ID: 1, BountyID: 1, FulfillerUsername: "x", AcceptedOn: &accepted, HoursWorked: ptrFloat(2)}
	bounties := map[int64]schema.Bounty{1: {ID: 1, ValueInUSDT: 10}}

	row, err := scatterRow(f, bounties, map[int64]float64{1: 2}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "1", "x", "0.25"}, row)

	_, err = scatterRow(f, bounties, map[int64]float64{1: 0}, fixedNow)
	assert.ErrorIs(t, err, errSkipRecord)

	_, err = scatterRow(f, map[int64]schema.Bounty{}, map[int64]float64{1: 2}, fixedNow)
	assert.ErrorIs(t, err, errSkipRecord)

	_, err = scatterRow(f, map[int64]schema.Bounty{1: {ID: 1, ValueInUSDT: math.NaN()}}, map[int64]float64{1: 2}, fixedNow)
	assert.ErrorIs(t, err, errSkipRecord)

	f.AcceptedOn = nil
	_, err = scatterRow(f, bounties, map[int64]float64{1: 2}, fixedNow)
	assert.ErrorIs(t, err, errSkipRecord)
}
