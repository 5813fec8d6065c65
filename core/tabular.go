package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/bountyviz/schema"
	"go.uber.org/zap"
)

// steamgraphDateLayout renders steamgraph days as MM/DD/YY.
const steamgraphDateLayout = "01/02/06"

const day = 24 * time.Hour

// ChordOptions lists the chord keys.
func ChordOptions() []string {
	return []string{schema.DefaultChordKey}
}

// Chord returns creditor,debtor,amount,risk rows for every accepted fulfillment
// of a finished bounty. Risk is the number of seconds between funding and fulfillment.
func (v *Visualizer) Chord(ctx context.Context) (schema.Table, error) {
	table := schema.Table{Header: []string{"creditor", "debtor", "amount", "risk"}}
	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{
		Network:     v.network(),
		Web3Type:    schema.BountiesNetwork,
		CurrentOnly: true,
		Status:      schema.DoneStatus,
	})
	if err != nil {
		return table, fmt.Errorf("failed to list bounties: %w", err)
	}

	funded := make(map[int64]schema.Bounty, len(bounties))
	ids := make([]int64, 0, len(bounties))
	for _, b := range bounties {
		if b.ValueInUSDTThen == 0 {
			continue
		}
		funded[b.ID] = b
		ids = append(ids, b.ID)
	}
	fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{AcceptedOnly: true, BountyIDs: ids})
	if err != nil {
		return table, fmt.Errorf("failed to list fulfillments: %w", err)
	}
	byBounty := make(map[int64][]schema.Fulfillment, len(ids))
	for _, f := range fulfillments {
		byBounty[f.BountyID] = append(byBounty[f.BountyID], f)
	}

	for _, id := range ids {
		b := funded[id]
		for _, f := range byBounty[id] {
			risk := int64(f.CreatedOn.Sub(b.Web3Created) / time.Second)
			table.Rows = append(table.Rows, []string{
				strings.ToLower(b.OwnerUsername),
				strings.ToLower(f.FulfillerUsername),
				formatNumber(b.ValueInUSDTThen),
				strconv.FormatInt(risk, 10),
			})
		}
	}
	return table, nil
}

// ChordPage returns the shell parameters of the chord page.
func (v *Visualizer) ChordPage(key string) schema.Page {
	options := ChordOptions()
	key = ResolveOption(options, key)
	return schema.Page{
		Key:         key,
		VizType:     key,
		PageRoute:   string(schema.ChordTemplate),
		Template:    schema.ChordTemplate,
		TypeOptions: options,
	}
}

// SteamgraphOptions lists the bounty statuses a steamgraph can show.
func (v *Visualizer) SteamgraphOptions(ctx context.Context) ([]string, error) {
	statuses, err := v.store.DistinctStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

// Steamgraph returns key,value,date rows: for each day of the window and each org
// with bounties in the status, the value of those bounties active that day.
func (v *Visualizer) Steamgraph(ctx context.Context, key string) (schema.Table, error) {
	table := schema.Table{Header: []string{"key", "value", "date"}}
	options, err := v.SteamgraphOptions(ctx)
	if err != nil {
		return table, err
	}
	key = ResolveOption(options, key)

	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{
		Network:  v.network(),
		Web3Type: schema.BountiesNetwork,
		Status:   key,
	})
	if err != nil {
		return table, fmt.Errorf("failed to list bounties: %w", err)
	}

	byOrg := make(map[string][]schema.Bounty)
	var orgs []string
	for _, b := range bounties {
		if b.OrgName == "" {
			continue
		}
		byOrg[b.OrgName] = append(byOrg[b.OrgName], b)
		orgs = append(orgs, b.OrgName)
	}
	orgs = sortedUnique(orgs)

	end := v.now()
	for current := end.Add(-time.Duration(v.cfg.SteamgraphDays) * day); current.Before(end); current = current.Add(day) {
		date := current.Format(steamgraphDateLayout)
		for _, org := range orgs {
			weight := 0.0
			for _, b := range byOrg[org] {
				if b.ValueInUSDTThen != 0 && b.WasActiveAt(current) {
					weight += b.ValueInUSDTThen
				}
			}
			table.Rows = append(table.Rows, []string{org, formatNumber(math.Round(weight*100) / 100), date})
		}
	}
	return table, nil
}

// SteamgraphPage returns the shell parameters of the steamgraph page.
func (v *Visualizer) SteamgraphPage(ctx context.Context, key string) (schema.Page, error) {
	options, err := v.SteamgraphOptions(ctx)
	key = ResolveOption(options, key)
	return schema.Page{
		Key:         key,
		VizType:     key,
		PageRoute:   string(schema.SteamgraphTemplate),
		Template:    schema.SteamgraphTemplate,
		TypeOptions: options,
	}, err
}

// ScatterplotOptions lists the scatterplot keys.
func ScatterplotOptions() []string {
	return []string{schema.DefaultScatterplotKey}
}

// errSkipRecord marks a record that cannot be plotted.
var errSkipRecord = errors.New("record skipped")

// Scatterplot returns hourlyRate,daysBack,username,weight rows for accepted
// fulfillments that report hours worked. Records with missing or invalid
// numbers are skipped.
func (v *Visualizer) Scatterplot(ctx context.Context) (schema.Table, error) {
	table := schema.Table{Header: []string{"hourlyRate", "daysBack", "username", "weight"}}
	fulfillments, err := v.store.ListFulfillments(ctx, schema.FulfillmentFilter{AcceptedOnly: true})
	if err != nil {
		return table, fmt.Errorf("failed to list fulfillments: %w", err)
	}
	bounties, err := v.store.ListBounties(ctx, schema.BountyFilter{})
	if err != nil {
		return table, fmt.Errorf("failed to list bounties: %w", err)
	}
	byID := make(map[int64]schema.Bounty, len(bounties))
	for _, b := range bounties {
		byID[b.ID] = b
	}

	hours := make(map[int64]float64)
	for _, f := range fulfillments {
		if f.HoursWorked != nil {
			hours[f.BountyID] += *f.HoursWorked
		}
	}

	now := v.now()
	for _, f := range fulfillments {
		if f.HoursWorked == nil {
			continue
		}
		row, err := scatterRow(f, byID, hours, now)
		if err != nil {
			v.logger.Debug("skipping scatterplot record", zap.Int64("fulfillment", f.ID), zap.Error(err))
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func scatterRow(f schema.Fulfillment, bounties map[int64]schema.Bounty, hours map[int64]float64, now time.Time) ([]string, error) {
	b, ok := bounties[f.BountyID]
	if !ok {
		return nil, fmt.Errorf("%w: bounty %d not found", errSkipRecord, f.BountyID)
	}
	if f.AcceptedOn == nil {
		return nil, fmt.Errorf("%w: no acceptance time", errSkipRecord)
	}
	if !(b.ValueInUSDT > 0) {
		return nil, fmt.Errorf("%w: non-positive value %v", errSkipRecord, b.ValueInUSDT)
	}
	total := hours[f.BountyID]
	if !(total > 0) {
		return nil, fmt.Errorf("%w: no hours worked on bounty %d", errSkipRecord, f.BountyID)
	}
	daysBack := int64(math.Floor(now.Sub(*f.AcceptedOn).Hours() / 24))
	return []string{
		formatNumber(b.ValueInUSDT / total),
		strconv.FormatInt(daysBack, 10),
		f.FulfillerUsername,
		formatNumber(math.Log10(b.ValueInUSDT) / 4),
	}, nil
}

// ScatterplotPage returns the shell parameters of the scatterplot page.
func (v *Visualizer) ScatterplotPage(key string) schema.Page {
	options := ScatterplotOptions()
	key = ResolveOption(options, key)
	return schema.Page{
		Key:         key,
		VizType:     key,
		PageRoute:   string(schema.ScatterplotTemplate),
		Template:    schema.ScatterplotTemplate,
		TypeOptions: options,
	}
}
