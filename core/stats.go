package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/bountyviz/schema"
)

// Layouts of the stat-driven payloads.
const (
	hourTimestampLayout = "2006-01-02T15:00:00"
	dayLayout           = "2006-01-02"
)

// heatmapScale is the top of the JSON heatmap color scale.
const heatmapScale = 800.0

// calendarHour is the hour of day whose samples represent a whole day.
const calendarHour = 1

// StatSeries is the resolved data of a heatmap, calendar or spiral request.
type StatSeries struct {
	Key     string
	Options []string
	Stats   []schema.Stat
}

// statKeys returns the distinct keys of the stats in ascending order.
func statKeys(stats []schema.Stat) []string {
	keys := make([]string, len(stats))
	for i, st := range stats {
		keys[i] = st.Key
	}
	return sortedUnique(keys)
}

// loadStats reads stats with the base filter, derives the key options and keeps the requested key.
func (v *Visualizer) loadStats(ctx context.Context, key string, base schema.StatFilter) (StatSeries, error) {
	out := StatSeries{Key: key}
	stats, err := v.store.ListStats(ctx, base)
	if err != nil {
		return out, fmt.Errorf("failed to list stats: %w", err)
	}
	out.Options = statKeys(stats)
	out.Key = ResolveOption(out.Options, key)
	for _, st := range stats {
		if st.Key == out.Key {
			out.Stats = append(out.Stats, st)
		}
	}
	return out, nil
}

// HeatmapStats returns the stats of a heatmap or calendar page, newest first.
// The calendar keeps one sample per day, the heatmap the recent weeks.
func (v *Visualizer) HeatmapStats(ctx context.Context, key string, template schema.Template) (StatSeries, error) {
	now := v.now()
	filter := schema.StatFilter{CreatedBefore: now}
	if template == schema.CalendarTemplate {
		hour := calendarHour
		filter.Hour = &hour
	} else {
		filter.CreatedAfter = now.Add(-time.Duration(v.cfg.HeatmapWeeks) * 7 * 24 * time.Hour)
	}
	series, err := v.loadStats(ctx, key, filter)
	slices.Reverse(series.Stats)
	return series, err
}

// HeatmapSeries scales val_since_hour to the heatmap color range.
func HeatmapSeries(stats []schema.Stat) schema.Series {
	maxVal := 0.0
	for _, st := range stats {
		maxVal = max(maxVal, st.ValSinceHour)
	}
	out := schema.Series{Data: make([]schema.SeriesPoint, 0, len(stats))}
	for _, st := range stats {
		value := 0.0
		if maxVal != 0 {
			value = st.ValSinceHour * heatmapScale / maxVal
		}
		out.Data = append(out.Data, schema.SeriesPoint{
			Timestamp: st.CreatedOn.UTC().Format(hourTimestampLayout),
			Value:     value,
		})
	}
	return out
}

// HeatmapTable returns Date,Value rows with val_since_yesterday relative to its maximum.
func HeatmapTable(stats []schema.Stat) schema.Table {
	maxVal := 0.0
	for _, st := range stats {
		maxVal = max(maxVal, st.ValSinceYesterday)
	}
	table := schema.Table{Header: []string{"Date", "Value"}, Rows: make([][]string, 0, len(stats))}
	for _, st := range stats {
		value := "0"
		if maxVal != 0 {
			value = formatNumber(st.ValSinceYesterday / maxVal)
		}
		table.Rows = append(table.Rows, []string{st.CreatedOn.UTC().Format(dayLayout), value})
	}
	return table
}

// HeatmapPage returns the shell parameters of the heatmap or calendar page.
func (v *Visualizer) HeatmapPage(ctx context.Context, key string, template schema.Template) (schema.Page, error) {
	series, err := v.HeatmapStats(ctx, key, template)
	return schema.Page{
		Key:         series.Key,
		VizType:     series.Key,
		PageRoute:   string(template),
		Template:    template,
		TypeOptions: series.Options,
	}, err
}

// SpiralStats returns the daily samples of a key, oldest first.
func (v *Visualizer) SpiralStats(ctx context.Context, key string) (StatSeries, error) {
	hour := calendarHour
	return v.loadStats(ctx, key, schema.StatFilter{Hour: &hour})
}

// SpiralSeries returns the raw value of every sample.
func SpiralSeries(stats []schema.Stat) schema.Series {
	out := schema.Series{Data: make([]schema.SeriesPoint, 0, len(stats))}
	for _, st := range stats {
		out.Data = append(out.Data, schema.SeriesPoint{
			Timestamp: st.CreatedOn.UTC().Format(hourTimestampLayout),
			Value:     st.Val,
		})
	}
	return out
}

// SpiralPage returns the shell parameters of the spiral page.
func (v *Visualizer) SpiralPage(ctx context.Context, key string) (schema.Page, error) {
	series, err := v.SpiralStats(ctx, key)
	return schema.Page{
		Key:         series.Key,
		VizType:     series.Key,
		PageRoute:   string(schema.SpiralTemplate),
		Template:    schema.SpiralTemplate,
		TypeOptions: series.Options,
	}, err
}
