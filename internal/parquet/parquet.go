// Package parquet provides data structures and functions for exporting bountyviz
// payloads to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/huangsam/bountyviz/schema"
	"github.com/parquet-go/parquet-go"
)

// PathValue is one aggregated category path of a sunburst.
type PathValue struct {
	// Path is the dash-separated category path
	Path string `parquet:"path,snappy"`

	// Value is the summed value of the path
	Value float64 `parquet:"value,snappy"`
}

// GraphNode is one node of a network graph.
type GraphNode struct {
	// Index is the position referenced by links
	Index int32 `parquet:"node_index,snappy"`

	Name  string `parquet:"name,snappy"`
	Value int32  `parquet:"value,snappy"`
	Type  string `parquet:"node_type,snappy"`

	// Avatar is only set for nodes above the avatar threshold (nullable)
	Avatar *string `parquet:"avatar,optional,snappy"`
}

// GraphLink is one edge of a network graph.
type GraphLink struct {
	Source int32   `parquet:"source,snappy"`
	Target int32   `parquet:"target,snappy"`
	Value  float64 `parquet:"value,snappy"`
	Weight float64 `parquet:"weight,snappy"`
}

// SeriesPoint is one sample of a heatmap or spiral series.
type SeriesPoint struct {
	Timestamp string  `parquet:"timestamp,snappy"`
	Value     float64 `parquet:"value,snappy"`
}

// BubblePoint is one day of one actor in the draggable chart.
type BubblePoint struct {
	Name           string  `parquet:"name,snappy"`
	Day            int32   `parquet:"day,snappy"`
	Income         float64 `parquet:"income,snappy"`
	Population     float64 `parquet:"population,snappy"`
	LifeExpectancy float64 `parquet:"life_expectancy,snappy"`
}

// TableCell is one field of a tabular payload in long format.
type TableCell struct {
	Row    int32  `parquet:"row,snappy"`
	Column string `parquet:"column,snappy"`
	Value  string `parquet:"value,snappy"`
}

// writeRows writes a slice of records to a Parquet file at outputPath.
// The schema is derived from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WritePathValuesParquet writes sunburst paths to a Parquet file.
func WritePathValuesParquet(data []PathValue, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteGraphNodesParquet writes graph nodes to a Parquet file.
func WriteGraphNodesParquet(data []GraphNode, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteGraphLinksParquet writes graph links to a Parquet file.
func WriteGraphLinksParquet(data []GraphLink, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSeriesParquet writes series samples to a Parquet file.
func WriteSeriesParquet(data []SeriesPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteBubblesParquet writes draggable chart points to a Parquet file.
func WriteBubblesParquet(data []BubblePoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteTableParquet writes table cells to a Parquet file.
func WriteTableParquet(data []TableCell, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertPathValues converts sunburst paths for Parquet export.
func ConvertPathValues(paths []schema.PathValue) []PathValue {
	result := make([]PathValue, len(paths))
	for i, pv := range paths {
		result[i] = PathValue{Path: pv.Path, Value: pv.Value}
	}
	return result
}

// ConvertGraph converts a graph into node and link records for Parquet export.
func ConvertGraph(g schema.Graph) ([]GraphNode, []GraphLink) {
	nodes := make([]GraphNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = GraphNode{
			Index:  int32(i),
			Name:   n.Name,
			Value:  int32(n.Value),
			Type:   string(n.Type),
			Avatar: n.Avatar,
		}
	}
	links := make([]GraphLink, len(g.Links))
	for i, l := range g.Links {
		links[i] = GraphLink{
			Source: int32(l.Source),
			Target: int32(l.Target),
			Value:  l.Value,
			Weight: l.Weight,
		}
	}
	return nodes, links
}

// ConvertSeries converts series samples for Parquet export.
func ConvertSeries(series schema.Series) []SeriesPoint {
	result := make([]SeriesPoint, len(series.Data))
	for i, p := range series.Data {
		result[i] = SeriesPoint{Timestamp: p.Timestamp, Value: p.Value}
	}
	return result
}

// ConvertBubbles flattens draggable series into one record per actor and day.
// Days missing from any of the three tracks are skipped.
func ConvertBubbles(series []schema.BubbleSeries) []BubblePoint {
	var result []BubblePoint
	for _, s := range series {
		n := min(len(s.Income), len(s.Population), len(s.LifeExpectancy))
		for i := range n {
			result = append(result, BubblePoint{
				Name:           s.Name,
				Day:            int32(s.Income[i][0]),
				Income:         s.Income[i][1],
				Population:     s.Population[i][1],
				LifeExpectancy: s.LifeExpectancy[i][1],
			})
		}
	}
	return result
}

// ConvertTable converts a table into one cell record per field.
// Fields beyond the header are named by their position.
func ConvertTable(t schema.Table) []TableCell {
	var result []TableCell
	for r, row := range t.Rows {
		for c, value := range row {
			column := fmt.Sprintf("col%d", c)
			if c < len(t.Header) {
				column = t.Header[c]
			}
			result = append(result, TableCell{Row: int32(r), Column: column, Value: value})
		}
	}
	return result
}
