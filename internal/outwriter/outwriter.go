// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the CLI.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSunburst prints a sunburst hierarchy and its paths using the configured output format.
func (ow *OutWriter) WriteSunburst(root schema.TreeNode, paths []schema.PathValue, cfg *contract.Config) error {
	return PrintSunburst(root, paths, cfg)
}

// WriteGraph prints a network graph, or the stored payload standing in for it.
func (ow *OutWriter) WriteGraph(g schema.Graph, stored json.RawMessage, cfg *contract.Config) error {
	return PrintGraph(g, stored, cfg)
}

// WriteSeries prints a heatmap or spiral series using the configured output format.
func (ow *OutWriter) WriteSeries(series schema.Series, cfg *contract.Config) error {
	return PrintSeries(series, cfg)
}

// WriteTable prints a tabular payload using the configured output format.
func (ow *OutWriter) WriteTable(table schema.Table, cfg *contract.Config) error {
	return PrintTable(table, cfg)
}

// WriteBubbles prints the draggable chart series using the configured output format.
func (ow *OutWriter) WriteBubbles(series []schema.BubbleSeries, cfg *contract.Config) error {
	return PrintBubbles(series, cfg)
}
