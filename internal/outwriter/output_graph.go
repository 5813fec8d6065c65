package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/parquet"
	"github.com/huangsam/bountyviz/schema"
)

// PrintGraph outputs a network graph, dispatching based on the output format configured.
// A stored payload is only representable as JSON and is written verbatim.
func PrintGraph(g schema.Graph, stored json.RawMessage, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	if stored != nil {
		if cfg.Output != schema.JSONOut {
			contract.LogWarn("Stored graph payloads are written as JSON", fmt.Errorf("ignoring output format %q", cfg.Output))
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s\n", stored)
			return err
		}, "Wrote JSON")
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, g)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGraphCSV(w, g)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		nodes, links := parquet.ConvertGraph(g)
		if err := parquet.WriteGraphNodesParquet(nodes, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet nodes: %w", err)
		}
		if err := parquet.WriteGraphLinksParquet(links, LinksPath(cfg.OutputFile)); err != nil {
			return fmt.Errorf("error writing parquet links: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGraphTables(w, g, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// LinksPath returns the companion file of a graph export that holds its links.
func LinksPath(nodesPath string) string {
	ext := filepath.Ext(nodesPath)
	return strings.TrimSuffix(nodesPath, ext) + ".links" + ext
}

// writeGraphCSV writes the node list followed by the link list, each with its own header.
func writeGraphCSV(w io.Writer, g schema.Graph) error {
	nodeRows := [][]string{{"index", "name", "value", "type", "avatar"}}
	for i, n := range g.Nodes {
		avatar := ""
		if n.Avatar != nil {
			avatar = *n.Avatar
		}
		nodeRows = append(nodeRows, []string{strconv.Itoa(i), n.Name, strconv.Itoa(n.Value), string(n.Type), avatar})
	}
	linkRows := [][]string{{"source", "target", "value", "weight"}}
	for _, l := range g.Links {
		linkRows = append(linkRows, []string{
			strconv.Itoa(l.Source),
			strconv.Itoa(l.Target),
			strconv.FormatFloat(l.Value, 'f', -1, 64),
			strconv.FormatFloat(l.Weight, 'f', -1, 64),
		})
	}
	if err := writeCSV(w, nodeRows); err != nil {
		return err
	}
	return writeCSV(w, linkRows)
}

// writeGraphTables writes the human-readable node and link tables.
func writeGraphTables(w io.Writer, g schema.Graph, fmtFloat func(float64) string, intFmt string) error {
	nodes := make([][]string, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		avatar := ""
		if n.Avatar != nil {
			avatar = "yes"
		}
		nodes = append(nodes, []string{
			strconv.Itoa(i),
			n.Name,
			fmt.Sprintf(intFmt, n.Value),
			contract.GetColorLabel(n.Type),
			avatar,
		})
	}
	if err := renderTable(w, []string{"Index", "Name", "Value", "Type", "Avatar"}, nodes); err != nil {
		return err
	}

	links := make([][]string, 0, len(g.Links))
	for _, l := range g.Links {
		links = append(links, []string{
			g.Nodes[l.Source].Name,
			g.Nodes[l.Target].Name,
			fmtFloat(l.Value),
			fmtFloat(l.Weight),
		})
	}
	if err := renderTable(w, []string{"Source", "Target", "Value", "Weight"}, links); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d nodes and %d links\n", len(g.Nodes), len(g.Links))
	return err
}
