package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/parquet"
	"github.com/huangsam/bountyviz/schema"
)

// PrintTable outputs a tabular payload, dispatching based on the output format configured.
func PrintTable(table schema.Table, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, TableRecords(table))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, table.AllRows())
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteTableParquet(parquet.ConvertTable(table), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := renderTable(w, table.Header, table.Rows); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d rows\n", len(table.Rows))
			return err
		}, "Wrote table")
	}
	return nil
}

// TableRecords converts rows into objects keyed by the header.
// Fields without a header column are dropped.
func TableRecords(table schema.Table) []map[string]string {
	out := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make(map[string]string, len(table.Header))
		for i, name := range table.Header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		out = append(out, record)
	}
	return out
}
