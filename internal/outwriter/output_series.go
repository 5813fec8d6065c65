package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/parquet"
	"github.com/huangsam/bountyviz/schema"
)

// PrintSeries outputs a stat series, dispatching based on the output format configured.
func PrintSeries(series schema.Series, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, series)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, seriesRows(series, func(v float64) string {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.ConvertSeries(series), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			rows := seriesRows(series, fmtFloat)
			if err := renderTable(w, rows[0], rows[1:]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d samples\n", len(series.Data))
			return err
		}, "Wrote table")
	}
	return nil
}

// seriesRows returns a timestamp,value header followed by one row per sample.
func seriesRows(series schema.Series, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(series.Data)+1)
	rows = append(rows, []string{"timestamp", "value"})
	for _, p := range series.Data {
		rows = append(rows, []string{p.Timestamp, fmtFloat(p.Value)})
	}
	return rows
}
