package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/parquet"
	"github.com/huangsam/bountyviz/schema"
)

// PrintSunburst outputs a sunburst, dispatching based on the output format configured.
// JSON carries the merged hierarchy; the other formats carry the flat paths.
func PrintSunburst(root schema.TreeNode, paths []schema.PathValue, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, root)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, sunburstCSVRows(paths))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WritePathValuesParquet(parquet.ConvertPathValues(paths), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSunburstTable(w, paths, fmtFloat, GetMaxTablePathWidth(cfg))
		}, "Wrote table")
	}
	return nil
}

// sunburstCSVRows returns a path,value header followed by one row per path.
func sunburstCSVRows(paths []schema.PathValue) [][]string {
	rows := make([][]string, 0, len(paths)+1)
	rows = append(rows, []string{"path", "value"})
	for _, pv := range paths {
		rows = append(rows, []string{pv.Path, strconv.FormatFloat(pv.Value, 'f', -1, 64)})
	}
	return rows
}

// writeSunburstTable writes the human-readable path table.
func writeSunburstTable(w io.Writer, paths []schema.PathValue, fmtFloat func(float64) string, pathWidth int) error {
	data := make([][]string, 0, len(paths))
	total := 0.0
	for i, pv := range paths {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(pv.Path, pathWidth),
			fmtFloat(pv.Value),
		})
		total += pv.Value
	}
	if err := renderTable(w, []string{"Rank", "Path", "Value"}, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d paths (total value: %s)\n", len(paths), fmtFloat(total))
	return err
}
