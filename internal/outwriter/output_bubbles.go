package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/parquet"
	"github.com/huangsam/bountyviz/schema"
)

// PrintBubbles outputs the draggable chart, dispatching based on the output format configured.
func PrintBubbles(series []schema.BubbleSeries, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	points := parquet.ConvertBubbles(series)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, series)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, bubbleRows(points, func(v float64) string {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBubblesParquet(points, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			rows := bubbleRows(points, fmtFloat)
			if err := renderTable(w, rows[0], rows[1:]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d actors over %d points\n", len(series), len(points))
			return err
		}, "Wrote table")
	}
	return nil
}

// bubbleRows returns a header followed by one row per actor and day.
func bubbleRows(points []parquet.BubblePoint, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(points)+1)
	rows = append(rows, []string{"name", "day", "income", "population", "lifeExpectancy"})
	for _, p := range points {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(int(p.Day)),
			fmtFloat(p.Income),
			fmtFloat(p.Population),
			fmtFloat(p.LifeExpectancy),
		})
	}
	return rows
}
