package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

var summaryHeader = []string{"cycle_number", "max_charge_mah", "max_discharge_mah", "records"}

// writeSummary writes rows to path in the given format.
func writeSummary(ctx context.Context, path, format string, rows []cycles.CycleCapacity, o Options) error {
	switch format {
	case FormatCSV:
		return writeSummaryCSV(path, rows)
	case FormatParquet:
		return writeSummaryParquet(path, rows)
	case FormatXLSX:
		return writeSummaryWorkbook(path, rows, o.Labels)
	case FormatSQLite:
		return writeSummarySQLite(ctx, path, rows)
	case FormatJSON:
		return writeJSON(path, summaryRows(rows))
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeSummaryCSV(path string, rows []cycles.CycleCapacity) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.Cycle, 10),
			formatCapacity(r.MaxCharge),
			formatCapacity(r.MaxDischarge),
			strconv.Itoa(r.Records),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return cycles.NewError(cycles.KindConfig,
			fmt.Sprintf("output directory is not empty: %s (set overwrite to allow)", path), nil)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// formatCapacity renders a maximum for text formats; undefined values are empty.
func formatCapacity(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
