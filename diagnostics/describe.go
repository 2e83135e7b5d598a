// Package diagnostics summarizes the shape and quality of a loaded cycling table.
package diagnostics

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

// ColumnStats are describe()-style statistics over the defined values of one column.
type ColumnStats struct {
	Name    string
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Median  float64
	Max     float64
}

// Report is the diagnostic view of a table.
type Report struct {
	Source        string
	Rows          int
	Cols          int
	DuplicateRows int
	Columns       []ColumnStats
}

// HasDuplicates reports whether any data row repeats an earlier one exactly.
func (r *Report) HasDuplicates() bool {
	return r.DuplicateRows > 0
}

// Column returns the stats for a named column.
func (r *Report) Column(name string) (ColumnStats, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Describe builds a report for t. The table is not modified.
func Describe(t *cycles.Table) (*Report, error) {
	if t == nil {
		return nil, cycles.NewError(cycles.KindUnloaded, "no table to describe", nil)
	}

	report := &Report{
		Source: t.Source,
		Rows:   t.Len(),
		Cols:   cycles.NumColumns,
	}
	report.DuplicateRows = countDuplicates(t.Records)

	if t.Len() == 0 {
		for _, name := range cycles.Columns {
			report.Columns = append(report.Columns, ColumnStats{
				Name: name, Mean: math.NaN(), Std: math.NaN(),
				Min: math.NaN(), Median: math.NaN(), Max: math.NaN(),
			})
		}
		return report, nil
	}

	records := make([][]string, 0, t.Len()+1)
	records = append(records, append([]string(nil), cycles.Columns...))
	for _, rec := range t.Records {
		row := make([]string, cycles.NumColumns)
		for i := range row {
			if v, ok := rec.Float(i); ok {
				row[i] = fmt.Sprint(v)
			} else {
				row[i] = "NaN"
			}
		}
		records = append(records, row)
	}

	df := dataframe.LoadRecords(
		records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("build frame: %w", df.Err)
	}
	report.Rows, report.Cols = df.Dims()

	for _, name := range df.Names() {
		report.Columns = append(report.Columns, describeColumn(df.Col(name)))
	}
	return report, nil
}

func describeColumn(col series.Series) ColumnStats {
	stats := ColumnStats{Name: col.Name}
	values := col.Float()
	defined := make([]float64, 0, len(values))
	for i, isNaN := range col.IsNaN() {
		if isNaN {
			stats.Missing++
			continue
		}
		defined = append(defined, values[i])
	}
	stats.Count = len(defined)
	if stats.Count == 0 {
		stats.Mean, stats.Std = math.NaN(), math.NaN()
		stats.Min, stats.Median, stats.Max = math.NaN(), math.NaN(), math.NaN()
		return stats
	}

	s := series.Floats(defined)
	stats.Mean = s.Mean()
	stats.Min = s.Min()
	stats.Median = s.Median()
	stats.Max = s.Max()
	stats.Std = math.NaN()
	if stats.Count > 1 {
		stats.Std = s.StdDev()
	}
	return stats
}

func countDuplicates(records []cycles.Record) int {
	seen := make(map[string]struct{}, len(records))
	dups := 0
	for _, rec := range records {
		key := strings.Join(rec.Fields, "\t")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// String renders the report as plain text.
func (r *Report) String() string {
	var b strings.Builder
	if r.Source != "" {
		fmt.Fprintf(&b, "source: %s\n", r.Source)
	}
	fmt.Fprintf(&b, "shape: %d rows x %d columns\n", r.Rows, r.Cols)
	fmt.Fprintf(&b, "duplicate rows: %d\n\n", r.DuplicateRows)
	fmt.Fprintf(&b, "%-26s %8s %8s %14s %14s %14s %14s %14s\n",
		"column", "count", "missing", "mean", "std", "min", "median", "max")
	for _, c := range r.Columns {
		fmt.Fprintf(&b, "%-26s %8d %8d %14s %14s %14s %14s %14s\n",
			c.Name, c.Count, c.Missing,
			formatStat(c.Mean), formatStat(c.Std), formatStat(c.Min), formatStat(c.Median), formatStat(c.Max))
	}
	return b.String()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
