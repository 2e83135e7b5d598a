package pipeline

import (
	"log/slog"
	"math"
	"time"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/chart"
)

// ManifestFormatVersion identifies the manifest.json layout.
const ManifestFormatVersion = "cyclecap.v1"

// DefaultTableRows is the number of cycles written to table.txt when Options.TableRows is zero.
const DefaultTableRows = 11

// Summary export formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatXLSX    = "xlsx"
	FormatSQLite  = "sqlite"
	FormatJSON    = "json"
)

// Formats lists every supported summary format.
var Formats = []string{FormatCSV, FormatParquet, FormatXLSX, FormatSQLite, FormatJSON}

// Options configures Run.
type Options struct {
	InputPath   string
	SkipRows    int
	Lenient     bool
	OutDir      string
	Format      string // csv|parquet|xlsx|sqlite|json
	ChartFile   string // capacity.png or capacity.svg
	TableRows   int
	Labels      chart.Labels
	Overwrite   bool
	Diagnostics bool
	CopySource  bool
	Logger      *slog.Logger
}

// Result returns generated output paths and counts.
type Result struct {
	RunID           string `json:"run_id"`
	OutputDir       string `json:"output_dir"`
	ManifestPath    string `json:"manifest_path"`
	SummaryPath     string `json:"summary_path"`
	ChartPath       string `json:"chart_path,omitempty"`
	TablePath       string `json:"table_path"`
	NotesPath       string `json:"notes_path"`
	DiagnosticsPath string `json:"diagnostics_path,omitempty"`
	SourceCopyPath  string `json:"source_copy_path,omitempty"`
	Records         int    `json:"records"`
	Cycles          int    `json:"cycles"`
	DroppedRows     int    `json:"dropped_rows"`
}

// Manifest describes one run and its artifacts.
type Manifest struct {
	FormatVersion   string    `json:"format_version"`
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	SourceFile      string    `json:"source_file"`
	SourceFileName  string    `json:"source_file_name"`
	SourceSHA256    string    `json:"source_sha256"`
	SourceSizeBytes int64     `json:"source_size_bytes"`
	SkipRows        int       `json:"skip_rows"`
	Lenient         bool      `json:"lenient"`
	RecordCount     int       `json:"record_count"`
	CycleCount      int       `json:"cycle_count"`
	DroppedRows     int       `json:"dropped_rows"`
	PaddedRows      int       `json:"padded_rows"`
	BlankLines      int       `json:"blank_lines"`
	SummaryFormat   string    `json:"summary_format"`
	Artifacts       []string  `json:"artifacts"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// SummaryRow is the JSON form of one cycle. Undefined maxima are null.
type SummaryRow struct {
	CycleNumber     int64    `json:"cycle_number"`
	MaxChargeMAh    *float64 `json:"max_charge_mah"`
	MaxDischargeMAh *float64 `json:"max_discharge_mah"`
	Records         int      `json:"records"`
}

func summaryRows(rows []cycles.CycleCapacity) []SummaryRow {
	out := make([]SummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SummaryRow{
			CycleNumber:     r.Cycle,
			MaxChargeMAh:    ptrOrNil(r.MaxCharge),
			MaxDischargeMAh: ptrOrNil(r.MaxDischarge),
			Records:         r.Records,
		})
	}
	return out
}

func ptrOrNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
