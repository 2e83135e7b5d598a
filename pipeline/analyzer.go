package pipeline

import (
	"log/slog"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/chart"
	"github.com/lucasjlepore/cycle-analyzer/diagnostics"
	"github.com/lucasjlepore/cycle-analyzer/logging"
)

// Analyzer drives load -> summarize -> present for one cycling log.
// It holds at most one loaded table and recomputes the summary on every request.
type Analyzer struct {
	path     string
	skipRows int
	loadOpts cycles.LoadOptions
	style    chart.Style
	logger   *slog.Logger

	table *cycles.Table
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLenientRows pads rows that have fewer fields than the schema instead of failing.
func WithLenientRows() Option {
	return func(a *Analyzer) { a.loadOpts.Lenient = true }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithChartStyle replaces the default chart cosmetics.
func WithChartStyle(st chart.Style) Option {
	return func(a *Analyzer) { a.style = st }
}

// New records the source path and the number of leading lines to skip. Nothing is read yet.
func New(path string, skipRows int, opts ...Option) *Analyzer {
	a := &Analyzer{
		path:     path,
		skipRows: skipRows,
		style:    chart.DefaultStyle(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Path returns the source path.
func (a *Analyzer) Path() string { return a.path }

// Load reads the source. A failed load leaves the analyzer unloaded.
func (a *Analyzer) Load() error {
	a.table = nil
	table, err := cycles.LoadTable(a.path, a.skipRows, a.loadOpts)
	if err != nil {
		a.logger.Error("load failed", slog.String("path", a.path), slog.Any("error", err))
		return err
	}
	a.table = table
	a.logger.Info("loaded cycling log",
		slog.String("path", a.path),
		slog.Int("skipped", table.Skipped),
		slog.Int("records", table.Len()),
		slog.Int("padded", table.Padded),
		slog.Int("blank_lines", table.BlankLines),
	)
	return nil
}

// Loaded reports whether Load has succeeded.
func (a *Analyzer) Loaded() bool {
	return a.table != nil
}

// Data returns the loaded table, or nil.
func (a *Analyzer) Data() *cycles.Table {
	return a.table
}

// Summary groups the loaded rows by cycle number.
func (a *Analyzer) Summary() (cycles.Summary, error) {
	if a.table == nil {
		return cycles.Summary{}, unloaded("summary")
	}
	s := cycles.Summarize(a.table)
	if s.DroppedRows > 0 {
		a.logger.Warn("rows without a usable cycle number were excluded", slog.Int("dropped", s.DroppedRows))
	}
	if s.Len() == 0 {
		return s, &cycles.Error{Kind: cycles.KindEmptyResult, Message: "no cycle groups", Path: a.path}
	}
	a.logger.Debug("summarized", slog.Int("cycles", s.Len()))
	return s, nil
}

// Table returns the first k summary rows.
func (a *Analyzer) Table(k int) ([]cycles.CycleCapacity, error) {
	s, err := a.Summary()
	if err != nil {
		return nil, err
	}
	return cycles.Head(s, k), nil
}

// Chart lays out the capacity chart with the given axis labels and title.
func (a *Analyzer) Chart(xLabel, yLabel, title string) (chart.Spec, error) {
	s, err := a.Summary()
	if err != nil {
		return chart.Spec{}, err
	}
	return chart.BuildSpec(s.Rows, chart.Labels{X: xLabel, Y: yLabel, Title: title}, a.style), nil
}

// Diagnostics describes the loaded table.
func (a *Analyzer) Diagnostics() (*diagnostics.Report, error) {
	if a.table == nil {
		return nil, unloaded("diagnostics")
	}
	return diagnostics.Describe(a.table)
}

func unloaded(op string) error {
	return cycles.NewError(cycles.KindUnloaded, op+" requested before a successful load", nil)
}
