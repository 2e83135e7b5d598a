// Package pipeline runs the cycling-log analysis end to end and exports its artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/chart"
	"github.com/lucasjlepore/cycle-analyzer/logging"
)

// Run loads the log, summarizes it and writes every artifact into opts.OutDir.
// Output files:
//   - summary.<format>
//   - capacity.png|svg (omitted when nothing is drawable)
//   - table.txt
//   - notes.txt
//   - diagnostics.txt (optional)
//   - source<ext> (optional)
//   - manifest.json
func Run(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, cycles.NewError(cycles.KindConfig, "input path is required", nil)
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, cycles.NewError(cycles.KindConfig, "output directory is required", nil)
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatCSV
	}
	if !slices.Contains(Formats, format) {
		return nil, cycles.NewError(cycles.KindConfig,
			fmt.Sprintf("unsupported format %q (expected %s)", format, strings.Join(Formats, "|")), nil)
	}
	chartFile := opts.ChartFile
	if chartFile == "" {
		chartFile = "capacity.png"
	}
	if opts.TableRows == 0 {
		opts.TableRows = DefaultTableRows
	}
	if opts.Labels == (chart.Labels{}) {
		opts.Labels = chart.DefaultLabels()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	runID := newRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger.InfoContext(ctx, "run started", slog.String("input", opts.InputPath), slog.String("format", format))

	analyzerOpts := []Option{WithLogger(logger)}
	if opts.Lenient {
		analyzerOpts = append(analyzerOpts, WithLenientRows())
	}
	a := New(opts.InputPath, opts.SkipRows, analyzerOpts...)
	if err := a.Load(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := a.Summary()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       runID,
		OutputDir:   opts.OutDir,
		Records:     a.Data().Len(),
		Cycles:      summary.Len(),
		DroppedRows: summary.DroppedRows,
	}
	var artifacts, warnings []string

	res.SummaryPath = filepath.Join(opts.OutDir, "summary."+format)
	if err := writeSummary(ctx, res.SummaryPath, format, summary.Rows, opts); err != nil {
		return nil, fmt.Errorf("write summary.%s: %w", format, err)
	}
	artifacts = append(artifacts, filepath.Base(res.SummaryPath))
	logger.InfoContext(ctx, "summary written", slog.String("path", res.SummaryPath), slog.Int("cycles", summary.Len()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec := chart.BuildSpec(summary.Rows, opts.Labels, chart.DefaultStyle())
	chartPath := filepath.Join(opts.OutDir, chartFile)
	switch err := RenderChartFile(chartPath, spec); {
	case errors.Is(err, chart.ErrNothingToRender):
		warnings = append(warnings, "chart skipped: no cycle has a defined charge or discharge maximum")
		logger.WarnContext(ctx, "chart skipped", slog.String("reason", err.Error()))
	case err != nil:
		return nil, fmt.Errorf("write %s: %w", chartFile, err)
	default:
		res.ChartPath = chartPath
		artifacts = append(artifacts, chartFile)
	}

	res.TablePath = filepath.Join(opts.OutDir, "table.txt")
	if err := writeText(res.TablePath, cycles.FormatTable(cycles.Head(summary, opts.TableRows))); err != nil {
		return nil, fmt.Errorf("write table.txt: %w", err)
	}
	artifacts = append(artifacts, "table.txt")

	res.NotesPath = filepath.Join(opts.OutDir, "notes.txt")
	if err := writeText(res.NotesPath, cycles.BuildNotes(summary)+"\n"); err != nil {
		return nil, fmt.Errorf("write notes.txt: %w", err)
	}
	artifacts = append(artifacts, "notes.txt")

	if opts.Diagnostics {
		report, err := a.Diagnostics()
		if err != nil {
			return nil, fmt.Errorf("describe table: %w", err)
		}
		res.DiagnosticsPath = filepath.Join(opts.OutDir, "diagnostics.txt")
		if err := writeText(res.DiagnosticsPath, report.String()); err != nil {
			return nil, fmt.Errorf("write diagnostics.txt: %w", err)
		}
		artifacts = append(artifacts, "diagnostics.txt")
		if report.HasDuplicates() {
			warnings = append(warnings, fmt.Sprintf("%d duplicate rows in source", report.DuplicateRows))
		}
	}

	if opts.CopySource {
		res.SourceCopyPath = filepath.Join(opts.OutDir, "source"+filepath.Ext(opts.InputPath))
		if err := copyFile(opts.InputPath, res.SourceCopyPath); err != nil {
			return nil, fmt.Errorf("copy source file: %w", err)
		}
		artifacts = append(artifacts, filepath.Base(res.SourceCopyPath))
	}

	manifest, err := buildManifest(runID, opts, format, a.Data(), summary)
	if err != nil {
		return nil, fmt.Errorf("hash source: %w", err)
	}
	manifest.Artifacts = artifacts
	manifest.Warnings = warnings
	res.ManifestPath = filepath.Join(opts.OutDir, "manifest.json")
	if err := writeJSON(res.ManifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	logger.InfoContext(ctx, "run finished", slog.String("out_dir", opts.OutDir), slog.Int("artifacts", len(artifacts)+1))
	return res, nil
}

// RenderChartFile renders spec to path, choosing PNG or SVG by extension.
func RenderChartFile(path string, spec chart.Spec) error {
	if spec.Empty() {
		return chart.ErrNothingToRender
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := chart.Render(f, spec, chart.FormatFromPath(path)); err != nil {
		return err
	}
	return f.Close()
}
