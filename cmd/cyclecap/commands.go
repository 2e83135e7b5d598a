package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/chart"
	"github.com/lucasjlepore/cycle-analyzer/pipeline"
)

func newTableCmd(a *app) *cobra.Command {
	var (
		rows  int
		notes bool
	)
	cmd := &cobra.Command{
		Use:   "table [file]",
		Short: "Print the first rows of the per-cycle capacity summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rows") {
				rows = a.cfg.Output.TableRows
			}
			an, err := a.loadAnalyzer(args)
			if err != nil {
				return err
			}
			s, err := an.Summary()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, cycles.FormatTable(cycles.Head(s, rows)))
			if notes {
				fmt.Fprintf(w, "\n%s\n", cycles.BuildNotes(s))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 11, "number of cycles to print")
	cmd.Flags().BoolVar(&notes, "notes", false, "append retention and efficiency notes")
	return cmd
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		out    string
		show   bool
		labels chart.Labels
	)
	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Render the max charge and max discharge capacity chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("out") {
				out = a.cfg.Output.ChartFile
			}
			if !flags.Changed("xlabel") {
				labels.X = a.cfg.Chart.XLabel
			}
			if !flags.Changed("ylabel") {
				labels.Y = a.cfg.Chart.YLabel
			}
			if !flags.Changed("title") {
				labels.Title = a.cfg.Chart.Title
			}

			an, err := a.loadAnalyzer(args)
			if err != nil {
				return err
			}
			spec, err := an.Chart(labels.X, labels.Y, labels.Title)
			if err != nil {
				return err
			}
			if err := pipeline.RenderChartFile(out, spec); err != nil {
				return fmt.Errorf("render %s: %w", out, err)
			}
			a.logger.Info("chart written", slog.String("path", out), slog.Int("points", spec.Points()))
			fmt.Fprintln(cmd.OutOrStdout(), out)

			if show {
				abs, err := filepath.Abs(out)
				if err != nil {
					return err
				}
				return browser.OpenFile(abs)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "capacity.png", "chart file; .svg renders SVG, anything else PNG")
	flags.BoolVar(&show, "show", false, "open the rendered chart with the system viewer")
	flags.StringVar(&labels.X, "xlabel", "", "x axis label")
	flags.StringVar(&labels.Y, "ylabel", "", "y axis label")
	flags.StringVar(&labels.Title, "title", "", "chart title")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [file]",
		Short: "Print shape, missing values, duplicates and column statistics of the log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := a.loadAnalyzer(args)
			if err != nil {
				return err
			}
			report, err := an.Diagnostics()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.String())
			return err
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var opts pipeline.Options
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Export the summary, chart, table and manifest into an output directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.inputPath(args)
			if err != nil {
				return err
			}
			cfg := a.cfg
			flags := cmd.Flags()
			if !flags.Changed("out") {
				opts.OutDir = cfg.Output.Dir
			}
			if !flags.Changed("format") {
				opts.Format = cfg.Output.Format
			}
			if !flags.Changed("chart-file") {
				opts.ChartFile = cfg.Output.ChartFile
			}
			if !flags.Changed("rows") {
				opts.TableRows = cfg.Output.TableRows
			}
			if !flags.Changed("overwrite") {
				opts.Overwrite = cfg.Output.Overwrite
			}
			if !flags.Changed("diagnostics") {
				opts.Diagnostics = cfg.Output.Diagnostics
			}
			opts.InputPath = path
			opts.SkipRows = cfg.Input.SkipRows
			opts.Lenient = cfg.Input.Lenient
			opts.Labels = chart.Labels{X: cfg.Chart.XLabel, Y: cfg.Chart.YLabel, Title: cfg.Chart.Title}
			opts.Logger = a.logger.Logger

			res, err := pipeline.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "run %s complete\n", res.RunID)
			fmt.Fprintf(w, "Output dir:     %s\n", res.OutputDir)
			fmt.Fprintf(w, "summary:        %s\n", res.SummaryPath)
			if res.ChartPath != "" {
				fmt.Fprintf(w, "chart:          %s\n", res.ChartPath)
			}
			fmt.Fprintf(w, "table:          %s\n", res.TablePath)
			fmt.Fprintf(w, "notes:          %s\n", res.NotesPath)
			if res.DiagnosticsPath != "" {
				fmt.Fprintf(w, "diagnostics:    %s\n", res.DiagnosticsPath)
			}
			if res.SourceCopyPath != "" {
				fmt.Fprintf(w, "source copy:    %s\n", res.SourceCopyPath)
			}
			fmt.Fprintf(w, "manifest.json:  %s\n", res.ManifestPath)
			fmt.Fprintf(w, "cycles:         %d (%d records, %d dropped)\n", res.Cycles, res.Records, res.DroppedRows)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.OutDir, "out", "o", "", "output directory")
	flags.StringVar(&opts.Format, "format", "csv", "summary format: csv|parquet|xlsx|sqlite|json")
	flags.StringVar(&opts.ChartFile, "chart-file", "capacity.png", "chart file name inside the output directory")
	flags.IntVarP(&opts.TableRows, "rows", "n", 11, "rows written to table.txt")
	flags.BoolVar(&opts.Overwrite, "overwrite", false, "allow writing into a non-empty output directory")
	flags.BoolVar(&opts.Diagnostics, "diagnostics", false, "also write diagnostics.txt")
	flags.BoolVar(&opts.CopySource, "copy-source", false, "copy the input log next to the artifacts")
	return cmd
}
