package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/config"
	"github.com/lucasjlepore/cycle-analyzer/logging"
	"github.com/lucasjlepore/cycle-analyzer/pipeline"
)

// app carries the resolved configuration and logger shared by every subcommand.
type app struct {
	configPath string
	skip       int
	lenient    bool
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cyclecap",
		Short: "Per-cycle charge and discharge capacity from battery cycling logs.",
		Long: `cyclecap reads a tab-separated cycling log, skips its header block, groups rows by ` +
			`cycle number and reports the maximum charge and discharge capacity of every cycle ` +
			`as a table, a chart or a set of exported artifacts.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.IntVar(&a.skip, "skip", 74, "leading lines to skip before the data rows")
	pf.BoolVar(&a.lenient, "lenient", false, "pad rows with missing trailing fields instead of failing")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(
		newTableCmd(a),
		newPlotCmd(a),
		newDescribeCmd(a),
		newRunCmd(a),
	)
	return root
}

// setup layers command-line flags over the loaded configuration and opens the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("skip") {
		cfg.Input.SkipRows = a.skip
	}
	if flags.Changed("lenient") {
		cfg.Input.Lenient = a.lenient
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	atexit.Register(func() { _ = logger.Close() })

	a.cfg = cfg
	a.logger = logger
	return nil
}

// inputPath prefers the positional argument over input.path from configuration.
func (a *app) inputPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.cfg.Input.Path != "" {
		return a.cfg.Input.Path, nil
	}
	return "", cycles.NewError(cycles.KindConfig, "no input file given", errors.New("pass a path or set input.path"))
}

// loadAnalyzer builds and loads an analyzer for the resolved input.
func (a *app) loadAnalyzer(args []string) (*pipeline.Analyzer, error) {
	path, err := a.inputPath(args)
	if err != nil {
		return nil, err
	}
	opts := []pipeline.Option{pipeline.WithLogger(a.logger.Logger)}
	if a.cfg.Input.Lenient {
		opts = append(opts, pipeline.WithLenientRows())
	}
	an := pipeline.New(path, a.cfg.Input.SkipRows, opts...)
	if err := an.Load(); err != nil {
		return nil, err
	}
	a.logger.Debug("analyzer ready", slog.String("path", path))
	return an, nil
}
