package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/pkg/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/config"
	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/report"
	"github.com/Sumatoshi-tech/importcheck/pkg/scanner"
	"github.com/Sumatoshi-tech/importcheck/pkg/terminal"
)

// Check command flag names.
const (
	flagExclude      = "exclude"
	flagIgnore       = "ignore"
	flagExt          = "ext"
	flagFormat       = "format"
	flagNoColor      = "no-color"
	flagSilent       = "silent"
	flagWorkers      = "workers"
	flagAliasKey     = "alias-key"
	flagNoDuplicates = "no-duplicates"
	flagSkipVendor   = "skip-vendor"
	flagMaxFileSize  = "max-file-size"
	flagNoReport     = "no-report"
	flagNoScript     = "no-script"
	flagLogLevel     = "log-level"
)

// CheckCommand holds the check command flag values.
type CheckCommand struct {
	exclude      []string
	ignore       []string
	extensions   []string
	format       string
	aliasKey     string
	maxFileSize  string
	logLevel     string
	workers      int
	noColor      bool
	silent       bool
	noDuplicates bool
	skipVendor   bool
	noReport     bool
	noScript     bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cc := &CheckCommand{}

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Report unused and duplicate imports under a directory",
		Long: `Scan every .ts/.tsx file under path (default: the current directory) and report
imported bindings that are never referenced and bindings imported twice from the
same module.

The report is printed to stdout. Unless disabled, import-check-report.json and a
fix-unused-imports.sh review script are written to the scanned directory.
The command exits with status 1 when at least one unused import is found.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cc.run,
	}

	defaults := config.Default()

	cmd.Flags().StringSliceVar(&cc.exclude, flagExclude, defaults.Scan.Exclude, "Path fragments to skip")
	cmd.Flags().StringSliceVar(&cc.ignore, flagIgnore, nil, "Glob patterns to skip (e.g. '**/*.d.ts')")
	cmd.Flags().StringSliceVar(&cc.extensions, flagExt, defaults.Scan.Extensions, "File extensions to check")
	cmd.Flags().StringVar(&cc.format, flagFormat, defaults.Output.Format, "Output format: text, json, yaml, plot")
	cmd.Flags().BoolVar(&cc.noColor, flagNoColor, false, "Disable colored output")
	cmd.Flags().BoolVar(&cc.silent, flagSilent, false, "Disable progress output")
	cmd.Flags().IntVar(&cc.workers, flagWorkers, defaults.Scan.Workers, "Number of files analysed concurrently")
	cmd.Flags().StringVar(&cc.aliasKey, flagAliasKey, defaults.Analysis.AliasKey,
		"Name of 'A as B' that must be referenced: local or imported")
	cmd.Flags().BoolVar(&cc.noDuplicates, flagNoDuplicates, false, "Do not report duplicate imports")
	cmd.Flags().BoolVar(&cc.skipVendor, flagSkipVendor, false, "Skip vendored paths")
	cmd.Flags().StringVar(&cc.maxFileSize, flagMaxFileSize, defaults.Scan.MaxFileSize,
		"Skip larger files (e.g. '1MiB', '500kB'; empty = unlimited)")
	cmd.Flags().BoolVar(&cc.noReport, flagNoReport, false, "Do not write "+report.ReportFileName)
	cmd.Flags().BoolVar(&cc.noScript, flagNoScript, false, "Do not write "+report.ScriptFileName)
	cmd.Flags().StringVar(&cc.logLevel, flagLogLevel, defaults.Logging.Level, "Log level: debug, info, warn, error")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cc.applyFlags(cmd, cfg, args)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	providers, err := initObservability(cfg, observabilityOptions{
		mode:      observability.ModeCLI,
		logOutput: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer shutdownObservability(providers)

	result, err := cc.execute(cmd.Context(), cfg, providers, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Scan.Root)
	if err != nil {
		root = cfg.Scan.Root
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	termCfg := terminal.NewConfig()
	termCfg.NoColor = termCfg.NoColor || cfg.Output.NoColor

	err = report.Render(cmd.OutOrStdout(), result, report.RenderOptions{Format: format, Root: root, Terminal: termCfg})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	err = writeArtifacts(cmd.OutOrStdout(), cfg, root, result, format == report.FormatText)
	if err != nil {
		return err
	}

	return result.Verdict()
}

func (cc *CheckCommand) execute(
	ctx context.Context,
	cfg *config.Config,
	providers observability.Providers,
	progress io.Writer,
) (*report.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	source, err := scanner.NewDir(cfg.Scan.Root, scanner.Options{
		Extensions:  cfg.Scan.Extensions,
		Exclude:     cfg.Scan.Exclude,
		Ignore:      cfg.Scan.Ignore,
		SkipVendor:  cfg.Scan.SkipVendor,
		MaxFileSize: maxSize,
		Logger:      providers.Logger,
	})
	if err != nil {
		return nil, err
	}

	scanMetrics, err := observability.NewScanMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	if cfg.Output.Silent {
		progress = nil
	}

	return checker.New(source, importcheck.NewAnalyzer(cfg.AnalyzerConfig()), checker.Options{
		Workers:  cfg.Scan.Workers,
		Progress: progress,
		Logger:   providers.Logger,
		Tracer:   providers.Tracer,
		Metrics:  scanMetrics,
	}).Run(ctx)
}

// applyFlags overrides config values with explicitly set flags and the path argument.
func (cc *CheckCommand) applyFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	flags := cmd.Flags()

	if len(args) > 0 {
		cfg.Scan.Root = args[0]
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{flagExclude, func() { cfg.Scan.Exclude = cc.exclude }},
		{flagIgnore, func() { cfg.Scan.Ignore = append(cfg.Scan.Ignore, cc.ignore...) }},
		{flagExt, func() { cfg.Scan.Extensions = cc.extensions }},
		{flagFormat, func() { cfg.Output.Format = cc.format }},
		{flagNoColor, func() { cfg.Output.NoColor = cc.noColor }},
		{flagSilent, func() { cfg.Output.Silent = cc.silent }},
		{flagWorkers, func() { cfg.Scan.Workers = cc.workers }},
		{flagAliasKey, func() { cfg.Analysis.AliasKey = cc.aliasKey }},
		{flagNoDuplicates, func() { cfg.Analysis.Duplicates = !cc.noDuplicates }},
		{flagSkipVendor, func() { cfg.Scan.SkipVendor = cc.skipVendor }},
		{flagMaxFileSize, func() { cfg.Scan.MaxFileSize = cc.maxFileSize }},
		{flagNoReport, func() { cfg.Output.WriteReport = !cc.noReport }},
		{flagNoScript, func() { cfg.Output.WriteScript = !cc.noScript }},
		{flagLogLevel, func() { cfg.Logging.Level = cc.logLevel }},
	}

	for _, o := range overrides {
		if flags.Changed(o.flag) {
			o.apply()
		}
	}
}

// writeArtifacts persists the JSON report and the review script into root.
// A failed write is fatal.
func writeArtifacts(w io.Writer, cfg *config.Config, root string, result *report.RunResult, announce bool) error {
	if cfg.Output.WriteReport {
		path := filepath.Join(root, report.ReportFileName)

		err := report.WriteReport(path, result)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}

		if announce {
			fmt.Fprintf(w, "\nDetailed report saved to: %s\n", path)
		}
	}

	if cfg.Output.WriteScript {
		path := filepath.Join(root, report.ScriptFileName)

		written, err := report.WriteScript(path, result)
		if err != nil {
			return fmt.Errorf("save fix script: %w", err)
		}

		if written && announce {
			fmt.Fprintf(w, "Fix script generated: %s\n", path)
		}
	}

	return nil
}
