// Package config provides YAML-based project configuration for importcheck.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/report"
)

// Sentinel validation errors.
var (
	ErrNoExtensions     = errors.New("scan.extensions must not be empty")
	ErrInvalidExtension = errors.New("scan.extensions entries must start with '.'")
	ErrInvalidWorkers   = errors.New("scan.workers must be positive")
	ErrInvalidFileSize  = errors.New("invalid scan.max_file_size")
	ErrInvalidCacheSize = errors.New("lsp.cache_size must be positive")
)

// Config holds the full importcheck configuration.
type Config struct {
	Scan     ScanConfig     `mapstructure:"scan"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	LSP      LSPConfig      `mapstructure:"lsp"`
}

// ScanConfig controls file discovery.
type ScanConfig struct {
	Root        string   `mapstructure:"root"`
	Extensions  []string `mapstructure:"extensions"`
	Exclude     []string `mapstructure:"exclude"`
	Ignore      []string `mapstructure:"ignore"`
	MaxFileSize string   `mapstructure:"max_file_size"`
	Workers     int      `mapstructure:"workers"`
	SkipVendor  bool     `mapstructure:"skip_vendor"`
}

// AnalysisConfig controls the import analysis.
type AnalysisConfig struct {
	// AliasKey selects which name of "A as B" is searched for: "local" or "imported".
	AliasKey   string `mapstructure:"alias_key"`
	Duplicates bool   `mapstructure:"duplicates"`
}

// OutputConfig controls rendering and persisted artifacts.
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	NoColor     bool   `mapstructure:"no_color"`
	Silent      bool   `mapstructure:"silent"`
	WriteReport bool   `mapstructure:"write_report"`
	WriteScript bool   `mapstructure:"write_script"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
	JSON        bool   `mapstructure:"json"`
}

// LSPConfig controls the language server.
type LSPConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Root:        DefaultScanRoot,
			Extensions:  DefaultScanExtensions(),
			Exclude:     DefaultScanExclude(),
			Ignore:      []string{},
			MaxFileSize: DefaultScanMaxFileSize,
			Workers:     DefaultScanWorkers,
			SkipVendor:  DefaultScanSkipVendor,
		},
		Analysis: AnalysisConfig{
			AliasKey:   DefaultAnalysisAliasKey,
			Duplicates: DefaultAnalysisDuplicates,
		},
		Output: OutputConfig{
			Format:      DefaultOutputFormat,
			NoColor:     DefaultOutputNoColor,
			Silent:      DefaultOutputSilent,
			WriteReport: DefaultOutputWriteReport,
			WriteScript: DefaultOutputWriteScript,
		},
		Logging: LoggingConfig{
			Level:       DefaultLoggingLevel,
			JSON:        DefaultLoggingJSON,
			Environment: DefaultLoggingEnvironment,
		},
		LSP: LSPConfig{CacheSize: DefaultLSPCacheSize},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if len(c.Scan.Extensions) == 0 {
		return ErrNoExtensions
	}

	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	if c.Scan.Workers <= 0 {
		return ErrInvalidWorkers
	}

	_, sizeErr := c.MaxFileSizeBytes()
	if sizeErr != nil {
		return sizeErr
	}

	_, aliasErr := importcheck.ParseAliasKey(c.Analysis.AliasKey)
	if aliasErr != nil {
		return fmt.Errorf("analysis.alias_key: %w", aliasErr)
	}

	_, formatErr := report.ParseFormat(c.Output.Format)
	if formatErr != nil {
		return fmt.Errorf("output.format: %w", formatErr)
	}

	_, levelErr := observability.ParseLogLevel(c.Logging.Level)
	if levelErr != nil {
		return fmt.Errorf("logging.level: %w", levelErr)
	}

	if c.LSP.CacheSize <= 0 {
		return ErrInvalidCacheSize
	}

	return nil
}

// MaxFileSizeBytes parses Scan.MaxFileSize ("1MiB", "500kB"). Zero means unlimited.
func (c *Config) MaxFileSizeBytes() (int64, error) {
	if strings.TrimSpace(c.Scan.MaxFileSize) == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.Scan.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFileSize, err)
	}

	return int64(size), nil
}

// AnalyzerConfig converts the analysis section for importcheck.NewAnalyzer.
// Call Validate first; an unknown alias key falls back to local.
func (c *Config) AnalyzerConfig() importcheck.Config {
	aliasKey, err := importcheck.ParseAliasKey(c.Analysis.AliasKey)
	if err != nil {
		aliasKey = importcheck.AliasKeyLocal
	}

	return importcheck.Config{
		AliasKey:        aliasKey,
		CheckDuplicates: c.Analysis.Duplicates,
	}
}
