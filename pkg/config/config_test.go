package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/pkg/config"
	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/report"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Scan.Extensions)
	assert.Equal(t, []string{"node_modules", "dist", "out", ".git", "coverage"}, cfg.Scan.Exclude)
	assert.Equal(t, importcheck.DefaultConfig(), cfg.AnalyzerConfig())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   error
	}{
		{name: "no extensions", mutate: func(c *config.Config) { c.Scan.Extensions = nil }, want: config.ErrNoExtensions},
		{name: "extension without dot", mutate: func(c *config.Config) { c.Scan.Extensions = []string{"ts"} }, want: config.ErrInvalidExtension},
		{name: "zero workers", mutate: func(c *config.Config) { c.Scan.Workers = 0 }, want: config.ErrInvalidWorkers},
		{name: "bad size", mutate: func(c *config.Config) { c.Scan.MaxFileSize = "lots" }, want: config.ErrInvalidFileSize},
		{name: "bad alias key", mutate: func(c *config.Config) { c.Analysis.AliasKey = "both" }, want: importcheck.ErrUnknownAliasKey},
		{name: "bad format", mutate: func(c *config.Config) { c.Output.Format = "xml" }, want: report.ErrUnknownFormat},
		{name: "bad cache size", mutate: func(c *config.Config) { c.LSP.CacheSize = 0 }, want: config.ErrInvalidCacheSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Logging.Level = "loud"

	require.Error(t, cfg.Validate())
}

func TestMaxFileSizeBytes(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), size)

	cfg.Scan.MaxFileSize = "500kB"
	size, err = cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), size)

	cfg.Scan.MaxFileSize = ""
	size, err = cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestAnalyzerConfig_Imported(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Analysis.AliasKey = "imported"
	cfg.Analysis.Duplicates = false

	assert.Equal(t, importcheck.Config{AliasKey: importcheck.AliasKeyImported}, cfg.AnalyzerConfig())
}
