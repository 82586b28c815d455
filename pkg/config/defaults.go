package config

// Scan defaults.
const (
	DefaultScanRoot        = "."
	DefaultScanSkipVendor  = false
	DefaultScanMaxFileSize = "1MiB"
	DefaultScanWorkers     = 1
)

// DefaultScanExtensions are the file extensions selected by a scan.
func DefaultScanExtensions() []string {
	return []string{".ts", ".tsx"}
}

// DefaultScanExclude are the path fragments skipped by a scan.
func DefaultScanExclude() []string {
	return []string{"node_modules", "dist", "out", ".git", "coverage"}
}

// Analysis defaults.
const (
	DefaultAnalysisAliasKey   = "local"
	DefaultAnalysisDuplicates = true
)

// Output defaults.
const (
	DefaultOutputFormat      = "text"
	DefaultOutputNoColor     = false
	DefaultOutputSilent      = false
	DefaultOutputWriteReport = true
	DefaultOutputWriteScript = true
)

// Logging defaults.
const (
	DefaultLoggingLevel       = "info"
	DefaultLoggingJSON        = false
	DefaultLoggingEnvironment = ""
)

// LSP defaults.
const (
	DefaultLSPCacheSize = 256
)
