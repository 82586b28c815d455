package importcheck

// Config holds analyzer options.
type Config struct {
	AliasKey        AliasKey
	CheckDuplicates bool
}

// DefaultConfig returns the options used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		AliasKey:        AliasKeyLocal,
		CheckDuplicates: true,
	}
}

// Analyzer runs extraction, usage resolution and duplicate detection for one file.
// It holds no per-file state and is safe for concurrent use.
type Analyzer struct {
	resolver        *Resolver
	checkDuplicates bool
}

// NewAnalyzer creates an Analyzer from cfg.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		resolver:        NewResolver(cfg.AliasKey),
		checkDuplicates: cfg.CheckDuplicates,
	}
}

// Name returns the name of the analyzer.
func (a *Analyzer) Name() string {
	return "imports"
}

// Description returns a human-readable description of the analyzer.
func (a *Analyzer) Description() string {
	return "Reports unused and duplicate TypeScript imports using lexical matching"
}

// Analyze inspects the content of the file at path.
func (a *Analyzer) Analyze(path string, content []byte) FileFinding {
	text := string(content)
	set := Extract(text)

	if set.Len() == 0 {
		return FileFinding{Path: path}
	}

	finding := FileFinding{
		Path:   path,
		Unused: a.resolver.FindUnused(text, set),
	}

	if a.checkDuplicates {
		finding.Duplicates = FindDuplicates(set)
	}

	return finding
}
