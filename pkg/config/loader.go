package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".importcheck"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for importcheck settings.
const envPrefix = "IMPORTCHECK"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("scan.root", DefaultScanRoot)
	viperCfg.SetDefault("scan.extensions", DefaultScanExtensions())
	viperCfg.SetDefault("scan.exclude", DefaultScanExclude())
	viperCfg.SetDefault("scan.ignore", []string{})
	viperCfg.SetDefault("scan.max_file_size", DefaultScanMaxFileSize)
	viperCfg.SetDefault("scan.workers", DefaultScanWorkers)
	viperCfg.SetDefault("scan.skip_vendor", DefaultScanSkipVendor)

	viperCfg.SetDefault("analysis.alias_key", DefaultAnalysisAliasKey)
	viperCfg.SetDefault("analysis.duplicates", DefaultAnalysisDuplicates)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.no_color", DefaultOutputNoColor)
	viperCfg.SetDefault("output.silent", DefaultOutputSilent)
	viperCfg.SetDefault("output.write_report", DefaultOutputWriteReport)
	viperCfg.SetDefault("output.write_script", DefaultOutputWriteScript)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)
	viperCfg.SetDefault("logging.environment", DefaultLoggingEnvironment)

	viperCfg.SetDefault("lsp.cache_size", DefaultLSPCacheSize)
}
