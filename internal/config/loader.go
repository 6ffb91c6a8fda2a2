package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".stagereport"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for stagereport settings.
const envPrefix = "STAGEREPORT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Default values.
const (
	DefaultReportTitle           = "stagesep report"
	DefaultReportTheme           = "light"
	DefaultReportOutputDir       = "."
	DefaultCutThreshold          = 0.95
	DefaultThumbnailCompressRate = 0.1
	DefaultThumbnailVertical     = false
	DefaultThumbnailStep         = 1
	DefaultLoggingLevel          = "info"
)

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

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Title:     DefaultReportTitle,
			Theme:     DefaultReportTheme,
			OutputDir: DefaultReportOutputDir,
		},
		Cut: CutConfig{Threshold: DefaultCutThreshold},
		Thumbnail: ThumbnailConfig{
			CompressRate: DefaultThumbnailCompressRate,
			Vertical:     DefaultThumbnailVertical,
			Step:         DefaultThumbnailStep,
		},
		Logging: LoggingConfig{Level: DefaultLoggingLevel},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("report.title", DefaultReportTitle)
	viperCfg.SetDefault("report.theme", DefaultReportTheme)
	viperCfg.SetDefault("report.output_dir", DefaultReportOutputDir)

	viperCfg.SetDefault("cut.threshold", DefaultCutThreshold)

	viperCfg.SetDefault("thumbnail.compress_rate", DefaultThumbnailCompressRate)
	viperCfg.SetDefault("thumbnail.vertical", DefaultThumbnailVertical)
	viperCfg.SetDefault("thumbnail.step", DefaultThumbnailStep)
	viperCfg.SetDefault("thumbnail.max_size", "")

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_textfile", "")
}
