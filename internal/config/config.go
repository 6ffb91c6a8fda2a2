// Package config loads stagereport settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
	"github.com/Sumatoshi-tech/stagereport/pkg/plotpage"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// Config is the top-level configuration struct for stagereport.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Report    ReportConfig    `mapstructure:"report"`
	Cut       CutConfig       `mapstructure:"cut"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ReportConfig holds document settings.
type ReportConfig struct {
	Title     string `mapstructure:"title"`
	Theme     string `mapstructure:"theme"`
	OutputDir string `mapstructure:"output_dir"`
}

// CutConfig holds cut analysis settings.
type CutConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// ThumbnailConfig holds thumbnail materialization settings.
type ThumbnailConfig struct {
	CompressRate float64 `mapstructure:"compress_rate"`
	Vertical     bool    `mapstructure:"vertical"`
	Step         int     `mapstructure:"step"`
	MaxSize      string  `mapstructure:"max_size"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint    string `mapstructure:"otlp_endpoint"`
	OTLPHeaders     string `mapstructure:"otlp_headers"`
	OTLPInsecure    bool   `mapstructure:"otlp_insecure"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidTheme indicates an unknown report theme.
	ErrInvalidTheme = errors.New("report.theme must be light or dark")
	// ErrInvalidThreshold indicates the SSIM threshold is out of range.
	ErrInvalidThreshold = errors.New("cut.threshold must be between 0 and 1")
	// ErrInvalidCompressRate indicates the compress rate is out of range.
	ErrInvalidCompressRate = errors.New("thumbnail.compress_rate must be in (0, 1]")
	// ErrInvalidStep indicates the thumbnail frame step is not positive.
	ErrInvalidStep = errors.New("thumbnail.step must be positive")
	// ErrInvalidMaxSize indicates the thumbnail size cap cannot be parsed.
	ErrInvalidMaxSize = errors.New("thumbnail.max_size must be a byte size such as 2MB")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Report.Theme != "" && c.Report.Theme != string(plotpage.ThemeLight) && c.Report.Theme != string(plotpage.ThemeDark) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Report.Theme)
	}

	if c.Cut.Threshold < 0 || c.Cut.Threshold > 1 {
		return ErrInvalidThreshold
	}

	if c.Thumbnail.CompressRate <= 0 || c.Thumbnail.CompressRate > 1 {
		return ErrInvalidCompressRate
	}

	if c.Thumbnail.Step < 1 {
		return ErrInvalidStep
	}

	_, err := c.MaxThumbnailBytes()
	if err != nil {
		return err
	}

	if c.Logging.Level != "" {
		var level slog.Level

		err = level.UnmarshalText([]byte(c.Logging.Level))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
		}
	}

	return nil
}

// MaxThumbnailBytes parses thumbnail.max_size; empty means unlimited (0).
func (c *Config) MaxThumbnailBytes() (uint64, error) {
	if c.Thumbnail.MaxSize == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(c.Thumbnail.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxSize, err)
	}

	return n, nil
}

// ThumbnailOptions returns the configured thumbnail options.
func (c *Config) ThumbnailOptions() []stage.ThumbnailOption {
	return []stage.ThumbnailOption{
		stage.WithCompressRate(c.Thumbnail.CompressRate),
		stage.WithVertical(c.Thumbnail.Vertical),
		stage.WithStep(c.Thumbnail.Step),
	}
}

// Theme returns the configured document theme.
func (c *Config) Theme() plotpage.Theme {
	return plotpage.ParseTheme(c.Report.Theme)
}

// Observability maps the logging and telemetry sections onto an observability config.
func (c *Config) Observability(mode observability.AppMode, serviceVersion string) observability.Config {
	obs := observability.DefaultConfig()
	obs.Mode = mode
	obs.ServiceVersion = serviceVersion
	obs.LogLevel = observability.ParseLevel(c.Logging.Level)
	obs.LogJSON = c.Logging.JSON
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.MetricsTextfile = c.Telemetry.MetricsTextfile

	return obs
}
