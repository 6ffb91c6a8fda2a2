// Package commands implements CLI command handlers for stagereport.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/stagereport/internal/config"
	"github.com/Sumatoshi-tech/stagereport/internal/runner"
	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/version"
)

const (
	configFlag  = "config"
	configUsage = "path to a .stagereport.yaml config file"
	cutFlag     = "cut"
	cutUsage    = "cut analysis file (JSON or YAML) enabling the SIM chart and auto thumbnails"
	extraFlag   = "extra"
	extraUsage  = "extra note as name=value (repeatable)"
	debugFlag   = "debug"
	debugUsage  = "enable debug logging to stderr"
	pairSep     = "="
)

// ErrInvalidPair is returned when a name=value flag has no separator or no name.
var ErrInvalidPair = errors.New("expected name=value")

// session holds the loaded configuration and telemetry for one command run.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.Metrics
}

// openSession loads configuration, lets override adjust it, and starts telemetry.
func openSession(
	cmd *cobra.Command, configPath string, mode observability.AppMode, debug bool, override func(*config.Config),
) (*session, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if override != nil {
		override(cfg)

		err = cfg.Validate()
		if err != nil {
			return nil, fmt.Errorf("validate flags: %w", err)
		}
	}

	obsCfg := cfg.Observability(mode, version.Version)
	obsCfg.LogOutput = cmd.ErrOrStderr()

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewMetrics(providers.Meter)
	if err != nil {
		shutdownErr := providers.Shutdown(context.Background())

		return nil, errors.Join(err, shutdownErr)
	}

	return &session{cfg: cfg, providers: providers, metrics: metrics}, nil
}

func (s *session) runner() *runner.Runner {
	return runner.New(s.cfg, s.providers.Logger, s.providers.Tracer, s.metrics)
}

// close flushes telemetry; failures are logged, not returned.
func (s *session) close(ctx context.Context) {
	err := s.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		s.providers.Logger.WarnContext(ctx, "observability shutdown failed", "error", err)
	}
}

// splitPair splits a name=value flag value at the first separator.
func splitPair(raw string) (name, value string, err error) {
	name, value, ok := strings.Cut(raw, pairSep)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPair, raw)
	}

	return name, value, nil
}

func parseExtras(raw []string) ([]report.Extra, error) {
	extras := make([]report.Extra, 0, len(raw))

	for _, r := range raw {
		name, value, err := splitPair(r)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", extraFlag, err)
		}

		extras = append(extras, report.Extra{Name: name, Value: value})
	}

	return extras, nil
}
