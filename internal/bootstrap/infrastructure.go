package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/eleven-am/insight-backend/internal/alerting"
	"github.com/eleven-am/insight-backend/internal/gateway"
	"github.com/eleven-am/insight-backend/internal/metrics"
	"github.com/eleven-am/insight-backend/internal/narrative"
	"github.com/eleven-am/insight-backend/internal/session"
	"go.uber.org/fx"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideClock() clock.Clock {
	return clock.New()
}

func ProvideNarrativeClient(cfg *Config) *narrative.Client {
	return narrative.NewClient(narrative.Config{
		URL:     cfg.NarrativeURL,
		Model:   cfg.NarrativeModel,
		Timeout: cfg.NarrativeTimeout,
	})
}

func ProvideMetricsConfig(cfg *Config) metrics.Config {
	return metrics.Config{
		GazeWindow:        cfg.GazeWindow,
		GazeMinSamples:    cfg.GazeMinSamples,
		GazeDefaultPct:    cfg.GazeDefaultPct,
		BreathWindow:      cfg.BreathWindow,
		BreathMinSamples:  cfg.BreathMinSamples,
		BreathPeakEpsilon: cfg.BreathPeakEpsilon,
		BreathRefractory:  cfg.BreathRefractory,
	}
}

func ProvideHub(logger *slog.Logger) *gateway.Hub {
	return gateway.NewHub(logger)
}

func ProvideSessionManager(
	lc fx.Lifecycle,
	cfg *Config,
	clk clock.Clock,
	gen *narrative.Client,
	hub *gateway.Hub,
	metricsCfg metrics.Config,
	logger *slog.Logger,
) *session.Manager {
	manager := session.NewManager(session.ManagerConfig{
		Clock:          clk,
		Narrative:      gen,
		Events:         hub.Publish,
		Metrics:        metricsCfg,
		SampleInterval: cfg.SampleInterval,
		DefaultBaselines: alerting.Baselines{
			BreathingBpm:  cfg.BaselineBreathingBpm,
			EyeContactPct: cfg.BaselineEyeContactPct,
		},
		IdleTimeout: cfg.SessionIdleTimeout,
		Log:         logger,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			manager.StartReaper()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return manager.Close()
		},
	})

	return manager
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideClock,
		ProvideNarrativeClient,
		ProvideMetricsConfig,
		ProvideHub,
		ProvideSessionManager,
	),
)
