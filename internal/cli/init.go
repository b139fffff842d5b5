// Package cli provides the incometracker commands and the initialization
// they share: logging, .env loading, configuration and wiring the tracker
// to its store and listeners.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"incometracker/internal/backend"
	"incometracker/internal/config"
	"incometracker/internal/core"
	"incometracker/internal/log"
	"incometracker/internal/metrics"
	"incometracker/internal/tracker"
)

// SetupLogger builds the process logger at the given level and makes it the
// slog default.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Output = os.Stderr
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRules returns the rule table at path, or the embedded one when path
// is empty.
func LoadRules(path string) (*core.RuleTable, error) {
	if path == "" {
		return core.DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	rules, err := core.LoadRules(data)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return rules, nil
}

// App is a started tracker with everything it was wired to.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Tracker *tracker.Tracker
	Backend *backend.BackendResult
	Metrics *metrics.Metrics
}

// OpenApp opens the configured store, builds the tracker with its
// listeners and starts it.
// A nil now selects the wall clock.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger, now func() time.Time) (*App, error) {
	rules, err := LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	if unknown := rules.UnknownFields(); len(unknown) > 0 {
		logger.Warn("Rule table names fields with no journal key, they will be skipped", "fields", unknown)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	var listeners []tracker.Listener
	if res.Notifier != nil {
		listeners = append(listeners, res.Notifier)
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		listeners = append(listeners, m)
	}

	tr, err := tracker.New(tracker.Options{
		Rules:     rules,
		Store:     res.Backend,
		Logger:    logger,
		Now:       now,
		Listeners: listeners,
	})
	if err != nil {
		res.Cleanup()
		return nil, err
	}
	tr.Start(ctx)

	return &App{Config: cfg, Logger: logger, Tracker: tr, Backend: res, Metrics: m}, nil
}

// Close applies the tracker's close policy and releases the store.
func (a *App) Close(ctx context.Context) error {
	stopErr := a.Tracker.Stop(ctx)
	if err := a.Backend.Cleanup(); err != nil {
		a.Logger.Error("Backend cleanup failed", log.FieldError, err.Error())
	}
	return stopErr
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
