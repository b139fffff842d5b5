package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"incometracker/internal/backend"
	"incometracker/internal/config"
	"incometracker/internal/log"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the incometracker CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "incometracker",
		Short: "Track Elite Dangerous income from journal events",
		Long: `incometracker classifies Elite Dangerous journal events into income and
expense transactions, keeps a per-session ledger and estimates hourly earnings.

Configuration comes from the environment (and a .env file when present):
DATA_BACKEND, SQLITE_DB_PATH, RULES_FILE, AMQP_URL, LOG_LEVEL, PORT, ...`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))

	return cmd
}

// loadEnv reads the .env file and the configuration and builds the logger
// every command logs through.
func loadEnv(opts *RootOptions) (*config.Config, *log.Logger, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, err := SetupLogger(level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// withApp loads the configuration, opens the tracker, runs fn and closes
// the tracker again so its close policy applies to every invocation.
func withApp(ctx context.Context, opts *RootOptions, now func() time.Time, fn func(ctx context.Context, app *App) error) (err error) {
	cfg, logger, err := loadEnv(opts)
	if err != nil {
		return err
	}

	app, err := OpenApp(ctx, cfg, logger, now)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, app)
}

// withBackend opens only the configured store, with no tracker in front of
// it, for commands that work on the raw keys.
func withBackend(ctx context.Context, opts *RootOptions, fn func(ctx context.Context, b backend.Backend) error) (err error) {
	cfg, logger, err := loadEnv(opts)
	if err != nil {
		return err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	bcfg.AMQPURL = ""

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, res.Backend)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
