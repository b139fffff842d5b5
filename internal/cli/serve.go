package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "incometracker/internal/http"
	"incometracker/internal/log"
)

const shutdownTimeout = 30 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the tracker over HTTP on PORT. Journal events are posted to
/api/events; the summary, preferences and reset endpoints live under /api.
Prometheus metrics are exposed on /metrics when METRICS_ENABLED is true.

The server stops on SIGINT or SIGTERM and then applies the close policy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := ShutdownContext(cmd.Context())
			defer stop()

			return withApp(ctx, rootOpts, nil, func(ctx context.Context, app *App) error {
				srv := apphttp.NewServer(":"+app.Config.Port, app.Tracker, apphttp.Options{
					Logger:  app.Logger,
					Metrics: app.Metrics,
					Ping:    app.Backend.Backend.Ping,
				})

				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					app.Logger.Info("Server starting", log.FieldOperation, log.OperationStartup, "port", app.Config.Port)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					app.Logger.Info("Shutting down server", log.FieldOperation, log.OperationShutdown)
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})

				return g.Wait()
			})
		},
	}
}
