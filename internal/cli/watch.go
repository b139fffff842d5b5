package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"incometracker/internal/amqp"
	"incometracker/internal/worker"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var consumer string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream ledger changes from the message broker",
		Long: `Consume the ledger change notifications a running tracker publishes to
AMQP_URL and print one line per change until interrupted.

The watcher does not open the session store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnv(rootOpts)
			if err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is not set")
			}

			ctx, stop := ShutdownContext(cmd.Context())
			defer stop()

			client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			w := worker.NewWatcher(cmd.OutOrStdout(), rootOpts.Format == "json", logger)
			err = client.Consume(ctx, consumer, w.HandleMessage)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&consumer, "consumer", "", "consumer tag (broker generated when empty)")
	return cmd
}
