package main

import (
	"context"

	"github.com/spf13/cobra"

	"pair-programming-backend/shared/common/logger"
)

func serveCmd() *cobra.Command {
	var noConsumer bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the pair notification consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), !noConsumer)
		},
	}
	cmd.Flags().BoolVar(&noConsumer, "no-consumer", false, "do not run the notification consumer in this process")
	return cmd
}

func runServe(ctx context.Context, withConsumer bool) error {
	app, err := newApplication(ctx, appConfig, true)
	if err != nil {
		return err
	}
	defer app.close()

	server, err := app.newServer()
	if err != nil {
		return err
	}

	if withConsumer {
		notifications, err := app.newNotificationConsumer()
		if err != nil {
			return err
		}
		if err := notifications.Start(ctx); err != nil {
			return err
		}
		defer notifications.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	runErr := waitForSignal(ctx, errCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", logger.WithError(err))
	}

	logger.Info("Shutdown complete")
	return runErr
}
