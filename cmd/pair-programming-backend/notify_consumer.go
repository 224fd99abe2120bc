package main

import (
	"context"

	"github.com/spf13/cobra"

	"pair-programming-backend/shared/common/logger"
)

func notifyConsumerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-consumer",
		Short: "Run only the pair notification consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotifyConsumer(cmd.Context())
		},
	}
}

func runNotifyConsumer(ctx context.Context) error {
	app, err := newApplication(ctx, appConfig, false)
	if err != nil {
		return err
	}
	defer app.close()

	notifications, err := app.newNotificationConsumer()
	if err != nil {
		return err
	}
	if err := notifications.Start(ctx); err != nil {
		return err
	}

	err = waitForSignal(ctx, nil)
	notifications.Stop()
	logger.Info("Shutdown complete")
	return err
}
