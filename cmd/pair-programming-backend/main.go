package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pair-programming-backend/shared/common/config"
	"pair-programming-backend/shared/common/logger"
)

const serviceName = "pair-programming-backend"

var Version = "dev"

var (
	envFile     string
	secretsFile string
	appConfig   *config.AppConfig
)

func main() {
	rootCmd := &cobra.Command{
		Use:               serviceName,
		Short:             "Pair programming matcher service",
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with non-secret settings (default $ENV_FILE or compose/aws.env)")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets-file", "", "dotenv file with secrets (default $SECRETS_FILE or compose/secrets.env)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(notifyConsumerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(*cobra.Command, []string) error {
	files := config.EnvFiles()
	if envFile != "" {
		files[0] = envFile
	}
	if secretsFile != "" {
		files[1] = secretsFile
	}
	config.LoadEnv(files...)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.InitLogger(serviceName, cfg.Environment, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}

	appConfig = cfg
	return nil
}
