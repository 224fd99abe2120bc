package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile     = "compose/aws.env"
	defaultSecretsFile = "compose/secrets.env"
)

// LoadEnv loads the non-secret env file and then the secrets file.
// Missing files are ignored and variables already set in the process win.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = EnvFiles()
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		_ = godotenv.Load(file)
	}
}

// EnvFiles returns the env and secrets file paths, honouring ENV_FILE and SECRETS_FILE.
func EnvFiles() []string {
	return []string{
		GetEnv("ENV_FILE", defaultEnvFile),
		GetEnv("SECRETS_FILE", defaultSecretsFile),
	}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
